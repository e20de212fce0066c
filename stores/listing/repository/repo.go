package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/base/database/mongoclient"
	"github.com/namebid/goapi/base/log"
	"github.com/namebid/goapi/base/ptr"
	"github.com/namebid/goapi/domain"
	"github.com/namebid/goapi/domain/listing"
	"github.com/namebid/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

// New creates new listing repo
func New(q query.Mongo) listing.Repo {
	return &impl{q}
}

func (im *impl) makeQuery(opts ...listing.FindAllOptionsFunc) (bson.M, listing.FindAllOptions, error) {
	options, err := listing.GetFindAllOptions(opts...)
	if err != nil {
		return nil, options, err
	}
	query := bson.M{}

	if len(options.Ids) > 0 {
		query["_id"] = bson.M{"$in": options.Ids}
	}

	if options.Status != nil {
		query["status"] = *options.Status
	}

	if options.Seller != nil {
		query["seller"] = *options.Seller
	}

	if options.ChainId != nil {
		query["chainId"] = *options.ChainId
	}

	if options.TokenContract != nil {
		query["tokenContract"] = *options.TokenContract
	}

	if options.TokenId != nil {
		query["tokenID"] = *options.TokenId
	}

	if options.EndTimeLT != nil {
		query["endAt"] = bson.M{"$lt": *options.EndTimeLT}
	}

	return query, options, nil
}

func (im *impl) FindAll(ctx ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	query, options, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery failed")
		return nil, err
	}

	offset := int(0)
	limit := int(0)
	sort := "-createdAt"

	if options.Offset != nil {
		offset = int(*options.Offset)
	}

	if options.Limit != nil {
		limit = int(*options.Limit)
	}

	if options.SortBy != nil && options.SortDir != nil {
		sort = *options.SortBy
		if *options.SortDir == domain.SortDirDesc {
			sort = "-" + sort
		}
	}

	res := []*listing.Listing{}
	if err := im.q.Search(ctx, domain.TableListings, offset, limit, sort, query, &res); err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": query,
		}).Error("q.Search failed")
		return nil, err
	}

	return res, nil
}

func (im *impl) Count(ctx ctx.Ctx, opts ...listing.FindAllOptionsFunc) (int, error) {
	query, _, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery failed")
		return 0, err
	}

	cnt, err := im.q.Count(ctx, domain.TableListings, query)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": query,
		}).Error("q.Count failed")
		return 0, err
	}

	return cnt, nil
}

func (im *impl) FindOne(ctx ctx.Ctx, id string) (*listing.Listing, error) {
	res := &listing.Listing{}
	err := im.q.FindOne(ctx, domain.TableListings, bson.M{"_id": id}, res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Create(ctx ctx.Ctx, l *listing.Listing) error {
	l.LowerCase()
	if err := im.q.Insert(ctx, domain.TableListings, l); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  l.Id,
		}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *impl) Transition(ctx ctx.Ctx, id string, fromStatus listing.Status, patchable listing.Patchable) error {
	update, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("mongoclient.MakeBsonM failed")
		return err
	}

	selector := bson.M{"_id": id, "status": fromStatus}
	err = im.q.Patch(ctx, domain.TableListings, selector, update)
	if err == query.ErrNotFound {
		// either the listing is gone or someone else won the status race
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("q.Patch failed")
		return err
	}
	return nil
}

func (im *impl) ExpireAll(ctx ctx.Ctx, now time.Time) (int64, error) {
	selector := bson.M{
		"status": listing.StatusActive,
		"endAt":  bson.M{"$lt": now},
	}

	expired := listing.StatusExpired
	update, err := mongoclient.MakeBsonM(listing.Patchable{
		Status:    &expired,
		UpdatedAt: ptr.Time(now),
	})
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return 0, err
	}

	modified, err := im.q.PatchAll(ctx, domain.TableListings, selector, update)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"now": now,
		}).Error("q.PatchAll failed")
		return 0, err
	}
	return modified, nil
}

package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/base/database/mongoclient"
	"github.com/namebid/goapi/base/log"
	"github.com/namebid/goapi/base/ptr"
	"github.com/namebid/goapi/domain"
	"github.com/namebid/goapi/domain/offer"
	"github.com/namebid/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

// New creates new offer repo
func New(q query.Mongo) offer.Repo {
	return &impl{q}
}

func (im *impl) makeQuery(opts ...offer.FindAllOptionsFunc) (bson.M, offer.FindAllOptions, error) {
	options, err := offer.GetFindAllOptions(opts...)
	if err != nil {
		return nil, options, err
	}
	query := bson.M{}

	if options.Id != nil {
		query["_id"] = *options.Id
	}

	if options.ListingId != nil {
		query["listingId"] = *options.ListingId
	}

	if len(options.ListingIds) > 0 {
		query["listingId"] = bson.M{"$in": options.ListingIds}
	}

	if options.Bidder != nil {
		query["bidder"] = *options.Bidder
	}

	if options.Status != nil {
		query["status"] = *options.Status
	}

	return query, options, nil
}

func (im *impl) FindAll(ctx ctx.Ctx, opts ...offer.FindAllOptionsFunc) ([]*offer.Offer, error) {
	query, options, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery failed")
		return nil, err
	}

	offset := int(0)
	limit := int(0)

	if options.Offset != nil {
		offset = int(*options.Offset)
	}

	if options.Limit != nil {
		limit = int(*options.Limit)
	}

	// default ordering: best price first, ties broken by age, oldest first
	sortFields := []string{"-priceHex", "createdAt"}
	if options.SortBy != nil && options.SortDir != nil {
		sort := *options.SortBy
		if *options.SortDir == domain.SortDirDesc {
			sort = "-" + sort
		}
		sortFields = []string{sort}
		if *options.SortBy == "priceHex" {
			// price ties rank by age, oldest first
			sortFields = append(sortFields, "createdAt")
		}
	}

	res := []*offer.Offer{}
	if err := im.q.SearchNSorts(ctx, domain.TableOffers, offset, limit, sortFields, query, &res); err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": query,
		}).Error("q.SearchNSorts failed")
		return nil, err
	}

	return res, nil
}

func (im *impl) Count(ctx ctx.Ctx, opts ...offer.FindAllOptionsFunc) (int, error) {
	query, _, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery failed")
		return 0, err
	}

	cnt, err := im.q.Count(ctx, domain.TableOffers, query)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": query,
		}).Error("q.Count failed")
		return 0, err
	}

	return cnt, nil
}

func (im *impl) FindOne(ctx ctx.Ctx, id string) (*offer.Offer, error) {
	res := &offer.Offer{}
	err := im.q.FindOne(ctx, domain.TableOffers, bson.M{"_id": id}, res)
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

func (im *impl) Create(ctx ctx.Ctx, o *offer.Offer) error {
	o.LowerCase()
	if err := im.q.Insert(ctx, domain.TableOffers, o); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  o.Id,
		}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *impl) Transition(ctx ctx.Ctx, id string, fromStatus offer.Status, patchable offer.Patchable) error {
	update, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("mongoclient.MakeBsonM failed")
		return err
	}

	selector := bson.M{"_id": id, "status": fromStatus}
	err = im.q.Patch(ctx, domain.TableOffers, selector, update)
	if err == query.ErrNotFound {
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

func (im *impl) RejectSiblings(ctx ctx.Ctx, listingId string, winnerId string, now time.Time) (int64, error) {
	selector := bson.M{
		"listingId": listingId,
		"status":    offer.StatusActive,
		"_id":       bson.M{"$ne": winnerId},
	}

	rejected := offer.StatusRejected
	update, err := mongoclient.MakeBsonM(offer.Patchable{
		Status:    &rejected,
		UpdatedAt: ptr.Time(now),
	})
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return 0, err
	}

	modified, err := im.q.PatchAll(ctx, domain.TableOffers, selector, update)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"listingId": listingId,
			"winnerId":  winnerId,
		}).Error("q.PatchAll failed")
		return 0, err
	}
	return modified, nil
}

func (im *impl) ExpireAllByListingIds(ctx ctx.Ctx, listingIds []string, now time.Time) (int64, error) {
	if len(listingIds) == 0 {
		return 0, nil
	}

	selector := bson.M{
		"listingId": bson.M{"$in": listingIds},
		"status":    offer.StatusActive,
	}

	expired := offer.StatusExpired
	update, err := mongoclient.MakeBsonM(offer.Patchable{
		Status:    &expired,
		UpdatedAt: ptr.Time(now),
	})
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return 0, err
	}

	modified, err := im.q.PatchAll(ctx, domain.TableOffers, selector, update)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":        err,
			"listingIds": listingIds,
		}).Error("q.PatchAll failed")
		return 0, err
	}
	return modified, nil
}

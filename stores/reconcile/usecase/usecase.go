package usecase

import (
	"time"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/base/log"
	"github.com/namebid/goapi/domain/listing"
	"github.com/namebid/goapi/domain/offer"
	"github.com/namebid/goapi/domain/reconcile"
)

type ReconcileUseCaseCfg struct {
	ListingRepo listing.Repo
	OfferRepo   offer.Repo
}

type impl struct {
	listingRepo listing.Repo
	offerRepo   offer.Repo
}

// New creates reconcile usecase
func New(cfg *ReconcileUseCaseCfg) reconcile.Usecase {
	return &impl{
		listingRepo: cfg.ListingRepo,
		offerRepo:   cfg.OfferRepo,
	}
}

// Run expires every ended listing, then every active offer stranded on a
// listing that is no longer running. Both writes are filter guarded, so
// concurrent sweeps never double count.
func (im *impl) Run(c ctx.Ctx, now time.Time) (*reconcile.Report, error) {
	c = ctx.WithValue(c, "sweepAt", now)

	expiredListings, err := im.listingRepo.ExpireAll(c, now)
	if err != nil {
		c.WithField("err", err).Error("listingRepo.ExpireAll failed")
		return nil, err
	}

	staleIds, err := im.staleListingIds(c, now)
	if err != nil {
		return nil, err
	}

	expiredOffers, err := im.offerRepo.ExpireAllByListingIds(c, staleIds, now)
	if err != nil {
		c.WithField("err", err).Error("offerRepo.ExpireAllByListingIds failed")
		return nil, err
	}

	report := &reconcile.Report{
		ExpiredListings: expiredListings,
		ExpiredOffers:   expiredOffers,
		RanAt:           now,
	}

	if expiredListings > 0 || expiredOffers > 0 {
		c.WithFields(log.Fields{
			"expiredListings": expiredListings,
			"expiredOffers":   expiredOffers,
		}).Info("reconciliation swept records")
	}

	return report, nil
}

// Preview runs the same reads as Run and reports what it would expire.
func (im *impl) Preview(c ctx.Ctx, now time.Time) (*reconcile.Report, error) {
	active := listing.StatusActive

	endedListings, err := im.listingRepo.Count(c,
		listing.WithStatus(active),
		listing.WithEndTimeLT(now),
	)
	if err != nil {
		c.WithField("err", err).Error("listingRepo.Count failed")
		return nil, err
	}

	staleIds, err := im.staleListingIds(c, now)
	if err != nil {
		return nil, err
	}

	staleOffers := 0
	if len(staleIds) > 0 {
		staleOffers, err = im.offerRepo.Count(c,
			offer.WithListingIds(staleIds),
			offer.WithStatus(offer.StatusActive),
		)
		if err != nil {
			c.WithField("err", err).Error("offerRepo.Count failed")
			return nil, err
		}
	}

	return &reconcile.Report{
		ExpiredListings: int64(endedListings),
		ExpiredOffers:   int64(staleOffers),
		DryRun:          true,
		RanAt:           now,
	}, nil
}

// staleListingIds returns ids of listings that still carry active offers but
// are not running anymore, either terminal or past their end time.
func (im *impl) staleListingIds(c ctx.Ctx, now time.Time) ([]string, error) {
	activeOffers, err := im.offerRepo.FindAll(c, offer.WithStatus(offer.StatusActive))
	if err != nil {
		c.WithField("err", err).Error("offerRepo.FindAll failed")
		return nil, err
	}
	if len(activeOffers) == 0 {
		return nil, nil
	}

	seen := map[string]bool{}
	ids := []string{}
	for _, o := range activeOffers {
		if !seen[o.ListingId] {
			seen[o.ListingId] = true
			ids = append(ids, o.ListingId)
		}
	}

	listings, err := im.listingRepo.FindAll(c, listing.WithIds(ids))
	if err != nil {
		c.WithField("err", err).Error("listingRepo.FindAll failed")
		return nil, err
	}

	stale := []string{}
	for _, l := range listings {
		if l.Status != listing.StatusActive || l.EndAt.Before(now) {
			stale = append(stale, l.Id)
		}
	}
	return stale, nil
}

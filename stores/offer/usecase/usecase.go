package usecase

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/base/log"
	"github.com/namebid/goapi/base/ptr"
	"github.com/namebid/goapi/domain"
	"github.com/namebid/goapi/domain/listing"
	"github.com/namebid/goapi/domain/offer"
	"github.com/namebid/goapi/service/settlement"
)

const (
	leaderboardSize   = int32(50)
	settlementTimeout = 10 * time.Second
)

type OfferUseCaseCfg struct {
	OfferRepo   offer.Repo
	ListingRepo listing.Repo
	Settlement  settlement.Client
}

type impl struct {
	offerRepo   offer.Repo
	listingRepo listing.Repo
	settlement  settlement.Client
}

// New creates offer usecase
func New(cfg *OfferUseCaseCfg) offer.Usecase {
	return &impl{
		offerRepo:   cfg.OfferRepo,
		listingRepo: cfg.ListingRepo,
		settlement:  cfg.Settlement,
	}
}

func (im *impl) Place(c ctx.Ctx, bidder domain.Address, payload *offer.PlaceOfferPayload) (*offer.Offer, error) {
	c = ctx.WithValues(c, map[string]interface{}{
		"bidder":    bidder,
		"listingId": payload.ListingId,
	})

	l, err := im.listingRepo.FindOne(c, payload.ListingId)
	if err != nil {
		return nil, err
	}

	if l.Status != listing.StatusActive {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	if now.Before(l.StartAt) {
		return nil, domain.ErrAuctionNotStarted
	}
	if !now.Before(l.EndAt) {
		return nil, domain.ErrAuctionEnded
	}

	if err := payload.Price.Validate(); err != nil {
		return nil, err
	}

	cmp, err := payload.Price.Cmp(l.ReservePrice)
	if err != nil {
		return nil, err
	}
	if cmp < 0 {
		return nil, domain.ErrOfferBelowReserve
	}

	// one active offer per bidder per listing
	cnt, err := im.offerRepo.Count(c,
		offer.WithListingId(payload.ListingId),
		offer.WithBidder(bidder),
		offer.WithStatus(offer.StatusActive),
	)
	if err != nil {
		c.WithField("err", err).Error("offerRepo.Count failed")
		return nil, err
	}
	if cnt > 0 {
		return nil, domain.ErrDuplicateActiveOffer
	}

	amount, err := payload.Price.BigInt()
	if err != nil {
		return nil, err
	}

	o := &offer.Offer{
		Id:        uuid.NewString(),
		ListingId: payload.ListingId,
		Bidder:    bidder.ToLower(),
		Price:     payload.Price,
		PriceHex:  offer.ToPriceHex(amount),
		Status:    offer.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := im.offerRepo.Create(c, o); err != nil {
		c.WithField("err", err).Error("offerRepo.Create failed")
		return nil, err
	}
	return o, nil
}

func (im *impl) Cancel(c ctx.Ctx, bidder domain.Address, offerId string) (*offer.Offer, error) {
	c = ctx.WithValues(c, map[string]interface{}{
		"bidder":  bidder,
		"offerId": offerId,
	})

	o, err := im.offerRepo.FindOne(c, offerId)
	if err != nil {
		return nil, err
	}

	if !o.Bidder.Equals(bidder) {
		return nil, domain.ErrForbidden
	}

	if o.Status != offer.StatusActive {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	cancelled := offer.StatusCancelled
	err = im.offerRepo.Transition(c, offerId, offer.StatusActive, offer.Patchable{
		Status:      &cancelled,
		UpdatedAt:   ptr.Time(now),
		CancelledAt: ptr.Time(now),
	})
	if err == domain.ErrNotFound {
		// the offer left ACTIVE between our read and the patch
		return nil, domain.ErrInvalidState
	} else if err != nil {
		c.WithField("err", err).Error("offerRepo.Transition failed")
		return nil, err
	}

	return im.offerRepo.FindOne(c, offerId)
}

func (im *impl) FindAll(c ctx.Ctx, opts ...offer.FindAllOptionsFunc) (*offer.SearchResult, error) {
	items, err := im.offerRepo.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("offerRepo.FindAll failed")
		return nil, err
	}

	cnt, err := im.offerRepo.Count(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("offerRepo.Count failed")
		return nil, err
	}

	return &offer.SearchResult{Items: items, Count: cnt}, nil
}

// Accept picks the winning offer. The guarded offer patch is the commit
// point, whoever flips the offer out of ACTIVE first wins and every later
// attempt fails its guard.
func (im *impl) Accept(c ctx.Ctx, seller domain.Address, listingId string, offerId string) (*offer.AcceptResult, error) {
	c = ctx.WithValues(c, map[string]interface{}{
		"seller":    seller,
		"listingId": listingId,
		"offerId":   offerId,
	})

	l, err := im.listingRepo.FindOne(c, listingId)
	if err != nil {
		return nil, err
	}

	if !l.Seller.Equals(seller) {
		return nil, domain.ErrForbidden
	}

	if l.Status != listing.StatusActive {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	if !now.Before(l.EndAt) {
		return nil, domain.ErrAuctionEnded
	}

	o, err := im.offerRepo.FindOne(c, offerId)
	if err != nil {
		return nil, err
	}

	if o.ListingId != listingId {
		return nil, domain.ErrOfferNotOnListing
	}

	if o.Status != offer.StatusActive {
		return nil, domain.ErrInvalidState
	}

	accepted := offer.StatusAccepted
	err = im.offerRepo.Transition(c, offerId, offer.StatusActive, offer.Patchable{
		Status:     &accepted,
		UpdatedAt:  ptr.Time(now),
		AcceptedAt: ptr.Time(now),
	})
	if err == domain.ErrNotFound {
		// someone else committed first
		return nil, domain.ErrInvalidState
	} else if err != nil {
		c.WithField("err", err).Error("offerRepo.Transition failed")
		return nil, err
	}

	if _, err := im.offerRepo.RejectSiblings(c, listingId, offerId, now); err != nil {
		// losers stay ACTIVE until the next sweep, the winner is already final
		c.WithField("err", err).Error("offerRepo.RejectSiblings failed")
	}

	sold := listing.StatusSold
	err = im.listingRepo.Transition(c, listingId, listing.StatusActive, listing.Patchable{
		Status:        &sold,
		WinningBidder: o.Bidder.ToLowerPtr(),
		SoldPrice:     &o.Price,
		UpdatedAt:     ptr.Time(now),
		SoldAt:        ptr.Time(now),
	})
	if err != nil {
		c.WithField("err", err).Error("listingRepo.Transition failed")
		return nil, err
	}

	res := &offer.AcceptResult{}
	res.TransactionHash = im.settle(c, l, o)

	winner, err := im.offerRepo.FindOne(c, offerId)
	if err != nil {
		c.WithField("err", err).Error("offerRepo.FindOne failed")
		return nil, err
	}
	res.Offer = winner

	return res, nil
}

// settle asks the settlement service to execute the transfer. Failures are
// absorbed, settlement can be replayed out of band.
func (im *impl) settle(c ctx.Ctx, l *listing.Listing, o *offer.Offer) *string {
	if im.settlement == nil {
		return nil
	}

	c, cancel := ctx.WithTimeout(c, settlementTimeout)
	defer cancel()

	res, err := im.settlement.AcceptOrder(c, &settlement.AcceptOrderPayload{
		ListingId:     l.Id,
		OfferId:       o.Id,
		Seller:        l.Seller,
		Buyer:         o.Bidder,
		ChainId:       l.ChainId,
		TokenContract: l.TokenContract,
		TokenId:       l.TokenId,
		Price:         o.Price,
	})
	if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"listingId": l.Id,
			"offerId":   o.Id,
		}).Warn("settlement.AcceptOrder failed")
		return nil
	}

	if err := im.offerRepo.Transition(c, o.Id, offer.StatusAccepted, offer.Patchable{
		SettlementOrderId: &res.OrderId,
	}); err != nil {
		c.WithField("err", err).Warn("recording settlement order failed")
	}

	if res.TransactionHash == nil {
		return nil
	}
	return ptr.String(string(*res.TransactionHash))
}

func (im *impl) Leaderboard(c ctx.Ctx, listingId string) ([]*offer.LeaderboardEntry, error) {
	if _, err := im.listingRepo.FindOne(c, listingId); err != nil {
		return nil, err
	}

	offers, err := im.offerRepo.FindAll(c,
		offer.WithListingId(listingId),
		offer.WithStatus(offer.StatusActive),
		offer.WithSort("priceHex", domain.SortDirDesc),
		offer.WithPagination(0, leaderboardSize),
	)
	if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"listingId": listingId,
		}).Error("offerRepo.FindAll failed")
		return nil, err
	}

	// priceHex is a denormalized sort key, the amounts are authoritative,
	// so the ranking is computed from the parsed amounts
	sort.SliceStable(offers, func(i, j int) bool {
		cmp, err := offers[i].Price.Cmp(offers[j].Price)
		if err != nil {
			return false
		}
		if cmp != 0 {
			return cmp > 0
		}
		return offers[i].CreatedAt.Before(offers[j].CreatedAt)
	})

	entries := make([]*offer.LeaderboardEntry, len(offers))
	for i, o := range offers {
		entries[i] = &offer.LeaderboardEntry{
			Rank:         i + 1,
			OfferId:      o.Id,
			Bidder:       o.Bidder,
			Price:        o.Price,
			DisplayPrice: o.Price.Display(),
			CreatedAt:    o.CreatedAt,
			IsTopOffer:   i == 0,
		}
	}
	return entries, nil
}

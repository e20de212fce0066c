package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/viney-shih/goroutines"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/base/log"
	"github.com/namebid/goapi/base/pricing"
	"github.com/namebid/goapi/base/ptr"
	"github.com/namebid/goapi/domain"
	"github.com/namebid/goapi/domain/listing"
	"github.com/namebid/goapi/domain/offer"
)

type ListingUseCaseCfg struct {
	ListingRepo listing.Repo
	OfferRepo   offer.Repo
}

type impl struct {
	listingRepo listing.Repo
	offerRepo   offer.Repo
}

// New creates listing usecase
func New(cfg *ListingUseCaseCfg) listing.Usecase {
	return &impl{
		listingRepo: cfg.ListingRepo,
		offerRepo:   cfg.OfferRepo,
	}
}

func (im *impl) Create(c ctx.Ctx, seller domain.Address, payload *listing.CreateListingPayload) (*listing.Listing, error) {
	c = ctx.WithValues(c, map[string]interface{}{
		"seller": seller,
		"name":   payload.Name,
	})

	now := time.Now()

	l, err := im.buildListing(c, seller, payload, now)
	if err != nil {
		return nil, err
	}

	// one running auction per token
	cnt, err := im.listingRepo.Count(c,
		listing.WithToken(payload.ChainId, payload.TokenContract, payload.TokenId),
		listing.WithStatus(listing.StatusActive),
	)
	if err != nil {
		c.WithField("err", err).Error("listingRepo.Count failed")
		return nil, err
	}
	if cnt > 0 {
		return nil, domain.ErrDuplicateListing
	}

	if err := im.listingRepo.Create(c, l); err != nil {
		c.WithField("err", err).Error("listingRepo.Create failed")
		return nil, err
	}
	return l, nil
}

func (im *impl) buildListing(c ctx.Ctx, seller domain.Address, payload *listing.CreateListingPayload, now time.Time) (*listing.Listing, error) {
	if !payload.ChainId.IsValid() {
		return nil, domain.ErrInvalidChainId
	}

	if err := payload.StartPrice.Validate(); err != nil {
		return nil, err
	}
	if err := payload.ReservePrice.Validate(); err != nil {
		return nil, err
	}

	cmp, err := payload.ReservePrice.Cmp(payload.StartPrice)
	if err != nil {
		return nil, err
	}
	if cmp > 0 {
		return nil, domain.NewValidationError("reservePrice", "must not exceed startPrice")
	}

	startAt := payload.StartAt
	if startAt.Before(now) {
		// listings may be submitted slightly late, start them immediately
		startAt = now
	}

	duration := payload.EndAt.Sub(startAt)
	if duration < listing.MinDuration || duration > listing.MaxDuration {
		return nil, domain.NewValidationError("endAt", "auction duration must be between 1 and 180 hours")
	}

	return &listing.Listing{
		Id:            uuid.NewString(),
		Name:          payload.Name,
		ChainId:       payload.ChainId,
		TokenContract: payload.TokenContract.ToLower(),
		TokenId:       payload.TokenId,
		Seller:        seller.ToLower(),
		StartPrice:    payload.StartPrice,
		ReservePrice:  payload.ReservePrice,
		StartAt:       startAt,
		EndAt:         payload.EndAt,
		Status:        listing.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (im *impl) Delist(c ctx.Ctx, seller domain.Address, listingId string) (*listing.Listing, error) {
	c = ctx.WithValues(c, map[string]interface{}{
		"seller":    seller,
		"listingId": listingId,
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
	cancelled := listing.StatusCancelled
	err = im.listingRepo.Transition(c, listingId, listing.StatusActive, listing.Patchable{
		Status:      &cancelled,
		UpdatedAt:   ptr.Time(now),
		CancelledAt: ptr.Time(now),
	})
	if err == domain.ErrNotFound {
		// lost the race against acceptance or the sweeper
		return nil, domain.ErrInvalidState
	} else if err != nil {
		c.WithField("err", err).Error("listingRepo.Transition failed")
		return nil, err
	}

	return im.listingRepo.FindOne(c, listingId)
}

func (im *impl) Get(c ctx.Ctx, listingId string) (*listing.Listing, error) {
	l, err := im.listingRepo.FindOne(c, listingId)
	if err != nil {
		return nil, err
	}

	offers, err := im.offerRepo.FindAll(c,
		offer.WithListingId(listingId),
		offer.WithSort("createdAt", domain.SortDirDesc),
	)
	if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"listingId": listingId,
		}).Error("offerRepo.FindAll failed")
		return nil, err
	}
	l.Offers = offers

	return l, nil
}

func (im *impl) FindAll(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) (*listing.SearchResult, error) {
	items, err := im.listingRepo.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("listingRepo.FindAll failed")
		return nil, err
	}

	cnt, err := im.listingRepo.Count(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("listingRepo.Count failed")
		return nil, err
	}

	im.attachActiveOfferCounts(c, items)

	return &listing.SearchResult{Items: items, Count: cnt}, nil
}

// attachActiveOfferCounts is best effort, a listing without the count is
// still a valid search result.
func (im *impl) attachActiveOfferCounts(c ctx.Ctx, items []*listing.Listing) {
	if len(items) == 0 {
		return
	}

	b := goroutines.NewBatch(10, goroutines.WithBatchSize(len(items)))
	defer b.Close()
	for i := 0; i < len(items); i++ {
		idx := i
		b.Queue(func() (interface{}, error) {
			cnt, err := im.offerRepo.Count(c,
				offer.WithListingId(items[idx].Id),
				offer.WithStatus(offer.StatusActive),
			)
			if err != nil {
				return nil, err
			}
			items[idx].ActiveOfferCount = &cnt
			return nil, nil
		})
	}
	b.QueueComplete()

	for ret := range b.Results() {
		if ret.Error() != nil {
			c.WithField("err", ret.Error()).Error("offerRepo.Count failed")
		}
	}
}

func (im *impl) CurrentPrice(c ctx.Ctx, listingId string) (*listing.PriceQuote, error) {
	l, err := im.listingRepo.FindOne(c, listingId)
	if err != nil {
		return nil, err
	}

	if l.Status != listing.StatusActive {
		return nil, domain.ErrInvalidState
	}

	start, err := l.StartPrice.BigInt()
	if err != nil {
		return nil, err
	}
	reserve, err := l.ReservePrice.BigInt()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	price := domain.PriceInfo{
		Amount:   pricing.CurrentPrice(start, reserve, l.StartAt, l.EndAt, now).String(),
		Currency: l.StartPrice.Currency,
	}

	return &listing.PriceQuote{
		ListingId:    listingId,
		Price:        price,
		DisplayPrice: price.Display(),
		QuotedAt:     now,
	}, nil
}

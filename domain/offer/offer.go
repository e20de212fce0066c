package offer

import (
	"time"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/domain"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusAccepted, StatusRejected, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s.IsValid() && s != StatusActive
}

type Offer struct {
	Id        string           `json:"id" bson:"_id"`
	ListingId string           `json:"listingId" bson:"listingId"`
	Bidder    domain.Address   `json:"bidder" bson:"bidder"`
	Price     domain.PriceInfo `json:"price" bson:"price"`
	// PriceHex is Price.Amount zero-padded to 32 bytes of hex. Mongo compares
	// strings lexicographically, so this is the sort key for price ordering.
	PriceHex          string     `json:"-" bson:"priceHex"`
	Status            Status     `json:"status" bson:"status"`
	SettlementOrderId *string    `json:"settlementOrderId,omitempty" bson:"settlementOrderId,omitempty"`
	CreatedAt         time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt" bson:"updatedAt"`
	CancelledAt       *time.Time `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	AcceptedAt        *time.Time `json:"acceptedAt,omitempty" bson:"acceptedAt,omitempty"`
}

func (o *Offer) LowerCase() {
	o.Bidder = o.Bidder.ToLower()
}

type Patchable struct {
	Status            *Status    `bson:"status,omitempty"`
	SettlementOrderId *string    `bson:"settlementOrderId,omitempty"`
	UpdatedAt         *time.Time `bson:"updatedAt,omitempty"`
	CancelledAt       *time.Time `bson:"cancelledAt,omitempty"`
	AcceptedAt        *time.Time `bson:"acceptedAt,omitempty"`
}

type FindAllOptions struct {
	Id         *string
	ListingId  *string
	ListingIds []string
	Bidder     *domain.Address
	Status     *Status
	Offset     *int32
	Limit      *int32
	SortBy     *string
	SortDir    *domain.SortDir
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithListingId(listingId string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ListingId = &listingId
		return nil
	}
}

func WithListingIds(listingIds []string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ListingIds = listingIds
		return nil
	}
}

func WithBidder(bidder domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Bidder = bidder.ToLowerPtr()
		return nil
	}
}

func WithStatus(status Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Status = &status
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func WithSort(sortBy string, sortDir domain.SortDir) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SortBy = &sortBy
		options.SortDir = &sortDir
		return nil
	}
}

// PlaceOfferPayload is the request body for placing an offer.
type PlaceOfferPayload struct {
	ListingId string           `json:"listingId" validate:"required"`
	Price     domain.PriceInfo `json:"price" validate:"required"`
}

// AcceptResult is what an acceptance returns. TransactionHash is nil when
// settlement was skipped or failed, acceptance itself still succeeded.
type AcceptResult struct {
	Offer           *Offer  `json:"offer"`
	TransactionHash *string `json:"transactionHash,omitempty"`
}

// LeaderboardEntry is one row of a listing's offer leaderboard.
type LeaderboardEntry struct {
	Rank         int              `json:"rank"`
	OfferId      string           `json:"offerId"`
	Bidder       domain.Address   `json:"bidder"`
	Price        domain.PriceInfo `json:"price"`
	DisplayPrice string           `json:"displayPrice"`
	CreatedAt    time.Time        `json:"createdAt"`
	IsTopOffer   bool             `json:"isTopOffer"`
}

type SearchResult struct {
	Items []*Offer `json:"items"`
	Count int      `json:"count"`
}

type Repo interface {
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Offer, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	FindOne(ctx ctx.Ctx, id string) (*Offer, error)
	Create(ctx ctx.Ctx, offer *Offer) error
	// Transition patches the offer only if it is still in fromStatus,
	// returns domain.ErrNotFound when the guard does not match.
	Transition(ctx ctx.Ctx, id string, fromStatus Status, patchable Patchable) error
	// RejectSiblings moves every active offer on the listing except the
	// winner to rejected, returns the number of offers modified.
	RejectSiblings(ctx ctx.Ctx, listingId string, winnerId string, now time.Time) (int64, error)
	// ExpireAllByListingIds moves every active offer on the given listings
	// to expired, returns the number of offers modified.
	ExpireAllByListingIds(ctx ctx.Ctx, listingIds []string, now time.Time) (int64, error)
}

type Usecase interface {
	Place(ctx ctx.Ctx, bidder domain.Address, payload *PlaceOfferPayload) (*Offer, error)
	Cancel(ctx ctx.Ctx, bidder domain.Address, offerId string) (*Offer, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (*SearchResult, error)
	Accept(ctx ctx.Ctx, seller domain.Address, listingId string, offerId string) (*AcceptResult, error)
	Leaderboard(ctx ctx.Ctx, listingId string) ([]*LeaderboardEntry, error)
}

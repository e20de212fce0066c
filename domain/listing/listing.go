package listing

import (
	"time"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/domain"
	"github.com/namebid/goapi/domain/offer"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSold      Status = "SOLD"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusSold, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s.IsValid() && s != StatusActive
}

// auction duration bounds
const (
	MinDuration = time.Hour
	MaxDuration = 180 * time.Hour
)

// Listing is a dutch auction on a single domain-name token. The price decays
// linearly from StartPrice at StartAt down to ReservePrice at EndAt.
type Listing struct {
	Id            string            `json:"id" bson:"_id"`
	Name          string            `json:"name" bson:"name"`
	ChainId       domain.ChainId    `json:"chainId" bson:"chainId"`
	TokenContract domain.Address    `json:"tokenContract" bson:"tokenContract"`
	TokenId       domain.TokenId    `json:"tokenId" bson:"tokenID"`
	Seller        domain.Address    `json:"seller" bson:"seller"`
	StartPrice    domain.PriceInfo  `json:"startPrice" bson:"startPrice"`
	ReservePrice  domain.PriceInfo  `json:"reservePrice" bson:"reservePrice"`
	StartAt       time.Time         `json:"startAt" bson:"startAt"`
	EndAt         time.Time         `json:"endAt" bson:"endAt"`
	Status        Status            `json:"status" bson:"status"`
	WinningBidder *domain.Address   `json:"winningBidder,omitempty" bson:"winningBidder,omitempty"`
	SoldPrice     *domain.PriceInfo `json:"soldPrice,omitempty" bson:"soldPrice,omitempty"`
	CreatedAt     time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt" bson:"updatedAt"`
	CancelledAt   *time.Time        `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	SoldAt        *time.Time        `json:"soldAt,omitempty" bson:"soldAt,omitempty"`

	// populated by usecase, not persisted
	Offers           []*offer.Offer `json:"offers,omitempty" bson:"-"`
	ActiveOfferCount *int           `json:"activeOfferCount,omitempty" bson:"-"`
}

func (l *Listing) LowerCase() {
	l.TokenContract = l.TokenContract.ToLower()
	l.Seller = l.Seller.ToLower()
}

type Patchable struct {
	Status        *Status           `bson:"status,omitempty"`
	WinningBidder *domain.Address   `bson:"winningBidder,omitempty"`
	SoldPrice     *domain.PriceInfo `bson:"soldPrice,omitempty"`
	UpdatedAt     *time.Time        `bson:"updatedAt,omitempty"`
	CancelledAt   *time.Time        `bson:"cancelledAt,omitempty"`
	SoldAt        *time.Time        `bson:"soldAt,omitempty"`
}

type FindAllOptions struct {
	Ids           []string
	Status        *Status
	Seller        *domain.Address
	ChainId       *domain.ChainId
	TokenContract *domain.Address
	TokenId       *domain.TokenId
	EndTimeLT     *time.Time
	Offset        *int32
	Limit         *int32
	SortBy        *string
	SortDir       *domain.SortDir
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

func WithIds(ids []string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Ids = ids
		return nil
	}
}

func WithStatus(status Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Status = &status
		return nil
	}
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Seller = seller.ToLowerPtr()
		return nil
	}
}

func WithToken(chainId domain.ChainId, tokenContract domain.Address, tokenId domain.TokenId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ChainId = &chainId
		options.TokenContract = tokenContract.ToLowerPtr()
		options.TokenId = &tokenId
		return nil
	}
}

func WithEndTimeLT(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.EndTimeLT = &t
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

// CreateListingPayload is the request body for creating a listing.
type CreateListingPayload struct {
	Name          string           `json:"name" validate:"required"`
	ChainId       domain.ChainId   `json:"chainId" validate:"required"`
	TokenContract domain.Address   `json:"tokenContract" validate:"required"`
	TokenId       domain.TokenId   `json:"tokenId" validate:"required"`
	StartPrice    domain.PriceInfo `json:"startPrice" validate:"required"`
	ReservePrice  domain.PriceInfo `json:"reservePrice" validate:"required"`
	StartAt       time.Time        `json:"startAt" validate:"required"`
	EndAt         time.Time        `json:"endAt" validate:"required"`
}

// PriceQuote is the current dutch-auction price of a listing at QuotedAt.
type PriceQuote struct {
	ListingId    string           `json:"listingId"`
	Price        domain.PriceInfo `json:"price"`
	DisplayPrice string           `json:"displayPrice"`
	QuotedAt     time.Time        `json:"quotedAt"`
}

type SearchResult struct {
	Items []*Listing `json:"items"`
	Count int        `json:"count"`
}

type Repo interface {
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Listing, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	FindOne(ctx ctx.Ctx, id string) (*Listing, error)
	Create(ctx ctx.Ctx, listing *Listing) error
	// Transition patches the listing only if it is still in fromStatus,
	// returns domain.ErrNotFound when the guard does not match.
	Transition(ctx ctx.Ctx, id string, fromStatus Status, patchable Patchable) error
	// ExpireAll moves every active listing whose auction ended before now to
	// expired, returns the number of listings modified.
	ExpireAll(ctx ctx.Ctx, now time.Time) (int64, error)
}

type Usecase interface {
	Create(ctx ctx.Ctx, seller domain.Address, payload *CreateListingPayload) (*Listing, error)
	Delist(ctx ctx.Ctx, seller domain.Address, listingId string) (*Listing, error)
	Get(ctx ctx.Ctx, listingId string) (*Listing, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (*SearchResult, error)
	CurrentPrice(ctx ctx.Ctx, listingId string) (*PriceQuote, error)
}

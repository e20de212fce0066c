package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/domain"
	"github.com/namebid/goapi/domain/listing"
	listingMocks "github.com/namebid/goapi/domain/listing/mocks"
	"github.com/namebid/goapi/domain/offer"
	offerMocks "github.com/namebid/goapi/domain/offer/mocks"
	"github.com/namebid/goapi/service/settlement"
	settlementMocks "github.com/namebid/goapi/service/settlement/mocks"
)

type offerUsecaseSuite struct {
	suite.Suite

	offerRepo   *offerMocks.Repo
	listingRepo *listingMocks.Repo
	settlement  *settlementMocks.Client
	im          offer.Usecase
}

func TestOfferUsecaseSuite(t *testing.T) {
	suite.Run(t, new(offerUsecaseSuite))
}

func (s *offerUsecaseSuite) SetupTest() {
	s.offerRepo = &offerMocks.Repo{}
	s.listingRepo = &listingMocks.Repo{}
	s.settlement = &settlementMocks.Client{}
	s.im = New(&OfferUseCaseCfg{
		OfferRepo:   s.offerRepo,
		ListingRepo: s.listingRepo,
		Settlement:  s.settlement,
	})
}

func (s *offerUsecaseSuite) makeListing() *listing.Listing {
	now := time.Now()
	return &listing.Listing{
		Id:            "listing-1",
		Name:          "vitalik.eth",
		ChainId:       "eip155:1",
		TokenContract: domain.Address("0x1234567890abcdef1234567890abcdef12345678"),
		TokenId:       domain.TokenId("42"),
		Seller:        domain.Address("0xabcd567890abcdef1234567890abcdef12345678"),
		StartPrice:    domain.PriceInfo{Amount: "2000", Currency: domain.SymbolUSDC},
		ReservePrice:  domain.PriceInfo{Amount: "1000", Currency: domain.SymbolUSDC},
		StartAt:       now.Add(-time.Hour),
		EndAt:         now.Add(time.Hour),
		Status:        listing.StatusActive,
	}
}

func (s *offerUsecaseSuite) makeOffer(id, amount string, status offer.Status) *offer.Offer {
	return &offer.Offer{
		Id:        id,
		ListingId: "listing-1",
		Bidder:    domain.Address("0x1111111111111111111111111111111111111111"),
		Price:     domain.PriceInfo{Amount: amount, Currency: domain.SymbolUSDC},
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (s *offerUsecaseSuite) TestPlace() {
	c := ctx.Background()
	bidder := domain.Address("0x1111111111111111111111111111111111111111")

	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(s.makeListing(), nil).Once()
	s.offerRepo.On("Count", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(0, nil).Once()
	s.offerRepo.On("Create", mock.Anything, mock.MatchedBy(func(o *offer.Offer) bool {
		return o.Status == offer.StatusActive && o.PriceHex != "" && o.ListingId == "listing-1"
	})).Return(nil).Once()

	o, err := s.im.Place(c, bidder, &offer.PlaceOfferPayload{
		ListingId: "listing-1",
		Price:     domain.PriceInfo{Amount: "1500", Currency: domain.SymbolUSDC},
	})
	s.NoError(err)
	s.NotEmpty(o.Id)
	s.Equal(bidder, o.Bidder)
	s.offerRepo.AssertExpectations(s.T())
}

func (s *offerUsecaseSuite) TestPlaceBeforeStart() {
	l := s.makeListing()
	l.StartAt = time.Now().Add(time.Minute)
	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(l, nil).Once()

	_, err := s.im.Place(ctx.Background(), "0x1111111111111111111111111111111111111111", &offer.PlaceOfferPayload{
		ListingId: "listing-1",
		Price:     domain.PriceInfo{Amount: "1500", Currency: domain.SymbolUSDC},
	})
	s.Equal(domain.ErrAuctionNotStarted, err)
}

func (s *offerUsecaseSuite) TestPlaceAfterEnd() {
	l := s.makeListing()
	l.EndAt = time.Now().Add(-time.Minute)
	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(l, nil).Once()

	_, err := s.im.Place(ctx.Background(), "0x1111111111111111111111111111111111111111", &offer.PlaceOfferPayload{
		ListingId: "listing-1",
		Price:     domain.PriceInfo{Amount: "1500", Currency: domain.SymbolUSDC},
	})
	s.Equal(domain.ErrAuctionEnded, err)
}

func (s *offerUsecaseSuite) TestPlaceBelowReserve() {
	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(s.makeListing(), nil).Once()

	_, err := s.im.Place(ctx.Background(), "0x1111111111111111111111111111111111111111", &offer.PlaceOfferPayload{
		ListingId: "listing-1",
		Price:     domain.PriceInfo{Amount: "999", Currency: domain.SymbolUSDC},
	})
	s.Equal(domain.ErrOfferBelowReserve, err)
}

func (s *offerUsecaseSuite) TestPlaceAtReserveIsAllowed() {
	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(s.makeListing(), nil).Once()
	s.offerRepo.On("Count", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(0, nil).Once()
	s.offerRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := s.im.Place(ctx.Background(), "0x1111111111111111111111111111111111111111", &offer.PlaceOfferPayload{
		ListingId: "listing-1",
		Price:     domain.PriceInfo{Amount: "1000", Currency: domain.SymbolUSDC},
	})
	s.NoError(err)
}

func (s *offerUsecaseSuite) TestPlaceCurrencyMismatch() {
	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(s.makeListing(), nil).Once()

	_, err := s.im.Place(ctx.Background(), "0x1111111111111111111111111111111111111111", &offer.PlaceOfferPayload{
		ListingId: "listing-1",
		Price:     domain.PriceInfo{Amount: "1500000000000000000", Currency: domain.SymbolWETH},
	})
	s.Equal(domain.ErrCurrencyMismatch, err)
}

func (s *offerUsecaseSuite) TestPlaceDuplicateActiveOffer() {
	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(s.makeListing(), nil).Once()
	s.offerRepo.On("Count", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(1, nil).Once()

	_, err := s.im.Place(ctx.Background(), "0x1111111111111111111111111111111111111111", &offer.PlaceOfferPayload{
		ListingId: "listing-1",
		Price:     domain.PriceInfo{Amount: "1500", Currency: domain.SymbolUSDC},
	})
	s.Equal(domain.ErrDuplicateActiveOffer, err)
	s.offerRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *offerUsecaseSuite) TestPlaceOnInactiveListing() {
	l := s.makeListing()
	l.Status = listing.StatusCancelled
	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(l, nil).Once()

	_, err := s.im.Place(ctx.Background(), "0x1111111111111111111111111111111111111111", &offer.PlaceOfferPayload{
		ListingId: "listing-1",
		Price:     domain.PriceInfo{Amount: "1500", Currency: domain.SymbolUSDC},
	})
	s.Equal(domain.ErrInvalidState, err)
}

func (s *offerUsecaseSuite) TestCancel() {
	bidder := domain.Address("0x1111111111111111111111111111111111111111")
	active := s.makeOffer("offer-1", "1500", offer.StatusActive)
	cancelled := s.makeOffer("offer-1", "1500", offer.StatusCancelled)

	s.offerRepo.On("FindOne", mock.Anything, "offer-1").Return(active, nil).Once()
	s.offerRepo.On("Transition", mock.Anything, "offer-1", offer.StatusActive, mock.Anything).Return(nil).Once()
	s.offerRepo.On("FindOne", mock.Anything, "offer-1").Return(cancelled, nil).Once()

	res, err := s.im.Cancel(ctx.Background(), bidder, "offer-1")
	s.NoError(err)
	s.Equal(offer.StatusCancelled, res.Status)
}

func (s *offerUsecaseSuite) TestCancelNotBidder() {
	s.offerRepo.On("FindOne", mock.Anything, "offer-1").Return(s.makeOffer("offer-1", "1500", offer.StatusActive), nil).Once()

	_, err := s.im.Cancel(ctx.Background(), "0x9999999999999999999999999999999999999999", "offer-1")
	s.Equal(domain.ErrForbidden, err)
}

func (s *offerUsecaseSuite) TestCancelTerminalOffer() {
	s.offerRepo.On("FindOne", mock.Anything, "offer-1").Return(s.makeOffer("offer-1", "1500", offer.StatusRejected), nil).Once()

	_, err := s.im.Cancel(ctx.Background(), "0x1111111111111111111111111111111111111111", "offer-1")
	s.Equal(domain.ErrInvalidState, err)
}

func (s *offerUsecaseSuite) TestAccept() {
	seller := domain.Address("0xabcd567890abcdef1234567890abcdef12345678")
	active := s.makeOffer("offer-1", "1500", offer.StatusActive)
	accepted := s.makeOffer("offer-1", "1500", offer.StatusAccepted)
	txHash := domain.TxHash("0xabc123")

	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(s.makeListing(), nil).Once()
	s.offerRepo.On("FindOne", mock.Anything, "offer-1").Return(active, nil).Once()
	s.offerRepo.On("Transition", mock.Anything, "offer-1", offer.StatusActive, mock.MatchedBy(func(p offer.Patchable) bool {
		return p.Status != nil && *p.Status == offer.StatusAccepted && p.AcceptedAt != nil
	})).Return(nil).Once()
	s.offerRepo.On("RejectSiblings", mock.Anything, "listing-1", "offer-1", mock.Anything).Return(int64(2), nil).Once()
	s.listingRepo.On("Transition", mock.Anything, "listing-1", listing.StatusActive, mock.MatchedBy(func(p listing.Patchable) bool {
		return p.Status != nil && *p.Status == listing.StatusSold && p.WinningBidder != nil && p.SoldPrice != nil
	})).Return(nil).Once()
	s.settlement.On("AcceptOrder", mock.Anything, mock.Anything).Return(&settlement.AcceptOrderResult{
		OrderId:         "order-1",
		TransactionHash: &txHash,
	}, nil).Once()
	s.offerRepo.On("Transition", mock.Anything, "offer-1", offer.StatusAccepted, mock.MatchedBy(func(p offer.Patchable) bool {
		return p.SettlementOrderId != nil && *p.SettlementOrderId == "order-1"
	})).Return(nil).Once()
	s.offerRepo.On("FindOne", mock.Anything, "offer-1").Return(accepted, nil).Once()

	res, err := s.im.Accept(ctx.Background(), seller, "listing-1", "offer-1")
	s.NoError(err)
	s.Equal(offer.StatusAccepted, res.Offer.Status)
	s.NotNil(res.TransactionHash)
	s.Equal("0xabc123", *res.TransactionHash)
	s.offerRepo.AssertExpectations(s.T())
	s.listingRepo.AssertExpectations(s.T())
	s.settlement.AssertExpectations(s.T())
}

func (s *offerUsecaseSuite) TestAcceptSettlementFailureStillSucceeds() {
	seller := domain.Address("0xabcd567890abcdef1234567890abcdef12345678")
	active := s.makeOffer("offer-1", "1500", offer.StatusActive)
	accepted := s.makeOffer("offer-1", "1500", offer.StatusAccepted)

	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(s.makeListing(), nil).Once()
	s.offerRepo.On("FindOne", mock.Anything, "offer-1").Return(active, nil).Once()
	s.offerRepo.On("Transition", mock.Anything, "offer-1", offer.StatusActive, mock.Anything).Return(nil).Once()
	s.offerRepo.On("RejectSiblings", mock.Anything, "listing-1", "offer-1", mock.Anything).Return(int64(0), nil).Once()
	s.listingRepo.On("Transition", mock.Anything, "listing-1", listing.StatusActive, mock.Anything).Return(nil).Once()
	s.settlement.On("AcceptOrder", mock.Anything, mock.Anything).Return(nil, errors.New("settlement down")).Once()
	s.offerRepo.On("FindOne", mock.Anything, "offer-1").Return(accepted, nil).Once()

	res, err := s.im.Accept(ctx.Background(), seller, "listing-1", "offer-1")
	s.NoError(err)
	s.Equal(offer.StatusAccepted, res.Offer.Status)
	s.Nil(res.TransactionHash)
}

func (s *offerUsecaseSuite) TestAcceptNotSeller() {
	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(s.makeListing(), nil).Once()

	_, err := s.im.Accept(ctx.Background(), "0x9999999999999999999999999999999999999999", "listing-1", "offer-1")
	s.Equal(domain.ErrForbidden, err)
}

func (s *offerUsecaseSuite) TestAcceptAfterEnd() {
	seller := domain.Address("0xabcd567890abcdef1234567890abcdef12345678")
	l := s.makeListing()
	l.EndAt = time.Now().Add(-time.Minute)
	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(l, nil).Once()

	_, err := s.im.Accept(ctx.Background(), seller, "listing-1", "offer-1")
	s.Equal(domain.ErrAuctionEnded, err)
}

func (s *offerUsecaseSuite) TestAcceptOfferFromOtherListing() {
	seller := domain.Address("0xabcd567890abcdef1234567890abcdef12345678")
	o := s.makeOffer("offer-1", "1500", offer.StatusActive)
	o.ListingId = "listing-2"

	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(s.makeListing(), nil).Once()
	s.offerRepo.On("FindOne", mock.Anything, "offer-1").Return(o, nil).Once()

	_, err := s.im.Accept(ctx.Background(), seller, "listing-1", "offer-1")
	s.Equal(domain.ErrOfferNotOnListing, err)
}

func (s *offerUsecaseSuite) TestAcceptLosesCommitRace() {
	seller := domain.Address("0xabcd567890abcdef1234567890abcdef12345678")
	active := s.makeOffer("offer-1", "1500", offer.StatusActive)

	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(s.makeListing(), nil).Once()
	s.offerRepo.On("FindOne", mock.Anything, "offer-1").Return(active, nil).Once()
	s.offerRepo.On("Transition", mock.Anything, "offer-1", offer.StatusActive, mock.Anything).Return(domain.ErrNotFound).Once()

	_, err := s.im.Accept(ctx.Background(), seller, "listing-1", "offer-1")
	s.Equal(domain.ErrInvalidState, err)
	s.offerRepo.AssertNotCalled(s.T(), "RejectSiblings", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *offerUsecaseSuite) TestLeaderboard() {
	base := time.Now()

	o1 := s.makeOffer("offer-1", "50", offer.StatusActive)
	o1.CreatedAt = base
	o2 := s.makeOffer("offer-2", "100", offer.StatusActive)
	o2.CreatedAt = base.Add(time.Second)
	o3 := s.makeOffer("offer-3", "100", offer.StatusActive)
	o3.CreatedAt = base.Add(2 * time.Second)
	o4 := s.makeOffer("offer-4", "30", offer.StatusActive)
	o4.CreatedAt = base.Add(3 * time.Second)

	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(s.makeListing(), nil).Once()
	// repo hands the offers back unordered, the usecase must still rank them
	s.offerRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*offer.Offer{o1, o2, o3, o4}, nil).Once()

	entries, err := s.im.Leaderboard(ctx.Background(), "listing-1")
	s.NoError(err)
	s.Len(entries, 4)

	s.Equal([]string{"offer-2", "offer-3", "offer-1", "offer-4"}, []string{
		entries[0].OfferId, entries[1].OfferId, entries[2].OfferId, entries[3].OfferId,
	})
	s.Equal(1, entries[0].Rank)
	s.True(entries[0].IsTopOffer)
	s.False(entries[1].IsTopOffer)
	s.Equal(4, entries[3].Rank)
	s.Equal("0.0001 USDC", entries[0].DisplayPrice)
}

func (s *offerUsecaseSuite) TestLeaderboardListingNotFound() {
	s.listingRepo.On("FindOne", mock.Anything, "listing-1").Return(nil, domain.ErrNotFound).Once()

	_, err := s.im.Leaderboard(ctx.Background(), "listing-1")
	s.Equal(domain.ErrNotFound, err)
}

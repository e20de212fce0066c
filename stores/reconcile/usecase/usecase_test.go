package usecase

import (
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
	"github.com/namebid/goapi/domain/reconcile"
)

type reconcileUsecaseSuite struct {
	suite.Suite

	listingRepo *listingMocks.Repo
	offerRepo   *offerMocks.Repo
	im          reconcile.Usecase
}

func TestReconcileUsecaseSuite(t *testing.T) {
	suite.Run(t, new(reconcileUsecaseSuite))
}

func (s *reconcileUsecaseSuite) SetupTest() {
	s.listingRepo = &listingMocks.Repo{}
	s.offerRepo = &offerMocks.Repo{}
	s.im = New(&ReconcileUseCaseCfg{
		ListingRepo: s.listingRepo,
		OfferRepo:   s.offerRepo,
	})
}

func (s *reconcileUsecaseSuite) activeOffer(id, listingId string) *offer.Offer {
	return &offer.Offer{
		Id:        id,
		ListingId: listingId,
		Bidder:    domain.Address("0x1111111111111111111111111111111111111111"),
		Price:     domain.PriceInfo{Amount: "1000", Currency: domain.SymbolUSDC},
		Status:    offer.StatusActive,
	}
}

func (s *reconcileUsecaseSuite) TestRun() {
	c := ctx.Background()
	now := time.Now()

	s.listingRepo.On("ExpireAll", mock.Anything, now).Return(int64(2), nil).Once()
	s.offerRepo.On("FindAll", mock.Anything, mock.Anything).Return([]*offer.Offer{
		s.activeOffer("offer-1", "listing-ended"),
		s.activeOffer("offer-2", "listing-ended"),
		s.activeOffer("offer-3", "listing-running"),
	}, nil).Once()
	s.listingRepo.On("FindAll", mock.Anything, mock.Anything).Return([]*listing.Listing{
		{Id: "listing-ended", Status: listing.StatusExpired, EndAt: now.Add(-time.Hour)},
		{Id: "listing-running", Status: listing.StatusActive, EndAt: now.Add(time.Hour)},
	}, nil).Once()
	s.offerRepo.On("ExpireAllByListingIds", mock.Anything, []string{"listing-ended"}, now).Return(int64(2), nil).Once()

	report, err := s.im.Run(c, now)
	s.NoError(err)
	s.Equal(int64(2), report.ExpiredListings)
	s.Equal(int64(2), report.ExpiredOffers)
	s.False(report.DryRun)
	s.offerRepo.AssertExpectations(s.T())
}

func (s *reconcileUsecaseSuite) TestRunWithNothingToDo() {
	c := ctx.Background()
	now := time.Now()

	s.listingRepo.On("ExpireAll", mock.Anything, now).Return(int64(0), nil).Once()
	s.offerRepo.On("FindAll", mock.Anything, mock.Anything).Return([]*offer.Offer{}, nil).Once()
	s.offerRepo.On("ExpireAllByListingIds", mock.Anything, mock.Anything, now).Return(int64(0), nil).Once()

	report, err := s.im.Run(c, now)
	s.NoError(err)
	s.Equal(int64(0), report.ExpiredListings)
	s.Equal(int64(0), report.ExpiredOffers)
}

func (s *reconcileUsecaseSuite) TestRunSweepsOffersOnCancelledListings() {
	c := ctx.Background()
	now := time.Now()

	s.listingRepo.On("ExpireAll", mock.Anything, now).Return(int64(0), nil).Once()
	s.offerRepo.On("FindAll", mock.Anything, mock.Anything).Return([]*offer.Offer{
		s.activeOffer("offer-1", "listing-cancelled"),
	}, nil).Once()
	s.listingRepo.On("FindAll", mock.Anything, mock.Anything).Return([]*listing.Listing{
		{Id: "listing-cancelled", Status: listing.StatusCancelled, EndAt: now.Add(time.Hour)},
	}, nil).Once()
	s.offerRepo.On("ExpireAllByListingIds", mock.Anything, []string{"listing-cancelled"}, now).Return(int64(1), nil).Once()

	report, err := s.im.Run(c, now)
	s.NoError(err)
	s.Equal(int64(1), report.ExpiredOffers)
}

func (s *reconcileUsecaseSuite) TestPreviewWritesNothing() {
	c := ctx.Background()
	now := time.Now()

	s.listingRepo.On("Count", mock.Anything, mock.Anything, mock.Anything).Return(3, nil).Once()
	s.offerRepo.On("FindAll", mock.Anything, mock.Anything).Return([]*offer.Offer{
		s.activeOffer("offer-1", "listing-ended"),
	}, nil).Once()
	s.listingRepo.On("FindAll", mock.Anything, mock.Anything).Return([]*listing.Listing{
		{Id: "listing-ended", Status: listing.StatusActive, EndAt: now.Add(-time.Hour)},
	}, nil).Once()
	s.offerRepo.On("Count", mock.Anything, mock.Anything, mock.Anything).Return(1, nil).Once()

	report, err := s.im.Preview(c, now)
	s.NoError(err)
	s.True(report.DryRun)
	s.Equal(int64(3), report.ExpiredListings)
	s.Equal(int64(1), report.ExpiredOffers)

	s.listingRepo.AssertNotCalled(s.T(), "ExpireAll", mock.Anything, mock.Anything)
	s.offerRepo.AssertNotCalled(s.T(), "ExpireAllByListingIds", mock.Anything, mock.Anything, mock.Anything)
}

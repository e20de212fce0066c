package pricing

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type pricingSuite struct {
	suite.Suite

	startAt time.Time
	endAt   time.Time
}

func (s *pricingSuite) SetupTest() {
	s.startAt = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s.endAt = s.startAt.Add(10 * time.Hour)
}

func (s *pricingSuite) price(start, reserve int64, now time.Time) *big.Int {
	return CurrentPrice(big.NewInt(start), big.NewInt(reserve), s.startAt, s.endAt, now)
}

func (s *pricingSuite) TestBeforeStart() {
	p := s.price(1000, 100, s.startAt.Add(-time.Minute))
	s.Equal(big.NewInt(1000), p)
}

func (s *pricingSuite) TestAtStart() {
	p := s.price(1000, 100, s.startAt)
	s.Equal(big.NewInt(1000), p)
}

func (s *pricingSuite) TestAtEnd() {
	p := s.price(1000, 100, s.endAt)
	s.Equal(big.NewInt(100), p)
}

func (s *pricingSuite) TestAfterEnd() {
	p := s.price(1000, 100, s.endAt.Add(time.Hour))
	s.Equal(big.NewInt(100), p)
}

func (s *pricingSuite) TestMidpoint() {
	p := s.price(1000, 100, s.startAt.Add(5*time.Hour))
	// reserve + round(900 * 0.5)
	s.Equal(big.NewInt(550), p)
}

func (s *pricingSuite) TestRoundsHalfUp() {
	// delta = 3, remaining/span = 1/2, 3*0.5 = 1.5 rounds to 2
	p := s.price(103, 100, s.startAt.Add(5*time.Hour))
	s.Equal(big.NewInt(102), p)
}

func (s *pricingSuite) TestFlatAuction() {
	// start == reserve, price is constant
	p := s.price(100, 100, s.startAt.Add(3*time.Hour))
	s.Equal(big.NewInt(100), p)
}

func (s *pricingSuite) TestZeroSpan() {
	// reserve for any now, before, at, and after the collapsed window
	for _, now := range []time.Time{
		s.startAt.Add(-time.Minute),
		s.startAt,
		s.startAt.Add(time.Minute),
	} {
		p := CurrentPrice(big.NewInt(1000), big.NewInt(100), s.startAt, s.startAt, now)
		s.Equal(big.NewInt(100), p)
	}
}

func (s *pricingSuite) TestLargeAmounts() {
	// 18-decimal amounts overflow int64, must stay exact
	start, _ := new(big.Int).SetString("5000000000000000000000", 10)
	reserve, _ := new(big.Int).SetString("1000000000000000000000", 10)

	p := CurrentPrice(start, reserve, s.startAt, s.endAt, s.startAt.Add(5*time.Hour))

	want, _ := new(big.Int).SetString("3000000000000000000000", 10)
	s.Equal(want, p)
}

func (s *pricingSuite) TestMonotonicDecay() {
	prev := s.price(1000, 100, s.startAt)
	for i := 1; i <= 10; i++ {
		cur := s.price(1000, 100, s.startAt.Add(time.Duration(i)*time.Hour))
		s.True(cur.Cmp(prev) <= 0, "price must not increase over time")
		prev = cur
	}
}

func (s *pricingSuite) TestNeverBelowReserve() {
	for i := 0; i <= 12; i++ {
		p := s.price(1000, 100, s.startAt.Add(time.Duration(i)*time.Hour))
		s.True(p.Cmp(big.NewInt(100)) >= 0)
		s.True(p.Cmp(big.NewInt(1000)) <= 0)
	}
}

func (s *pricingSuite) TestInputsNotMutated() {
	start := big.NewInt(1000)
	reserve := big.NewInt(100)
	CurrentPrice(start, reserve, s.startAt, s.endAt, s.startAt.Add(5*time.Hour))
	s.Equal(big.NewInt(1000), start)
	s.Equal(big.NewInt(100), reserve)
}

func TestPricingSuite(t *testing.T) {
	suite.Run(t, new(pricingSuite))
}

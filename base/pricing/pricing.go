// Package pricing computes dutch-auction prices. Prices decay linearly from
// the start price at startAt down to the reserve price at endAt, all math in
// big.Int minor units.
package pricing

import (
	"math/big"
	"time"
)

// CurrentPrice returns the auction price at now.
//
// Before startAt it is the start price, at or after endAt it is the reserve
// price. In between it interpolates on millisecond precision and rounds
// half-up, so the quote never dips below reserve and never exceeds start.
func CurrentPrice(startPrice, reservePrice *big.Int, startAt, endAt time.Time, now time.Time) *big.Int {
	// a zero or negative span is a degenerate auction, it quotes reserve for
	// any now, even before startAt
	spanMs := endAt.Sub(startAt).Milliseconds()
	if spanMs <= 0 {
		return new(big.Int).Set(reservePrice)
	}

	if !now.After(startAt) {
		return new(big.Int).Set(startPrice)
	}
	if !now.Before(endAt) {
		return new(big.Int).Set(reservePrice)
	}

	remainingMs := endAt.Sub(now).Milliseconds()

	// price = reserve + round(delta * remaining / span)
	delta := new(big.Int).Sub(startPrice, reservePrice)
	num := new(big.Int).Mul(delta, big.NewInt(remainingMs))
	num.Add(num, big.NewInt(spanMs/2))
	num.Div(num, big.NewInt(spanMs))

	return num.Add(num, reservePrice)
}

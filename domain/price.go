package domain

import (
	"math/big"
	"regexp"

	"github.com/shopspring/decimal"
)

// Symbol is a listing currency symbol.
type Symbol string

const (
	SymbolETH  Symbol = "ETH"
	SymbolWETH Symbol = "WETH"
	SymbolUSDC Symbol = "USDC"
	SymbolAVAX Symbol = "AVAX"
)

// minor-unit decimals per currency
var symbolDecimals = map[Symbol]int32{
	SymbolETH:  18,
	SymbolWETH: 18,
	SymbolUSDC: 6,
	SymbolAVAX: 18,
}

func (s Symbol) IsValid() bool {
	_, ok := symbolDecimals[s]
	return ok
}

func (s Symbol) Decimals() int32 {
	return symbolDecimals[s]
}

var amountPattern = regexp.MustCompile(`^\d+$`)

// PriceInfo is an amount in minor units (integer string) plus its currency.
type PriceInfo struct {
	Amount   string `json:"amount" bson:"amount" validate:"required"`
	Currency Symbol `json:"currency" bson:"currency" validate:"required"`
}

func (p PriceInfo) Validate() error {
	if !amountPattern.MatchString(p.Amount) {
		return NewValidationError("amount", "must be a non-negative integer string in minor units")
	}
	if !p.Currency.IsValid() {
		return ErrInvalidCurrency
	}
	return nil
}

// BigInt parses the minor-unit amount. Amounts routinely exceed int64 for
// 18-decimal currencies, so big.Int is the only safe representation.
func (p PriceInfo) BigInt() (*big.Int, error) {
	amount, ok := new(big.Int).SetString(p.Amount, 10)
	if !ok || amount.Sign() < 0 {
		return nil, ErrInvalidNumberFormat
	}
	return amount, nil
}

// Cmp compares two prices of the same currency.
func (p PriceInfo) Cmp(q PriceInfo) (int, error) {
	if p.Currency != q.Currency {
		return 0, ErrCurrencyMismatch
	}
	a, err := p.BigInt()
	if err != nil {
		return 0, err
	}
	b, err := q.BigInt()
	if err != nil {
		return 0, err
	}
	return a.Cmp(b), nil
}

// Display renders the amount in whole currency units, e.g. "1.5 WETH".
func (p PriceInfo) Display() string {
	d, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return p.Amount + " " + string(p.Currency)
	}
	return d.Shift(-p.Currency.Decimals()).String() + " " + string(p.Currency)
}

package domain

import (
	"math/big"
	"regexp"
	"strings"
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

// Table names a mongo collection.
type Table string

const (
	TableListings Table = "listings"
	TableOffers   Table = "offers"
	TableAccounts Table = "accounts"
)

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerPtr() *Address {
	res := a.ToLower()
	return &res
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

// ChainId is a CAIP-2 chain identifier, e.g. "eip155:1".
type ChainId string

var chainIdPattern = regexp.MustCompile(`^[-a-z0-9]{3,8}:[-_a-zA-Z0-9]{1,32}$`)

func (c ChainId) IsValid() bool {
	return chainIdPattern.MatchString(string(c))
}

// Namespace returns the part before the colon, e.g. "eip155".
func (c ChainId) Namespace() string {
	if idx := strings.Index(string(c), ":"); idx >= 0 {
		return string(c)[:idx]
	}
	return string(c)
}

// Reference returns the part after the colon, e.g. "1".
func (c ChainId) Reference() string {
	if idx := strings.Index(string(c), ":"); idx >= 0 {
		return string(c)[idx+1:]
	}
	return ""
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

type TxHash string

func ToBigInt(nums []string) ([]*big.Int, error) {
	var bns []*big.Int
	for _, n := range nums {
		bn, ok := new(big.Int).SetString(n, 10)
		if !ok {
			return nil, ErrInvalidNumberFormat
		}
		bns = append(bns, bn)
	}
	return bns, nil
}

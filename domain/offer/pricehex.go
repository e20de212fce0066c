package offer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
)

// ToPriceHex encodes an amount as 32 bytes of zero-padded hex. Every encoded
// value has the same length, so lexicographic comparison in mongo matches
// numeric comparison.
func ToPriceHex(amount *big.Int) string {
	return hexutil.Encode(math.U256Bytes(new(big.Int).Set(amount)))
}

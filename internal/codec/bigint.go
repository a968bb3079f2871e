package codec

import (
	"fmt"
	"math/big"

	"github.com/deploymenttheory/go-keyblob/internal/types"
)

// BigIntByteLen returns the number of bytes needed to hold bitlen bits.
func BigIntByteLen(bitlen int) int {
	return (bitlen + 7) / 8
}

// DecodeBigInt interprets b as an unsigned little-endian integer of bitlen bits.
// It reports false when len(b) is not exactly BigIntByteLen(bitlen).
func DecodeBigInt(b []byte, bitlen int) (*big.Int, bool) {
	if bitlen < 0 || len(b) != BigIntByteLen(bitlen) {
		return nil, false
	}
	return new(big.Int).SetBytes(reversed(b)), true
}

// EncodeBigInt encodes v as an unsigned little-endian integer of exactly
// BigIntByteLen(bitlen) bytes, zero-padded on the high end.
func EncodeBigInt(v *big.Int, bitlen int) ([]byte, error) {
	if v == nil || v.Sign() < 0 || bitlen < 0 {
		return nil, fmt.Errorf("%w: bigint must be non-negative", types.ErrOutOfRange)
	}
	n := BigIntByteLen(bitlen)
	if (v.BitLen()+7)/8 > n {
		return nil, fmt.Errorf("%w: %d-bit value does not fit in %d bytes", types.ErrOutOfRange, v.BitLen(), n)
	}
	out := v.FillBytes(make([]byte, n))
	reverseInPlace(out)
	return out, nil
}

// reversed returns a reversed copy of b.
func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

func reverseInPlace(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// Package codec encodes and decodes little-endian integers of fixed and
// arbitrary width, and provides the sequential Reader/Writer used by the
// key blob parsers.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/deploymenttheory/go-keyblob/internal/types"
)

// Width is the size, in bytes, of a fixed-width integer.
type Width int

const (
	Width8  Width = 1
	Width16 Width = 2
	Width32 Width = 4
	Width64 Width = 8
)

// Valid reports whether w is one of the supported widths.
func (w Width) Valid() bool {
	switch w {
	case Width8, Width16, Width32, Width64:
		return true
	default:
		return false
	}
}

// Bits returns the width in bits.
func (w Width) Bits() int {
	return int(w) * 8
}

// DecodeUint decodes exactly one unsigned little-endian integer of width w.
func DecodeUint(w Width, b []byte) (uint64, error) {
	if err := checkOne(w, b); err != nil {
		return 0, err
	}
	return decodeUint(w, b), nil
}

// DecodeInt decodes exactly one two's-complement little-endian integer of width w.
func DecodeInt(w Width, b []byte) (int64, error) {
	if err := checkOne(w, b); err != nil {
		return 0, err
	}
	return decodeInt(w, b), nil
}

// DecodeUints decodes one unsigned integer per w-byte chunk of b, in buffer order.
func DecodeUints(w Width, b []byte) ([]uint64, error) {
	if err := checkMany(w, b); err != nil {
		return nil, err
	}
	values := make([]uint64, 0, len(b)/int(w))
	for off := 0; off < len(b); off += int(w) {
		values = append(values, decodeUint(w, b[off:off+int(w)]))
	}
	return values, nil
}

// DecodeInts decodes one signed integer per w-byte chunk of b, in buffer order.
func DecodeInts(w Width, b []byte) ([]int64, error) {
	if err := checkMany(w, b); err != nil {
		return nil, err
	}
	values := make([]int64, 0, len(b)/int(w))
	for off := 0; off < len(b); off += int(w) {
		values = append(values, decodeInt(w, b[off:off+int(w)]))
	}
	return values, nil
}

// EncodeUint encodes v as exactly w little-endian bytes.
func EncodeUint(w Width, v uint64) ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidWidth, w)
	}
	if v > maxUint(w) {
		return nil, fmt.Errorf("%w: %d does not fit in %d bits", types.ErrOutOfRange, v, w.Bits())
	}
	return encode(w, v), nil
}

// EncodeInt encodes v as exactly w little-endian bytes in two's complement.
func EncodeInt(w Width, v int64) ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidWidth, w)
	}
	lo, hi := intRange(w)
	if v < lo || v > hi {
		return nil, fmt.Errorf("%w: %d does not fit in %d signed bits", types.ErrOutOfRange, v, w.Bits())
	}
	return encode(w, uint64(v)), nil
}

func checkOne(w Width, b []byte) error {
	if !w.Valid() {
		return fmt.Errorf("%w: %d", types.ErrInvalidWidth, w)
	}
	if len(b) != int(w) {
		return fmt.Errorf("%w: need %d bytes, got %d", types.ErrLengthMismatch, w, len(b))
	}
	return nil
}

func checkMany(w Width, b []byte) error {
	if !w.Valid() {
		return fmt.Errorf("%w: %d", types.ErrInvalidWidth, w)
	}
	if len(b) == 0 || len(b)%int(w) != 0 {
		return fmt.Errorf("%w: %d bytes is not a non-zero multiple of %d", types.ErrLengthMismatch, len(b), w)
	}
	return nil
}

// decodeUint expects len(b) == w.
func decodeUint(w Width, b []byte) uint64 {
	switch w {
	case Width8:
		return uint64(b[0])
	case Width16:
		return uint64(binary.LittleEndian.Uint16(b))
	case Width32:
		return uint64(binary.LittleEndian.Uint32(b))
	default:
		return binary.LittleEndian.Uint64(b)
	}
}

// decodeInt expects len(b) == w.
func decodeInt(w Width, b []byte) int64 {
	switch w {
	case Width8:
		return int64(int8(b[0]))
	case Width16:
		return int64(int16(binary.LittleEndian.Uint16(b)))
	case Width32:
		return int64(int32(binary.LittleEndian.Uint32(b)))
	default:
		return int64(binary.LittleEndian.Uint64(b))
	}
}

// encode truncates v to w bytes.
func encode(w Width, v uint64) []byte {
	b := make([]byte, w)
	switch w {
	case Width8:
		b[0] = byte(v)
	case Width16:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case Width32:
		binary.LittleEndian.PutUint32(b, uint32(v))
	default:
		binary.LittleEndian.PutUint64(b, v)
	}
	return b
}

func maxUint(w Width) uint64 {
	switch w {
	case Width8:
		return math.MaxUint8
	case Width16:
		return math.MaxUint16
	case Width32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

func intRange(w Width) (int64, int64) {
	switch w {
	case Width8:
		return math.MinInt8, math.MaxInt8
	case Width16:
		return math.MinInt16, math.MaxInt16
	case Width32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

package codec

import (
	"fmt"
	"math/big"

	"github.com/deploymenttheory/go-keyblob/internal/types"
)

// Reader reads little-endian fields sequentially from a byte slice.
// Slices and integers it returns never alias the underlying buffer.
type Reader struct {
	data []byte
	off  int
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// next returns the following n bytes without copying them.
func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", types.ErrTooShort, n, r.off, r.Remaining())
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) readUint(w Width) (uint64, error) {
	b, err := r.next(int(w))
	if err != nil {
		return 0, err
	}
	return decodeUint(w, b), nil
}

// ReadUint8 reads a uint8
func (r *Reader) ReadUint8() (uint8, error) {
	v, err := r.readUint(Width8)
	return uint8(v), err
}

// ReadUint16 reads a uint16
func (r *Reader) ReadUint16() (uint16, error) {
	v, err := r.readUint(Width16)
	return uint16(v), err
}

// ReadUint32 reads a uint32
func (r *Reader) ReadUint32() (uint32, error) {
	v, err := r.readUint(Width32)
	return uint32(v), err
}

// ReadUint64 reads a uint64
func (r *Reader) ReadUint64() (uint64, error) {
	return r.readUint(Width64)
}

// ReadBytes reads a copy of the next n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.next(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadRest reads a copy of every remaining byte.
func (r *Reader) ReadRest() []byte {
	out := make([]byte, r.Remaining())
	copy(out, r.data[r.off:])
	r.off = len(r.data)
	return out
}

// ReadBigInt reads nbytes and decodes them as an unsigned integer of bitlen bits.
// A short buffer or an nbytes/bitlen disagreement is a length mismatch; the
// cursor only advances on success.
func (r *Reader) ReadBigInt(nbytes, bitlen int) (*big.Int, error) {
	if nbytes < 0 || nbytes > r.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", types.ErrLengthMismatch, nbytes, r.off, r.Remaining())
	}
	v, ok := DecodeBigInt(r.data[r.off:r.off+nbytes], bitlen)
	if !ok {
		return nil, fmt.Errorf("%w: %d bytes cannot hold a %d-bit integer", types.ErrLengthMismatch, nbytes, bitlen)
	}
	r.off += nbytes
	return v, nil
}

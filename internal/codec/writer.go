package codec

import (
	"encoding/binary"
	"math/big"
)

// Writer appends little-endian fields to a growing buffer.
type Writer struct {
	buf []byte
}

// NewWriter creates a Writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// WriteUint8 writes a uint8
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint16 writes a uint16
func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteUint32 writes a uint32
func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteUint64 writes a uint64
func (w *Writer) WriteUint64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// WriteBytes writes b verbatim.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteBigInt writes v as BigIntByteLen(bitlen) little-endian bytes.
func (w *Writer) WriteBigInt(v *big.Int, bitlen int) error {
	b, err := EncodeBigInt(v, bitlen)
	if err != nil {
		return err
	}
	w.buf = append(w.buf, b...)
	return nil
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

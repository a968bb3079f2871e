package codec

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-keyblob/internal/types"
)

// ParseFormat converts a pack format string into field widths.
//
// Codes: B (8-bit), H (16-bit), I and L (32-bit), Q (64-bit). All fields
// are unsigned little-endian. A single leading '<' is accepted; any other
// byte-order marker is rejected.
func ParseFormat(format string) ([]Width, error) {
	fields := strings.TrimPrefix(format, "<")
	widths := make([]Width, 0, len(fields))
	for i, c := range fields {
		switch c {
		case 'B':
			widths = append(widths, Width8)
		case 'H':
			widths = append(widths, Width16)
		case 'I', 'L':
			widths = append(widths, Width32)
		case 'Q':
			widths = append(widths, Width64)
		default:
			return nil, fmt.Errorf("%w: unknown code %q at position %d", types.ErrInvalidFormat, c, i)
		}
	}
	return widths, nil
}

// FormatSize returns the total byte length described by format.
func FormatSize(format string) (int, error) {
	widths, err := ParseFormat(format)
	if err != nil {
		return 0, err
	}
	size := 0
	for _, w := range widths {
		size += int(w)
	}
	return size, nil
}

// Pack concatenates the fixed-width encoding of each value in format order.
func Pack(format string, values ...uint64) ([]byte, error) {
	widths, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if len(values) != len(widths) {
		return nil, fmt.Errorf("%w: format has %d fields, got %d values", types.ErrLengthMismatch, len(widths), len(values))
	}

	w := NewWriter(0)
	for i, width := range widths {
		b, err := EncodeUint(width, values[i])
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		w.WriteBytes(b)
	}
	return w.Bytes(), nil
}

// Unpack splits b into consecutive fields per format and decodes each.
func Unpack(format string, b []byte) ([]uint64, error) {
	widths, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	size := 0
	for _, w := range widths {
		size += int(w)
	}
	if len(b) != size {
		return nil, fmt.Errorf("%w: format %q needs %d bytes, got %d", types.ErrLengthMismatch, format, size, len(b))
	}

	r := NewReader(b)
	values := make([]uint64, 0, len(widths))
	for _, w := range widths {
		v, err := r.readUint(w)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

package types

import "errors"

// Parse failures. Malformed blobs are expected input, so every parser
// reports one of these instead of panicking.
var (
	// ErrTooShort is returned when a buffer is smaller than a fixed structural minimum.
	ErrTooShort = errors.New("buffer too short")

	// ErrLengthMismatch is returned when a declared length disagrees with the bytes available.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrUnknownTag is returned for an unrecognized blob type, algorithm id or magic.
	ErrUnknownTag = errors.New("unknown tag")

	// ErrUnsupportedKeySize is returned when an exported key length has no known label.
	ErrUnsupportedKeySize = errors.New("unsupported key size")
)

// Codec failures.
var (
	// ErrInvalidWidth is returned for an integer width other than 1, 2, 4 or 8 bytes.
	ErrInvalidWidth = errors.New("invalid integer width")

	// ErrOutOfRange is returned when a value does not fit the requested width.
	ErrOutOfRange = errors.New("value out of range")

	// ErrInvalidFormat is returned for an unknown pack/unpack format code.
	ErrInvalidFormat = errors.New("invalid format")
)

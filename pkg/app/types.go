package app

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-keyblob/internal/types"
)

// Input encodings accepted for key files
const (
	EncodingRaw    = "raw"
	EncodingHex    = "hex"
	EncodingBase64 = "base64"
)

// CommonError represents application-level errors
type CommonError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CommonError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CommonError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeFileAccess        = "FILE_ACCESS"
	ErrCodeKeyNotFound       = "KEY_NOT_FOUND"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeTimeout           = "TIMEOUT"
)

// NewError creates a new CommonError
func NewError(code, message string, cause error) *CommonError {
	return &CommonError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ParseKeyKind maps a command line kind name to a key kind
func ParseKeyKind(s string) (types.KeyKindT, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "symmetric", "aes":
		return types.KeyKindSymmetric, nil
	case "rsa":
		return types.KeyKindRSA, nil
	default:
		return 0, fmt.Errorf("unknown key kind %q (valid kinds are symmetric|rsa)", s)
	}
}

// ValidEncoding reports whether enc is a supported input encoding
func ValidEncoding(enc string) bool {
	switch enc {
	case EncodingRaw, EncodingHex, EncodingBase64:
		return true
	}
	return false
}

// DecodeInput turns file contents into raw bytes. Text encodings ignore
// surrounding whitespace.
func DecodeInput(encoding string, data []byte) ([]byte, error) {
	switch encoding {
	case "", EncodingRaw:
		return data, nil
	case EncodingHex:
		return hex.DecodeString(strings.Join(strings.Fields(string(data)), ""))
	case EncodingBase64:
		return base64.StdEncoding.DecodeString(strings.Join(strings.Fields(string(data)), ""))
	default:
		return nil, fmt.Errorf("unsupported input encoding: %s", encoding)
	}
}

// ReadFile reads path from fs, refusing files larger than maxSize when
// maxSize is positive.
func ReadFile(fs afero.Fs, path string, maxSize int64) ([]byte, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, NewError(ErrCodeFileAccess, "cannot access "+path, err)
	}
	if info.IsDir() {
		return nil, NewError(ErrCodeInvalidInput, path+" is a directory", nil)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, NewError(ErrCodeInvalidInput, fmt.Sprintf("%s is larger than %d bytes", path, maxSize), nil)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, NewError(ErrCodeFileAccess, "cannot read "+path, err)
	}
	return data, nil
}

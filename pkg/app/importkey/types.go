package importkey

import (
	"github.com/deploymenttheory/go-keyblob/internal/interfaces"
)

// Request represents a key import request
type Request struct {
	Path string

	// Kind is the expected key kind: symmetric or rsa
	Kind string

	// Encoding of the file contents: raw, hex or base64
	Encoding string

	// MaxSize caps the input file size in bytes, 0 disables the check
	MaxSize int64
}

// Response describes an imported key
type Response struct {
	Path      string `json:"path" yaml:"path"`
	Kind      string `json:"kind" yaml:"kind"`
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	KeyID     string `json:"key_id" yaml:"key_id"`
	BitLen    int    `json:"bit_len" yaml:"bit_len"`
	Private   bool   `json:"private" yaml:"private"`

	// RSA only
	Exponent    uint32 `json:"exponent,omitempty" yaml:"exponent,omitempty"`
	Modulus     string `json:"modulus,omitempty" yaml:"modulus,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`

	Key interfaces.ExportedKey `json:"-" yaml:"-"`
}

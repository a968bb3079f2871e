package interfaces

import (
	"github.com/deploymenttheory/go-keyblob/internal/types"
)

// BlobHeaderReader provides methods for reading a key blob header
type BlobHeaderReader interface {
	// BlobType returns the blob type (bType)
	BlobType() types.BlobTypeT

	// Version returns the blob format version (bVersion)
	Version() uint8

	// AlgorithmID returns the key algorithm identifier (aiKeyAlg)
	AlgorithmID() types.AlgIdT

	// AlgorithmName returns the CryptoAPI name of the algorithm
	AlgorithmName() string

	// Header returns a copy of the decoded header
	Header() types.BlobHeaderT
}

// ExportedKey is the caller-facing form of a parsed key blob
type ExportedKey interface {
	// Kind returns the key family
	Kind() types.KeyKindT
}

// KeyBlobParser decodes the key material that follows a blob header.
// A parser is constructed for a single Parse call followed by Export.
type KeyBlobParser interface {
	// Parse consumes the bytes after the header and returns how many were used
	Parse(data []byte) (int, error)

	// Export converts the parsed fields into the caller-facing key
	Export() (ExportedKey, error)
}

package keyblob

import (
	"fmt"

	"github.com/deploymenttheory/go-keyblob/internal/codec"
	"github.com/deploymenttheory/go-keyblob/internal/interfaces"
	"github.com/deploymenttheory/go-keyblob/internal/types"
)

// blobHeaderReader implements the BlobHeaderReader interface
type blobHeaderReader struct {
	header *types.BlobHeaderT
}

// Ensure blobHeaderReader implements the BlobHeaderReader interface
var _ interfaces.BlobHeaderReader = (*blobHeaderReader)(nil)

// NewBlobHeaderReader creates a new BlobHeaderReader from raw blob data
func NewBlobHeaderReader(data []byte) (interfaces.BlobHeaderReader, error) {
	header, _, err := ReadBlobHeader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse blob header: %w", err)
	}

	return &blobHeaderReader{header: header}, nil
}

// ReadBlobHeader decodes the BLOBHEADER at the start of data and returns
// the offset at which the key material begins.
func ReadBlobHeader(data []byte) (*types.BlobHeaderT, int, error) {
	if len(data) < types.BlobHeaderSize {
		return nil, 0, fmt.Errorf("%w: blob header needs %d bytes, got %d", types.ErrTooShort, types.BlobHeaderSize, len(data))
	}

	r := codec.NewReader(data[:types.BlobHeaderSize])
	header := &types.BlobHeaderT{}

	// Lengths were checked above, so these reads cannot fail
	bType, _ := r.ReadUint8()
	header.BType = types.BlobTypeT(bType)
	header.BVersion, _ = r.ReadUint8()
	header.Reserved, _ = r.ReadUint16()
	alg, _ := r.ReadUint32()
	header.AiKeyAlg = types.AlgIdT(alg)

	return header, r.Offset(), nil
}

// BlobType returns the blob type
func (bhr *blobHeaderReader) BlobType() types.BlobTypeT {
	return bhr.header.BType
}

// Version returns the blob format version
func (bhr *blobHeaderReader) Version() uint8 {
	return bhr.header.BVersion
}

// AlgorithmID returns the key algorithm identifier
func (bhr *blobHeaderReader) AlgorithmID() types.AlgIdT {
	return bhr.header.AiKeyAlg
}

// AlgorithmName returns the CryptoAPI name of the algorithm
func (bhr *blobHeaderReader) AlgorithmName() string {
	return bhr.header.AiKeyAlg.String()
}

// Header returns a copy of the decoded header
func (bhr *blobHeaderReader) Header() types.BlobHeaderT {
	return *bhr.header
}

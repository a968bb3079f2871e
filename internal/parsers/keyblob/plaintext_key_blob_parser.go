package keyblob

import (
	"fmt"

	"github.com/deploymenttheory/go-keyblob/internal/codec"
	"github.com/deploymenttheory/go-keyblob/internal/interfaces"
	"github.com/deploymenttheory/go-keyblob/internal/types"
)

// plaintextKeyBlobParser implements the KeyBlobParser interface for PLAINTEXTKEYBLOB
type plaintextKeyBlobParser struct {
	key []byte
}

// Ensure plaintextKeyBlobParser implements the KeyBlobParser interface
var _ interfaces.KeyBlobParser = (*plaintextKeyBlobParser)(nil)

// NewPlaintextKeyBlobParser creates a parser for the body of a PLAINTEXTKEYBLOB
func NewPlaintextKeyBlobParser() interfaces.KeyBlobParser {
	return &plaintextKeyBlobParser{}
}

// Parse reads dwKeySize followed by exactly dwKeySize key bytes.
// Any trailing or missing byte invalidates the blob.
func (p *plaintextKeyBlobParser) Parse(data []byte) (int, error) {
	r := codec.NewReader(data)

	length, err := r.ReadUint32()
	if err != nil {
		return 0, fmt.Errorf("failed to read key length: %w", err)
	}

	if uint64(length) != uint64(r.Remaining()) {
		return 0, fmt.Errorf("%w: declared key length %d, %d bytes remain", types.ErrLengthMismatch, length, r.Remaining())
	}

	p.key = r.ReadRest()
	return r.Offset(), nil
}

// Export returns the key with its AES label. The label is resolved here
// rather than in Parse, so an odd-sized key parses but does not export.
func (p *plaintextKeyBlobParser) Export() (interfaces.ExportedKey, error) {
	if p.key == nil {
		return nil, fmt.Errorf("%w: plaintext key blob not parsed", types.ErrLengthMismatch)
	}

	label, ok := types.AesKeyLabels[len(p.key)]
	if !ok {
		return nil, fmt.Errorf("%w: %d-byte key", types.ErrUnsupportedKeySize, len(p.key))
	}

	key := make([]byte, len(p.key))
	copy(key, p.key)
	return &types.SymmetricKey{Label: label, Key: key}, nil
}

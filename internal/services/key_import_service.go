package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/deploymenttheory/go-keyblob/internal/interfaces"
	"github.com/deploymenttheory/go-keyblob/internal/log"
	"github.com/deploymenttheory/go-keyblob/internal/parsers/keyblob"
	"github.com/deploymenttheory/go-keyblob/internal/types"
)

// blobKey selects a parser by expected key kind and blob type
type blobKey struct {
	kind  types.KeyKindT
	bType types.BlobTypeT
}

// blobParsers is the only place blob types are mapped to parsers
var blobParsers = map[blobKey]func() interfaces.KeyBlobParser{
	{types.KeyKindSymmetric, types.PlaintextKeyBlob}: keyblob.NewPlaintextKeyBlobParser,
	{types.KeyKindRSA, types.PublicKeyBlob}:          keyblob.NewRSAPublicKeyBlobParser,
	{types.KeyKindRSA, types.PrivateKeyBlob}:         keyblob.NewRSAPrivateKeyBlobParser,
}

// allowedAlgorithms lists the aiKeyAlg values accepted per key kind
var allowedAlgorithms = map[types.KeyKindT][]types.AlgIdT{
	types.KeyKindSymmetric: {types.CalgAes128, types.CalgAes192, types.CalgAes256},
	types.KeyKindRSA:       {types.CalgRsaKeyx},
}

// KeyImportService turns raw key containers into exported keys.
// It holds no per-call state and is safe for concurrent use.
type KeyImportService struct {
	logger log.Logger
}

// KeyImportOption configures a KeyImportService
type KeyImportOption func(*KeyImportService)

// WithLogger sets the logger used for debug diagnostics
func WithLogger(l log.Logger) KeyImportOption {
	return func(s *KeyImportService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewKeyImportService creates a new key import service
func NewKeyImportService(opts ...KeyImportOption) *KeyImportService {
	s := &KeyImportService{logger: log.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Import decodes raw as a key of the given kind. Every failure, whatever
// its cause, is reported as ok == false.
func (s *KeyImportService) Import(kind types.KeyKindT, raw []byte) (interfaces.ExportedKey, bool) {
	if kind == types.KeyKindRSA {
		// Self-describing encodings first; a failure here only means
		// "not PEM/DER/OpenSSH" and falls through to blob parsing.
		if key, err := DecodeRSAKey(raw); err == nil {
			return key, true
		}
	}

	key, _, err := s.parseBlob(kind, raw)
	if err != nil {
		s.logger.Debug(context.Background(), "key blob rejected", "kind", kind.String(), "size", len(raw), "reason", err.Error())
		return nil, false
	}
	return key, true
}

// ImportSymmetric decodes raw as a PLAINTEXTKEYBLOB holding an AES key
func (s *KeyImportService) ImportSymmetric(raw []byte) (*types.SymmetricKey, bool) {
	key, ok := s.Import(types.KeyKindSymmetric, raw)
	if !ok {
		return nil, false
	}
	sym, ok := key.(*types.SymmetricKey)
	return sym, ok
}

// ImportRSA decodes raw as an RSA key in PEM, DER, OpenSSH or key blob form
func (s *KeyImportService) ImportRSA(raw []byte) (*types.RSAKey, bool) {
	key, ok := s.Import(types.KeyKindRSA, raw)
	if !ok {
		return nil, false
	}
	rsaKey, ok := key.(*types.RSAKey)
	return rsaKey, ok
}

// parseBlob runs the header/registry/algorithm checks and the selected
// parser. It returns the exported key and the total bytes consumed.
func (s *KeyImportService) parseBlob(kind types.KeyKindT, raw []byte) (interfaces.ExportedKey, int, error) {
	header, off, err := keyblob.ReadBlobHeader(raw)
	if err != nil {
		return nil, 0, err
	}

	newParser, ok := blobParsers[blobKey{kind: kind, bType: header.BType}]
	if !ok {
		return nil, 0, fmt.Errorf("%w: blob type 0x%02x for %s keys", types.ErrUnknownTag, uint8(header.BType), kind)
	}

	if !slices.Contains(allowedAlgorithms[kind], header.AiKeyAlg) {
		return nil, 0, fmt.Errorf("%w: algorithm 0x%08x for %s keys", types.ErrUnknownTag, uint32(header.AiKeyAlg), kind)
	}

	parser := newParser()
	n, err := parser.Parse(raw[off:])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse %s: %w", header.BType, err)
	}

	key, err := parser.Export()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to export %s: %w", header.BType, err)
	}
	return key, off + n, nil
}

package services

import (
	"context"
	"encoding/binary"
	"slices"

	"github.com/deploymenttheory/go-keyblob/internal/interfaces"
	"github.com/deploymenttheory/go-keyblob/internal/parsers/keyblob"
	"github.com/deploymenttheory/go-keyblob/internal/types"
)

// BlobMatch is a key blob found inside a larger buffer
type BlobMatch struct {
	// Offset of the BLOBHEADER in the scanned buffer
	Offset int

	// Length of the blob, header included
	Length int

	Header types.BlobHeaderT
	Key    interfaces.ExportedKey
}

// scanCheckInterval is how many bytes Scan walks between context checks
const scanCheckInterval = 1 << 20

// kindForBlobType returns the key kind whose parsers handle bType
func kindForBlobType(bType types.BlobTypeT) (types.KeyKindT, bool) {
	for k := range blobParsers {
		if k.bType == bType {
			return k.kind, true
		}
	}
	return 0, false
}

// Scan looks for key blobs of the given kinds (all kinds when none are
// given) at every offset of data. Matches do not overlap and are returned
// in offset order.
func (s *KeyImportService) Scan(ctx context.Context, data []byte, kinds ...types.KeyKindT) ([]BlobMatch, error) {
	if len(kinds) == 0 {
		kinds = []types.KeyKindT{types.KeyKindSymmetric, types.KeyKindRSA}
	}

	var matches []BlobMatch
	nextCheck := 0
	for off := 0; off+types.BlobHeaderSize <= len(data); {
		if off >= nextCheck {
			if err := ctx.Err(); err != nil {
				return matches, err
			}
			nextCheck = off + scanCheckInterval
		}

		window, kind, hr, ok := candidateWindow(data, off, kinds)
		if !ok {
			off++
			continue
		}

		key, n, err := s.parseBlob(kind, window)
		if err != nil {
			off++
			continue
		}

		matches = append(matches, BlobMatch{Offset: off, Length: n, Header: hr.Header(), Key: key})
		s.logger.Debug(ctx, "key blob found", "offset", off, "type", hr.BlobType().String(), "algorithm", hr.AlgorithmName(), "length", n)
		off += n
	}
	return matches, nil
}

// candidateWindow applies the cheap header checks at off and returns the
// slice to hand to the blob parser. Plaintext blobs must end exactly at
// their declared key length, so their window is cut to size.
func candidateWindow(data []byte, off int, kinds []types.KeyKindT) ([]byte, types.KeyKindT, interfaces.BlobHeaderReader, bool) {
	kind, ok := kindForBlobType(types.BlobTypeT(data[off]))
	if !ok || !slices.Contains(kinds, kind) {
		return nil, 0, nil, false
	}

	hr, err := keyblob.NewBlobHeaderReader(data[off:])
	if err != nil {
		return nil, 0, nil, false
	}
	if hr.Version() != types.CurBlobVersion || hr.Header().Reserved != 0 {
		return nil, 0, nil, false
	}
	if !slices.Contains(allowedAlgorithms[kind], hr.AlgorithmID()) {
		return nil, 0, nil, false
	}

	if hr.BlobType() != types.PlaintextKeyBlob {
		return data[off:], kind, hr, true
	}

	bodyStart := off + types.BlobHeaderSize
	if bodyStart+types.PlaintextKeyHeaderSize > len(data) {
		return nil, 0, nil, false
	}
	keyLen := int(binary.LittleEndian.Uint32(data[bodyStart:]))
	if _, ok := types.AesKeyLabels[keyLen]; !ok {
		return nil, 0, nil, false
	}
	end := bodyStart + types.PlaintextKeyHeaderSize + keyLen
	if end > len(data) {
		return nil, 0, nil, false
	}
	return data[off:end], kind, hr, true
}

package keyblob

import (
	"fmt"
	"math/big"

	"github.com/deploymenttheory/go-keyblob/internal/codec"
	"github.com/deploymenttheory/go-keyblob/internal/types"
)

// aesAlgorithms maps AES key lengths to their CryptoAPI algorithm ids
var aesAlgorithms = map[int]types.AlgIdT{
	16: types.CalgAes128,
	24: types.CalgAes192,
	32: types.CalgAes256,
}

// writeBlobHeader writes a BLOBHEADER with the current blob version
func writeBlobHeader(w *codec.Writer, bType types.BlobTypeT, alg types.AlgIdT) {
	w.WriteUint8(uint8(bType))
	w.WriteUint8(types.CurBlobVersion)
	w.WriteUint16(0)
	w.WriteUint32(uint32(alg))
}

// BuildPlaintextKeyBlob encodes an AES key as a PLAINTEXTKEYBLOB
func BuildPlaintextKeyBlob(key *types.SymmetricKey) ([]byte, error) {
	alg, ok := aesAlgorithms[len(key.Key)]
	if !ok {
		return nil, fmt.Errorf("%w: %d-byte key", types.ErrUnsupportedKeySize, len(key.Key))
	}

	w := codec.NewWriter(types.BlobHeaderSize + types.PlaintextKeyHeaderSize + len(key.Key))
	writeBlobHeader(w, types.PlaintextKeyBlob, alg)
	w.WriteUint32(uint32(len(key.Key)))
	w.WriteBytes(key.Key)
	return w.Bytes(), nil
}

// blobBitLen rounds the modulus size up so every private field has a whole
// number of bytes.
func blobBitLen(n *big.Int) int {
	return (n.BitLen() + 15) / 16 * 16
}

func writeRSAPubKey(w *codec.Writer, magic string, key *types.RSAKey, bitlen int) error {
	w.WriteBytes([]byte(magic))
	w.WriteUint32(uint32(bitlen))
	w.WriteUint32(key.E)
	if err := w.WriteBigInt(key.N, bitlen); err != nil {
		return fmt.Errorf("failed to write modulus: %w", err)
	}
	return nil
}

// BuildRSAPublicKeyBlob encodes the public half of key as a PUBLICKEYBLOB
func BuildRSAPublicKeyBlob(key *types.RSAKey) ([]byte, error) {
	if key.N == nil || key.N.Sign() <= 0 {
		return nil, fmt.Errorf("%w: missing modulus", types.ErrLengthMismatch)
	}

	bitlen := blobBitLen(key.N)
	w := codec.NewWriter(types.BlobHeaderSize + types.RsaPubKeySize + bitlen/8)
	writeBlobHeader(w, types.PublicKeyBlob, types.CalgRsaKeyx)
	if err := writeRSAPubKey(w, types.RsaPublicMagic, key, bitlen); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// BuildRSAPrivateKeyBlob encodes a two-prime private key as a PRIVATEKEYBLOB
func BuildRSAPrivateKeyBlob(key *types.RSAKey) ([]byte, error) {
	if key.N == nil || key.N.Sign() <= 0 {
		return nil, fmt.Errorf("%w: missing modulus", types.ErrLengthMismatch)
	}
	if !key.IsPrivate() || len(key.Primes) != 2 || key.Dp == nil || key.Dq == nil || key.Qinv == nil {
		return nil, fmt.Errorf("%w: private key blob needs d, two primes and CRT values", types.ErrLengthMismatch)
	}

	bitlen := blobBitLen(key.N)
	w := codec.NewWriter(types.BlobHeaderSize + types.RsaPubKeySize + bitlen/8*2 + bitlen/16*5)
	writeBlobHeader(w, types.PrivateKeyBlob, types.CalgRsaKeyx)
	if err := writeRSAPubKey(w, types.RsaPrivateMagic, key, bitlen); err != nil {
		return nil, err
	}

	fields := []struct {
		name   string
		value  *big.Int
		bitlen int
	}{
		{"prime1", key.Primes[0], bitlen / 2},
		{"prime2", key.Primes[1], bitlen / 2},
		{"exponent1", key.Dp, bitlen / 2},
		{"exponent2", key.Dq, bitlen / 2},
		{"coefficient", key.Qinv, bitlen / 2},
		{"privateExponent", key.D, bitlen},
	}
	for _, f := range fields {
		if err := w.WriteBigInt(f.value, f.bitlen); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.name, err)
		}
	}
	return w.Bytes(), nil
}

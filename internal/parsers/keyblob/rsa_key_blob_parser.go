package keyblob

import (
	"fmt"
	"math/big"

	"github.com/deploymenttheory/go-keyblob/internal/codec"
	"github.com/deploymenttheory/go-keyblob/internal/interfaces"
	"github.com/deploymenttheory/go-keyblob/internal/types"
)

// rsaKeyState holds the RSAPUBKEY fields shared by public and private blobs
type rsaKeyState struct {
	bitlen uint32
	e      uint32
	n      *big.Int
}

// parseRSAPublic reads RSAPUBKEY and the modulus from r into st.
//
// The modulus occupies bitlen/8 bytes. A bitlen that is not a multiple of 8
// truncates that byte count, and the bigint length check then rejects it.
func parseRSAPublic(r *codec.Reader, magic string, st *rsaKeyState) error {
	if r.Remaining() < types.RsaPubKeySize {
		return fmt.Errorf("%w: RSAPUBKEY needs %d bytes, got %d", types.ErrTooShort, types.RsaPubKeySize, r.Remaining())
	}

	m, _ := r.ReadBytes(4)
	if string(m) != magic {
		return fmt.Errorf("%w: magic %q, want %q", types.ErrUnknownTag, m, magic)
	}
	bitlen, _ := r.ReadUint32()
	e, _ := r.ReadUint32()

	if bitlen == 0 {
		return fmt.Errorf("%w: zero modulus length", types.ErrLengthMismatch)
	}

	n, err := r.ReadBigInt(int(bitlen/8), int(bitlen))
	if err != nil {
		return fmt.Errorf("failed to read modulus: %w", err)
	}

	st.bitlen = bitlen
	st.e = e
	st.n = n
	return nil
}

// rsaPublicKeyBlobParser implements the KeyBlobParser interface for PUBLICKEYBLOB
type rsaPublicKeyBlobParser struct {
	rsaKeyState
}

// rsaPrivateKeyBlobParser implements the KeyBlobParser interface for PRIVATEKEYBLOB
type rsaPrivateKeyBlobParser struct {
	rsaKeyState

	prime1          *big.Int
	prime2          *big.Int
	exponent1       *big.Int
	exponent2       *big.Int
	coefficient     *big.Int
	privateExponent *big.Int
}

// Ensure interface compliance
var _ interfaces.KeyBlobParser = (*rsaPublicKeyBlobParser)(nil)
var _ interfaces.KeyBlobParser = (*rsaPrivateKeyBlobParser)(nil)

// NewRSAPublicKeyBlobParser creates a parser for the body of a PUBLICKEYBLOB
func NewRSAPublicKeyBlobParser() interfaces.KeyBlobParser {
	return &rsaPublicKeyBlobParser{}
}

// NewRSAPrivateKeyBlobParser creates a parser for the body of a PRIVATEKEYBLOB
func NewRSAPrivateKeyBlobParser() interfaces.KeyBlobParser {
	return &rsaPrivateKeyBlobParser{}
}

// Parse reads RSAPUBKEY ("RSA1") and the modulus. Bytes after the modulus
// are not inspected.
func (p *rsaPublicKeyBlobParser) Parse(data []byte) (int, error) {
	r := codec.NewReader(data)
	if err := parseRSAPublic(r, types.RsaPublicMagic, &p.rsaKeyState); err != nil {
		return 0, err
	}
	return r.Offset(), nil
}

// Export returns the modulus and public exponent
func (p *rsaPublicKeyBlobParser) Export() (interfaces.ExportedKey, error) {
	if p.n == nil {
		return nil, fmt.Errorf("%w: public key blob not parsed", types.ErrLengthMismatch)
	}
	return &types.RSAKey{N: new(big.Int).Set(p.n), E: p.e}, nil
}

// Parse reads the public prefix ("RSA2") and then each private field in
// order. The first field that fails stops the parse; later fields stay nil.
func (p *rsaPrivateKeyBlobParser) Parse(data []byte) (int, error) {
	r := codec.NewReader(data)
	if err := parseRSAPublic(r, types.RsaPrivateMagic, &p.rsaKeyState); err != nil {
		return 0, err
	}

	halfBytes, halfBits := int(p.bitlen/16), int(p.bitlen/2)
	fullBytes, fullBits := int(p.bitlen/8), int(p.bitlen)

	fields := []struct {
		name   string
		dst    **big.Int
		nbytes int
		bitlen int
	}{
		{"prime1", &p.prime1, halfBytes, halfBits},
		{"prime2", &p.prime2, halfBytes, halfBits},
		{"exponent1", &p.exponent1, halfBytes, halfBits},
		{"exponent2", &p.exponent2, halfBytes, halfBits},
		{"coefficient", &p.coefficient, halfBytes, halfBits},
		{"privateExponent", &p.privateExponent, fullBytes, fullBits},
	}

	for _, f := range fields {
		v, err := r.ReadBigInt(f.nbytes, f.bitlen)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", f.name, err)
		}
		*f.dst = v
	}

	return r.Offset(), nil
}

// Export returns n, e and d together with the primes and CRT values
func (p *rsaPrivateKeyBlobParser) Export() (interfaces.ExportedKey, error) {
	if p.n == nil || p.privateExponent == nil {
		return nil, fmt.Errorf("%w: private key blob not parsed", types.ErrLengthMismatch)
	}

	return &types.RSAKey{
		N:      new(big.Int).Set(p.n),
		E:      p.e,
		D:      new(big.Int).Set(p.privateExponent),
		Primes: []*big.Int{new(big.Int).Set(p.prime1), new(big.Int).Set(p.prime2)},
		Dp:     new(big.Int).Set(p.exponent1),
		Dq:     new(big.Int).Set(p.exponent2),
		Qinv:   new(big.Int).Set(p.coefficient),
	}, nil
}

// Package types implements the data structures of CryptoAPI key blobs.
// Layouts follow the BLOBHEADER, PUBLICKEYBLOB, PRIVATEKEYBLOB and
// PLAINTEXTKEYBLOB definitions from wincrypt.h.
package types

import "math/big"

// Blob Header
// Every key blob starts with a BLOBHEADER (a.k.a. PUBLICKEYSTRUC).

// BlobHeaderSize is the size, in bytes, of a BLOBHEADER.
const BlobHeaderSize = 8

// BlobTypeT identifies the structural format of a key blob.
type BlobTypeT uint8

// AlgIdT identifies the algorithm a key is intended for (ALG_ID).
type AlgIdT uint32

// BlobHeaderT is the fixed header present at the start of every key blob.
// Reference: BLOBHEADER
type BlobHeaderT struct {
	// The blob type. (bType)
	BType BlobTypeT

	// The blob format version. (bVersion)
	// Always CurBlobVersion for blobs produced by CryptExportKey; not
	// enforced when parsing.
	BVersion uint8

	// Reserved, must be zero when written. (reserved)
	Reserved uint16

	// The algorithm identifier of the key. (aiKeyAlg)
	AiKeyAlg AlgIdT
}

// Blob types (bType)
const (
	// PublicKeyBlob holds the public half of a key pair.
	PublicKeyBlob BlobTypeT = 0x06

	// PrivateKeyBlob holds a full public/private key pair.
	PrivateKeyBlob BlobTypeT = 0x07

	// PlaintextKeyBlob holds an unencrypted session key.
	PlaintextKeyBlob BlobTypeT = 0x08
)

// CurBlobVersion is the blob version written by current CryptoAPI providers.
const CurBlobVersion uint8 = 0x02

// Algorithm identifiers (aiKeyAlg)
const (
	CalgAes128  AlgIdT = 0x0000660e
	CalgAes192  AlgIdT = 0x0000660f
	CalgAes256  AlgIdT = 0x00006610
	CalgRsaKeyx AlgIdT = 0x0000a400
)

// String returns the CryptoAPI name of the blob type.
func (t BlobTypeT) String() string {
	switch t {
	case PublicKeyBlob:
		return "PUBLICKEYBLOB"
	case PrivateKeyBlob:
		return "PRIVATEKEYBLOB"
	case PlaintextKeyBlob:
		return "PLAINTEXTKEYBLOB"
	default:
		return "UNKNOWN"
	}
}

// String returns the CryptoAPI name of the algorithm identifier.
func (a AlgIdT) String() string {
	switch a {
	case CalgAes128:
		return "CALG_AES_128"
	case CalgAes192:
		return "CALG_AES_192"
	case CalgAes256:
		return "CALG_AES_256"
	case CalgRsaKeyx:
		return "CALG_RSA_KEYX"
	default:
		return "UNKNOWN"
	}
}

// Key kinds

// KeyKindT selects the family of keys a caller expects from a blob.
type KeyKindT int

const (
	KeyKindSymmetric KeyKindT = iota
	KeyKindRSA
)

// String returns the lower-case name used on the command line.
func (k KeyKindT) String() string {
	switch k {
	case KeyKindSymmetric:
		return "symmetric"
	case KeyKindRSA:
		return "rsa"
	default:
		return "unknown"
	}
}

// Plaintext key blob

// PlaintextKeyHeaderSize is the size of the dwKeySize field that follows the BLOBHEADER.
const PlaintextKeyHeaderSize = 4

// AES key labels by key length in bytes.
var AesKeyLabels = map[int]string{
	16: "AES-128",
	24: "AES-192",
	32: "AES-256",
}

// SymmetricKey is the exported form of a plaintext key blob.
type SymmetricKey struct {
	// Label names the cipher and key size, e.g. "AES-128".
	Label string

	// Key is the raw key material.
	Key []byte
}

// Kind reports KeyKindSymmetric.
func (k *SymmetricKey) Kind() KeyKindT { return KeyKindSymmetric }

// RSA key blobs

// RSA public key magic values (RSAPUBKEY.magic)
const (
	RsaPublicMagic  = "RSA1"
	RsaPrivateMagic = "RSA2"
)

// RsaPubKeySize is the size of RSAPUBKEY: magic(4) + bitlen(4) + pubexp(4).
const RsaPubKeySize = 12

// RSAKey is the exported form of an RSA public or private key blob.
// D and the CRT values are nil for public keys.
type RSAKey struct {
	// Modulus.
	N *big.Int

	// Public exponent.
	E uint32

	// Private exponent.
	D *big.Int

	// Primes holds prime1 and prime2 when present.
	Primes []*big.Int

	// CRT values: exponent1, exponent2 and coefficient.
	Dp   *big.Int
	Dq   *big.Int
	Qinv *big.Int
}

// Kind reports KeyKindRSA.
func (k *RSAKey) Kind() KeyKindT { return KeyKindRSA }

// IsPrivate reports whether the key carries a private exponent.
func (k *RSAKey) IsPrivate() bool { return k.D != nil }

// BitLen returns the modulus size in bits.
func (k *RSAKey) BitLen() int {
	if k.N == nil {
		return 0
	}
	return k.N.BitLen()
}

package services

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"golang.org/x/crypto/ssh"

	"github.com/deploymenttheory/go-keyblob/internal/types"
)

// ErrUnrecognizedKeyEncoding is returned when data is not a PEM, DER or
// OpenSSH encoded RSA key.
var ErrUnrecognizedKeyEncoding = errors.New("unrecognized RSA key encoding")

// DecodeRSAKey decodes a self-describing RSA key encoding: PEM (PKCS#1,
// PKCS#8, PKIX, OpenSSH), an authorized_keys line, or bare DER.
func DecodeRSAKey(data []byte) (*types.RSAKey, error) {
	trimmed := bytes.TrimSpace(data)

	if block, _ := pem.Decode(trimmed); block != nil {
		return decodePEMBlock(block)
	}

	if bytes.HasPrefix(trimmed, []byte(ssh.KeyAlgoRSA+" ")) {
		pub, _, _, _, err := ssh.ParseAuthorizedKey(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnrecognizedKeyEncoding, err)
		}
		cpk, ok := pub.(ssh.CryptoPublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: %s key", ErrUnrecognizedKeyEncoding, pub.Type())
		}
		return fromCryptoKey(cpk.CryptoPublicKey())
	}

	return decodeDER(data)
}

func decodePEMBlock(block *pem.Block) (*types.RSAKey, error) {
	switch block.Type {
	case "PUBLIC KEY", "RSA PUBLIC KEY":
		return decodeDER(block.Bytes)
	default:
		// RSA PRIVATE KEY, PRIVATE KEY and OPENSSH PRIVATE KEY
		key, err := ssh.ParseRawPrivateKey(pem.EncodeToMemory(block))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnrecognizedKeyEncoding, err)
		}
		return fromCryptoKey(key)
	}
}

func decodeDER(der []byte) (*types.RSAKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return fromCryptoKey(key)
	}
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return fromCryptoKey(key)
	}
	if key, err := x509.ParsePKIXPublicKey(der); err == nil {
		return fromCryptoKey(key)
	}
	if key, err := x509.ParsePKCS1PublicKey(der); err == nil {
		return fromCryptoKey(key)
	}
	return nil, ErrUnrecognizedKeyEncoding
}

func fromCryptoKey(k any) (*types.RSAKey, error) {
	var (
		key *types.RSAKey
		err error
	)
	switch v := k.(type) {
	case *rsa.PrivateKey:
		key, err = types.RSAKeyFromPrivate(v)
	case *rsa.PublicKey:
		key, err = types.RSAKeyFromPublic(v)
	default:
		return nil, fmt.Errorf("%w: %T is not an RSA key", ErrUnrecognizedKeyEncoding, k)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedKeyEncoding, err)
	}
	return key, nil
}

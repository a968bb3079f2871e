package types

import (
	"crypto/rsa"
	"fmt"
	"math"
	"math/big"
)

// RSAKeyFromPublic converts a crypto/rsa public key.
func RSAKeyFromPublic(pub *rsa.PublicKey) (*RSAKey, error) {
	if pub == nil || pub.N == nil {
		return nil, fmt.Errorf("%w: nil public key", ErrLengthMismatch)
	}
	if pub.E <= 0 || uint64(pub.E) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: public exponent %d", ErrUnsupportedKeySize, pub.E)
	}
	return &RSAKey{N: new(big.Int).Set(pub.N), E: uint32(pub.E)}, nil
}

// RSAKeyFromPrivate converts a two-prime crypto/rsa private key.
func RSAKeyFromPrivate(priv *rsa.PrivateKey) (*RSAKey, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrLengthMismatch)
	}
	key, err := RSAKeyFromPublic(&priv.PublicKey)
	if err != nil {
		return nil, err
	}
	if priv.D == nil {
		return nil, fmt.Errorf("%w: missing private exponent", ErrLengthMismatch)
	}
	key.D = new(big.Int).Set(priv.D)

	if len(priv.Primes) == 2 {
		p, q := priv.Primes[0], priv.Primes[1]
		key.Primes = []*big.Int{new(big.Int).Set(p), new(big.Int).Set(q)}
		key.Dp = new(big.Int).Mod(priv.D, new(big.Int).Sub(p, big.NewInt(1)))
		key.Dq = new(big.Int).Mod(priv.D, new(big.Int).Sub(q, big.NewInt(1)))
		key.Qinv = new(big.Int).ModInverse(q, p)
	}
	return key, nil
}

// PublicKey returns the key as a crypto/rsa public key.
func (k *RSAKey) PublicKey() *rsa.PublicKey {
	return &rsa.PublicKey{N: new(big.Int).Set(k.N), E: int(k.E)}
}

// PrivateKey returns the key as a crypto/rsa private key. The key is not
// validated; blobs from untrusted sources may hold inconsistent values.
func (k *RSAKey) PrivateKey() (*rsa.PrivateKey, error) {
	if !k.IsPrivate() {
		return nil, fmt.Errorf("%w: key has no private exponent", ErrUnknownTag)
	}
	if len(k.Primes) != 2 || k.Dp == nil || k.Dq == nil || k.Qinv == nil {
		return nil, fmt.Errorf("%w: key has no CRT parameters", ErrLengthMismatch)
	}

	priv := &rsa.PrivateKey{
		PublicKey: *k.PublicKey(),
		D:         new(big.Int).Set(k.D),
		Primes:    []*big.Int{new(big.Int).Set(k.Primes[0]), new(big.Int).Set(k.Primes[1])},
	}
	priv.Precomputed.Dp = new(big.Int).Set(k.Dp)
	priv.Precomputed.Dq = new(big.Int).Set(k.Dq)
	priv.Precomputed.Qinv = new(big.Int).Set(k.Qinv)
	return priv, nil
}

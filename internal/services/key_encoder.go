package services

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	"golang.org/x/crypto/ssh"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/deploymenttheory/go-keyblob/internal/interfaces"
	"github.com/deploymenttheory/go-keyblob/internal/parsers/keyblob"
	"github.com/deploymenttheory/go-keyblob/internal/types"
)

// keyIDNamespace scopes the name-based UUIDs handed out by KeyID
var keyIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/deploymenttheory/go-keyblob"))

const tinkAesGcmTypeURL = "type.googleapis.com/google.crypto.tink.AesGcmKey"

// KeyID returns a stable identifier for a key. Public and private forms of
// the same RSA key share an id.
func KeyID(key interfaces.ExportedKey) uuid.UUID {
	switch k := key.(type) {
	case *types.SymmetricKey:
		return uuid.NewSHA1(keyIDNamespace, append([]byte(k.Label+":"), k.Key...))
	case *types.RSAKey:
		return uuid.NewSHA1(keyIDNamespace, []byte(fmt.Sprintf("rsa:%x:%d", k.N, k.E)))
	default:
		return uuid.Nil
	}
}

// EncodeRSAKeyPEM encodes a private key as PKCS#1 and a public key as PKIX
func EncodeRSAKeyPEM(key *types.RSAKey) ([]byte, error) {
	if key.IsPrivate() {
		priv, err := key.PrivateKey()
		if err != nil {
			return nil, err
		}
		return pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)}), nil
	}

	der, err := x509.MarshalPKIXPublicKey(key.PublicKey())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// EncodeRSAKeyAuthorizedKey encodes the public half of key as an authorized_keys line
func EncodeRSAKeyAuthorizedKey(key *types.RSAKey) ([]byte, error) {
	pub, err := ssh.NewPublicKey(key.PublicKey())
	if err != nil {
		return nil, fmt.Errorf("failed to build ssh public key: %w", err)
	}
	return ssh.MarshalAuthorizedKey(pub), nil
}

// RSAKeyFingerprint returns the OpenSSH SHA256 fingerprint of the public key
func RSAKeyFingerprint(key *types.RSAKey) (string, error) {
	pub, err := ssh.NewPublicKey(key.PublicKey())
	if err != nil {
		return "", fmt.Errorf("failed to build ssh public key: %w", err)
	}
	return ssh.FingerprintSHA256(pub), nil
}

// EncodeKeyBlob re-encodes an exported key as a CryptoAPI key blob
func EncodeKeyBlob(key interfaces.ExportedKey) ([]byte, error) {
	switch k := key.(type) {
	case *types.SymmetricKey:
		return keyblob.BuildPlaintextKeyBlob(k)
	case *types.RSAKey:
		if k.IsPrivate() {
			return keyblob.BuildRSAPrivateKeyBlob(k)
		}
		return keyblob.BuildRSAPublicKeyBlob(k)
	default:
		return nil, fmt.Errorf("%w: %T", types.ErrUnknownTag, key)
	}
}

// WriteTinkKeyset writes an AES-128 or AES-256 key as a cleartext Tink
// AES-GCM keyset in JSON form.
func WriteTinkKeyset(key *types.SymmetricKey, w io.Writer) error {
	if len(key.Key) != 16 && len(key.Key) != 32 {
		return fmt.Errorf("%w: tink AES-GCM takes 128 or 256-bit keys, got %d bytes", types.ErrUnsupportedKeySize, len(key.Key))
	}

	// AesGcmKey{version: 0, key_value: key}
	var value []byte
	value = protowire.AppendTag(value, 1, protowire.VarintType)
	value = protowire.AppendVarint(value, 0)
	value = protowire.AppendTag(value, 3, protowire.BytesType)
	value = protowire.AppendBytes(value, key.Key)

	keysetJSON := fmt.Sprintf(`{
		"primaryKeyId": 1,
		"key": [{
			"keyData": {
				"typeUrl": %q,
				"keyMaterialType": "SYMMETRIC",
				"value": %q
			},
			"outputPrefixType": "RAW",
			"keyId": 1,
			"status": "ENABLED"
		}]
	}`, tinkAesGcmTypeURL, base64.StdEncoding.EncodeToString(value))

	handle, err := insecurecleartextkeyset.Read(keyset.NewJSONReader(strings.NewReader(keysetJSON)))
	if err != nil {
		return fmt.Errorf("failed to load tink keyset: %w", err)
	}
	if err := insecurecleartextkeyset.Write(handle, keyset.NewJSONWriter(w)); err != nil {
		return fmt.Errorf("failed to write tink keyset: %w", err)
	}
	return nil
}

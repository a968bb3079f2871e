package keyblob

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-keyblob/internal/codec"
	"github.com/deploymenttheory/go-keyblob/internal/types"
)

// createTestHeader creates a BLOBHEADER with the given type and algorithm
func createTestHeader(bType types.BlobTypeT, alg types.AlgIdT) []byte {
	w := codec.NewWriter(types.BlobHeaderSize)
	writeBlobHeader(w, bType, alg)
	return w.Bytes()
}

// createTestPlaintextBody creates a PLAINTEXTKEYBLOB body declaring length bytes
func createTestPlaintextBody(declared uint32, key []byte) []byte {
	w := codec.NewWriter(4 + len(key))
	w.WriteUint32(declared)
	w.WriteBytes(key)
	return w.Bytes()
}

// createTestRSABody creates an RSAPUBKEY followed by the given raw fields
func createTestRSABody(magic string, bitlen, e uint32, fields ...[]byte) []byte {
	w := codec.NewWriter(64)
	w.WriteBytes([]byte(magic))
	w.WriteUint32(bitlen)
	w.WriteUint32(e)
	for _, f := range fields {
		w.WriteBytes(f)
	}
	return w.Bytes()
}

func filled(n int, b byte) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func TestReadBlobHeader(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		expected    types.BlobHeaderT
		expectError bool
	}{
		{
			name:     "plaintext AES-256 header",
			data:     []byte{0x08, 0x02, 0x00, 0x00, 0x10, 0x66, 0x00, 0x00},
			expected: types.BlobHeaderT{BType: types.PlaintextKeyBlob, BVersion: 2, AiKeyAlg: types.CalgAes256},
		},
		{
			name:     "private RSA header with reserved bits and trailing data",
			data:     []byte{0x07, 0x02, 0x34, 0x12, 0x00, 0xa4, 0x00, 0x00, 0xde, 0xad},
			expected: types.BlobHeaderT{BType: types.PrivateKeyBlob, BVersion: 2, Reserved: 0x1234, AiKeyAlg: types.CalgRsaKeyx},
		},
		{
			name:        "seven bytes",
			data:        []byte{0x08, 0x02, 0x00, 0x00, 0x10, 0x66, 0x00},
			expectError: true,
		},
		{
			name:        "empty",
			data:        nil,
			expectError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			header, off, err := ReadBlobHeader(tc.data)
			if tc.expectError {
				assert.ErrorIs(t, err, types.ErrTooShort)
				assert.Nil(t, header)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, *header)
			assert.Equal(t, types.BlobHeaderSize, off)
		})
	}
}

func TestBlobHeaderReader(t *testing.T) {
	reader, err := NewBlobHeaderReader(createTestHeader(types.PublicKeyBlob, types.CalgRsaKeyx))
	require.NoError(t, err)

	assert.Equal(t, types.PublicKeyBlob, reader.BlobType())
	assert.Equal(t, types.CurBlobVersion, reader.Version())
	assert.Equal(t, types.CalgRsaKeyx, reader.AlgorithmID())
	assert.Equal(t, "CALG_RSA_KEYX", reader.AlgorithmName())
	assert.Equal(t, types.PublicKeyBlob, reader.Header().BType)

	reader, err = NewBlobHeaderReader([]byte{0x01, 0x02, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, "UNKNOWN", reader.BlobType().String())
	assert.Equal(t, "UNKNOWN", reader.AlgorithmName())

	_, err = NewBlobHeaderReader([]byte{0x08})
	assert.ErrorIs(t, err, types.ErrTooShort)
}

func TestPlaintextKeyBlobParser(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		expectedLabel string
		parseErr      error
		exportErr     error
	}{
		{name: "AES-128", body: createTestPlaintextBody(16, filled(16, 0x11)), expectedLabel: "AES-128"},
		{name: "AES-192", body: createTestPlaintextBody(24, filled(24, 0x22)), expectedLabel: "AES-192"},
		{name: "AES-256", body: createTestPlaintextBody(32, filled(32, 0x33)), expectedLabel: "AES-256"},
		{name: "one byte short", body: createTestPlaintextBody(16, filled(15, 0x11)), parseErr: types.ErrLengthMismatch},
		{name: "one byte extra", body: createTestPlaintextBody(16, filled(17, 0x11)), parseErr: types.ErrLengthMismatch},
		{name: "huge declared length", body: createTestPlaintextBody(0xffffffff, filled(16, 0x11)), parseErr: types.ErrLengthMismatch},
		{name: "truncated length field", body: []byte{0x10, 0x00}, parseErr: types.ErrTooShort},
		{name: "unlabelled size parses but does not export", body: createTestPlaintextBody(8, filled(8, 0x44)), exportErr: types.ErrUnsupportedKeySize},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parser := NewPlaintextKeyBlobParser()
			n, err := parser.Parse(tc.body)
			if tc.parseErr != nil {
				assert.ErrorIs(t, err, tc.parseErr)
				_, err = parser.Export()
				assert.Error(t, err, "export after failed parse must fail")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tc.body), n)

			exported, err := parser.Export()
			if tc.exportErr != nil {
				assert.ErrorIs(t, err, tc.exportErr)
				return
			}
			require.NoError(t, err)

			key, ok := exported.(*types.SymmetricKey)
			require.True(t, ok)
			assert.Equal(t, tc.expectedLabel, key.Label)
			assert.Equal(t, tc.body[4:], key.Key)
			assert.Equal(t, types.KeyKindSymmetric, key.Kind())
		})
	}
}

func TestPlaintextKeyBlobParserDoesNotAlias(t *testing.T) {
	body := createTestPlaintextBody(16, filled(16, 0x11))
	parser := NewPlaintextKeyBlobParser()
	_, err := parser.Parse(body)
	require.NoError(t, err)

	body[4] = 0xff
	exported, err := parser.Export()
	require.NoError(t, err)
	assert.Equal(t, filled(16, 0x11), exported.(*types.SymmetricKey).Key)
}

func TestRSAPublicKeyBlobParser(t *testing.T) {
	modulus := filled(128, 0xab)

	tests := []struct {
		name        string
		body        []byte
		expectedErr error
	}{
		{name: "valid 1024-bit", body: createTestRSABody("RSA1", 1024, 65537, modulus)},
		{name: "trailing bytes ignored", body: createTestRSABody("RSA1", 1024, 65537, modulus, []byte{1, 2, 3})},
		{name: "wrong magic", body: createTestRSABody("RSA9", 1024, 65537, modulus), expectedErr: types.ErrUnknownTag},
		{name: "private magic", body: createTestRSABody("RSA2", 1024, 65537, modulus), expectedErr: types.ErrUnknownTag},
		{name: "lower-case magic", body: createTestRSABody("rsa1", 1024, 65537, modulus), expectedErr: types.ErrUnknownTag},
		{name: "modulus one byte short", body: createTestRSABody("RSA1", 1024, 65537, modulus[:127]), expectedErr: types.ErrLengthMismatch},
		{name: "bitlen not a multiple of 8", body: createTestRSABody("RSA1", 1020, 65537, modulus), expectedErr: types.ErrLengthMismatch},
		{name: "zero bitlen", body: createTestRSABody("RSA1", 0, 65537), expectedErr: types.ErrLengthMismatch},
		{name: "huge bitlen", body: createTestRSABody("RSA1", 0xfffffff8, 65537, modulus), expectedErr: types.ErrLengthMismatch},
		{name: "truncated RSAPUBKEY", body: []byte("RSA1\x00\x04"), expectedErr: types.ErrTooShort},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parser := NewRSAPublicKeyBlobParser()
			n, err := parser.Parse(tc.body)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, types.RsaPubKeySize+128, n)

			exported, err := parser.Export()
			require.NoError(t, err)
			key := exported.(*types.RSAKey)

			expectedN, ok := codec.DecodeBigInt(modulus, 1024)
			require.True(t, ok)
			assert.Zero(t, expectedN.Cmp(key.N))
			assert.Equal(t, uint32(65537), key.E)
			assert.Nil(t, key.D)
			assert.False(t, key.IsPrivate())
		})
	}
}

func TestRSAPrivateKeyBlobParser(t *testing.T) {
	half, full := filled(64, 0x01), filled(128, 0x02)

	t.Run("all fields", func(t *testing.T) {
		body := createTestRSABody("RSA2", 1024, 3, full, half, half, half, half, half, full)
		parser := NewRSAPrivateKeyBlobParser()
		n, err := parser.Parse(body)
		require.NoError(t, err)
		assert.Equal(t, len(body), n)

		exported, err := parser.Export()
		require.NoError(t, err)
		key := exported.(*types.RSAKey)
		assert.True(t, key.IsPrivate())
		assert.Equal(t, uint32(3), key.E)
		assert.Len(t, key.Primes, 2)
	})

	t.Run("public magic rejected", func(t *testing.T) {
		body := createTestRSABody("RSA1", 1024, 3, full, half, half, half, half, half, full)
		_, err := NewRSAPrivateKeyBlobParser().Parse(body)
		assert.ErrorIs(t, err, types.ErrUnknownTag)
	})

	t.Run("public prefix failure stops parse", func(t *testing.T) {
		parser := &rsaPrivateKeyBlobParser{}
		body := createTestRSABody("RSA2", 1024, 3, full[:100])
		_, err := parser.Parse(body)
		assert.ErrorIs(t, err, types.ErrLengthMismatch)
		assert.Nil(t, parser.n)
		assert.Nil(t, parser.prime1)
	})

	// Truncate each private field in turn: every earlier field must be
	// populated and no later field may be.
	names := []string{"prime1", "prime2", "exponent1", "exponent2", "coefficient", "privateExponent"}
	for i, name := range names {
		t.Run("truncated "+name, func(t *testing.T) {
			fields := [][]byte{full}
			for j := 0; j < i; j++ {
				fields = append(fields, half)
			}
			if i == len(names)-1 {
				fields = append(fields, full[:127])
			} else {
				fields = append(fields, half[:63])
			}

			parser := &rsaPrivateKeyBlobParser{}
			_, err := parser.Parse(createTestRSABody("RSA2", 1024, 3, fields...))
			assert.ErrorIs(t, err, types.ErrLengthMismatch)
			assert.Contains(t, err.Error(), name)

			values := []*big.Int{parser.prime1, parser.prime2, parser.exponent1, parser.exponent2, parser.coefficient, parser.privateExponent}
			for j, v := range values {
				if j < i {
					assert.NotNil(t, v, "%s should be set", names[j])
				} else {
					assert.Nil(t, v, "%s should not be set", names[j])
				}
			}

			_, err = parser.Export()
			assert.Error(t, err)
		})
	}
}

func TestRSAPrivateKeyBlobRoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	key, err := types.RSAKeyFromPrivate(priv)
	require.NoError(t, err)

	blob, err := BuildRSAPrivateKeyBlob(key)
	require.NoError(t, err)

	header, off, err := ReadBlobHeader(blob)
	require.NoError(t, err)
	assert.Equal(t, types.PrivateKeyBlob, header.BType)
	assert.Equal(t, types.CalgRsaKeyx, header.AiKeyAlg)

	parser := NewRSAPrivateKeyBlobParser()
	n, err := parser.Parse(blob[off:])
	require.NoError(t, err)
	assert.Equal(t, len(blob)-off, n)

	exported, err := parser.Export()
	require.NoError(t, err)
	got := exported.(*types.RSAKey)

	assert.Zero(t, priv.N.Cmp(got.N))
	assert.Equal(t, uint32(priv.E), got.E)
	assert.Zero(t, priv.D.Cmp(got.D))
	assert.Zero(t, priv.Primes[0].Cmp(got.Primes[0]))
	assert.Zero(t, priv.Primes[1].Cmp(got.Primes[1]))

	rebuilt, err := got.PrivateKey()
	require.NoError(t, err)
	assert.NoError(t, rebuilt.Validate())
}

func TestRSAPublicKeyBlobRoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	key, err := types.RSAKeyFromPublic(&priv.PublicKey)
	require.NoError(t, err)

	blob, err := BuildRSAPublicKeyBlob(key)
	require.NoError(t, err)

	parser := NewRSAPublicKeyBlobParser()
	_, err = parser.Parse(blob[types.BlobHeaderSize:])
	require.NoError(t, err)

	exported, err := parser.Export()
	require.NoError(t, err)
	assert.Zero(t, priv.N.Cmp(exported.(*types.RSAKey).N))
}

func TestBuildPlaintextKeyBlob(t *testing.T) {
	key := &types.SymmetricKey{Label: "AES-192", Key: filled(24, 0x5a)}
	blob, err := BuildPlaintextKeyBlob(key)
	require.NoError(t, err)

	header, off, err := ReadBlobHeader(blob)
	require.NoError(t, err)
	assert.Equal(t, types.CalgAes192, header.AiKeyAlg)

	parser := NewPlaintextKeyBlobParser()
	_, err = parser.Parse(blob[off:])
	require.NoError(t, err)
	exported, err := parser.Export()
	require.NoError(t, err)
	assert.Equal(t, key, exported)

	_, err = BuildPlaintextKeyBlob(&types.SymmetricKey{Key: filled(7, 0)})
	assert.ErrorIs(t, err, types.ErrUnsupportedKeySize)
}

func TestBuildRSAPrivateKeyBlobRequiresCRT(t *testing.T) {
	_, err := BuildRSAPrivateKeyBlob(&types.RSAKey{N: big.NewInt(3233), E: 17, D: big.NewInt(2753)})
	assert.ErrorIs(t, err, types.ErrLengthMismatch)

	_, err = BuildRSAPublicKeyBlob(&types.RSAKey{E: 17})
	assert.ErrorIs(t, err, types.ErrLengthMismatch)
}

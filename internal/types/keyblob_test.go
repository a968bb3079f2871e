package types

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Exported keys reach output only through the formatters, never by direct
// encoding, so neither carries serialization tags.
func TestExportedKeysHaveNoEncodingTags(t *testing.T) {
	for _, v := range []any{SymmetricKey{}, RSAKey{}} {
		typ := reflect.TypeOf(v)
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			assert.Empty(t, f.Tag.Get("json"), "%s.%s", typ.Name(), f.Name)
			assert.Empty(t, f.Tag.Get("yaml"), "%s.%s", typ.Name(), f.Name)
		}
	}
}

func TestBlobTypeString(t *testing.T) {
	tests := []struct {
		bType    BlobTypeT
		expected string
	}{
		{PlaintextKeyBlob, "PLAINTEXTKEYBLOB"},
		{PublicKeyBlob, "PUBLICKEYBLOB"},
		{PrivateKeyBlob, "PRIVATEKEYBLOB"},
		{BlobTypeT(0x0c), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.bType.String())
	}
}

package importkey

import (
	"fmt"

	"github.com/deploymenttheory/go-keyblob/internal/interfaces"
	"github.com/deploymenttheory/go-keyblob/internal/services"
	"github.com/deploymenttheory/go-keyblob/internal/types"
	"github.com/deploymenttheory/go-keyblob/pkg/app"
)

// Handle processes a key import request
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}
	kind, _ := app.ParseKeyKind(req.Kind)

	ctx.Log(fmt.Sprintf("Importing %s key from: %s", kind, req.Path))

	// 2. Read and decode the input
	data, err := app.ReadFile(ctx.Fs, req.Path, req.MaxSize)
	if err != nil {
		return nil, err
	}
	raw, err := app.DecodeInput(req.Encoding, data)
	if err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, "cannot decode "+req.Path, err)
	}

	// 3. Import
	svc := services.NewKeyImportService(services.WithLogger(ctx.Logger.With("path", req.Path)))
	key, ok := svc.Import(kind, raw)
	if !ok {
		return nil, app.NewError(app.ErrCodeKeyNotFound, fmt.Sprintf("no %s key found in %s", kind, req.Path), nil)
	}

	response, err := describeKey(req.Path, key)
	if err != nil {
		return nil, err
	}

	ctx.Log(fmt.Sprintf("Imported %s key %s", response.Algorithm, response.KeyID))
	return response, nil
}

// describeKey builds the reportable view of an exported key
func describeKey(path string, key interfaces.ExportedKey) (*Response, error) {
	response := &Response{
		Path:  path,
		Kind:  key.Kind().String(),
		KeyID: services.KeyID(key).String(),
		Key:   key,
	}

	switch k := key.(type) {
	case *types.SymmetricKey:
		response.Algorithm = k.Label
		response.BitLen = len(k.Key) * 8
		response.Private = true
	case *types.RSAKey:
		response.BitLen = k.BitLen()
		response.Algorithm = fmt.Sprintf("RSA-%d", response.BitLen)
		response.Private = k.IsPrivate()
		response.Exponent = k.E
		response.Modulus = k.N.Text(16)

		fp, err := services.RSAKeyFingerprint(k)
		if err != nil {
			return nil, app.NewError(app.ErrCodeInvalidInput, "cannot fingerprint key", err)
		}
		response.Fingerprint = fp
	}
	return response, nil
}

package importkey

import (
	"github.com/deploymenttheory/go-keyblob/pkg/app"
)

// Validate validates an import request
func (r *Request) Validate() error {
	if r.Path == "" {
		return app.NewError(app.ErrCodeInvalidInput, "key file path is required", nil)
	}

	if _, err := app.ParseKeyKind(r.Kind); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid key kind", err)
	}

	if r.Encoding != "" && !app.ValidEncoding(r.Encoding) {
		return app.NewError(app.ErrCodeInvalidInput, "invalid input encoding "+r.Encoding+" (valid: raw, hex, base64)", nil)
	}

	if r.MaxSize < 0 {
		return app.NewError(app.ErrCodeInvalidInput, "max size cannot be negative", nil)
	}

	return nil
}

package scan

import (
	"github.com/deploymenttheory/go-keyblob/internal/types"
	"github.com/deploymenttheory/go-keyblob/pkg/app"
)

const maxWorkers = 64

// Validate validates a scan request
func (r *Request) Validate() error {
	if len(r.Paths) == 0 {
		return app.NewError(app.ErrCodeInvalidInput, "at least one file is required", nil)
	}

	for _, p := range r.Paths {
		if p == "" {
			return app.NewError(app.ErrCodeInvalidInput, "empty file path", nil)
		}
	}

	if _, err := r.keyKinds(); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid key kind", err)
	}

	if r.Workers < 1 || r.Workers > maxWorkers {
		return app.NewError(app.ErrCodeInvalidInput, "workers must be between 1 and 64", nil)
	}

	if r.MaxFileSize < 0 {
		return app.NewError(app.ErrCodeInvalidInput, "max file size cannot be negative", nil)
	}

	if r.Timeout < 0 {
		return app.NewError(app.ErrCodeInvalidInput, "timeout cannot be negative", nil)
	}

	return nil
}

// keyKinds parses the requested kinds, nil meaning all kinds
func (r *Request) keyKinds() ([]types.KeyKindT, error) {
	var kinds []types.KeyKindT
	for _, k := range r.Kinds {
		kind, err := app.ParseKeyKind(k)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

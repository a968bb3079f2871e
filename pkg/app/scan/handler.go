package scan

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"

	"github.com/deploymenttheory/go-keyblob/internal/services"
	"github.com/deploymenttheory/go-keyblob/internal/types"
	"github.com/deploymenttheory/go-keyblob/pkg/app"
)

// Handle scans every requested file for embedded key blobs. Per-file
// failures are reported in the response; an error is returned when the
// request is invalid, the scan times out, or no file could be scanned.
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}
	kinds, _ := req.keyKinds()

	ctx.Log(fmt.Sprintf("Scanning %d file(s) with %d worker(s)", len(req.Paths), req.Workers))

	timeout := req.Timeout
	if timeout == 0 {
		timeout = ctx.DefaultTimeout
	}
	scanCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		scanCtx, cancel = ctx.WithTimeout(timeout)
		defer cancel()
	}

	// 2. Scan files concurrently
	svc := services.NewKeyImportService(services.WithLogger(ctx.Logger))
	var done atomic.Int64

	p := pool.NewWithResults[FileResult]().WithMaxGoroutines(req.Workers)
	for _, path := range req.Paths {
		p.Go(func() FileResult {
			result := scanFile(scanCtx, svc, path, req.MaxFileSize, kinds)
			n := done.Add(1)
			ctx.Progress("Scanned "+path, int(n*100/int64(len(req.Paths))))
			return result
		})
	}
	files := p.Wait()

	// app.Context shadows Err with its error writer, so ask the embedded
	// context. The deadline timer may not have fired yet on a fast scan.
	expired := errors.Is(scanCtx.Context.Err(), context.DeadlineExceeded)
	if expired || (timeout > 0 && time.Since(startTime) >= timeout) {
		return nil, app.NewError(app.ErrCodeTimeout, fmt.Sprintf("scan did not finish within %v", timeout), context.DeadlineExceeded)
	}

	// 3. Collect results in path order
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	response := &Response{Files: files}
	var errs error
	for _, f := range files {
		response.TotalBlobs += len(f.Blobs)
		if f.Error != "" {
			response.Failed++
			errs = multierr.Append(errs, fmt.Errorf("%s: %s", f.Path, f.Error))
		}
	}
	response.ScanTime = time.Since(startTime)

	if errs != nil {
		for _, err := range multierr.Errors(errs) {
			ctx.Error(err.Error())
		}
		if response.Failed == len(files) {
			return nil, app.NewError(app.ErrCodeFileAccess, "no file could be scanned", errs)
		}
	}

	ctx.Log(fmt.Sprintf("Scan completed: found %d blob(s) in %v", response.TotalBlobs, response.ScanTime))
	return response, nil
}

// scanFile reads one file and reports the blobs found in it
func scanFile(ctx *app.Context, svc *services.KeyImportService, path string, maxSize int64, kinds []types.KeyKindT) FileResult {
	result := FileResult{Path: path, Blobs: []BlobResult{}}

	data, err := app.ReadFile(ctx.Fs, path, maxSize)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Size = int64(len(data))

	matches, err := svc.Scan(ctx.Context, data, kinds...)
	if err != nil {
		result.Error = err.Error()
	}

	for _, m := range matches {
		result.Blobs = append(result.Blobs, describeMatch(m))
	}
	return result
}

// describeMatch builds the reportable view of a blob match
func describeMatch(m services.BlobMatch) BlobResult {
	blob := BlobResult{
		Offset:    m.Offset,
		Length:    m.Length,
		BlobType:  m.Header.BType.String(),
		Algorithm: m.Header.AiKeyAlg.String(),
		Kind:      m.Key.Kind().String(),
		KeyID:     services.KeyID(m.Key).String(),
	}

	switch k := m.Key.(type) {
	case *types.SymmetricKey:
		blob.Label = k.Label
		blob.BitLen = len(k.Key) * 8
	case *types.RSAKey:
		blob.BitLen = k.BitLen()
		blob.Label = fmt.Sprintf("RSA-%d", blob.BitLen)
		if k.IsPrivate() {
			blob.Label += " (private)"
		}
	}
	return blob
}

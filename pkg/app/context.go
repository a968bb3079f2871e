package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-keyblob/internal/log"
)

// Context holds application-wide configuration and state
type Context struct {
	context.Context

	// Output preferences
	OutputFormat string
	Verbose      bool
	Quiet        bool

	// Fs is where input files are read from
	Fs afero.Fs

	// Out receives command output, Err receives progress and errors
	Out io.Writer
	Err io.Writer

	Logger log.Logger

	// DefaultTimeout bounds long-running operations that set no timeout
	DefaultTimeout time.Duration

	// Progress reporting
	ProgressCallback func(message string, percent int)
}

// NewContext creates a new application context
func NewContext() *Context {
	return &Context{
		Context:        context.Background(),
		Fs:             afero.NewOsFs(),
		Out:            os.Stdout,
		Err:            os.Stderr,
		Logger:         log.Nop(),
		DefaultTimeout: 5 * time.Minute,
	}
}

// WithTimeout creates a context with timeout
func (c *Context) WithTimeout(timeout time.Duration) (*Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.Context, timeout)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// SetProgress sets the progress callback function
func (c *Context) SetProgress(callback func(string, int)) {
	c.ProgressCallback = callback
}

// Progress reports progress if callback is set
func (c *Context) Progress(message string, percent int) {
	if c.ProgressCallback != nil {
		c.ProgressCallback(message, percent)
	}
}

// Log outputs a message based on verbosity settings
func (c *Context) Log(message string) {
	if !c.Quiet && c.Verbose && c.Err != nil {
		fmt.Fprintln(c.Err, message)
	}
}

// Error outputs an error message unless quiet
func (c *Context) Error(message string) {
	if !c.Quiet && c.Err != nil {
		fmt.Fprintln(c.Err, "Error:", message)
	}
}

// Package unpack runs the integer codec over hex input from the command line.
package unpack

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-keyblob/internal/codec"
	"github.com/deploymenttheory/go-keyblob/pkg/app"
)

// Request represents an unpack request
type Request struct {
	Format string
	Hex    string
}

// Field is one decoded value
type Field struct {
	Index int    `json:"index" yaml:"index"`
	Code  string `json:"code" yaml:"code"`
	Bits  int    `json:"bits" yaml:"bits"`
	Value uint64 `json:"value" yaml:"value"`
}

// Response holds the decoded values in format order
type Response struct {
	Format string  `json:"format" yaml:"format"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Validate validates an unpack request
func (r *Request) Validate() error {
	if r.Format == "" {
		return app.NewError(app.ErrCodeInvalidInput, "format is required", nil)
	}
	if _, err := codec.ParseFormat(r.Format); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid format", err)
	}
	return nil
}

// Handle decodes req.Hex according to req.Format
func Handle(req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	data, err := hex.DecodeString(strings.Join(strings.Fields(req.Hex), ""))
	if err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, "invalid hex input", err)
	}

	values, err := codec.Unpack(req.Format, data)
	if err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, "cannot unpack input", err)
	}

	codes := strings.TrimPrefix(req.Format, "<")
	widths, _ := codec.ParseFormat(req.Format)

	response := &Response{Format: req.Format, Fields: make([]Field, len(values))}
	for i, v := range values {
		response.Fields[i] = Field{Index: i, Code: string(codes[i]), Bits: widths[i].Bits(), Value: v}
	}
	return response, nil
}

// FormatOutput writes unpacked values to w
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		encoder.SetIndent(2)
		return encoder.Encode(response)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "#\tCODE\tBITS\tVALUE\tHEX\n")
		for _, f := range response.Fields {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t0x%0*x\n", f.Index, f.Code, f.Bits, f.Value, f.Bits/4, f.Value)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

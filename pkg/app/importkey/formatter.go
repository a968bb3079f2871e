package importkey

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-keyblob/internal/services"
	"github.com/deploymenttheory/go-keyblob/internal/types"
	"github.com/deploymenttheory/go-keyblob/pkg/app"
)

// Formats lists the output formats FormatOutput accepts
var Formats = []string{"table", "json", "yaml", "pem", "ssh", "tink", "blob", "raw"}

// FormatOutput writes an imported key to w in the requested format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		return formatJSON(w, response)
	case "yaml":
		return formatYAML(w, response)
	case "table":
		return formatTable(w, response)
	case "pem":
		k, err := rsaKey(response, format)
		if err != nil {
			return err
		}
		out, err := services.EncodeRSAKeyPEM(k)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case "ssh":
		k, err := rsaKey(response, format)
		if err != nil {
			return err
		}
		out, err := services.EncodeRSAKeyAuthorizedKey(k)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case "tink":
		k, err := symmetricKey(response, format)
		if err != nil {
			return err
		}
		return services.WriteTinkKeyset(k, w)
	case "blob":
		out, err := services.EncodeKeyBlob(response.Key)
		if err != nil {
			return err
		}
		return writeBinary(w, out)
	case "raw":
		k, err := symmetricKey(response, format)
		if err != nil {
			return err
		}
		return writeBinary(w, k.Key)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func rsaKey(response *Response, format string) (*types.RSAKey, error) {
	k, ok := response.Key.(*types.RSAKey)
	if !ok {
		return nil, app.NewError(app.ErrCodeUnsupportedFormat, format+" output needs an RSA key", nil)
	}
	return k, nil
}

func symmetricKey(response *Response, format string) (*types.SymmetricKey, error) {
	k, ok := response.Key.(*types.SymmetricKey)
	if !ok {
		return nil, app.NewError(app.ErrCodeUnsupportedFormat, format+" output needs a symmetric key", nil)
	}
	return k, nil
}

// writeBinary writes b as is, or as hex when w is a terminal
func writeBinary(w io.Writer, b []byte) error {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, err := fmt.Fprintln(w, hex.EncodeToString(b))
		return err
	}
	_, err := w.Write(b)
	return err
}

// formatTable formats the key as a two column table
func formatTable(w io.Writer, response *Response) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "FIELD\tVALUE\n")
	fmt.Fprintf(tw, "-----\t-----\n")
	fmt.Fprintf(tw, "Path\t%s\n", response.Path)
	fmt.Fprintf(tw, "Kind\t%s\n", response.Kind)
	fmt.Fprintf(tw, "Algorithm\t%s\n", response.Algorithm)
	fmt.Fprintf(tw, "Key ID\t%s\n", response.KeyID)
	fmt.Fprintf(tw, "Bits\t%d\n", response.BitLen)
	fmt.Fprintf(tw, "Private\t%t\n", response.Private)
	if response.Fingerprint != "" {
		fmt.Fprintf(tw, "Exponent\t%d\n", response.Exponent)
		fmt.Fprintf(tw, "Fingerprint\t%s\n", response.Fingerprint)
	}

	return tw.Flush()
}

// formatJSON formats the key as JSON
func formatJSON(w io.Writer, response *Response) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// formatYAML formats the key as YAML
func formatYAML(w io.Writer, response *Response) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(response)
}

package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-keyblob/pkg/app/importkey"
)

var (
	importKind     string
	importEncoding string
	importFormat   string
)

var importCmd = &cobra.Command{
	Use:   "import [key-file]",
	Short: "Import a key from a CryptoAPI blob or a PEM, DER or OpenSSH file",
	Long: `Import a single key and print or re-encode it.

Symmetric keys are read from PLAINTEXTKEYBLOB containers holding AES-128,
AES-192 or AES-256 keys. RSA keys are read from PEM, DER or OpenSSH
encodings first and from PUBLICKEYBLOB/PRIVATEKEYBLOB containers otherwise.

Examples:
  # Show an RSA private key blob
  keyblob import key.bin --kind rsa

  # Convert a hex encoded AES blob to a Tink keyset
  keyblob import aes.hex --kind symmetric --encoding hex --format tink

  # Re-encode an RSA blob as PEM
  keyblob import key.bin --kind rsa --format pem > key.pem`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importKind, "kind", "k", "", "expected key kind (symmetric, rsa)")
	importCmd.Flags().StringVarP(&importEncoding, "encoding", "e", "", "input encoding (raw, hex, base64)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "output format ("+strings.Join(importkey.Formats, ", ")+"), overrides --output")
}

func runImport(cmd *cobra.Command, path string) error {
	ctx := newAppContext(cmd)

	request := &importkey.Request{
		Path:     path,
		Kind:     orDefault(importKind, config.DefaultKind),
		Encoding: orDefault(importEncoding, config.InputEncoding),
		MaxSize:  config.Scan.MaxFileSize,
	}

	response, err := importkey.Handle(ctx, request)
	if err != nil {
		return err
	}

	return importkey.FormatOutput(ctx.Out, response, orDefault(importFormat, ctx.OutputFormat))
}

// orDefault returns v unless it is empty
func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

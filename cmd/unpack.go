package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-keyblob/pkg/app/unpack"
)

var unpackCmd = &cobra.Command{
	Use:   "unpack [format] [hex...]",
	Short: "Decode little-endian unsigned integers from hex",
	Long: `Decode hex input as consecutive little-endian unsigned integers.

Format codes: B (8-bit), H (16-bit), I or L (32-bit), Q (64-bit), with an
optional leading '<'. The input must be exactly as long as the format.

Examples:
  # Decode a BLOBHEADER
  keyblob unpack '<BBHI' 0802 0000 0e660000`,

	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := newAppContext(cmd)

		response, err := unpack.Handle(&unpack.Request{
			Format: args[0],
			Hex:    strings.Join(args[1:], ""),
		})
		if err != nil {
			return err
		}
		return unpack.FormatOutput(ctx.Out, response, ctx.OutputFormat)
	},
}

func init() {
	rootCmd.AddCommand(unpackCmd)
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-keyblob/pkg/app/scan"
)

var (
	scanKinds       []string
	scanWorkers     int
	scanMaxFileSize int64
	scanTimeout     time.Duration
)

var scanCmd = &cobra.Command{
	Use:   "scan [file...]",
	Short: "Find key blobs embedded in binaries, memory dumps or registry hives",
	Long: `Scan files for CryptoAPI key blobs at any offset.

A candidate needs a known blob type, version 2, a zero reserved field and
an AES or RSA key exchange algorithm id, and must then import cleanly.

Examples:
  # Scan a memory dump for any key blob
  keyblob scan memory.dmp

  # Look only for AES keys across many files
  keyblob scan --kind symmetric --workers 8 *.dll

  # JSON report
  keyblob scan -o json sample.exe`,

	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringSliceVarP(&scanKinds, "kind", "k", nil, "key kinds to look for (symmetric, rsa)")
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "files scanned concurrently (default from config)")
	scanCmd.Flags().Int64Var(&scanMaxFileSize, "max-size", 0, "skip files larger than this many bytes (default from config)")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "abort the scan after this long (default from config, else 5m)")
}

func runScan(cmd *cobra.Command, paths []string) error {
	ctx := newAppContext(cmd)
	if ctx.Verbose {
		ctx.SetProgress(func(message string, percent int) {
			fmt.Fprintf(ctx.Err, "[%3d%%] %s\n", percent, message)
		})
	}

	request := &scan.Request{
		Paths:       paths,
		Kinds:       scanKinds,
		Workers:     scanWorkers,
		MaxFileSize: scanMaxFileSize,
		Timeout:     scanTimeout,
	}
	if !cmd.Flags().Changed("workers") {
		request.Workers = config.Scan.Workers
	}
	if !cmd.Flags().Changed("max-size") {
		request.MaxFileSize = config.Scan.MaxFileSize
	}
	if !cmd.Flags().Changed("timeout") {
		request.Timeout = config.Scan.Timeout
	}

	response, err := scan.Handle(ctx, request)
	if err != nil {
		return err
	}

	return scan.FormatOutput(ctx.Out, response, ctx.OutputFormat)
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-keyblob/internal/log"
	"github.com/deploymenttheory/go-keyblob/pkg/app"
)

var (
	// Global output flags
	verbose      bool
	quiet        bool
	outputFormat string
	configFile   string

	config *Config
	logger log.Logger = log.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "keyblob",
	Short: "Import and locate Windows CryptoAPI key blobs",
	Long: `keyblob decodes Windows CryptoAPI key containers (PLAINTEXTKEYBLOB,
PUBLICKEYBLOB and PRIVATEKEYBLOB) and re-exports the keys they hold.

Commands:
  import      Import a key from a blob, PEM, DER or OpenSSH file
  scan        Find key blobs embedded in arbitrary binaries
  unpack      Decode little-endian integers from hex`,
	Version:       "0.1.0-dev",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(afero.NewOsFs(), configFile)
		if err != nil {
			return err
		}
		config = cfg

		if !cmd.Flags().Changed("output") {
			outputFormat = cfg.OutputFormat
		}

		logger, err = newLogger(cfg.Log)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default keyblob-config.yaml in ., ./config, $HOME/.keyblob, /etc/keyblob)")

	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// newLogger builds the process logger from config and the verbosity flags
func newLogger(cfg LogConfig) (log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}

	return log.New(log.Options{
		App:        "keyblob",
		Level:      level,
		JSONFormat: cfg.JSON,
	}), nil
}

// newAppContext creates the application context shared by all commands
func newAppContext(cmd *cobra.Command) *app.Context {
	ctx := app.NewContext()
	ctx.Context = cmd.Context()
	ctx.OutputFormat = outputFormat
	ctx.Verbose = verbose
	ctx.Quiet = quiet
	ctx.Out = cmd.OutOrStdout()
	ctx.Err = cmd.ErrOrStderr()
	ctx.Logger = logger
	return ctx
}

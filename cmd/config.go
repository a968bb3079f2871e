package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Config holds settings read from keyblob-config.yaml and KEYBLOB_* env vars
type Config struct {
	DefaultKind   string     `mapstructure:"default_kind"`
	OutputFormat  string     `mapstructure:"output_format"`
	InputEncoding string     `mapstructure:"input_encoding"`
	Scan          ScanConfig `mapstructure:"scan"`
	Log           LogConfig  `mapstructure:"log"`
}

// ScanConfig holds defaults for the scan command
type ScanConfig struct {
	Workers     int           `mapstructure:"workers"`
	MaxFileSize int64         `mapstructure:"max_file_size"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// LoadConfig loads configuration using Viper. An explicit configFile must
// exist; otherwise the usual locations are searched and a missing file
// leaves the defaults in place.
func LoadConfig(fs afero.Fs, configFile string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("keyblob-config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.keyblob")
		v.AddConfigPath("/etc/keyblob")
	}

	// Set defaults
	v.SetDefault("default_kind", "rsa")
	v.SetDefault("output_format", "table")
	v.SetDefault("input_encoding", "raw")
	v.SetDefault("scan.workers", 4)
	v.SetDefault("scan.max_file_size", 256<<20)
	v.SetDefault("scan.timeout", time.Duration(0)) // 0 falls back to the app context default
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)

	// Allow environment variables, KEYBLOB_SCAN_WORKERS for scan.workers
	v.SetEnvPrefix("KEYBLOB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// Package config loads application configuration from environment
// variables and an optional YAML file, with explicit file values
// overriding the environment. Defaults come from struct tags so a
// zero-footprint start always works.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces the environment variables (REVX_SERVER_PORT, ...).
const envPrefix = "REVX"

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Export   ExportConfig   `yaml:"export" envconfig:"EXPORT"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	// MaxUploadBytes caps the size of an uploaded result table.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"10485760" validate:"min=1"`

	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50" validate:"min=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25" validate:"min=0"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout stderr file both"`

	// FilePath receives log output when Output is "file" or "both".
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/revx.log"`
}

// AnalysisConfig contains the comparison engine's tunables.
type AnalysisConfig struct {
	// BeatThresholdPct is the Beat/Miss classification band in
	// percentage points. Deviations strictly above +T flag Beat,
	// strictly below -T flag Miss, everything else Inline.
	BeatThresholdPct float64 `yaml:"beat_threshold_pct" envconfig:"BEAT_THRESHOLD_PCT" default:"2.0" validate:"gt=0"`

	// FacetByPickedType splits summary groups by the broker's rating tag.
	FacetByPickedType bool `yaml:"facet_by_picked_type" envconfig:"FACET_BY_PICKED_TYPE" default:"false"`
}

// ExportConfig contains CSV export configuration.
type ExportConfig struct {
	// OutputDir is where the CLI drops exported CSV files.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"reports"`
}

// Load loads configuration from environment variables and an optional
// YAML file at configPath (skipped when empty or absent). Defaults come
// from struct tags; values present in the file override them.
func Load(configPath string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			fileCfg, err := loadFromFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = merge(cfg, *fileCfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Default returns the stock configuration without touching the
// environment or filesystem.
func Default() *Config {
	var cfg Config
	// envconfig applies struct-tag defaults even with no variables set;
	// an empty prefix lookup cannot fail here.
	_ = envconfig.Process("REVX_DEFAULTS_ONLY", &cfg)
	return &cfg
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge overlays file values onto the env-derived config; only fields
// the file actually set are applied.
func merge(envCfg, fileCfg Config) Config {
	out := envCfg
	if fileCfg.Server.Port != 0 {
		out.Server.Port = fileCfg.Server.Port
	}
	if fileCfg.Server.MaxUploadBytes != 0 {
		out.Server.MaxUploadBytes = fileCfg.Server.MaxUploadBytes
	}
	if fileCfg.Logging.Level != "" {
		out.Logging.Level = fileCfg.Logging.Level
	}
	if fileCfg.Logging.Format != "" {
		out.Logging.Format = fileCfg.Logging.Format
	}
	if fileCfg.Logging.Output != "" {
		out.Logging.Output = fileCfg.Logging.Output
	}
	if fileCfg.Logging.FilePath != "" {
		out.Logging.FilePath = fileCfg.Logging.FilePath
	}
	if fileCfg.Analysis.BeatThresholdPct != 0 {
		out.Analysis.BeatThresholdPct = fileCfg.Analysis.BeatThresholdPct
	}
	if fileCfg.Analysis.FacetByPickedType {
		out.Analysis.FacetByPickedType = true
	}
	if fileCfg.Export.OutputDir != "" {
		out.Export.OutputDir = fileCfg.Export.OutputDir
	}
	return out
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

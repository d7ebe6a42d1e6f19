// Package config loads engine configuration from a YAML file with
// environment overrides.
//
// Precedence, lowest to highest: built-in defaults, config file, EMFACTOR_*
// environment variables, CLI flags (applied by the CLI layer).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/greenledger/emfactor/internal/logging"
)

// Environment variable names honored by Load.
const (
	EnvLogLevel          = "EMFACTOR_LOG_LEVEL"
	EnvLogFormat         = "EMFACTOR_LOG_FORMAT"
	EnvDefaultRegion     = "EMFACTOR_DEFAULT_REGION"
	EnvEstimatorEndpoint = "EMFACTOR_ESTIMATOR_ENDPOINT"
	EnvEstimatorAPIKey   = "EMFACTOR_ESTIMATOR_API_KEY"
	EnvEstimatorModel    = "EMFACTOR_ESTIMATOR_MODEL"
)

// Config is the full engine configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Resolver  ResolverConfig  `yaml:"resolver"`
	Estimator EstimatorConfig `yaml:"estimator"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum level to emit ("trace".."error").
	Level string `yaml:"level"`

	// Format is "console" or "json".
	Format string `yaml:"format"`
}

// ToLoggingConfig converts to the logging package's config shape.
func (l LoggingConfig) ToLoggingConfig() logging.Config {
	return logging.Config{Level: l.Level, Format: l.Format}
}

// DatasetConfig points at the reference factor dataset.
type DatasetConfig struct {
	// Paths lists YAML dataset files, loaded and merged in order. Empty
	// means the embedded default dataset.
	Paths []string `yaml:"paths"`
}

// ResolverConfig tunes the layered resolver.
type ResolverConfig struct {
	// DefaultRegion is assumed when a request names no region.
	DefaultRegion string `yaml:"default_region"`

	// MaxAlternatives caps the runner-up list on each result.
	MaxAlternatives int `yaml:"max_alternatives"`

	// BatchConcurrency bounds parallel resolutions in batch mode.
	BatchConcurrency int `yaml:"batch_concurrency"`
}

// EstimatorConfig configures the last-resort estimation capability.
type EstimatorConfig struct {
	// Enabled turns the Layer 3 path on.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the chat-completions URL.
	Endpoint string `yaml:"endpoint"`

	// APIKey is the bearer token. Prefer the environment variable over the
	// config file for this one.
	APIKey string `yaml:"api_key"`

	// Model names the model to query.
	Model string `yaml:"model"`

	// TimeoutSeconds bounds each estimation call.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the configured estimator timeout as a duration.
func (e EstimatorConfig) Timeout() time.Duration {
	if e.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Resolver: ResolverConfig{
			DefaultRegion:    "India",
			MaxAlternatives:  3,
			BatchConcurrency: 8,
		},
		Estimator: EstimatorConfig{
			Enabled:        false,
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 15,
		},
	}
}

// DefaultPath returns the conventional config file location, or "" when the
// home directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".emfactor", "config.yaml")
}

// Load reads configuration from path, then applies environment overrides.
// A missing file is not an error; defaults apply. A present but malformed
// file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays EMFACTOR_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvDefaultRegion); v != "" {
		cfg.Resolver.DefaultRegion = v
	}
	if v := os.Getenv(EnvEstimatorEndpoint); v != "" {
		cfg.Estimator.Endpoint = v
		cfg.Estimator.Enabled = true
	}
	if v := os.Getenv(EnvEstimatorAPIKey); v != "" {
		cfg.Estimator.APIKey = v
	}
	if v := os.Getenv(EnvEstimatorModel); v != "" {
		cfg.Estimator.Model = v
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.Resolver.MaxAlternatives < 0 {
		return fmt.Errorf("resolver.max_alternatives must be >= 0, got %d", c.Resolver.MaxAlternatives)
	}
	if c.Resolver.BatchConcurrency < 1 {
		return fmt.Errorf("resolver.batch_concurrency must be >= 1, got %d", c.Resolver.BatchConcurrency)
	}
	if c.Estimator.Enabled && c.Estimator.Endpoint == "" {
		return fmt.Errorf("estimator.endpoint is required when the estimator is enabled")
	}
	if c.Estimator.TimeoutSeconds < 0 {
		return fmt.Errorf("estimator.timeout_seconds must be >= 0, got %d", c.Estimator.TimeoutSeconds)
	}
	return nil
}

// ParseBoolEnv reads a boolean environment variable, returning fallback when
// unset or unparseable.
func ParseBoolEnv(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/veritas/pkg/veritas/internalerr"
	"github.com/cognicore/veritas/pkg/veritas/preprocess"
)

// AppConfig is the full configuration of a preprocessing run.
type AppConfig struct {
	Pipeline preprocess.Config `toml:"pipeline" yaml:"pipeline"`
	Output   OutputConfig      `toml:"output" yaml:"output"`
	Stoplist StoplistConfig    `toml:"stoplist" yaml:"stoplist"`
	Dataset  DatasetConfig     `toml:"dataset" yaml:"dataset"`
	Store    StoreConfig       `toml:"store" yaml:"store"`
	Logging  LoggingConfig     `toml:"logging" yaml:"logging"`
}

// OutputConfig selects the pipeline output shape ("tokens" or "text").
type OutputConfig struct {
	Mode string `toml:"mode" yaml:"mode"`
}

// StoplistConfig points at a custom YAML stop-word list. Empty means the
// embedded English list.
type StoplistConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// DatasetConfig controls CSV loading.
type DatasetConfig struct {
	StripMarkup *bool `toml:"strip_markup" yaml:"strip_markup"`
	Limit       int   `toml:"limit" yaml:"limit"`
	Classes     int   `toml:"classes" yaml:"classes"`
}

// StoreConfig configures the corpus database. Empty Path disables it.
type StoreConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// DefaultConfig returns the configuration used when no file is supplied:
// a pure tokenization passthrough in token mode.
func DefaultConfig() AppConfig {
	return AppConfig{
		Output:  OutputConfig{Mode: "tokens"},
		Dataset: DatasetConfig{StripMarkup: boolPtr(false), Classes: 4},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads the provided config path, merging it onto the defaults.
// The format follows the extension: .yaml, .yml or .toml.
func Load(path string) (AppConfig, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("read config: %w", err)
	}

	var fileCfg AppConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(content, &fileCfg); err != nil {
			return AppConfig{}, fmt.Errorf("parse toml: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &fileCfg); err != nil {
			return AppConfig{}, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return AppConfig{}, fmt.Errorf("config file must be .toml, .yaml, or .yml: %w", internalerr.ErrInvalidConfig)
	}

	merged := mergeConfig(cfg, fileCfg)
	if err := merged.Validate(); err != nil {
		return AppConfig{}, err
	}
	return merged, nil
}

// Validate checks values that cannot be merged blindly.
func (cfg AppConfig) Validate() error {
	if _, err := preprocess.ParseMode(cfg.Output.Mode); err != nil {
		return fmt.Errorf("output: %v: %w", err, internalerr.ErrInvalidConfig)
	}
	if cfg.Dataset.Limit < 0 {
		return fmt.Errorf("dataset limit %d: %w", cfg.Dataset.Limit, internalerr.ErrInvalidConfig)
	}
	if cfg.Dataset.Classes < 0 {
		return fmt.Errorf("dataset classes %d: %w", cfg.Dataset.Classes, internalerr.ErrInvalidConfig)
	}
	return nil
}

// Mode returns the parsed output mode.
func (cfg AppConfig) Mode() preprocess.Mode {
	m, _ := preprocess.ParseMode(cfg.Output.Mode)
	return m
}

// The stage flags are taken from the file as a whole; false is a
// meaningful value for every one of them.
func mergeConfig(base, override AppConfig) AppConfig {
	base.Pipeline = override.Pipeline

	if override.Output.Mode != "" {
		base.Output.Mode = override.Output.Mode
	}
	if override.Stoplist.Path != "" {
		base.Stoplist.Path = override.Stoplist.Path
	}

	if override.Dataset.StripMarkup != nil {
		base.Dataset.StripMarkup = override.Dataset.StripMarkup
	}
	if override.Dataset.Limit != 0 {
		base.Dataset.Limit = override.Dataset.Limit
	}
	if override.Dataset.Classes != 0 {
		base.Dataset.Classes = override.Dataset.Classes
	}

	if override.Store.Path != "" {
		base.Store.Path = override.Store.Path
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	return base
}

func boolPtr(v bool) *bool {
	return &v
}

// SPDX-License-Identifier: MIT

// Package config loads run settings for the weights builder and the model
// selection run from YAML or TOML files, and builds the zap logger.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/spreg/autospace"
	"github.com/katalvlaran/spreg/geometry"
	"github.com/katalvlaran/spreg/weights"
)

var (
	// ErrUnsupportedFormat indicates a file extension other than .yaml, .yml or .toml.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")

	// ErrInvalidConfig indicates a value Validate rejects.
	ErrInvalidConfig = errors.New("config: invalid value")
)

// EnvLogLevel overrides Logging.Level when set.
const EnvLogLevel = "SPREG_LOG_LEVEL"

// Config is the complete run configuration.
type Config struct {
	Autospace AutospaceConfig `yaml:"autospace" toml:"autospace"`
	Weights   WeightsConfig   `yaml:"weights" toml:"weights"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// AutospaceConfig holds model selection settings.
type AutospaceConfig struct {
	PValue float64 `yaml:"p_value" toml:"p_value"`
	Combo  bool    `yaml:"combo" toml:"combo"`
}

// WeightsConfig selects and parameterizes the weights source.
type WeightsConfig struct {
	Kind        string         `yaml:"kind" toml:"kind"` // file, contiguity or distance
	RowStandard bool           `yaml:"row_standard" toml:"row_standard"`
	File        string         `yaml:"file,omitempty" toml:"file,omitempty"`
	Contiguity  string         `yaml:"contiguity,omitempty" toml:"contiguity,omitempty"` // rook or queen
	Distance    DistanceConfig `yaml:"distance" toml:"distance"`
}

// DistanceConfig mirrors weights.DistanceParams with configuration names.
type DistanceConfig struct {
	Mode        string  `yaml:"mode" toml:"mode"`
	Band        float64 `yaml:"band" toml:"band"`
	K           int     `yaml:"k" toml:"k"`
	Metric      string  `yaml:"metric" toml:"metric"`
	Exponent    float64 `yaml:"exponent" toml:"exponent"`
	IncludeSelf bool    `yaml:"include_self" toml:"include_self"`
}

// LoggingConfig configures NewLogger.
type LoggingConfig struct {
	Level       string `yaml:"level" toml:"level"`
	Development bool   `yaml:"development" toml:"development"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Autospace: AutospaceConfig{PValue: autospace.DefaultPValue},
		Weights: WeightsConfig{
			Kind:        weights.KindContiguity.String(),
			RowStandard: true,
			Contiguity:  geometry.Rook.String(),
			Distance: DistanceConfig{
				Mode:     geometry.FixedDistance.String(),
				Metric:   string(geometry.Euclidean),
				Exponent: 1,
			},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	var unmarshal func([]byte, any) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	case ".toml":
		unmarshal = toml.Unmarshal
	default:
		return nil, fmt.Errorf("Load(%q): %w", path, ErrUnsupportedFormat)
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("Load: %w", err)
	default:
		if err = unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("Load(%q): %w", path, err)
		}
	}

	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes c to path as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("Save: %w", err)
	}

	return nil
}

// Validate checks every field that has a closed set of values.
func (c *Config) Validate() error {
	if !(c.Autospace.PValue > 0 && c.Autospace.PValue < 1) {
		return fmt.Errorf("Validate: autospace.p_value=%g: %w", c.Autospace.PValue, ErrInvalidConfig)
	}
	switch c.Weights.Kind {
	case weights.KindFile.String():
		if c.Weights.File == "" {
			return fmt.Errorf("Validate: weights.file is required for kind %q: %w", c.Weights.Kind, ErrInvalidConfig)
		}
	case weights.KindContiguity.String():
		if _, err := c.Weights.ContiguityMode(); err != nil {
			return fmt.Errorf("Validate: %v: %w", err, ErrInvalidConfig)
		}
	case weights.KindDistance.String():
		if _, err := c.Weights.DistanceParams(); err != nil {
			return fmt.Errorf("Validate: %v: %w", err, ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("Validate: weights.kind %q: %w", c.Weights.Kind, ErrInvalidConfig)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("Validate: logging.level: %v: %w", err, ErrInvalidConfig)
	}

	return nil
}

// ContiguityMode parses Weights.Contiguity.
func (w WeightsConfig) ContiguityMode() (geometry.ContiguityMode, error) {
	return geometry.ParseContiguityMode(w.Contiguity)
}

// DistanceParams converts the distance section to builder parameters.
func (w WeightsConfig) DistanceParams() (weights.DistanceParams, error) {
	mode, err := geometry.ParseNeighborMode(w.Distance.Mode)
	if err != nil {
		return weights.DistanceParams{}, err
	}
	metric := geometry.Euclidean
	if w.Distance.Metric != "" {
		if metric, err = geometry.ParseMetric(w.Distance.Metric); err != nil {
			return weights.DistanceParams{}, err
		}
	}

	return weights.DistanceParams{
		Mode:        mode,
		Band:        w.Distance.Band,
		K:           w.Distance.K,
		Metric:      metric,
		Exponent:    w.Distance.Exponent,
		IncludeSelf: w.Distance.IncludeSelf,
	}, nil
}

// WeightsOptions returns builder options for this configuration.
func (c *Config) WeightsOptions(log *zap.Logger) []weights.Option {
	return []weights.Option{weights.WithLogger(log), weights.WithRowStandard(c.Weights.RowStandard)}
}

// AutospaceOptions returns run options for this configuration.
func (c *Config) AutospaceOptions(log *zap.Logger) []autospace.Option {
	return []autospace.Option{
		autospace.WithPValue(c.Autospace.PValue),
		autospace.WithCombo(c.Autospace.Combo),
		autospace.WithLogger(log),
	}
}

// NewLogger builds a production (JSON) or development (console) zap logger
// at the configured level.
func NewLogger(lc LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if lc.Level != "" {
		lvl, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, fmt.Errorf("NewLogger: %v: %w", err, ErrInvalidConfig)
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("NewLogger: %w", err)
	}

	return logger, nil
}

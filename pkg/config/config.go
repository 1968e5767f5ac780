package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full description of one evaluation batch.
type Config struct {
	Exchange string   `yaml:"exchange" json:"exchange"`
	Interval string   `yaml:"interval" json:"interval"`
	DataRoot string   `yaml:"data_root" json:"data_root"`
	Symbols  []string `yaml:"symbols" json:"symbols"`

	Split   SplitConfig   `yaml:"split" json:"split"`
	Regimes []string      `yaml:"regimes" json:"regimes"`
	Models  ModelsConfig  `yaml:"models" json:"models"`
	ARIMA   ARIMAConfig   `yaml:"arima" json:"arima"`
	Workers int           `yaml:"workers" json:"workers"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// SplitConfig holds the chronological split fractions. Test gets the
// remainder.
type SplitConfig struct {
	Train    float64 `yaml:"train" json:"train"`
	Validate float64 `yaml:"validate" json:"validate"`
}

// ModelsConfig selects the model grid and its feature selection settings.
type ModelsConfig struct {
	Regression     ModelFamilyConfig `yaml:"regression" json:"regression"`
	Classification ModelFamilyConfig `yaml:"classification" json:"classification"`
}

// ModelFamilyConfig configures one model family.
type ModelFamilyConfig struct {
	Enabled          bool      `yaml:"enabled" json:"enabled"`
	FeatureSelection bool      `yaml:"feature_selection" json:"feature_selection"`
	NumFeatures      int       `yaml:"num_features" json:"num_features"`
	RidgeAlphas      []float64 `yaml:"ridge_alphas,omitempty" json:"ridge_alphas,omitempty"`
	LassoAlphas      []float64 `yaml:"lasso_alphas,omitempty" json:"lasso_alphas,omitempty"`
	LogisticC        []float64 `yaml:"logistic_c,omitempty" json:"logistic_c,omitempty"`
	KNNNeighbors     []int     `yaml:"knn_neighbors,omitempty" json:"knn_neighbors,omitempty"`
}

// ARIMAConfig configures the order grid sweep.
type ARIMAConfig struct {
	Enabled       bool    `yaml:"enabled" json:"enabled"`
	P             []int   `yaml:"p" json:"p"`
	D             []int   `yaml:"d" json:"d"`
	Q             []int   `yaml:"q" json:"q"`
	TrainFraction float64 `yaml:"train_fraction" json:"train_fraction"`
}

// OutputConfig selects report destinations.
type OutputConfig struct {
	Dir     string   `yaml:"dir" json:"dir"`
	Formats []string `yaml:"formats" json:"formats"`
}

// MetricsConfig enables the optional metrics listener for long batches.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Exchange: "bybit",
		Interval: "1d",
		DataRoot: "data",
		Symbols:  []string{"BTCUSDT"},
		Split:    SplitConfig{Train: 0.60, Validate: 0.20},
		Regimes:  []string{"conventional", "rolling"},
		Models: ModelsConfig{
			Regression: ModelFamilyConfig{
				Enabled:          true,
				FeatureSelection: true,
				NumFeatures:      5,
				RidgeAlphas:      []float64{1.0},
				LassoAlphas:      []float64{0.001},
			},
			Classification: ModelFamilyConfig{
				Enabled:      true,
				LogisticC:    []float64{1.0},
				KNNNeighbors: []int{5},
			},
		},
		ARIMA: ARIMAConfig{
			Enabled:       false,
			P:             []int{0, 1, 2},
			D:             []int{0, 1},
			Q:             []int{0, 1, 2},
			TrainFraction: 0.66,
		},
		Workers: 0,
		Output: OutputConfig{
			Dir:     "results",
			Formats: []string{"console"},
		},
		Metrics: MetricsConfig{Addr: ":9090"},
	}
}

// Load reads a YAML or JSON configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse json config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("config: at least one symbol is required")
	}
	if c.Split.Train <= 0 || c.Split.Validate <= 0 {
		return fmt.Errorf("config: split fractions must be positive")
	}
	if c.Split.Train+c.Split.Validate >= 1 {
		return fmt.Errorf("config: train and validate fractions must leave room for test (got %.2f + %.2f)",
			c.Split.Train, c.Split.Validate)
	}
	if len(c.Regimes) == 0 {
		return fmt.Errorf("config: at least one regime is required")
	}
	for _, regime := range c.Regimes {
		if regime != "conventional" && regime != "rolling" {
			return fmt.Errorf("config: unknown regime %q", regime)
		}
	}
	if c.Models.Regression.FeatureSelection && c.Models.Regression.NumFeatures <= 0 {
		return fmt.Errorf("config: regression feature selection requires num_features > 0")
	}
	if c.ARIMA.Enabled && (len(c.ARIMA.P) == 0 || len(c.ARIMA.D) == 0 || len(c.ARIMA.Q) == 0) {
		return fmt.Errorf("config: arima sweep requires non-empty p, d and q grids")
	}
	for _, format := range c.Output.Formats {
		switch format {
		case "console", "csv", "excel", "json":
		default:
			return fmt.Errorf("config: unknown output format %q", format)
		}
	}
	return nil
}

// HasRegime reports whether the named regime is enabled.
func (c *Config) HasRegime(name string) bool {
	for _, regime := range c.Regimes {
		if regime == name {
			return true
		}
	}
	return false
}

// HasFormat reports whether the named output format is enabled.
func (c *Config) HasFormat(name string) bool {
	for _, format := range c.Output.Formats {
		if format == name {
			return true
		}
	}
	return false
}

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/oxygene76/orbittracker/internal/types"
	"github.com/oxygene76/orbittracker/pkg/prediction"
	"github.com/oxygene76/orbittracker/pkg/telemetry"
	"github.com/oxygene76/orbittracker/pkg/uncertainty"
)

// EnvPrefix prefixes environment overrides, e.g. ORBITTRACKER_PREDICTION_TIME_STEPS
const EnvPrefix = "ORBITTRACKER"

// Config represents the orbittracker configuration
type Config struct {
	Prediction  PredictionConfig        `yaml:"prediction" mapstructure:"prediction"`
	Uncertainty UncertaintyConfig       `yaml:"uncertainty" mapstructure:"uncertainty"`
	Catalog     CatalogConfig           `yaml:"catalog" mapstructure:"catalog"`
	Logging     telemetry.LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Metrics     telemetry.MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Tracing     telemetry.TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Store       StoreConfig             `yaml:"store" mapstructure:"store"`
}

// PredictionConfig holds the default prediction options
type PredictionConfig struct {
	TimePeriodYears float64 `yaml:"time_period_years" mapstructure:"time_period_years" validate:"gt=0"`
	TimeSteps       int     `yaml:"time_steps" mapstructure:"time_steps" validate:"gte=1,lte=100000"`
	HighFidelity    bool    `yaml:"high_fidelity" mapstructure:"high_fidelity"`
}

// UncertaintyConfig configures the Monte Carlo engine
type UncertaintyConfig struct {
	Enabled         bool  `yaml:"enabled" mapstructure:"enabled"`
	Samples         int   `yaml:"samples" mapstructure:"samples" validate:"gte=1,lte=100000"`
	Seed            int64 `yaml:"seed" mapstructure:"seed"`
	Workers         int   `yaml:"workers" mapstructure:"workers" validate:"gte=0"`
	EstimateMissing bool  `yaml:"estimate_missing" mapstructure:"estimate_missing"`
}

// CatalogConfig locates the star catalog file
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StoreConfig locates the prediction archive
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`

	// AutoSave archives every successful prediction
	AutoSave bool `yaml:"auto_save" mapstructure:"auto_save"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Prediction: PredictionConfig{
			TimePeriodYears: prediction.DefaultTimePeriodYears,
			TimeSteps:       prediction.DefaultTimeSteps,
			HighFidelity:    true,
		},
		Uncertainty: UncertaintyConfig{
			Enabled:         true,
			Samples:         uncertainty.DefaultSamples,
			Seed:            uncertainty.DefaultSeed,
			EstimateMissing: true,
		},
		Catalog: CatalogConfig{
			Path: filepath.Join("configs", "stars.yaml"),
		},
		Logging: telemetry.LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Metrics: telemetry.MetricsConfig{
			Namespace: "orbittracker",
		},
		Tracing: telemetry.TracingConfig{
			Exporter:     "stdout",
			SamplingRate: 1.0,
		},
		Store: StoreConfig{
			Path: filepath.Join(ConfigDir(), "predictions.db"),
		},
	}
}

// ConfigDir returns the per-user configuration directory
func ConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".orbittracker")
}

// LoadConfig loads configuration from path, or from config.yaml in the
// usual search paths when path is empty. A missing file yields the defaults.
// Environment variables override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig writes config to path as YAML, creating parent directories
func SaveConfig(config *Config, path string) error {
	if err := validateConfig(config); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// PredictionOptions converts the prediction section to engine options
func (c *Config) PredictionOptions() prediction.Options {
	mode := types.ModeStandard
	if c.Prediction.HighFidelity {
		mode = types.ModeHighFidelity
	}
	return prediction.Options{
		TimePeriodYears: c.Prediction.TimePeriodYears,
		TimeSteps:       c.Prediction.TimeSteps,
		Mode:            mode,
		SkipUncertainty: !c.Uncertainty.Enabled,
	}
}

// UncertaintyEngine builds the Monte Carlo engine from the uncertainty section
func (c *Config) UncertaintyEngine() *uncertainty.Engine {
	return &uncertainty.Engine{
		Samples:         c.Uncertainty.Samples,
		Seed:            c.Uncertainty.Seed,
		Workers:         c.Uncertainty.Workers,
		EstimateMissing: c.Uncertainty.EstimateMissing,
	}
}

// setDefaults registers every key so that environment overrides apply even
// when the config file omits them.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("prediction.time_period_years", d.Prediction.TimePeriodYears)
	v.SetDefault("prediction.time_steps", d.Prediction.TimeSteps)
	v.SetDefault("prediction.high_fidelity", d.Prediction.HighFidelity)

	v.SetDefault("uncertainty.enabled", d.Uncertainty.Enabled)
	v.SetDefault("uncertainty.samples", d.Uncertainty.Samples)
	v.SetDefault("uncertainty.seed", d.Uncertainty.Seed)
	v.SetDefault("uncertainty.workers", d.Uncertainty.Workers)
	v.SetDefault("uncertainty.estimate_missing", d.Uncertainty.EstimateMissing)

	v.SetDefault("catalog.path", d.Catalog.Path)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.textfile_path", d.Metrics.TextfilePath)

	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.insecure", d.Tracing.Insecure)
	v.SetDefault("tracing.sampling_rate", d.Tracing.SamplingRate)

	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.auto_save", d.Store.AutoSave)
}

var configValidator = validator.New()

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if err := configValidator.Struct(config); err != nil {
		return errorsmod.Wrap(types.ErrConfig, err.Error())
	}
	return nil
}

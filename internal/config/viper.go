package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/accountcode"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. FINDASH_LOG_LEVEL.
const EnvPrefix = "FINDASH"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Hierarchy struct {
		FamilyRootNumerals []string          `mapstructure:"family_root_numerals" yaml:"family_root_numerals"`
		BucketRoots        map[string]string `mapstructure:"bucket_roots" yaml:"bucket_roots"`
		AcceptConfidence   float64           `mapstructure:"accept_confidence" yaml:"accept_confidence"`
		RejectConfidence   float64           `mapstructure:"reject_confidence" yaml:"reject_confidence"`
	} `mapstructure:"hierarchy" yaml:"hierarchy"`

	Validation struct {
		CriticalThreshold      float64 `mapstructure:"critical_threshold" yaml:"critical_threshold"`
		HighThreshold          float64 `mapstructure:"high_threshold" yaml:"high_threshold"`
		MediumThreshold        float64 `mapstructure:"medium_threshold" yaml:"medium_threshold"`
		AutoFixMaxUnclassified int     `mapstructure:"auto_fix_max_unclassified" yaml:"auto_fix_max_unclassified"`
		SummaryThreshold       int     `mapstructure:"summary_threshold" yaml:"summary_threshold"`
	} `mapstructure:"validation" yaml:"validation"`

	Reconciliation struct {
		Tolerance float64           `mapstructure:"tolerance" yaml:"tolerance"`
		TotalRows map[string]string `mapstructure:"total_rows" yaml:"total_rows"`
	} `mapstructure:"reconciliation" yaml:"reconciliation"`

	Rules struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rules" yaml:"rules"`

	Retro struct {
		MaxWorkers     int `mapstructure:"max_workers" yaml:"max_workers"`
		TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	} `mapstructure:"retro" yaml:"retro"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile is InitializeConfig with an explicit config file.
// An empty path searches the standard locations; an explicit file must exist.
func InitializeConfigFromFile(path string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.financial-dashboard")
		v.AddConfigPath(".financial-dashboard")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicit)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("hierarchy.family_root_numerals",
		[]string{"1000", "2000", "3000", "4000", "5000", "6000", "7000", "8000", "9000"})
	v.SetDefault("hierarchy.bucket_roots", map[string]string{
		"1": "1000", "2": "2000", "3": "3000", "4": "4000", "5": "5000",
		"6": "6000", "7": "7000", "8": "8000", "9": "9000",
	})
	v.SetDefault("hierarchy.accept_confidence", 0.8)
	v.SetDefault("hierarchy.reject_confidence", 0.5)

	v.SetDefault("validation.critical_threshold", 1_000_000.0)
	v.SetDefault("validation.high_threshold", 500_000.0)
	v.SetDefault("validation.medium_threshold", 100_000.0)
	v.SetDefault("validation.auto_fix_max_unclassified", 2)
	v.SetDefault("validation.summary_threshold", 15)

	v.SetDefault("reconciliation.tolerance", 0.01)
	v.SetDefault("reconciliation.total_rows", map[string]string{
		"4100-0000-000-000": "Ingresos",
		"5000-0000-000-000": "Egresos",
	})

	v.SetDefault("rules.file", "rules.yaml")

	v.SetDefault("retro.max_workers", 4)
	v.SetDefault("retro.timeout_seconds", 300)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	h := config.Hierarchy
	if len(h.FamilyRootNumerals) == 0 {
		return fmt.Errorf("hierarchy.family_root_numerals must not be empty")
	}
	for digit, root := range h.BucketRoots {
		if len(digit) != 1 || len(root) == 0 {
			return fmt.Errorf("hierarchy.bucket_roots entry %q: %q must map one digit to an s2 segment", digit, root)
		}
	}
	if h.AcceptConfidence <= 0.0 || h.AcceptConfidence > 1.0 {
		return fmt.Errorf("hierarchy.accept_confidence must be in (0.0, 1.0], got: %f", h.AcceptConfidence)
	}
	if h.RejectConfidence <= 0.0 || h.RejectConfidence >= h.AcceptConfidence {
		return fmt.Errorf("hierarchy.reject_confidence must be in (0.0, accept_confidence), got: %f", h.RejectConfidence)
	}

	val := config.Validation
	if val.MediumThreshold <= 0 || val.HighThreshold < val.MediumThreshold || val.CriticalThreshold < val.HighThreshold {
		return fmt.Errorf("validation thresholds must satisfy 0 < medium <= high <= critical, got: %.2f/%.2f/%.2f",
			val.MediumThreshold, val.HighThreshold, val.CriticalThreshold)
	}
	if val.AutoFixMaxUnclassified < 1 {
		return fmt.Errorf("validation.auto_fix_max_unclassified must be at least 1, got: %d", val.AutoFixMaxUnclassified)
	}
	if val.SummaryThreshold < 1 {
		return fmt.Errorf("validation.summary_threshold must be at least 1, got: %d", val.SummaryThreshold)
	}

	rec := config.Reconciliation
	if rec.Tolerance <= 0 {
		return fmt.Errorf("reconciliation.tolerance must be positive, got: %f", rec.Tolerance)
	}
	if len(rec.TotalRows) == 0 {
		return fmt.Errorf("reconciliation.total_rows must declare at least one total row")
	}
	for code, category := range rec.TotalRows {
		if _, ok := accountcode.Parse(code); !ok {
			return fmt.Errorf("reconciliation.total_rows: invalid account code %q", code)
		}
		if strings.TrimSpace(category) == "" {
			return fmt.Errorf("reconciliation.total_rows: empty category for %s", code)
		}
	}

	if config.Retro.MaxWorkers < 1 || config.Retro.MaxWorkers > 64 {
		return fmt.Errorf("retro.max_workers must be between 1 and 64, got: %d", config.Retro.MaxWorkers)
	}
	if config.Retro.TimeoutSeconds < 0 {
		return fmt.Errorf("retro.timeout_seconds must not be negative, got: %d", config.Retro.TimeoutSeconds)
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger from the Config struct
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), strings.ToLower(config.Log.Format))
}

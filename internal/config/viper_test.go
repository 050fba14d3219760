package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalDir))
	})
}

// isolate runs the test in an empty directory with a throwaway HOME so no
// real config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	clearTestEnvVars(t)
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	chdir(t, dir)
	return dir
}

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	isolate(t)
	config, err := InitializeConfig()
	require.NoError(t, err)
	return config
}

func TestInitializeConfig_Defaults(t *testing.T) {
	config := defaultConfig(t)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Len(t, config.Hierarchy.FamilyRootNumerals, 9)
	assert.Equal(t, "5000", config.Hierarchy.BucketRoots["5"])
	assert.Equal(t, 0.8, config.Hierarchy.AcceptConfidence)
	assert.Equal(t, 0.5, config.Hierarchy.RejectConfidence)
	assert.Equal(t, 1_000_000.0, config.Validation.CriticalThreshold)
	assert.Equal(t, 2, config.Validation.AutoFixMaxUnclassified)
	assert.Equal(t, 15, config.Validation.SummaryThreshold)
	assert.Equal(t, 0.01, config.Reconciliation.Tolerance)
	assert.Equal(t, "Ingresos", config.Reconciliation.TotalRows["4100-0000-000-000"])
	assert.Equal(t, "Egresos", config.Reconciliation.TotalRows["5000-0000-000-000"])
	assert.Equal(t, "rules.yaml", config.Rules.File)
	assert.Equal(t, 4, config.Retro.MaxWorkers)
	assert.Equal(t, 300, config.Retro.TimeoutSeconds)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)

	testEnvVars := map[string]string{
		"FINDASH_LOG_LEVEL":                            "debug",
		"FINDASH_LOG_FORMAT":                           "json",
		"FINDASH_CSV_DELIMITER":                        ";",
		"FINDASH_VALIDATION_AUTO_FIX_MAX_UNCLASSIFIED": "3",
		"FINDASH_RECONCILIATION_TOLERANCE":             "0.5",
		"FINDASH_RULES_FILE":                           "/tmp/rules.yaml",
		"FINDASH_RETRO_MAX_WORKERS":                    "8",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ";", config.CSV.Delimiter)
	assert.Equal(t, 3, config.Validation.AutoFixMaxUnclassified)
	assert.Equal(t, 0.5, config.Reconciliation.Tolerance)
	assert.Equal(t, "/tmp/rules.yaml", config.Rules.File)
	assert.Equal(t, 8, config.Retro.MaxWorkers)
}

const sampleConfig = `
log:
  level: "warn"
  format: "json"
csv:
  delimiter: "|"
validation:
  medium_threshold: 50000
  summary_threshold: 20
reconciliation:
  tolerance: 1
  total_rows:
    "4000-0000-000-000": Ingresos
    "6000-0000-000-000": Egresos
retro:
  max_workers: 2
  timeout_seconds: 0
`

func TestInitializeConfig_ConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(sampleConfig), 0644))

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 50_000.0, config.Validation.MediumThreshold)
	assert.Equal(t, 500_000.0, config.Validation.HighThreshold)
	assert.Equal(t, 20, config.Validation.SummaryThreshold)
	assert.Equal(t, 1.0, config.Reconciliation.Tolerance)
	assert.Equal(t, "Ingresos", config.Reconciliation.TotalRows["4000-0000-000-000"])
	assert.Equal(t, "Egresos", config.Reconciliation.TotalRows["6000-0000-000-000"])
	assert.Equal(t, 2, config.Retro.MaxWorkers)
	assert.Equal(t, 0, config.Retro.TimeoutSeconds)
}

func TestInitializeConfigFromFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))

	config, err := InitializeConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", config.Log.Level)

	_, err = InitializeConfigFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(sampleConfig), 0644))

	t.Setenv("FINDASH_LOG_LEVEL", "error")
	t.Setenv("FINDASH_RETRO_MAX_WORKERS", "6")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 6, config.Retro.MaxWorkers)
}

func TestInitializeConfig_InvalidFileValue(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("retro:\n  max_workers: 0\n"), 0644))

	_, err := InitializeConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retro.max_workers")
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "invalid" },
			expectError:  "invalid log format",
		},
		{
			name:         "invalid CSV delimiter",
			modifyConfig: func(c *Config) { c.CSV.Delimiter = "abc" },
			expectError:  "CSV delimiter must be a single character",
		},
		{
			name:         "no family root numerals",
			modifyConfig: func(c *Config) { c.Hierarchy.FamilyRootNumerals = nil },
			expectError:  "hierarchy.family_root_numerals",
		},
		{
			name:         "bad bucket root",
			modifyConfig: func(c *Config) { c.Hierarchy.BucketRoots["12"] = "1200" },
			expectError:  "hierarchy.bucket_roots",
		},
		{
			name:         "accept confidence out of range",
			modifyConfig: func(c *Config) { c.Hierarchy.AcceptConfidence = 1.5 },
			expectError:  "hierarchy.accept_confidence",
		},
		{
			name:         "reject above accept",
			modifyConfig: func(c *Config) { c.Hierarchy.RejectConfidence = 0.9 },
			expectError:  "hierarchy.reject_confidence",
		},
		{
			name:         "thresholds out of order",
			modifyConfig: func(c *Config) { c.Validation.HighThreshold = 2_000_000 },
			expectError:  "validation thresholds",
		},
		{
			name:         "auto fix max",
			modifyConfig: func(c *Config) { c.Validation.AutoFixMaxUnclassified = 0 },
			expectError:  "validation.auto_fix_max_unclassified",
		},
		{
			name:         "summary threshold",
			modifyConfig: func(c *Config) { c.Validation.SummaryThreshold = 0 },
			expectError:  "validation.summary_threshold",
		},
		{
			name:         "zero tolerance",
			modifyConfig: func(c *Config) { c.Reconciliation.Tolerance = 0 },
			expectError:  "reconciliation.tolerance",
		},
		{
			name:         "no total rows",
			modifyConfig: func(c *Config) { c.Reconciliation.TotalRows = map[string]string{} },
			expectError:  "reconciliation.total_rows",
		},
		{
			name:         "malformed total row code",
			modifyConfig: func(c *Config) { c.Reconciliation.TotalRows["4100"] = "Ingresos" },
			expectError:  "invalid account code",
		},
		{
			name:         "empty total row category",
			modifyConfig: func(c *Config) { c.Reconciliation.TotalRows["4100-0000-000-000"] = " " },
			expectError:  "empty category",
		},
		{
			name:         "negative timeout",
			modifyConfig: func(c *Config) { c.Retro.TimeoutSeconds = -1 },
			expectError:  "retro.timeout_seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := defaultConfig(t)
			require.NoError(t, validateConfig(config))

			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := defaultConfig(t)
	assert.NotNil(t, ConfigureLoggingFromConfig(config))

	config.Log.Level = "DEBUG"
	config.Log.Format = "json"
	assert.NotNil(t, ConfigureLoggingFromConfig(config))
}

func TestComponentOptions(t *testing.T) {
	config := defaultConfig(t)

	h := config.HierarchyOptions()
	assert.Equal(t, config.Hierarchy.FamilyRootNumerals, h.FamilyRootNumerals)
	assert.Equal(t, 0.8, h.AcceptConfidence)
	h.BucketRoots["5"] = "changed"
	assert.Equal(t, "5000", config.Hierarchy.BucketRoots["5"])

	f := config.FamilyOptions()
	assert.True(t, decimal.NewFromInt(100_000).Equal(f.MediumThreshold))
	assert.Equal(t, 15, f.SummaryThreshold)

	r := config.ReconcileOptions()
	assert.True(t, decimal.RequireFromString("0.01").Equal(r.Tolerance))
	assert.Len(t, r.TotalRows, 2)

	retro := config.RetroOptions()
	assert.Equal(t, 4, retro.MaxWorkers)
	assert.Equal(t, 5*time.Minute, retro.Timeout)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("FINDASH_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("FINDASH_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("FINDASH_TEST_UNSET_VALUE", "fallback"))
}

// clearTestEnvVars unsets every FINDASH_ variable for the duration of the test.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, EnvPrefix+"_") {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}
	}
}

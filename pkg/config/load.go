package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow the
// naming convention CLAIMGATE_SECTION_FIELD (e.g.
// CLAIMGATE_LEDGER_SQLITE_PATH) and always take precedence over the file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies CLAIMGATE_SECTION_FIELD environment variables.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("CLAIMGATE_POLICY_DICTIONARY_PATH"); val != "" {
		cfg.Policy.DictionaryPath = val
	}
	if val := os.Getenv("CLAIMGATE_POLICY_BOUNDARY_PATH"); val != "" {
		cfg.Policy.BoundaryPath = val
	}
	if val := os.Getenv("CLAIMGATE_POLICY_FREEZE_GUARD"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Policy.FreezeGuard = b
		}
	}

	if val := os.Getenv("CLAIMGATE_LEDGER_BACKEND"); val != "" {
		cfg.Ledger.Backend = val
	}
	if val := os.Getenv("CLAIMGATE_LEDGER_SQLITE_PATH"); val != "" {
		cfg.Ledger.SQLitePath = val
	}
	if val := os.Getenv("CLAIMGATE_LEDGER_APPEND_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Ledger.AppendTimeout = d
		}
	}
	if val := os.Getenv("CLAIMGATE_LEDGER_VERIFY_SCHEDULE"); val != "" {
		cfg.Ledger.VerifySchedule = val
	}

	if val := os.Getenv("CLAIMGATE_ADVISORY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Advisory.Timeout = d
		}
	}

	if val := os.Getenv("CLAIMGATE_ARCHIVE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Archive.Enabled = b
		}
	}
	if val := os.Getenv("CLAIMGATE_ARCHIVE_BACKEND"); val != "" {
		cfg.Archive.Backend = val
	}
	if val := os.Getenv("CLAIMGATE_ARCHIVE_SQLITE_PATH"); val != "" {
		cfg.Archive.SQLitePath = val
	}

	if val := os.Getenv("CLAIMGATE_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("CLAIMGATE_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	if val := os.Getenv("CLAIMGATE_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
}

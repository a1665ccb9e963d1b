package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Policy.DictionaryPath == "" {
		return fmt.Errorf("policy.dictionary_path is required")
	}
	if cfg.Policy.BoundaryPath == "" {
		return fmt.Errorf("policy.boundary_path is required")
	}

	switch cfg.Ledger.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("ledger.backend must be \"memory\" or \"sqlite\", got %q", cfg.Ledger.Backend)
	}
	if cfg.Ledger.Backend == "sqlite" && cfg.Ledger.SQLitePath == "" {
		return fmt.Errorf("ledger.sqlite_path is required for the sqlite backend")
	}
	if cfg.Ledger.AppendTimeout <= 0 {
		return fmt.Errorf("ledger.append_timeout must be positive")
	}
	if cfg.Ledger.VerifySchedule != "" {
		if _, err := cron.ParseStandard(cfg.Ledger.VerifySchedule); err != nil {
			return fmt.Errorf("ledger.verify_schedule is not a valid cron expression: %w", err)
		}
	}

	if cfg.Advisory.Timeout <= 0 {
		return fmt.Errorf("advisory.timeout must be positive")
	}

	switch cfg.Archive.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("archive.backend must be \"memory\" or \"sqlite\", got %q", cfg.Archive.Backend)
	}
	if cfg.Archive.Enabled && cfg.Archive.Backend == "sqlite" && cfg.Archive.SQLitePath == "" {
		return fmt.Errorf("archive.sqlite_path is required for the sqlite backend")
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", cfg.Logging.Format)
	}

	return nil
}

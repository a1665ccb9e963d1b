package config

import "time"

// Config is the root configuration for claimgate.
type Config struct {
	Policy   PolicyConfig   `yaml:"policy"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Advisory AdvisoryConfig `yaml:"advisory"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// PolicyConfig locates the frozen policy files.
type PolicyConfig struct {
	// DictionaryPath is the capability dictionary YAML file.
	DictionaryPath string `yaml:"dictionary_path"`

	// BoundaryPath is the decision boundary spec YAML file.
	BoundaryPath string `yaml:"boundary_path"`

	// FreezeGuard enables the on-disk mutation watcher over the policy
	// files. Detected changes are reported as governance violations and
	// never applied.
	FreezeGuard bool `yaml:"freeze_guard"`
}

// LedgerConfig configures the audit ledger backend.
type LedgerConfig struct {
	// Backend selects the ledger backend: "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// SQLitePath is the ledger database file (sqlite backend only).
	SQLitePath string `yaml:"sqlite_path"`

	// AppendTimeout bounds a single ledger append.
	AppendTimeout time.Duration `yaml:"append_timeout"`

	// VerifySchedule is a cron expression for scheduled chain
	// verification. Empty disables the checker.
	VerifySchedule string `yaml:"verify_schedule"`
}

// AdvisoryConfig configures the advisory model call.
type AdvisoryConfig struct {
	// Timeout bounds a single advisory evaluation.
	Timeout time.Duration `yaml:"timeout"`
}

// ArchiveConfig configures the terminal outcome archive.
type ArchiveConfig struct {
	// Enabled turns outcome archiving on.
	Enabled bool `yaml:"enabled"`

	// Backend selects the archive backend: "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// SQLitePath is the archive database file (sqlite backend only).
	SQLitePath string `yaml:"sqlite_path"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns metric recording on.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem.
	Subsystem string `yaml:"subsystem"`
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in zero-valued fields with defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Policy.DictionaryPath == "" {
		cfg.Policy.DictionaryPath = "policies/dictionary.yaml"
	}
	if cfg.Policy.BoundaryPath == "" {
		cfg.Policy.BoundaryPath = "policies/boundary.yaml"
	}

	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = "sqlite"
	}
	if cfg.Ledger.SQLitePath == "" {
		cfg.Ledger.SQLitePath = "data/audit.db"
	}
	if cfg.Ledger.AppendTimeout == 0 {
		cfg.Ledger.AppendTimeout = 5 * time.Second
	}

	if cfg.Advisory.Timeout == 0 {
		cfg.Advisory.Timeout = 5 * time.Second
	}

	if cfg.Archive.Backend == "" {
		cfg.Archive.Backend = "sqlite"
	}
	if cfg.Archive.SQLitePath == "" {
		cfg.Archive.SQLitePath = "data/archive.db"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "claimgate"
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = "pipeline"
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testConfigYAML = `
policy:
  dictionary_path: policies/dictionary.yaml
  boundary_path: policies/boundary.yaml
  freeze_guard: true
ledger:
  backend: sqlite
  sqlite_path: /var/lib/claimgate/audit.db
  append_timeout: 2s
  verify_schedule: "0 3 * * *"
advisory:
  timeout: 500ms
archive:
  enabled: true
  backend: sqlite
  sqlite_path: /var/lib/claimgate/archive.db
logging:
  level: debug
  format: json
metrics:
  enabled: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Ledger.SQLitePath != "/var/lib/claimgate/audit.db" {
		t.Errorf("ledger path = %q", cfg.Ledger.SQLitePath)
	}
	if cfg.Ledger.AppendTimeout != 2*time.Second {
		t.Errorf("append timeout = %v, want 2s", cfg.Ledger.AppendTimeout)
	}
	if cfg.Advisory.Timeout != 500*time.Millisecond {
		t.Errorf("advisory timeout = %v, want 500ms", cfg.Advisory.Timeout)
	}
	if !cfg.Policy.FreezeGuard {
		t.Error("freeze_guard should be enabled")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("logging format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Ledger.Backend != "sqlite" {
		t.Errorf("default ledger backend = %q, want sqlite", cfg.Ledger.Backend)
	}
	if cfg.Ledger.AppendTimeout != 5*time.Second {
		t.Errorf("default append timeout = %v, want 5s", cfg.Ledger.AppendTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default logging level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Metrics.Namespace != "claimgate" {
		t.Errorf("default metrics namespace = %q", cfg.Metrics.Namespace)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	t.Setenv("CLAIMGATE_LEDGER_BACKEND", "memory")
	t.Setenv("CLAIMGATE_ADVISORY_TIMEOUT", "250ms")
	t.Setenv("CLAIMGATE_LOGGING_LEVEL", "error")

	cfg, err := LoadConfigWithEnvOverrides(writeConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}

	if cfg.Ledger.Backend != "memory" {
		t.Errorf("ledger backend = %q, want memory (env override)", cfg.Ledger.Backend)
	}
	if cfg.Advisory.Timeout != 250*time.Millisecond {
		t.Errorf("advisory timeout = %v, want 250ms (env override)", cfg.Advisory.Timeout)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("logging level = %q, want error (env override)", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad ledger backend", func(c *Config) { c.Ledger.Backend = "postgres" }},
		{"bad verify schedule", func(c *Config) { c.Ledger.VerifySchedule = "whenever" }},
		{"zero advisory timeout", func(c *Config) { c.Advisory.Timeout = 0 }},
		{"bad logging level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad logging format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad archive backend", func(c *Config) { c.Archive.Backend = "s3" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"bdr-ai/claimgate/pkg/archive"
	"bdr-ai/claimgate/pkg/config"
	"bdr-ai/claimgate/pkg/ledger"
	"bdr-ai/claimgate/pkg/policy"
	"bdr-ai/claimgate/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "claimgate",
	Short: "Claimgate - governed decision engine for claims advisory",
	Long: `Claimgate drives insurance claims through a governed advisory pipeline.

The advisory model suggests, a human decides, and every stage transition is
recorded in a hash-chained append-only audit ledger before it takes effect:
  - Frozen, versioned policy (capability dictionary + decision boundaries)
  - Deterministic rule-table advisory suggestions with explainability
  - Mandatory human confirmation for every terminal outcome
  - Tamper-evident audit trail with scheduled chain verification`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads configuration, falling back to defaults when the config
// file does not exist and the path was not explicitly set.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		if os.IsNotExist(unwrapPathError(err)) && !rootCmd.PersistentFlags().Changed("config") {
			return config.DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// unwrapPathError digs out the file error from a config load failure.
func unwrapPathError(err error) error {
	for err != nil {
		if pe, ok := err.(*os.PathError); ok {
			return pe
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		err = u.Unwrap()
	}
	return err
}

// setupLogging installs the configured logger as the process default.
func setupLogging(cfg *config.Config) error {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	_, err := logging.Setup(&logging.Config{
		Level:     level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})
	return err
}

// loadPolicy loads the policy bundle from the configured files, falling
// back to the built-in defaults when the files are absent.
func loadPolicy(cfg *config.Config) (*policy.Bundle, error) {
	bundle, err := policy.LoadBundle(cfg.Policy.DictionaryPath, cfg.Policy.BoundaryPath)
	if err != nil {
		if os.IsNotExist(unwrapPathError(err)) {
			slog.Debug("policy files not found, using built-in defaults",
				"dictionary_path", cfg.Policy.DictionaryPath,
				"boundary_path", cfg.Policy.BoundaryPath,
			)
			return policy.NewBundle(policy.DefaultDictionary(), policy.DefaultBoundarySpec()), nil
		}
		return nil, err
	}
	return bundle, nil
}

// openLedger creates the configured ledger backend.
func openLedger(cfg *config.Config) (ledger.Ledger, error) {
	switch cfg.Ledger.Backend {
	case "memory":
		return ledger.NewMemoryLedger(), nil
	case "sqlite":
		sqliteConfig := ledger.DefaultSQLiteConfig()
		sqliteConfig.Path = cfg.Ledger.SQLitePath
		return ledger.NewSQLiteLedger(sqliteConfig)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
}

// openArchive creates the configured archive backend, or nil if disabled.
func openArchive(cfg *config.Config) (archive.Archive, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	switch cfg.Archive.Backend {
	case "memory":
		return archive.NewMemoryArchive(), nil
	case "sqlite":
		return archive.NewSQLiteArchive(cfg.Archive.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Archive.Backend)
	}
}

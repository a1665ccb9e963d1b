package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bdr-ai/claimgate/pkg/ledger"
	"bdr-ai/claimgate/pkg/ledger/export"
)

var auditFlags struct {
	verify bool
	all    bool
	watch  bool
	format string
}

var auditCmd = &cobra.Command{
	Use:   "audit [claim-id]",
	Short: "Print and verify audit chains",
	Long: `Print a claim's audit chain from the ledger.

With --verify, the chain's hash linkage, sequence continuity, and stage
order are checked and verification failures are reported. With --all, the
entire ledger is exported instead of a single claim's chain. With --watch,
the process stays up and re-verifies the whole ledger on the cron schedule
from ledger.verify_schedule until interrupted.

Examples:
  # Print a claim's audit chain
  claimgate audit 7d4c1a

  # Verify a claim's chain
  claimgate audit 7d4c1a --verify

  # Export the whole ledger as CSV
  claimgate audit --all --format csv

  # Re-verify the ledger on the configured schedule
  claimgate audit --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().BoolVar(&auditFlags.verify, "verify", false, "verify chain integrity")
	auditCmd.Flags().BoolVar(&auditFlags.all, "all", false, "export the entire ledger")
	auditCmd.Flags().BoolVar(&auditFlags.watch, "watch", false, "re-verify the ledger on the configured schedule until interrupted")
	auditCmd.Flags().StringVar(&auditFlags.format, "format", "json", "output format: json, csv")
}

func runAudit(cmd *cobra.Command, args []string) error {
	if !auditFlags.all && !auditFlags.watch && len(args) == 0 {
		return fmt.Errorf("a claim id is required unless --all or --watch is set")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	led, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer led.Close()

	ctx := cmd.Context()

	if auditFlags.watch {
		watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchLedger(watchCtx, cfg.Ledger.VerifySchedule, led)
	}

	var records []*ledger.Record
	if auditFlags.all {
		records, err = led.ReadAll(ctx)
	} else {
		records, err = led.ReadChain(ctx, args[0])
	}
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no audit records found")
	}

	if auditFlags.verify {
		if auditFlags.all {
			err = ledger.VerifyLedger(ctx, led)
		} else {
			err = ledger.VerifyChain(records)
		}
		if err != nil {
			return fmt.Errorf("chain verification failed: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Chain verified: all records intact.")
	}

	switch auditFlags.format {
	case "json":
		return export.NewJSONExporter(true).Export(ctx, records, os.Stdout)
	case "csv":
		return export.NewCSVExporter(true).Export(ctx, records, os.Stdout)
	default:
		return fmt.Errorf("unknown format %q", auditFlags.format)
	}
}

// watchLedger verifies the whole ledger immediately, then keeps a scheduled
// integrity checker running until ctx is cancelled.
func watchLedger(ctx context.Context, schedule string, led ledger.Ledger) error {
	if schedule == "" {
		return fmt.Errorf("ledger.verify_schedule must be set for --watch")
	}

	checker := ledger.NewChecker(led, &ledger.CheckerConfig{Schedule: schedule}, nil)
	if err := checker.VerifyNow(ctx); err != nil {
		return fmt.Errorf("chain verification failed: %w", err)
	}
	if err := checker.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Ledger verified. Watching on schedule %q, press Ctrl-C to stop.\n", schedule)

	<-ctx.Done()
	checker.Stop()

	if _, err := checker.LastResult(); err != nil {
		return fmt.Errorf("chain verification failed: %w", err)
	}
	return nil
}

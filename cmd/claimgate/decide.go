package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bdr-ai/claimgate/pkg/advisory"
	"bdr-ai/claimgate/pkg/archive"
	"bdr-ai/claimgate/pkg/claim"
	"bdr-ai/claimgate/pkg/config"
	"bdr-ai/claimgate/pkg/engine"
	"bdr-ai/claimgate/pkg/govern"
	"bdr-ai/claimgate/pkg/policy"
	"bdr-ai/claimgate/pkg/telemetry/metrics"
)

var decideFlags struct {
	claimFile string
	confirm   bool
	reject    bool
	reason    string
	reviewer  string
}

var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Evaluate a claim through the governed pipeline",
	Long: `Evaluate a claim file through the full governed pipeline.

The claim is validated against the capability dictionary, the advisory
model produces a non-binding suggestion, and the outcome supplied via
--confirm or --reject is applied at the human gate. Every decision
requires a --reason rationale. Every stage is recorded in the audit
ledger before it takes effect.

Examples:
  # Confirm the advisory suggestion
  claimgate decide --claim claim.yaml --confirm --reason "matches prior claim pattern" --reviewer adjuster-7

  # Reject the suggestion with a rationale
  claimgate decide --claim claim.yaml --reject --reason "estimate disputed" --reviewer adjuster-7`,
	RunE: runDecide,
}

func init() {
	rootCmd.AddCommand(decideCmd)

	decideCmd.Flags().StringVar(&decideFlags.claimFile, "claim", "", "claim file (YAML or JSON)")
	decideCmd.Flags().BoolVar(&decideFlags.confirm, "confirm", false, "confirm the advisory suggestion")
	decideCmd.Flags().BoolVar(&decideFlags.reject, "reject", false, "reject the advisory suggestion")
	decideCmd.Flags().StringVar(&decideFlags.reason, "reason", "", "rationale for the decision")
	decideCmd.Flags().StringVar(&decideFlags.reviewer, "reviewer", "", "decision maker identifier")

	decideCmd.MarkFlagRequired("claim")
	decideCmd.MarkFlagRequired("reason")
	decideCmd.MarkFlagRequired("reviewer")
}

func runDecide(cmd *cobra.Command, args []string) error {
	if decideFlags.confirm == decideFlags.reject {
		return fmt.Errorf("exactly one of --confirm and --reject is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	input, err := readClaimFile(decideFlags.claimFile)
	if err != nil {
		return err
	}

	bundle, err := loadPolicy(cfg)
	if err != nil {
		return err
	}

	pipelineMetrics := metrics.NewPipelineMetrics(&metrics.Config{
		Enabled:   cfg.Metrics.Enabled,
		Namespace: cfg.Metrics.Namespace,
		Subsystem: cfg.Metrics.Subsystem,
	}, nil)

	guard, err := startFreezeGuard(cmd.Context(), cfg, pipelineMetrics)
	if err != nil {
		return err
	}
	if guard != nil {
		defer guard.Stop()
	}

	led, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer led.Close()

	store, err := openArchive(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	confirmer := engine.ConfirmerFunc(func(ctx context.Context, v *govern.ValidatedInput, s *advisory.Suggestion) (claim.HumanConfirmation, error) {
		return claim.HumanConfirmation{
			Confirmed:       decideFlags.confirm,
			OverrideReason:  decideFlags.reason,
			DecisionMakerID: decideFlags.reviewer,
		}, nil
	})

	eng := engine.New(
		bundle.Dictionary(),
		bundle.Boundary(),
		advisory.NewBoundaryModel(bundle.Boundary()),
		led,
		confirmer,
		pipelineMetrics,
		&engine.Config{
			AdvisoryTimeout: cfg.Advisory.Timeout,
			AppendTimeout:   cfg.Ledger.AppendTimeout,
		},
	)

	outcome, err := eng.Evaluate(cmd.Context(), input)
	if err != nil {
		return err
	}

	if store != nil {
		if err := archiveOutcome(cmd.Context(), store, input.ClaimType, outcome); err != nil {
			return err
		}
	}

	return printOutcome(outcome)
}

// startFreezeGuard watches the on-disk policy files for mutation while the
// evaluation runs. Returns nil when disabled or when the policy came from the
// built-in defaults rather than files.
func startFreezeGuard(ctx context.Context, cfg *config.Config, m *metrics.PipelineMetrics) (*policy.FreezeGuard, error) {
	if !cfg.Policy.FreezeGuard {
		return nil, nil
	}

	var paths []string
	for _, path := range []string{cfg.Policy.DictionaryPath, cfg.Policy.BoundaryPath} {
		if _, err := os.Stat(path); err == nil {
			paths = append(paths, path)
		}
	}
	if len(paths) == 0 {
		return nil, nil
	}

	guard, err := policy.NewFreezeGuard(paths, nil, func(string) {
		m.RecordPolicyMutation()
	})
	if err != nil {
		return nil, err
	}
	go guard.Watch(ctx)
	return guard, nil
}

// readClaimFile parses a claim from a YAML or JSON file.
func readClaimFile(path string) (claim.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return claim.Input{}, fmt.Errorf("failed to read claim file %q: %w", path, err)
	}

	var input claim.Input
	if err := yaml.Unmarshal(data, &input); err != nil {
		return claim.Input{}, fmt.Errorf("failed to parse claim file %q: %w", path, err)
	}
	return input, nil
}

// archiveOutcome stores a terminal outcome in the archive.
func archiveOutcome(ctx context.Context, store archive.Archive, claimType claim.Type, outcome *engine.Outcome) error {
	var entry *archive.Entry
	switch outcome.Status {
	case engine.StatusFinalized:
		entry = archive.EntryFromDecision(claimType, outcome.Decision)
	case engine.StatusRejected:
		entry = archive.EntryFromRejection(claimType, outcome.Rejection)
	default:
		return fmt.Errorf("unknown outcome status %q", outcome.Status)
	}
	return store.Store(ctx, entry)
}

// printOutcome writes the outcome as indented JSON to stdout.
func printOutcome(outcome *engine.Outcome) error {
	view := map[string]any{
		"claim_id":   outcome.ClaimID,
		"status":     outcome.Status,
		"suggestion": outcome.Suggestion,
	}
	if outcome.Decision != nil {
		view["decision"] = outcome.Decision
	}
	if outcome.Rejection != nil {
		view["rejection"] = outcome.Rejection
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bdr-ai/claimgate/pkg/policy"
)

var validateFlags struct {
	dictionary string
	boundary   string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate policy files",
	Long: `Validate the capability dictionary and decision boundary spec.

Validation runs the same structural and semantic checks the pipeline runs
at startup: required fields, version format, threshold ordering, weight
positivity, and admissible category consistency. Paths default to the
configured policy files.

Examples:
  # Validate the configured policy files
  claimgate validate

  # Validate specific files
  claimgate validate --dictionary policies/dictionary.yaml --boundary policies/boundary.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.dictionary, "dictionary", "", "capability dictionary file (uses config if not specified)")
	validateCmd.Flags().StringVar(&validateFlags.boundary, "boundary", "", "decision boundary spec file (uses config if not specified)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dictionaryPath := validateFlags.dictionary
	if dictionaryPath == "" {
		dictionaryPath = cfg.Policy.DictionaryPath
	}
	boundaryPath := validateFlags.boundary
	if boundaryPath == "" {
		boundaryPath = cfg.Policy.BoundaryPath
	}

	bundle, err := policy.LoadBundle(dictionaryPath, boundaryPath)
	if err != nil {
		return fmt.Errorf("policy validation failed: %w", err)
	}

	fmt.Printf("Capability dictionary: %s (version %s)\n", dictionaryPath, bundle.Dictionary().Version)
	fmt.Printf("  sha256: %s\n", bundle.DictionaryHash())
	fmt.Printf("Decision boundary spec: %s (version %s)\n", boundaryPath, bundle.Boundary().Version)
	fmt.Printf("  sha256: %s\n", bundle.BoundaryHash())
	fmt.Println("Policy files are valid.")
	return nil
}

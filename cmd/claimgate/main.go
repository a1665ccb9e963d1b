// Claimgate is a governed decision engine for insurance claims advisory.
//
// It drives claims through a fixed pipeline in which a deterministic
// advisory model may only suggest, a human must confirm every outcome, and
// every stage transition is recorded in a hash-chained, append-only audit
// ledger before it takes effect.
//
// Usage:
//
//	# Evaluate a claim file and confirm the suggestion
//	claimgate decide --claim claim.yaml --confirm --reason "matches prior claim pattern" --reviewer adjuster-7
//
//	# Evaluate a claim file and reject the suggestion with a rationale
//	claimgate decide --claim claim.yaml --reject --reason "estimate disputed" --reviewer adjuster-7
//
//	# Validate policy files
//	claimgate validate
//
//	# Print and verify a claim's audit chain
//	claimgate audit <claim-id> --verify
//
//	# Show version information
//	claimgate version
package main

func main() {
	Execute()
}

// Package claim defines the input data model for the governed decision engine:
// the claim submitted for evaluation and the human confirmation that closes it.
//
// Both types are value objects. A claim.Input is constructed once per
// evaluation and never modified by the pipeline; a claim.HumanConfirmation is
// created exactly once per evaluation by the reviewing human and is immutable
// after creation.
//
// Nothing in this package performs validation beyond enum parsing. Field-level
// and policy-level validation is the job of the govern package, which checks
// every input against the capability dictionary and boundary spec before the
// advisory model may see it.
package claim

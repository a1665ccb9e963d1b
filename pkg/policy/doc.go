// Package policy defines the frozen governance configuration for the decision
// engine: the capability dictionary and the decision boundary spec.
//
// # Capability dictionary
//
// The capability dictionary is the declarative allow-list of input fields the
// engine may accept. Each field carries an allowed flag and either an
// enumerated value set or a numeric range. A field absent from the dictionary
// is never accepted as input. The dictionary also bounds which advisory
// categories are admissible per claim type; the governance validator enforces
// this against the advisory model's output before it may reach a human.
//
// # Decision boundary spec
//
// The boundary spec is the frozen rule table the advisory step evaluates
// against: damage thresholds, risk weights, the injury multiplier, and the
// severity score thresholds. It is versioned external configuration.
//
// # Immutability
//
// Both documents are loaded exactly once at process start, validated, and
// sealed into a Bundle. The Bundle exposes no mutation operation; Reload
// always fails with ErrPolicyFrozen. A FreezeGuard can additionally watch the
// policy files on disk and report any runtime modification attempt as a
// governance violation without ever applying it.
package policy

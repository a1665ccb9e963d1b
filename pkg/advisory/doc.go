// Package advisory defines the advisory model capability: a pluggable,
// deterministic function from a validated claim to a non-binding severity
// suggestion with full explainability.
//
// Every suggestion carries the constant ADVISORY_ONLY governance tag,
// a confidence score, ordered human-readable rule signals, and an
// entropy-based uncertainty assessment. A suggestion is never actionable by
// itself: the decision engine routes it through the governance validator and
// the human gate before anything becomes final.
//
// The package ships one implementation, BoundaryModel, a rule table over the
// frozen decision boundary spec. A trained classifier can replace it behind
// the same Model interface; the governance and audit contracts are identical
// either way.
//
// Failure policy is fail-safe: a model that cannot produce a suggestion
// returns UnavailableError. It never returns a default guess.
package advisory

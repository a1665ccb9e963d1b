// Package govern implements the governance validator: the checkpoint every
// claim passes before the advisory model may see it, and every advisory
// suggestion passes before a human may see it.
//
// Validation is a pure function. It either produces a ValidatedInput or
// refuses with a typed error; it never corrects input silently. The
// ValidatedInput type can only be constructed by this package, so an advisory
// model that accepts a *ValidatedInput cannot be invoked with unvalidated
// data.
//
// The second pass, ValidateSuggestion, defends against a misbehaving or
// misconfigured advisory model: a suggestion whose category is not admissible
// for the claim type, whose confidence is out of range, or whose ADVISORY_ONLY
// tag was tampered with is rejected as a boundary violation.
//
// Error taxonomy: UnknownFieldError (field absent from the capability
// dictionary), OutOfRangeError (declared range or enum violated), and
// BoundaryViolationError (advisory output outside the frozen boundaries).
package govern

package govern

import "fmt"

// UnknownFieldError indicates an input field that is absent from the
// capability dictionary, or present but not allowed. Fields outside the
// dictionary are never accepted.
type UnknownFieldError struct {
	Field string
}

// Error returns the error message.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("governance: field %q is not permitted by the capability dictionary", e.Field)
}

// OutOfRangeError indicates a field value outside its declared range or
// enumerated value set.
type OutOfRangeError struct {
	Field  string
	Value  interface{}
	Reason string
}

// Error returns the error message.
func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("governance: field %q value %v out of range: %s", e.Field, e.Value, e.Reason)
}

// BoundaryViolationError indicates an advisory suggestion that exceeds the
// frozen decision boundaries, for example a category the capability
// dictionary does not admit for the claim type.
type BoundaryViolationError struct {
	ClaimType string
	Category  string
	Reason    string
}

// Error returns the error message.
func (e *BoundaryViolationError) Error() string {
	return fmt.Sprintf("governance: advisory output for %s claim violates decision boundaries: %s", e.ClaimType, e.Reason)
}

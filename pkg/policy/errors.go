package policy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPolicyFrozen indicates an attempt to mutate or reload policy at runtime.
// The capability dictionary and boundary spec are loaded once at process
// start and are immutable for the process lifetime.
var ErrPolicyFrozen = errors.New("policy is frozen: runtime mutation is not permitted")

// ErrorType categorizes a policy validation failure.
type ErrorType string

const (
	// ErrorTypeSyntax indicates a YAML syntax or I/O failure.
	ErrorTypeSyntax ErrorType = "syntax"

	// ErrorTypeStructural indicates a missing or malformed required field.
	ErrorTypeStructural ErrorType = "structural"

	// ErrorTypeSemantic indicates internally inconsistent policy content
	// (e.g. unordered thresholds, unknown categories).
	ErrorTypeSemantic ErrorType = "semantic"
)

// Error is a single policy validation failure with enough context to fix the
// offending document.
type Error struct {
	Type    ErrorType // Category of error
	Path    string    // Dotted path to the offending field (e.g. "fields.damage_amount.min")
	Message string    // What is wrong
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Path, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// ErrorList accumulates validation failures so a single pass reports every
// problem in a policy document instead of failing on the first.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{Errors: make([]*Error, 0)}
}

// Add appends an error to the list.
func (el *ErrorList) Add(errType ErrorType, path, message string) {
	el.Errors = append(el.Errors, &Error{Type: errType, Path: path, Message: message})
}

// HasErrors reports whether any errors were accumulated.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// HasErrorType reports whether any error of the given type was accumulated.
func (el *ErrorList) HasErrorType(errType ErrorType) bool {
	for _, err := range el.Errors {
		if err.Type == errType {
			return true
		}
	}
	return false
}

// Error implements the error interface, formatting all accumulated errors.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "policy validation failed with %d error(s):\n", len(el.Errors))
	for _, err := range el.Errors {
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToError returns nil when the list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

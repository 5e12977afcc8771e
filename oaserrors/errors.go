// Package oaserrors provides structured error types for oasref.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and report the precise location of a failure.
//
// # Error Categories
//
//   - ParseError: YAML/JSON decoding failures of a source document
//   - MalformedPointerError: a JSON Pointer violating RFC 6901 escaping
//   - AmbiguousPathEncodingError: a pointer whose percent-encoding cannot be decoded
//   - ReferenceError: $ref/$dynamicRef resolution failures and pure reference loops
//   - DuplicateIdentifierError: the same $id/$anchor/$dynamicAnchor declared twice in a scope
//   - ComponentConflictError: colliding component names under the "error" strategy
//   - ResourceLimitError: resource exhaustion (depth, size limits)
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.As
//
//	result, err := walker.Walk(doc)
//	if err != nil {
//	    var refErr *oaserrors.ReferenceError
//	    if errors.As(err, &refErr) {
//	        fmt.Printf("cannot resolve %s at %s\n", refErr.Ref, refErr.Path)
//	    }
//	}
package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a reference loop that never reaches a value.
	ErrCircularReference = errors.New("circular reference")

	// ErrMalformedPointer indicates a JSON Pointer with invalid escaping.
	ErrMalformedPointer = errors.New("malformed pointer")

	// ErrAmbiguousPathEncoding indicates a pointer that failed percent-decoding.
	ErrAmbiguousPathEncoding = errors.New("ambiguous path encoding")

	// ErrDuplicateIdentifier indicates a duplicated $id, $anchor or $dynamicAnchor.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// ErrComponentConflict indicates a component name collision during a join.
	ErrComponentConflict = errors.New("component conflict")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a failure to decode a source document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// MalformedPointerError reports a JSON Pointer that violates RFC 6901,
// such as a "~" not followed by "0" or "1".
type MalformedPointerError struct {
	// Pointer is the offending pointer as written
	Pointer string
	// Token is the offending reference token (may be empty)
	Token string
	// Message describes the violation
	Message string
}

// Error returns a human-readable error message.
func (e *MalformedPointerError) Error() string {
	msg := "malformed pointer"
	if e.Pointer != "" {
		msg += " " + quote(e.Pointer)
	}
	if e.Token != "" {
		msg += " (token " + quote(e.Token) + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as MalformedPointerError has no underlying cause.
func (e *MalformedPointerError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *MalformedPointerError) Is(target error) bool {
	return target == ErrMalformedPointer
}

// AmbiguousPathEncodingError reports a reference whose percent-encoding
// cannot be decoded into a single pointer.
type AmbiguousPathEncodingError struct {
	// Ref is the reference string as written
	Ref string
	// Cause is the decoding error
	Cause error
}

// Error returns a human-readable error message.
func (e *AmbiguousPathEncodingError) Error() string {
	msg := "ambiguous path encoding"
	if e.Ref != "" {
		msg += ": " + quote(e.Ref)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *AmbiguousPathEncodingError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *AmbiguousPathEncodingError) Is(target error) bool {
	return target == ErrAmbiguousPathEncoding
}

// ReferenceError represents a failure to resolve a $ref or $dynamicRef.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Keyword is the referencing keyword: "$ref" or "$dynamicRef"
	Keyword string
	// Path is the JSON Pointer of the node holding the reference
	Path string
	// IsCircular is true when the reference only leads back to itself
	IsCircular bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also ErrCircularReference when IsCircular is set.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	return target == ErrCircularReference && e.IsCircular
}

// DuplicateIdentifierError reports two declarations of the same identifier
// within one base URI scope.
type DuplicateIdentifierError struct {
	// Identifier is the duplicated $id URI or anchor name
	Identifier string
	// Keyword is "$id", "$anchor" or "$dynamicAnchor"
	Keyword string
	// Scope is the base URI the declarations share ("" for the document root)
	Scope string
	// FirstPath is the JSON Pointer of the first declaration
	FirstPath string
	// SecondPath is the JSON Pointer of the conflicting declaration
	SecondPath string
}

// Error returns a human-readable error message.
func (e *DuplicateIdentifierError) Error() string {
	msg := "duplicate identifier"
	if e.Keyword != "" {
		msg += " " + e.Keyword
	}
	msg += " " + quote(e.Identifier)
	if e.Scope != "" {
		msg += " in scope " + e.Scope
	}
	msg += fmt.Sprintf(": declared at %s and %s", e.FirstPath, e.SecondPath)
	return msg
}

// Unwrap returns nil as DuplicateIdentifierError has no underlying cause.
func (e *DuplicateIdentifierError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *DuplicateIdentifierError) Is(target error) bool {
	return target == ErrDuplicateIdentifier
}

// ComponentConflictError reports a component name present in more than one
// joined document when the conflict strategy forbids collisions.
type ComponentConflictError struct {
	// Section is the component section (e.g., "schemas", "paths")
	Section string
	// Name is the colliding component name
	Name string
	// Source identifies the document that introduced the collision
	Source string
}

// Error returns a human-readable error message.
func (e *ComponentConflictError) Error() string {
	msg := fmt.Sprintf("component conflict: %s/%s", e.Section, e.Name)
	if e.Source != "" {
		msg += " in " + e.Source
	}
	return msg
}

// Unwrap returns nil as ComponentConflictError has no underlying cause.
func (e *ComponentConflictError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ComponentConflictError) Is(target error) bool {
	return target == ErrComponentConflict
}

// ResourceLimitError represents a resource exhaustion condition.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "ref_depth", "nesting_depth", "file_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ResourceLimitError has no underlying cause.
func (e *ResourceLimitError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

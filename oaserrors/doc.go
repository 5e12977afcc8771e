// Package oaserrors provides structured error types for the oasref library.
//
// Import path: github.com/erraggy/oasref/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and
// report the document location (pointer, URI) carried by each error.
//
// # Error Types
//
//   - [ParseError]: YAML/JSON decoding failures of a source document
//   - [MalformedPointerError]: JSON Pointer escaping violations (RFC 6901)
//   - [AmbiguousPathEncodingError]: percent-decoding failures in a reference
//   - [ReferenceError]: unresolvable $ref/$dynamicRef, unknown anchors or $id URIs
//   - [DuplicateIdentifierError]: duplicated $id, $anchor or $dynamicAnchor in a scope
//   - [ComponentConflictError]: component collisions under the "error" join strategy
//   - [ResourceLimitError]: resource exhaustion (depth, size limits)
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrMalformedPointer]: Matches any [MalformedPointerError]
//   - [ErrAmbiguousPathEncoding]: Matches any [AmbiguousPathEncodingError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrCircularReference]: Matches [ReferenceError] with IsCircular=true
//   - [ErrDuplicateIdentifier]: Matches any [DuplicateIdentifierError]
//   - [ErrComponentConflict]: Matches any [ComponentConflictError]
//   - [ErrResourceLimit]: Matches any [ResourceLimitError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Propagation
//
// Every error raised while resolving a document aborts that document's
// resolution. Callers are expected to catch errors at the document boundary
// and report the source name together with the pointer or URI in the error:
//
//	var dupErr *oaserrors.DuplicateIdentifierError
//	if errors.As(err, &dupErr) {
//	    fmt.Printf("%s declared twice: %s and %s\n",
//	        dupErr.Identifier, dupErr.FirstPath, dupErr.SecondPath)
//	}
package oaserrors

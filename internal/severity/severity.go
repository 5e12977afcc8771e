// Package severity ranks the diagnostics reported while joining documents.
//
// Levels are ordered Info < Warning < Error, so a threshold filter is a
// plain comparison.
package severity

import "fmt"

// Severity indicates how much attention a diagnostic needs.
type Severity int

const (
	// SeverityInfo is a notice about a choice the library made, such as a rename.
	SeverityInfo Severity = iota
	// SeverityWarning means input was dropped or replaced.
	SeverityWarning
	// SeverityError means the operation could not complete.
	SeverityError
)

var names = [...]string{"info", "warning", "error"}

// String returns the lower-case level name, or "unknown".
func (s Severity) String() string {
	if s < 0 || int(s) >= len(names) {
		return "unknown"
	}
	return names[s]
}

// AtLeast reports whether s is as severe as min or more.
func (s Severity) AtLeast(min Severity) bool {
	return s >= min
}

// MarshalText encodes the level by name.
func (s Severity) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(names) {
		return nil, fmt.Errorf("severity: unknown level %d", int(s))
	}
	return []byte(names[s]), nil
}

// Parse returns the level with the given name.
func Parse(name string) (Severity, error) {
	for i, n := range names {
		if n == name {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("severity: unknown level %q", name)
}

package joiner

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasref/internal/severity"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WarningCategory identifies the type of warning.
type WarningCategory string

const (
	// WarnComponentRenamed indicates a component was renamed due to a collision.
	WarnComponentRenamed WarningCategory = "component_renamed"
	// WarnComponentIgnored indicates an incoming component lost to an earlier one.
	WarnComponentIgnored WarningCategory = "component_ignored"
	// WarnOperationCollision indicates an operation declared by two documents.
	WarnOperationCollision WarningCategory = "operation_collision"
	// WarnPathItemCollision indicates a path item that could not be merged per operation.
	WarnPathItemCollision WarningCategory = "path_item_collision"
	// WarnTopLevelOverride indicates a top-level value replaced by a later document.
	WarnTopLevelOverride WarningCategory = "top_level_override"
	// WarnGenericSourceName indicates a document has an empty source name.
	// This makes collision reports less useful for identifying which document caused the collision.
	WarnGenericSourceName WarningCategory = "generic_source_name"
)

// Label returns the category in title case for reports, e.g. "Component Renamed".
func (c WarningCategory) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(c), "_", " "))
}

// JoinWarning represents a structured warning from the joiner package.
// It provides detailed context about non-fatal issues encountered during document joining.
type JoinWarning struct {
	// Category identifies the type of warning.
	Category WarningCategory
	// Path is the JSON pointer of the affected element.
	Path string
	// Message is a human-readable description.
	Message string
	// SourceFile is the document that triggered the warning.
	SourceFile string
	// Severity indicates warning severity.
	Severity severity.Severity
	// Context provides additional details.
	Context map[string]any
}

// String returns the warning message.
func (w *JoinWarning) String() string {
	return w.Message
}

// NewComponentRenamedWarning creates a warning when a component is renamed.
func NewComponentRenamedWarning(r Rename, pointer string) *JoinWarning {
	return &JoinWarning{
		Category:   WarnComponentRenamed,
		Path:       pointer,
		Message:    fmt.Sprintf("%s '%s' from %s renamed to '%s'", r.Section, r.From, r.Source, r.To),
		SourceFile: r.Source,
		Severity:   severity.SeverityInfo,
		Context: map[string]any{
			"original_name": r.From,
			"new_name":      r.To,
			"section":       r.Section,
		},
	}
}

// NewComponentIgnoredWarning creates a warning when an incoming component is dropped.
func NewComponentIgnoredWarning(section, name, pointer, firstFile, secondFile string) *JoinWarning {
	return &JoinWarning{
		Category:   WarnComponentIgnored,
		Path:       pointer,
		Message:    fmt.Sprintf("%s '%s' from %s ignored (kept from %s)", section, name, secondFile, firstFile),
		SourceFile: secondFile,
		Severity:   severity.SeverityWarning,
		Context: map[string]any{
			"section":     section,
			"first_file":  firstFile,
			"second_file": secondFile,
		},
	}
}

// NewOperationCollisionWarning creates a warning for an operation declared twice.
func NewOperationCollisionWarning(path, method, pointer, firstFile, secondFile string) *JoinWarning {
	return &JoinWarning{
		Category:   WarnOperationCollision,
		Path:       pointer,
		Message:    fmt.Sprintf("operation %s %s from %s ignored (kept from %s)", strings.ToUpper(method), path, secondFile, firstFile),
		SourceFile: secondFile,
		Severity:   severity.SeverityWarning,
		Context: map[string]any{
			"path":        path,
			"method":      method,
			"first_file":  firstFile,
			"second_file": secondFile,
		},
	}
}

// NewPathItemCollisionWarning creates a warning for a path item that is a
// reference or not a mapping in one of the documents.
func NewPathItemCollisionWarning(path, pointer, firstFile, secondFile string) *JoinWarning {
	return &JoinWarning{
		Category:   WarnPathItemCollision,
		Path:       pointer,
		Message:    fmt.Sprintf("path '%s' from %s ignored (kept from %s)", path, secondFile, firstFile),
		SourceFile: secondFile,
		Severity:   severity.SeverityWarning,
		Context: map[string]any{
			"first_file":  firstFile,
			"second_file": secondFile,
		},
	}
}

// NewTopLevelOverrideWarning creates a warning when a later document replaces a top-level value.
func NewTopLevelOverrideWarning(key, firstFile, secondFile string) *JoinWarning {
	return &JoinWarning{
		Category:   WarnTopLevelOverride,
		Path:       "#/" + key,
		Message:    fmt.Sprintf("%s from %s replaced by %s", key, firstFile, secondFile),
		SourceFile: secondFile,
		Severity:   severity.SeverityInfo,
		Context: map[string]any{
			"field":       key,
			"first_file":  firstFile,
			"second_file": secondFile,
		},
	}
}

// IsGenericSourceName returns true if the source name carries no information.
func IsGenericSourceName(name string) bool {
	return strings.TrimSpace(name) == ""
}

// NewGenericSourceNameWarning creates a warning when a document has an empty source name.
func NewGenericSourceNameWarning(name string, docIndex int) *JoinWarning {
	return &JoinWarning{
		Category: WarnGenericSourceName,
		Message: fmt.Sprintf("document %d has empty source name - collision reports will be unclear. "+
			"Set Source.Name to a meaningful identifier before joining", docIndex),
		SourceFile: name,
		Severity:   severity.SeverityInfo,
		Context: map[string]any{
			"doc_index": docIndex,
		},
	}
}

// JoinWarnings is a collection of JoinWarning.
type JoinWarnings []*JoinWarning

// Strings returns the warning messages.
func (ws JoinWarnings) Strings() []string {
	result := make([]string, len(ws))
	for i, w := range ws {
		if w == nil {
			continue
		}
		result[i] = w.String()
	}
	return result
}

// ByCategory filters warnings by category.
func (ws JoinWarnings) ByCategory(cat WarningCategory) JoinWarnings {
	var result JoinWarnings
	for _, w := range ws {
		if w.Category == cat {
			result = append(result, w)
		}
	}
	return result
}

// BySeverity filters warnings by severity.
func (ws JoinWarnings) BySeverity(sev severity.Severity) JoinWarnings {
	var result JoinWarnings
	for _, w := range ws {
		if w.Severity == sev {
			result = append(result, w)
		}
	}
	return result
}

// CountByCategory returns the number of warnings per category in order of
// first appearance.
func (ws JoinWarnings) CountByCategory() ([]WarningCategory, map[WarningCategory]int) {
	var order []WarningCategory
	counts := make(map[WarningCategory]int)
	for _, w := range ws {
		if w == nil {
			continue
		}
		if counts[w.Category] == 0 {
			order = append(order, w.Category)
		}
		counts[w.Category]++
	}
	return order, counts
}

// Summary returns a formatted summary of warnings.
func (ws JoinWarnings) Summary() string {
	if len(ws) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d warning(s):\n", len(ws))
	for _, w := range ws {
		sb.WriteString("  - ")
		sb.WriteString(w.String())
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

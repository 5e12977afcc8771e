package joiner

import "github.com/erraggy/oasref/internal/severity"

// Resolutions recorded on collision events.
const (
	ResolutionRenamed     = "renamed"
	ResolutionKeptEarlier = "kept-earlier"
	ResolutionFailed      = "failed"
)

// CollisionReport provides detailed analysis of collisions encountered during join operations
type CollisionReport struct {
	TotalCollisions   int
	ResolvedByRename  int
	ResolvedByKeeping int
	FailedCollisions  int
	Events            []CollisionEvent
}

// CollisionEvent represents a single collision occurrence with resolution details
type CollisionEvent struct {
	Section     string // component section, or "paths"/"webhooks"
	Name        string // component name, or the path for path collisions
	Pointer     string
	LeftSource  string
	RightSource string
	Strategy    ConflictStrategy
	Resolution  string
	NewName     string // For rename resolutions
	Severity    severity.Severity
}

// NewCollisionReport creates an empty collision report
func NewCollisionReport() *CollisionReport {
	return &CollisionReport{
		Events: make([]CollisionEvent, 0),
	}
}

// AddEvent adds a collision event to the report and updates counters
func (r *CollisionReport) AddEvent(event CollisionEvent) {
	r.Events = append(r.Events, event)
	r.TotalCollisions++

	switch event.Resolution {
	case ResolutionRenamed:
		r.ResolvedByRename++
	case ResolutionKeptEarlier:
		r.ResolvedByKeeping++
	case ResolutionFailed:
		r.FailedCollisions++
	}
}

// HasFailures returns true if any collisions failed to resolve
func (r *CollisionReport) HasFailures() bool {
	return r.FailedCollisions > 0
}

// GetByResolution returns events with a specific resolution type
func (r *CollisionReport) GetByResolution(resolution string) []CollisionEvent {
	var filtered []CollisionEvent
	for _, event := range r.Events {
		if event.Resolution == resolution {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

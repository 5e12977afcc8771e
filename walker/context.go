package walker

import (
	"context"

	"github.com/erraggy/oasref/jsonptr"
)

// WalkContext provides contextual information about the output node being visited.
// It follows the http.Request pattern for context access.
type WalkContext struct {
	// JSONPath is the pointer of the position in the output.
	// Always populated. Example: "#/paths/~1pets/get"
	JSONPath string

	// Path is the same position as a key sequence.
	Path jsonptr.Path

	// Name is the map key of the node. Empty for array items and the root.
	Name string

	// IsComponent is true when the node sits exactly at a component location,
	// components/<section>/<name> (OAS 3.x) or definitions/<name> and the other
	// Swagger 2.0 sections.
	IsComponent bool

	// CurrentRef describes the reference being replaced when the node is the
	// result of resolving one. Nil for every other node.
	CurrentRef *RefInfo

	ctx context.Context
}

// Context returns the context.Context for cancellation and deadline propagation.
// Returns context.Background() if no context was set.
func (wc *WalkContext) Context() context.Context {
	if wc.ctx == nil {
		return context.Background()
	}
	return wc.ctx
}

// WithContext returns a shallow copy of WalkContext with the new context.
func (wc *WalkContext) WithContext(ctx context.Context) *WalkContext {
	wc2 := *wc
	wc2.ctx = ctx
	return &wc2
}

// IsReferenceSite reports whether the node replaces a reference.
func (wc *WalkContext) IsReferenceSite() bool {
	return wc.CurrentRef != nil
}

func buildContext(nav jsonptr.Navigation, ref *RefInfo, ctx context.Context) *WalkContext {
	p := nav.Path()
	wc := &WalkContext{
		JSONPath:   jsonptr.FormatPointer(p),
		Path:       p,
		CurrentRef: ref,
		ctx:        ctx,
	}
	if last, ok := p.Last(); ok && !last.IsIndex() {
		wc.Name = last.String()
	}
	_, wc.IsComponent = jsonptr.ComponentOf(p)
	return wc
}

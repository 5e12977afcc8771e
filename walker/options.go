package walker

import (
	"context"

	"github.com/erraggy/oasref/parser"
)

// DefaultMaxDepth is the default limit on nesting depth, counting every
// container and every reference hop.
const DefaultMaxDepth = 1000

// Option configures a walk.
type Option func(*Walker)

// WithVisitor adds a visitor. Visitors run in the order they were added.
func WithVisitor(v Visitor) Option {
	return func(w *Walker) {
		if v != nil {
			w.visitors = append(w.visitors, v)
		}
	}
}

// WithMarkers enables or disables the x-resolved-from / x-resolved-at
// annotations. Markers are enabled by default.
//
// A resolved target is shared by every site that reaches it, including its
// own declaration, so the declaration carries the markers of the first
// reference that resolved it. Output that must keep declarations unmarked
// should disable markers and run [MarkerVisitor] selectively.
func WithMarkers(enabled bool) Option {
	return func(w *Walker) {
		w.markers = enabled
	}
}

// WithMaxDepth sets the maximum nesting depth.
// If depth is not positive, it is silently ignored and the default is kept.
func WithMaxDepth(depth int) Option {
	return func(w *Walker) {
		if depth > 0 {
			w.maxDepth = depth
		}
	}
}

// WithRefHandler sets a handler called once per resolved reference site.
func WithRefHandler(fn RefHandler) Option {
	return func(w *Walker) {
		w.onRef = fn
	}
}

// WithLogger sets the logger for diagnostic output.
func WithLogger(l parser.Logger) Option {
	return func(w *Walker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithUserContext sets a context checked for cancellation as the walk
// descends. It is also available to visitors via wc.Context().
func WithUserContext(ctx context.Context) Option {
	return func(w *Walker) {
		w.userCtx = ctx
	}
}

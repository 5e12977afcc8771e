package walker

import (
	"context"
	"fmt"

	"github.com/erraggy/oasref/anchors"
	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/jsonptr"
	"github.com/erraggy/oasref/oaserrors"
	"github.com/erraggy/oasref/parser"
	"github.com/erraggy/oasref/resolver"
)

// Visitor is called post-order for every output node. The returned value
// replaces the node. At a circular reference site the node is still being
// built when the site is reached; the visitor then runs once the node is
// complete and its return value is ignored, so the cycle link is kept.
type Visitor func(wc *WalkContext, node any) (any, error)

// Walker holds the configuration of a walk.
type Walker struct {
	visitors []Visitor
	markers  bool
	maxDepth int
	onRef    RefHandler
	logger   parser.Logger
	userCtx  context.Context
}

// New creates a Walker with default settings: markers on, DefaultMaxDepth.
func New() *Walker {
	return &Walker{
		markers:  true,
		maxDepth: DefaultMaxDepth,
		logger:   parser.NopLogger{},
	}
}

// Result is the outcome of a successful walk.
type Result struct {
	// Document is the resolved document
	Document any
	// References lists every resolved reference site in walk order
	References []RefInfo
	// CircularRefs lists the reference sites that link back to an enclosing node
	CircularRefs []CircularRef
	// Index is the identifier index of the input document
	Index *anchors.Index
}

// HasCircularRefs reports whether the output contains cycles.
func (r *Result) HasCircularRefs() bool {
	return len(r.CircularRefs) > 0
}

// Walk resolves every reference in doc and returns the resolved copy.
func Walk(doc any, opts ...Option) (*Result, error) {
	w := New()
	for _, opt := range opts {
		opt(w)
	}
	return w.Walk(doc)
}

// Walk resolves every reference in doc with the walker's configuration.
func (w *Walker) Walk(doc any) (*Result, error) {
	idx, err := anchors.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("walker: indexing identifiers: %w", err)
	}

	s := &walkState{
		cfg:      w,
		doc:      doc,
		idx:      idx,
		rctx:     resolver.NewContext(doc, idx),
		dynamic:  idx.HasDynamicAnchors(),
		memo:     make(map[memoKey]*entry),
		refChain: make(map[chainKey]bool),
		result:   &Result{Index: idx},
	}

	out, err := s.walkValue(jsonptr.New(doc), doc, 0)
	if err != nil {
		return nil, err
	}
	s.result.Document = out
	w.logger.Debug("walk complete",
		"references", len(s.result.References),
		"circular", len(s.result.CircularRefs),
		"identifiers", idx.Len())
	return s.result, nil
}

type memoKey struct {
	id  any
	sig string
}

type chainKey struct {
	path string
	sig  string
}

type arrayID struct {
	first *any
	n     int
}

// entry is the output of one source container. done is false while its
// children are still being walked.
type entry struct {
	out      any
	nav      jsonptr.Navigation
	done     bool
	deferred []func(final any) error
}

type walkState struct {
	cfg      *Walker
	doc      any
	idx      *anchors.Index
	rctx     *resolver.Context
	dynamic  bool
	memo     map[memoKey]*entry
	refChain map[chainKey]bool
	result   *Result
}

func (s *walkState) checkLimits(nav jsonptr.Navigation, depth int) error {
	if depth > s.cfg.maxDepth {
		return &oaserrors.ResourceLimitError{
			ResourceType: "nesting_depth",
			Limit:        int64(s.cfg.maxDepth),
			Actual:       int64(depth),
			Message:      "structure too deeply nested at " + nav.Fragment(),
		}
	}
	if s.cfg.userCtx != nil {
		if err := s.cfg.userCtx.Err(); err != nil {
			return fmt.Errorf("walker: %w", err)
		}
	}
	return nil
}

func (s *walkState) walkValue(nav jsonptr.Navigation, v any, depth int) (any, error) {
	if err := s.checkLimits(nav, depth); err != nil {
		return nil, err
	}
	if ref, ok := resolver.ReferenceOf(v); ok {
		return s.walkRef(nav, ref, depth)
	}
	if isWalkable(v) {
		e, err := s.walkContainer(nav, v, depth, false)
		if err != nil {
			return nil, err
		}
		return e.out, nil
	}
	return s.visit(nav, scalarCopy(v), nil)
}

func isWalkable(v any) bool {
	switch node := v.(type) {
	case *document.Object:
		return node != nil
	case []any:
		return len(node) > 0
	}
	return false
}

func scalarCopy(v any) any {
	switch node := v.(type) {
	case *document.Object:
		if node == nil {
			return nil
		}
	case []any:
		return []any{}
	}
	return v
}

func identity(v any) any {
	if s, ok := v.([]any); ok {
		return arrayID{first: &s[0], n: len(s)}
	}
	return v
}

// walkContainer walks a non-empty object or array, or returns the entry
// already registered for it. viaRef is set when v is a reference target;
// the reference site then records any cycle itself.
func (s *walkState) walkContainer(nav jsonptr.Navigation, v any, depth int, viaRef bool) (*entry, error) {
	if s.dynamic {
		uri, _ := s.idx.ScopeAt(nav.Path())
		if s.rctx.PushScope(uri) {
			defer s.rctx.PopScope()
		}
	}

	key := memoKey{id: identity(v), sig: s.rctx.Signature()}
	if e, ok := s.memo[key]; ok {
		if !e.done && !viaRef {
			// The input itself is cyclic (an already resolved document).
			s.recordCycle(nav.Fragment(), e.nav.Fragment())
		}
		return e, nil
	}

	e := &entry{nav: nav}
	s.memo[key] = e

	switch src := v.(type) {
	case *document.Object:
		out := document.NewObject(src.Len())
		e.out = out
		for k, child := range src.All() {
			childOut, err := s.walkValue(nav.WithName(k), child, depth+1)
			if err != nil {
				return nil, err
			}
			out.Set(k, childOut)
		}
	case []any:
		out := make([]any, len(src))
		e.out = out
		for i, child := range src {
			childOut, err := s.walkValue(nav.WithIndex(i), child, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = childOut
		}
	}
	e.done = true

	final, err := s.visit(nav, e.out, nil)
	if err != nil {
		return nil, err
	}
	e.out = final
	for _, fn := range e.deferred {
		if err := fn(final); err != nil {
			return nil, err
		}
	}
	e.deferred = nil
	return e, nil
}

func (s *walkState) walkRef(nav jsonptr.Navigation, ref resolver.Reference, depth int) (any, error) {
	out, _, err := s.resolveRef(nav, ref, depth)
	return out, err
}

// resolveRef replaces the reference at nav with its walked target. A non-nil
// entry is returned when the target is still being built.
func (s *walkState) resolveRef(nav jsonptr.Navigation, ref resolver.Reference, depth int) (any, *entry, error) {
	// The resource holding the reference is part of the dynamic scope.
	if s.dynamic {
		uri, _ := s.idx.ScopeAt(nav.Path())
		if s.rctx.PushScope(uri) {
			defer s.rctx.PopScope()
		}
	}

	target, err := resolver.Resolve(s.rctx, nav, ref)
	if err != nil {
		return nil, nil, err
	}

	info := &RefInfo{
		Ref:        ref.URI,
		Keyword:    ref.Keyword(),
		SourcePath: nav.Fragment(),
		TargetPath: target.Fragment(),
	}
	tnav := jsonptr.At(s.doc, target.Path)
	if err := s.checkLimits(tnav, depth+1); err != nil {
		return nil, nil, err
	}

	var (
		out     any
		pending *entry
	)
	switch {
	case resolver.IsReference(target.Value):
		inner, _ := resolver.ReferenceOf(target.Value)
		k := chainKey{path: info.TargetPath, sig: s.rctx.Signature()}
		if s.refChain[k] {
			return nil, nil, &oaserrors.ReferenceError{
				Ref:        ref.URI,
				Keyword:    ref.Keyword(),
				Path:       info.SourcePath,
				IsCircular: true,
				Message:    "reference chain never reaches a value",
			}
		}
		s.refChain[k] = true
		out, pending, err = s.resolveRef(tnav, inner, depth+1)
		delete(s.refChain, k)
		if err != nil {
			return nil, nil, err
		}

	case isWalkable(target.Value):
		e, err := s.walkContainer(tnav, target.Value, depth+1, true)
		if err != nil {
			return nil, nil, err
		}
		out = e.out
		if !e.done {
			pending = e
		}

	default:
		out = scalarCopy(target.Value)
	}

	info.Circular = pending != nil
	s.result.References = append(s.result.References, *info)
	if info.Circular {
		s.recordCycle(info.SourcePath, info.TargetPath)
	} else {
		s.cfg.logger.Debug("resolved reference", "ref", info.Ref, "at", info.SourcePath, "target", info.TargetPath)
	}
	if s.cfg.onRef != nil {
		s.cfg.onRef(buildContext(nav, info, s.cfg.userCtx), info)
	}

	if pending != nil {
		pending.deferred = append(pending.deferred, func(final any) error {
			_, err := s.visit(nav, final, info)
			return err
		})
		return out, pending, nil
	}
	out, err = s.visit(nav, out, info)
	return out, nil, err
}

func (s *walkState) recordCycle(from, to string) {
	s.result.CircularRefs = append(s.result.CircularRefs, CircularRef{From: from, To: to})
	s.cfg.logger.Debug("circular reference preserved", "from", from, "to", to)
}

// visit runs the marker visitor at reference sites and then the configured
// visitors.
func (s *walkState) visit(nav jsonptr.Navigation, node any, ref *RefInfo) (any, error) {
	markers := s.cfg.markers && ref != nil
	if !markers && len(s.cfg.visitors) == 0 {
		return node, nil
	}

	wc := buildContext(nav, ref, s.cfg.userCtx)
	if markers {
		node = markResolved(wc, node)
	}
	for _, v := range s.cfg.visitors {
		var err error
		node, err = v(wc, node)
		if err != nil {
			return nil, fmt.Errorf("walker: visitor at %s: %w", wc.JSONPath, err)
		}
	}
	return node, nil
}

// markResolved annotates a resolved object with the reference that first
// resolved it and the pointer of its declaration.
func markResolved(wc *WalkContext, node any) any {
	obj, ok := document.AsObject(node)
	if !ok || wc.CurrentRef == nil || obj.Has(document.MarkerResolvedFrom) {
		return node
	}
	obj.Set(document.MarkerResolvedFrom, wc.CurrentRef.Ref)
	obj.Set(document.MarkerResolvedAt, wc.CurrentRef.TargetPath)
	return obj
}

// MarkerVisitor is the visitor used for the built-in markers, exposed for
// callers that disable them and want to run them selectively.
func MarkerVisitor(wc *WalkContext, node any) (any, error) {
	return markResolved(wc, node), nil
}

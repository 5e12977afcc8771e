package resolver

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasref/anchors"
	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/jsonptr"
	"github.com/erraggy/oasref/oaserrors"
)

// Target is a resolved reference.
type Target struct {
	// Value is the raw node in the document
	Value any
	// Path is the location of Value
	Path jsonptr.Path
	// Scope is the base URI in effect at Path
	Scope string
}

// Fragment returns the pointer fragment of the target.
func (t Target) Fragment() string {
	return jsonptr.FormatPointer(t.Path)
}

// Resolve resolves ref, found at nav, within ctx.
//
// Every failure is a *oaserrors.ReferenceError carrying the reference text
// and the referencing location; pointer syntax errors are available through
// errors.As as *oaserrors.MalformedPointerError or
// *oaserrors.AmbiguousPathEncodingError.
func Resolve(ctx *Context, nav jsonptr.Navigation, ref Reference) (Target, error) {
	r := resolution{ctx: ctx, nav: nav, ref: ref}
	return r.resolve()
}

type resolution struct {
	ctx *Context
	nav jsonptr.Navigation
	ref Reference
}

func (r *resolution) fail(msg string, cause error) error {
	return &oaserrors.ReferenceError{
		Ref:     r.ref.URI,
		Keyword: r.ref.Keyword(),
		Path:    r.nav.Fragment(),
		Message: msg,
		Cause:   cause,
	}
}

func (r *resolution) resolve() (Target, error) {
	base, fragment, err := SplitReference(r.ref.URI)
	if err != nil {
		return Target{}, r.fail("", err)
	}

	idx := r.ctx.index
	scopeURI, scopeRoot := idx.ScopeAt(r.nav.Path())
	local := base == ""
	if !local {
		uri, _, err := anchors.ResolveURI(scopeURI, base)
		if err != nil {
			return Target{}, r.fail("invalid base URI", err)
		}
		rec, ok := idx.LookupID(uri)
		if !ok {
			return Target{}, r.fail(fmt.Sprintf("unresolvable reference: no $id matches %s and external documents are not loaded", uri), nil)
		}
		scopeURI, scopeRoot = uri, rec.Path
	}

	name, err := decodeName(fragment)
	if err != nil {
		return Target{}, r.fail("", err)
	}

	switch {
	case name == "":
		return r.target(scopeRoot)
	case strings.HasPrefix(name, "/"):
		return r.resolvePointer(fragment, scopeRoot, local)
	default:
		return r.resolveAnchor(scopeURI, name)
	}
}

func (r *resolution) resolvePointer(fragment string, scopeRoot jsonptr.Path, local bool) (Target, error) {
	p, err := jsonptr.ParsePointer(fragment)
	if err != nil {
		return Target{}, r.fail("", err)
	}

	full := scopeRoot.Concat(p)
	if _, ok := jsonptr.Lookup(r.ctx.doc, full); ok {
		return r.target(full)
	}
	// OpenAPI documents routinely point at #/components/... from inside a
	// schema that carries its own $id.
	if local && len(scopeRoot) > 0 {
		if _, ok := jsonptr.Lookup(r.ctx.doc, p); ok {
			return r.target(p)
		}
	}
	return Target{}, r.fail(missingReason(r.ctx.doc, full), nil)
}

func (r *resolution) resolveAnchor(scopeURI, name string) (Target, error) {
	idx := r.ctx.index

	if !r.ref.Dynamic {
		if rec, ok := idx.LookupAnchor(scopeURI, name); ok {
			return r.target(rec.Path)
		}
		// A $dynamicAnchor also defines a plain-name fragment.
		if rec, ok := idx.LookupDynamicAnchor(scopeURI, name); ok {
			return r.target(rec.Path)
		}
		return Target{}, r.fail(fmt.Sprintf("unknown $anchor %q", name), nil)
	}

	lexical, ok := idx.LookupDynamicAnchor(scopeURI, name)
	if !ok {
		// Without a matching $dynamicAnchor, $dynamicRef behaves like $ref.
		if rec, ok := idx.LookupAnchor(scopeURI, name); ok {
			return r.target(rec.Path)
		}
		return Target{}, r.fail(fmt.Sprintf("unknown $dynamicAnchor %q", name), nil)
	}
	for _, s := range r.ctx.scopes {
		if rec, ok := idx.LookupDynamicAnchor(s, name); ok {
			return r.target(rec.Path)
		}
	}
	return r.target(lexical.Path)
}

func (r *resolution) target(p jsonptr.Path) (Target, error) {
	v, ok := jsonptr.Lookup(r.ctx.doc, p)
	if !ok {
		return Target{}, r.fail(missingReason(r.ctx.doc, p), nil)
	}
	scope, _ := r.ctx.index.ScopeAt(p)
	return Target{Value: v, Path: p, Scope: scope}, nil
}

// missingReason explains where the lookup of p stops.
func missingReason(doc any, p jsonptr.Path) string {
	cur := doc
	for i, k := range p {
		at := jsonptr.FormatPointer(p[:i+1])
		switch node := cur.(type) {
		case *document.Object:
			v, ok := node.Get(k.String())
			if !ok {
				return fmt.Sprintf("reference not found: %s (missing key: %s)", at, k.String())
			}
			cur = v
		case []any:
			i, ok := k.Index()
			if !ok {
				return fmt.Sprintf("invalid array index %q in reference: %s (must be a non-negative integer)", k.String(), at)
			}
			if i >= len(node) {
				return fmt.Sprintf("array index %d out of bounds (length %d) in reference: %s", i, len(node), at)
			}
			cur = node[i]
		default:
			return fmt.Sprintf("cannot traverse into type %T at %s", cur, jsonptr.FormatPointer(p[:i]))
		}
	}
	return "reference not found"
}

package joiner

import (
	"strings"

	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/jsonptr"
	"github.com/erraggy/oasref/resolver"
)

// Keywords whose values can name a schema by its bare component name.
const (
	keyDiscriminator = "discriminator"
	keyMapping       = "mapping"
)

// RefRewriter handles rewriting of component references throughout a document
type RefRewriter struct {
	renames       []componentRename
	bareNameMap   map[string]string // bare schema name: "Old" → "New" (discriminator shorthand)
	anchorRenames map[string]string // plain-name fragment: "widget" → "widget_1"
	idRenames     map[string]string // $id text: "widget.json" → "widget_1.json"
	visited       map[any]bool
}

type componentRename struct {
	from jsonptr.Path
	to   jsonptr.Path
}

// NewRefRewriter creates a new rewriter instance
func NewRefRewriter() *RefRewriter {
	return &RefRewriter{
		bareNameMap:   make(map[string]string),
		anchorRenames: make(map[string]string),
		idRenames:     make(map[string]string),
	}
}

// RegisterRename registers a component rename operation
func (r *RefRewriter) RegisterRename(loc jsonptr.ComponentLocation, newName string) {
	renamed := loc
	renamed.Name = newName
	r.renames = append(r.renames, componentRename{from: loc.Path(), to: renamed.Path()})
	if loc.Section == "schemas" || loc.Section == "definitions" {
		r.bareNameMap[loc.Name] = newName
	}
}

// RegisterAnchorRename registers a renamed $anchor or $dynamicAnchor.
func (r *RefRewriter) RegisterAnchorRename(from, to string) {
	r.anchorRenames[from] = to
}

// RegisterIDRename registers a renamed $id. References are matched against
// from by their exact base text.
func (r *RefRewriter) RegisterIDRename(from, to string) {
	r.idRenames[from] = to
}

// Len returns the number of registered renames.
func (r *RefRewriter) Len() int {
	return len(r.renames) + len(r.anchorRenames) + len(r.idRenames)
}

// RewriteRef returns the reference rewritten to the renamed component or
// identifier, or the reference unchanged and false when it targets neither.
// A reference through a base URI is rewritten only when that base is a
// renamed $id.
func (r *RefRewriter) RewriteRef(ref string) (string, bool) {
	base, fragment, err := resolver.SplitReference(ref)
	if err != nil {
		return ref, false
	}
	if base != "" {
		renamed, ok := r.idRenames[base]
		if !ok {
			return ref, false
		}
		if fragment != "" || strings.HasSuffix(ref, "#") {
			renamed += "#" + fragment
		}
		return renamed, true
	}
	if renamed, ok := r.anchorRenames[fragment]; ok {
		return "#" + renamed, true
	}
	p, err := jsonptr.ParsePointer(fragment)
	if err != nil {
		return ref, false
	}
	for _, rn := range r.renames {
		if p.HasPrefix(rn.from) {
			return jsonptr.FormatPointer(rn.to.Concat(p[len(rn.from):])), true
		}
	}
	return ref, false
}

// Rewrite traverses doc in place and rewrites every $ref, $dynamicRef and
// discriminator mapping value that targets a renamed component or identifier. It returns
// the number of values rewritten.
func (r *RefRewriter) Rewrite(doc any) int {
	if r.Len() == 0 {
		return 0
	}
	r.visited = make(map[any]bool)
	return r.rewriteValue(doc)
}

func (r *RefRewriter) rewriteValue(v any) int {
	switch node := v.(type) {
	case *document.Object:
		if node == nil || r.visited[node] {
			return 0
		}
		r.visited[node] = true
		return r.rewriteObject(node)
	case []any:
		if len(node) == 0 || r.visited[&node[0]] {
			return 0
		}
		r.visited[&node[0]] = true
		n := 0
		for _, item := range node {
			n += r.rewriteValue(item)
		}
		return n
	}
	return 0
}

func (r *RefRewriter) rewriteObject(obj *document.Object) int {
	n := 0
	for _, key := range []string{document.KeyRef, document.KeyDynamicRef} {
		if ref, ok := obj.Value(key).(string); ok {
			if rewritten, changed := r.RewriteRef(ref); changed {
				obj.Set(key, rewritten)
				n++
			}
		}
	}
	if disc, ok := document.AsObject(obj.Value(keyDiscriminator)); ok {
		if mapping, ok := document.AsObject(disc.Value(keyMapping)); ok {
			n += r.rewriteMapping(mapping)
		}
	}
	for _, child := range obj.All() {
		n += r.rewriteValue(child)
	}
	return n
}

// rewriteMapping rewrites discriminator mapping values, which are either
// references or bare schema names.
func (r *RefRewriter) rewriteMapping(mapping *document.Object) int {
	n := 0
	for key, v := range mapping.All() {
		target, ok := v.(string)
		if !ok {
			continue
		}
		if strings.HasPrefix(target, "#") || strings.Contains(target, "/") {
			if rewritten, changed := r.RewriteRef(target); changed {
				mapping.Set(key, rewritten)
				n++
			}
			continue
		}
		if newName, exists := r.bareNameMap[target]; exists {
			mapping.Set(key, newName)
			n++
		}
	}
	return n
}

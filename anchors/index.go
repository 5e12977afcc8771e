package anchors

import (
	"errors"
	"net/url"
	"slices"
	"strings"

	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/jsonptr"
	"github.com/erraggy/oasref/oaserrors"
)

// Kind is the keyword that declared an identifier.
type Kind int

const (
	// KindID is an $id base URI
	KindID Kind = iota
	// KindAnchor is a plain $anchor name
	KindAnchor
	// KindDynamicAnchor is a $dynamicAnchor name
	KindDynamicAnchor
)

// Keyword returns the JSON Schema keyword for the kind.
func (k Kind) Keyword() string {
	switch k {
	case KindID:
		return document.KeyID
	case KindAnchor:
		return document.KeyAnchor
	case KindDynamicAnchor:
		return document.KeyDynamicAnchor
	default:
		return "unknown"
	}
}

// String returns the keyword.
func (k Kind) String() string {
	return k.Keyword()
}

// Record is one identifier declaration.
type Record struct {
	// Identifier is the resolved $id URI (without fragment) or the anchor name
	Identifier string
	// Kind is the declaring keyword
	Kind Kind
	// Scope is the base URI in effect at the declaration; for an $id it is
	// the enclosing scope. Empty for a document without a root $id.
	Scope string
	// Path is the location of the declaring node
	Path jsonptr.Path
}

// Fragment returns the pointer fragment of the declaring node.
func (r Record) Fragment() string {
	return jsonptr.FormatPointer(r.Path)
}

type scopedName struct {
	scope string
	name  string
}

type scope struct {
	uri  string
	root jsonptr.Path
}

// Index is the read-only result of Build.
type Index struct {
	records []Record
	ids     map[string]int
	anchors map[scopedName]int
	dynamic map[scopedName]int
	scopes  []scope
}

// Build indexes every identifier declared in doc.
//
// Shared containers (YAML aliases) are indexed once, at the first path they
// are reached by. Only string values count as declarations, so a property
// named "$id" holding a schema is ignored.
//
// The returned error joins every *oaserrors.DuplicateIdentifierError found and
// any $id that is not a valid URI reference; the partial index is returned
// alongside it.
func Build(doc any) (*Index, error) {
	b := builder{
		idx: &Index{
			ids:     make(map[string]int),
			anchors: make(map[scopedName]int),
			dynamic: make(map[scopedName]int),
			scopes:  []scope{{uri: "", root: jsonptr.Path{}}},
		},
		seen: make(map[any]struct{}),
	}
	b.visit(doc, jsonptr.Path{}, "")
	return b.idx, errors.Join(b.errs...)
}

type builder struct {
	idx  *Index
	seen map[any]struct{}
	errs []error
}

func (b *builder) visit(v any, path jsonptr.Path, base string) {
	switch node := v.(type) {
	case *document.Object:
		if node == nil {
			return
		}
		if _, ok := b.seen[node]; ok {
			return
		}
		b.seen[node] = struct{}{}

		base = b.declare(node, path, base)
		for k, child := range node.All() {
			if document.IsContainer(child) {
				b.visit(child, path.Append(jsonptr.StringKey(k)), base)
			}
		}
	case []any:
		if len(node) == 0 {
			return
		}
		key := &node[0]
		if _, ok := b.seen[key]; ok {
			return
		}
		b.seen[key] = struct{}{}
		for i, child := range node {
			if document.IsContainer(child) {
				b.visit(child, path.Append(jsonptr.IndexKey(i)), base)
			}
		}
	}
}

// declare records the identifiers carried by node and returns the base URI
// for its children.
func (b *builder) declare(node *document.Object, path jsonptr.Path, base string) string {
	if id, ok := node.Value(document.KeyID).(string); ok {
		base = b.declareID(id, path, base)
	}
	if name, ok := node.Value(document.KeyAnchor).(string); ok {
		b.add(b.idx.anchors, Record{Identifier: name, Kind: KindAnchor, Scope: base, Path: path})
	}
	if name, ok := node.Value(document.KeyDynamicAnchor).(string); ok {
		b.add(b.idx.dynamic, Record{Identifier: name, Kind: KindDynamicAnchor, Scope: base, Path: path})
	}
	return base
}

func (b *builder) declareID(id string, path jsonptr.Path, base string) string {
	// Pre-2020 plain-name form: "$id": "#foo" names an anchor in the current scope.
	if name, ok := strings.CutPrefix(id, "#"); ok {
		if name != "" && !strings.HasPrefix(name, "/") {
			b.add(b.idx.anchors, Record{Identifier: name, Kind: KindAnchor, Scope: base, Path: path})
		}
		return base
	}

	uri, fragment, err := ResolveURI(base, id)
	if err != nil {
		b.errs = append(b.errs, &oaserrors.ReferenceError{
			Ref:     id,
			Keyword: document.KeyID,
			Path:    jsonptr.FormatPointer(path),
			Message: "invalid $id URI",
			Cause:   err,
		})
		return base
	}

	rec := Record{Identifier: uri, Kind: KindID, Scope: base, Path: path}
	if first, ok := b.idx.ids[uri]; ok {
		b.duplicate(b.idx.records[first], rec)
		return base
	}
	b.idx.ids[uri] = b.record(rec)
	b.idx.scopes = append(b.idx.scopes, scope{uri: uri, root: path})

	if fragment != "" && !strings.HasPrefix(fragment, "/") {
		b.add(b.idx.anchors, Record{Identifier: fragment, Kind: KindAnchor, Scope: uri, Path: path})
	}
	return uri
}

func (b *builder) add(names map[scopedName]int, rec Record) {
	key := scopedName{scope: rec.Scope, name: rec.Identifier}
	if first, ok := names[key]; ok {
		b.duplicate(b.idx.records[first], rec)
		return
	}
	names[key] = b.record(rec)
}

func (b *builder) record(rec Record) int {
	b.idx.records = append(b.idx.records, rec)
	return len(b.idx.records) - 1
}

func (b *builder) duplicate(first, second Record) {
	b.errs = append(b.errs, &oaserrors.DuplicateIdentifierError{
		Identifier: second.Identifier,
		Keyword:    second.Kind.Keyword(),
		Scope:      second.Scope,
		FirstPath:  first.Fragment(),
		SecondPath: second.Fragment(),
	})
}

// ResolveURI resolves ref against base and splits off the fragment. The
// returned uri never carries a fragment.
func ResolveURI(base, ref string) (uri, fragment string, err error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", "", err
	}
	if base != "" {
		b, err := url.Parse(base)
		if err != nil {
			return "", "", err
		}
		r = b.ResolveReference(r)
	}
	fragment = r.Fragment
	r.Fragment = ""
	r.RawFragment = ""
	return r.String(), fragment, nil
}

// LookupID returns the $id declaration of uri. A trailing empty fragment is ignored.
func (idx *Index) LookupID(uri string) (Record, bool) {
	if idx == nil {
		return Record{}, false
	}
	return find(idx, idx.ids, strings.TrimSuffix(uri, "#"))
}

// LookupAnchor returns the $anchor named name in scope.
func (idx *Index) LookupAnchor(scope, name string) (Record, bool) {
	if idx == nil {
		return Record{}, false
	}
	return find(idx, idx.anchors, scopedName{scope: scope, name: name})
}

// LookupDynamicAnchor returns the $dynamicAnchor named name in scope.
func (idx *Index) LookupDynamicAnchor(scope, name string) (Record, bool) {
	if idx == nil {
		return Record{}, false
	}
	return find(idx, idx.dynamic, scopedName{scope: scope, name: name})
}

func find[K comparable](idx *Index, names map[K]int, key K) (Record, bool) {
	i, ok := names[key]
	if !ok {
		return Record{}, false
	}
	return idx.records[i], true
}

// ScopeAt returns the base URI in effect at path and the path of the node
// that opened that scope.
func (idx *Index) ScopeAt(path jsonptr.Path) (uri string, root jsonptr.Path) {
	if idx == nil {
		return "", jsonptr.Path{}
	}
	best := idx.scopes[0]
	for _, s := range idx.scopes[1:] {
		if len(s.root) >= len(best.root) && path.HasPrefix(s.root) {
			best = s
		}
	}
	return best.uri, slices.Clone(best.root)
}

// HasDynamicAnchors reports whether any $dynamicAnchor was declared.
func (idx *Index) HasDynamicAnchors() bool {
	return idx != nil && len(idx.dynamic) > 0
}

// Records returns every declaration in document order.
func (idx *Index) Records() []Record {
	if idx == nil {
		return nil
	}
	return slices.Clone(idx.records)
}

// Len returns the number of declarations.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.records)
}

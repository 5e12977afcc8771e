package jsonptr

import (
	"slices"

	"github.com/erraggy/oasref/internal/pathutil"
)

// Navigation is a position inside a document. The document is only read,
// never modified, and every method returning a Navigation returns a new one.
type Navigation struct {
	doc  any
	path Path
}

// New returns a navigation at the root of doc.
func New(doc any) Navigation {
	return Navigation{doc: doc}
}

// At returns a navigation at p inside doc.
func At(doc any, p Path) Navigation {
	return Navigation{doc: doc, path: slices.Clone(p)}
}

// Document returns the navigated document.
func (n Navigation) Document() any {
	return n.doc
}

// Path returns a copy of the current path.
func (n Navigation) Path() Path {
	return slices.Clone(n.path)
}

// Depth returns the number of keys in the current path.
func (n Navigation) Depth() int {
	return len(n.path)
}

// Fragment returns the current path as a pointer fragment.
func (n Navigation) Fragment() string {
	return FormatPointer(n.path)
}

// With returns a navigation one key deeper.
func (n Navigation) With(k Key) Navigation {
	return Navigation{doc: n.doc, path: n.path.Append(k)}
}

// WithName is With(StringKey(name)).
func (n Navigation) WithName(name string) Navigation {
	return n.With(StringKey(name))
}

// WithIndex is With(IndexKey(i)).
func (n Navigation) WithIndex(i int) Navigation {
	return n.With(IndexKey(i))
}

// Parent returns the navigation one key up. The root has no parent.
func (n Navigation) Parent() (Navigation, bool) {
	p, ok := n.path.Parent()
	if !ok {
		return n, false
	}
	return Navigation{doc: n.doc, path: p}, true
}

// Value returns the raw value at the current path.
func (n Navigation) Value() (any, bool) {
	return Lookup(n.doc, n.path)
}

// IsAtComponent reports whether the path is exactly
// components/<section>/<name>.
func (n Navigation) IsAtComponent() bool {
	return len(n.path) == 3 && n.path[0].String() == pathutil.ComponentsKey
}

// Component returns the component location of the current path, if any.
// Swagger 2.0 sections such as definitions/<name> are recognized as well.
func (n Navigation) Component() (ComponentLocation, bool) {
	return ComponentOf(n.path)
}

// ComponentLocation names a reusable component.
type ComponentLocation struct {
	// Section is the component section, e.g. "schemas" or "definitions"
	Section string
	// Name is the component name
	Name string
	// Legacy is true for Swagger 2.0 top-level sections
	Legacy bool
}

// ComponentOf returns the component addressed by exactly p.
func ComponentOf(p Path) (ComponentLocation, bool) {
	switch len(p) {
	case 3:
		if p[0].String() == pathutil.ComponentsKey {
			return ComponentLocation{Section: p[1].String(), Name: p[2].String()}, true
		}
	case 2:
		if slices.Contains(pathutil.LegacySections, p[0].String()) {
			return ComponentLocation{Section: p[0].String(), Name: p[1].String(), Legacy: true}, true
		}
	}
	return ComponentLocation{}, false
}

// Path returns the path of the component.
func (c ComponentLocation) Path() Path {
	if c.Legacy {
		return Keys(c.Section, c.Name)
	}
	return Keys(pathutil.ComponentsKey, c.Section, c.Name)
}

// Ref returns the pointer fragment of the component.
func (c ComponentLocation) Ref() string {
	return FormatPointer(c.Path())
}

// String returns "<section>/<name>".
func (c ComponentLocation) String() string {
	return c.Section + "/" + c.Name
}

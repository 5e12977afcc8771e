package resolver

import (
	"slices"
	"strings"

	"github.com/erraggy/oasref/anchors"
)

// Context is the state of one resolution pass over one document: the
// document, its index and the dynamic scope chain. A Context must not be
// shared between concurrent resolutions.
type Context struct {
	doc   any
	index *anchors.Index
	// dynamic scope chain, outermost first; each URI appears once
	scopes []string
}

// NewContext returns a context for doc with an empty dynamic scope chain.
func NewContext(doc any, index *anchors.Index) *Context {
	return &Context{doc: doc, index: index}
}

// Document returns the document being resolved.
func (c *Context) Document() any {
	return c.doc
}

// Index returns the identifier index of the document.
func (c *Context) Index() *anchors.Index {
	return c.index
}

// PushScope enters the scope identified by uri. It reports false, and
// changes nothing, when uri is already on the chain: re-entering a scope
// cannot change which declaration is outermost.
func (c *Context) PushScope(uri string) bool {
	if slices.Contains(c.scopes, uri) {
		return false
	}
	c.scopes = append(c.scopes, uri)
	return true
}

// PopScope leaves the innermost scope.
func (c *Context) PopScope() {
	if len(c.scopes) > 0 {
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}

// DynamicScope returns a copy of the chain, outermost first.
func (c *Context) DynamicScope() []string {
	return slices.Clone(c.scopes)
}

// Signature identifies the dynamic scope chain for caching. It is empty when
// the document declares no $dynamicAnchor, since the chain then cannot
// affect any resolution.
func (c *Context) Signature() string {
	if !c.index.HasDynamicAnchors() {
		return ""
	}
	return strings.Join(c.scopes, " ")
}

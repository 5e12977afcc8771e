// Package resolver resolves $ref and $dynamicRef values against a document
// and its identifier index.
//
// A reference is split into a base URI and a fragment. An empty base
// resolves inside the scope of the referencing node; a non-empty base must
// match an $id registered in the index, because nothing outside the loaded
// document is ever fetched. The fragment is then one of:
//
//   - empty: the root of the selected scope
//   - a JSON Pointer ("/definitions/Pet"), possibly percent-encoded
//   - a plain name, looked up among $anchor (for $ref) or $dynamicAnchor
//     (for $dynamicRef) declarations of the scope
//
// A $dynamicRef whose lexical target is a $dynamicAnchor is re-targeted to the
// outermost scope in the [Context]'s dynamic scope chain that declares an
// anchor of the same name.
//
// Resolve returns the raw target and its path; it never copies or changes
// the document. Walking the target, including nested references, is the
// caller's job.
package resolver

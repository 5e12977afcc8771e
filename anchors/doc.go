// Package anchors indexes the identifiers declared in a document: $id URIs,
// $anchor names and $dynamicAnchor names, each with the path that declares it.
//
// [Build] makes one depth-first pass over the document. An $id opens a new
// base URI scope for its subtree, resolved against the enclosing scope the
// way a relative URI reference is resolved. Anchors are recorded under the
// scope they appear in.
//
// Within one scope each identifier may be declared once. A second declaration
// is reported as an *oaserrors.DuplicateIdentifierError naming both paths;
// Build collects every duplicate and fails if there is any.
//
//	idx, err := anchors.Build(doc)
//	if err != nil {
//	    return err
//	}
//	rec, ok := idx.LookupAnchor("", "node")
package anchors

// Package walker produces a fully resolved copy of a document.
//
// [Walk] traverses the document depth first. Every reference object ($ref or
// $dynamicRef) is resolved with package resolver and replaced by the walked
// target, so nested and transitive references are resolved as well. Object
// keys keep their order and arrays keep their index order. The input document
// is never modified.
//
// # Cycles
//
// The output is built bottom-up. Each container is registered before its
// children are walked, keyed by the identity of the source container and the
// dynamic scope in effect. A reference that leads back to a container still
// being walked links to that same output container, so a self-referential
// schema produces a self-referential result:
//
//	result, _ := walker.Walk(doc)
//	a := result.Document.(*document.Object).Value("definitions").(*document.Object).Value("a").(*document.Object)
//	a.Value("x") == a // true
//
// Every such link is reported in [Result.CircularRefs]. A reference chain
// that never reaches a value ({"$ref": "#/a"} at #/a) cannot be represented
// and fails with a circular *oaserrors.ReferenceError.
//
// Targets reached from several references are walked once and shared.
//
// # Visitors and markers
//
// A [Visitor] runs post-order on every output node and may replace it. At a
// reference site [WalkContext.CurrentRef] describes the reference. Unless
// disabled with WithMarkers(false), resolved objects are annotated with
// "x-resolved-from" (the reference text) and "x-resolved-at" (the pointer of
// the target) by a built-in visitor. Because targets are shared, the
// declaration of a referenced object carries the same markers.
//
// # Options
//
//   - WithMarkers toggles the x-resolved-* annotations (default on)
//   - WithVisitor adds a Visitor after the built-in ones
//   - WithRefHandler is called once per resolved reference site
//   - WithMaxDepth bounds nesting, counting reference hops
//   - WithUserContext supplies a context checked for cancellation
//   - WithLogger receives debug records for cycles and resolutions
//
// # Errors
//
// Any error aborts the walk and no partial document is returned.
package walker

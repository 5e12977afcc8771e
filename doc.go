// Package oasref resolves references in OpenAPI and JSON Schema documents.
//
// The module turns a document full of $ref, $dynamicRef, $anchor and
// $dynamicAnchor declarations into a self-contained tree in which every
// reference is replaced by the node it designates. Recursive structures stay
// recursive, so the output is a cyclic graph rather than an infinite
// expansion. Several documents can also be merged into one with configurable
// handling of colliding component names.
//
// # Packages
//
//   - document: ordered object model, deep clone, equality, JSON/YAML encoding
//   - jsonptr: JSON Pointer keys, paths and navigation (RFC 6901)
//   - anchors: index of $id, $anchor and $dynamicAnchor declarations
//   - resolver: resolution of one $ref or $dynamicRef
//   - walker: whole-document resolution with cycle preservation
//   - joiner: merging of several documents
//   - parser: loading documents from files, URLs, readers and bytes
//   - oaserrors: error types shared by all packages
//
// # Quick Start
//
//	loaded, err := parser.ParseWithOptions(parser.WithFilePath("openapi.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := walker.Walk(loaded.Data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, _ := document.Encode(result.Document, document.FormatYAML)
//	os.Stdout.Write(out)
//
// The oasref command wraps the same operations (resolve, join) and serves
// them to MCP clients with "oasref mcp".
package oasref

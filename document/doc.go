// Package document provides the generic, order-preserving node model used by
// every stage of reference resolution.
//
// A parsed API document is a tree of plain Go values:
//
//   - nil, bool, string
//   - numbers: int, int64, uint64, float64
//   - []any for arrays
//   - *Object for keyed mappings
//
// [Object] keeps keys in insertion order so that a document decoded from YAML
// or JSON is re-encoded with the same key order. Objects have pointer
// identity: a resolved document may contain cycles (an object reachable from
// itself), and consumers can detect them with a plain pointer comparison.
//
// # Cloning and Equality
//
// [Clone] deep-copies a value while preserving shared and cyclic structure,
// and [Equal] compares two values structurally, terminating on cycles.
//
// # Encoding
//
// [EncodeJSON] and [EncodeYAML] serialize a tree with its key order. A
// container that is reached again while it is still being encoded is written
// as {"$ref": "<pointer>"} addressing its first location, so cyclic results
// stay serializable.
//
//	data, err := document.Encode(result.Document, document.FormatYAML)
package document

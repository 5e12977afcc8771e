// Package jsonptr implements positions inside a parsed document and their
// JSON Pointer (RFC 6901) fragment representation.
//
// A [Path] is an ordered sequence of [Key] values from the document root to a
// node. [ParsePointer] converts a URI fragment such as "#/definitions/2" into
// a Path and [FormatPointer] renders it back; the two round-trip:
//
//	p, _ := jsonptr.ParsePointer("#/paths/~1pets~1{id}/get")
//	fmt.Println(jsonptr.FormatPointer(p)) // "#/paths/~1pets~1{id}/get"
//
// Fragments are percent-decoded before "~1" and "~0" are unescaped, so the
// URL-encoded form "%23%2Fdefinitions%2FPet" addresses the same node as
// "#/definitions/Pet".
//
// A [Navigation] pairs a document with a Path. Navigations are values: [Navigation.With]
// returns a new navigation and never changes the receiver or the document.
package jsonptr

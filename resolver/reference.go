package resolver

import (
	"net/url"
	"strings"

	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/oaserrors"
)

// Reference is the value of a $ref or $dynamicRef keyword.
type Reference struct {
	// URI is the reference text as written
	URI string
	// Dynamic is true for $dynamicRef
	Dynamic bool
}

// Keyword returns "$ref" or "$dynamicRef".
func (r Reference) Keyword() string {
	if r.Dynamic {
		return document.KeyDynamicRef
	}
	return document.KeyRef
}

// ReferenceOf reports whether node is a reference object: a mapping with a
// string $ref, or failing that a string $dynamicRef.
func ReferenceOf(node any) (Reference, bool) {
	obj, ok := document.AsObject(node)
	if !ok {
		return Reference{}, false
	}
	if uri, ok := obj.Value(document.KeyRef).(string); ok {
		return Reference{URI: uri}, true
	}
	if uri, ok := obj.Value(document.KeyDynamicRef).(string); ok {
		return Reference{URI: uri, Dynamic: true}, true
	}
	return Reference{}, false
}

// IsReference reports whether node is a reference object.
func IsReference(node any) bool {
	_, ok := ReferenceOf(node)
	return ok
}

// SplitReference separates a reference into its base URI and fragment (without "#").
//
// A reference that is entirely percent-encoded, such as "%23%2Fdefinitions%2FPet",
// is decoded first so the encoded "#" is recognized. The fragment itself is
// returned still encoded.
func SplitReference(uri string) (base, fragment string, err error) {
	if i := strings.IndexByte(uri, '#'); i >= 0 {
		return uri[:i], uri[i+1:], nil
	}
	if len(uri) >= 3 && strings.EqualFold(uri[:3], "%23") {
		decoded, err := url.PathUnescape(uri)
		if err != nil {
			return "", "", &oaserrors.AmbiguousPathEncodingError{Ref: uri, Cause: err}
		}
		return "", decoded[1:], nil
	}
	return uri, "", nil
}

// decodeName percent-decodes an anchor name.
func decodeName(fragment string) (string, error) {
	if !strings.Contains(fragment, "%") {
		return fragment, nil
	}
	name, err := url.PathUnescape(fragment)
	if err != nil {
		return "", &oaserrors.AmbiguousPathEncodingError{Ref: fragment, Cause: err}
	}
	return name, nil
}

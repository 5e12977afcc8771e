package jsonptr

import (
	"net/url"
	"strings"

	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/internal/pathutil"
	"github.com/erraggy/oasref/oaserrors"
)

// FormatPointer renders p as a URI fragment: "#" for the root, otherwise
// "#/" followed by the escaped tokens. It is the left inverse of ParsePointer.
func FormatPointer(p Path) string {
	return pathutil.JoinPointer(p.Tokens()...)
}

// ParsePointer parses a pointer fragment into a Path.
//
// A leading "#" is optional. The fragment is percent-decoded first, then
// split on "/" and each token has "~1" and "~0" decoded. An empty fragment or
// a bare "#" is the root path.
//
// Errors are *oaserrors.AmbiguousPathEncodingError when percent-decoding
// fails and *oaserrors.MalformedPointerError for an invalid "~" escape or a
// non-empty pointer that does not start with "/".
func ParsePointer(fragment string) (Path, error) {
	decoded, err := decodeFragment(fragment)
	if err != nil {
		return nil, err
	}
	decoded = strings.TrimPrefix(decoded, "#")
	if decoded == "" {
		return Path{}, nil
	}
	if decoded[0] != '/' {
		return nil, &oaserrors.MalformedPointerError{
			Pointer: fragment,
			Message: `pointer must be empty or start with "/"`,
		}
	}

	tokens := strings.Split(decoded[1:], "/")
	path := make(Path, 0, len(tokens))
	for _, tok := range tokens {
		name, ok := pathutil.UnescapeToken(tok)
		if !ok {
			return nil, &oaserrors.MalformedPointerError{
				Pointer: fragment,
				Token:   tok,
				Message: `"~" must be followed by "0" or "1"`,
			}
		}
		path = append(path, parseKey(name))
	}
	return path, nil
}

// MustParsePointer is like ParsePointer but panics on error. Intended for
// tests and package-level constants.
func MustParsePointer(fragment string) Path {
	p, err := ParsePointer(fragment)
	if err != nil {
		panic(err)
	}
	return p
}

func decodeFragment(fragment string) (string, error) {
	if !strings.Contains(fragment, "%") {
		return fragment, nil
	}
	decoded, err := url.PathUnescape(fragment)
	if err != nil {
		return "", &oaserrors.AmbiguousPathEncodingError{Ref: fragment, Cause: err}
	}
	return decoded, nil
}

// Lookup returns the raw value at p inside doc. Index keys select array
// elements and also match object keys by their text.
func Lookup(doc any, p Path) (any, bool) {
	cur := doc
	for _, k := range p {
		switch node := cur.(type) {
		case *document.Object:
			v, ok := node.Get(k.String())
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, ok := k.Index()
			if !ok || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// ItemAtFragment returns a deep clone of the value addressed by fragment.
//
// An empty fragment addresses nothing and reports false without error, as
// does a well-formed pointer with no target. The clone keeps shared and
// cyclic structure, so callers may modify it without touching doc.
func ItemAtFragment(doc any, fragment string) (any, bool, error) {
	if fragment == "" {
		return nil, false, nil
	}
	p, err := ParsePointer(fragment)
	if err != nil {
		return nil, false, err
	}
	v, ok := Lookup(doc, p)
	if !ok {
		return nil, false, nil
	}
	return document.Clone(v), true, nil
}

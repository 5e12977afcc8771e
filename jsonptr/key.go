package jsonptr

import (
	"slices"
	"strconv"
)

// Key is a single path segment: an object key or an array index.
type Key struct {
	token   string
	index   int
	isIndex bool
}

// StringKey returns an object key segment.
func StringKey(name string) Key {
	return Key{token: name}
}

// IndexKey returns an array index segment. A negative index keeps its text
// but addresses no element, so lookups through it fail.
func IndexKey(i int) Key {
	return Key{token: strconv.Itoa(i), index: i, isIndex: true}
}

// String returns the unescaped token text of the key.
func (k Key) String() string {
	return k.token
}

// Index returns the array index held by k. It reports false for string keys
// and negative indexes.
func (k Key) Index() (int, bool) {
	return k.index, k.isIndex && k.index >= 0
}

// IsIndex reports whether k was created as an array index.
func (k Key) IsIndex() bool {
	return k.isIndex
}

// Equal compares keys by token text, so IndexKey(2) equals StringKey("2").
func (k Key) Equal(other Key) bool {
	return k.token == other.token
}

// parseKey turns a decoded token into a Key. Only canonical non-negative
// integers ("0", "17"; never "01" or "-1") become index keys.
func parseKey(token string) Key {
	if isCanonicalIndex(token) {
		if i, err := strconv.Atoi(token); err == nil {
			return IndexKey(i)
		}
	}
	return StringKey(token)
}

func isCanonicalIndex(token string) bool {
	if token == "" || (len(token) > 1 && token[0] == '0') {
		return false
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return false
		}
	}
	return true
}

// Path is an ordered sequence of keys from the document root.
type Path []Key

// Keys builds a path from object keys.
func Keys(names ...string) Path {
	p := make(Path, len(names))
	for i, name := range names {
		p[i] = StringKey(name)
	}
	return p
}

// Equal reports whether p and other have the same segments.
func (p Path) Equal(other Path) bool {
	return slices.EqualFunc(p, other, Key.Equal)
}

// HasPrefix reports whether prefix is a leading part of p.
func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && p[:len(prefix)].Equal(prefix)
}

// Append returns a new path with keys added. The receiver's backing array
// is never shared with the result.
func (p Path) Append(keys ...Key) Path {
	out := make(Path, len(p), len(p)+len(keys))
	copy(out, p)
	return append(out, keys...)
}

// Concat returns a new path made of p followed by other.
func (p Path) Concat(other Path) Path {
	return p.Append(other...)
}

// Parent returns the path without its last key. The root has no parent.
func (p Path) Parent() (Path, bool) {
	if len(p) == 0 {
		return nil, false
	}
	return slices.Clone(p[:len(p)-1]), true
}

// Last returns the final key of a non-empty path.
func (p Path) Last() (Key, bool) {
	if len(p) == 0 {
		return Key{}, false
	}
	return p[len(p)-1], true
}

// Tokens returns the unescaped token text of every key.
func (p Path) Tokens() []string {
	out := make([]string, len(p))
	for i, k := range p {
		out[i] = k.token
	}
	return out
}

// String renders the path as a pointer fragment.
func (p Path) String() string {
	return FormatPointer(p)
}

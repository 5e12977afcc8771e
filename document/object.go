package document

import (
	"iter"
	"slices"
)

// Object is an insertion-ordered mapping from string keys to values.
//
// The zero value is not usable; create objects with NewObject. A nil *Object
// behaves as an empty, read-only object for the accessor methods.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object with room for capacity keys.
func NewObject(capacity int) *Object {
	return &Object{
		keys:   make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Value returns the value stored under key, or nil.
func (o *Object) Value(key string) any {
	v, _ := o.Get(key)
	return v
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores v under key. A new key is appended; an existing key keeps its position.
func (o *Object) Set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Delete removes key, reporting whether it was present.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
	return true
}

// Rename moves the value under oldKey to newKey at the same position.
// It reports false when oldKey is missing or newKey is already taken.
func (o *Object) Rename(oldKey, newKey string) bool {
	if o == nil || oldKey == newKey {
		return false
	}
	v, ok := o.values[oldKey]
	if !ok || o.Has(newKey) {
		return false
	}
	i := slices.Index(o.keys, oldKey)
	o.keys[i] = newKey
	delete(o.values, oldKey)
	o.values[newKey] = v
	return true
}

// Keys returns a copy of the keys in order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

// All iterates over key/value pairs in order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if o == nil {
			return
		}
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// MarshalJSON implements json.Marshaler with preserved key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	return EncodeJSON(o, "")
}

// AsObject returns v as an *Object when it is one.
func AsObject(v any) (*Object, bool) {
	o, ok := v.(*Object)
	return o, ok && o != nil
}

// IsContainer reports whether v is an object or array.
func IsContainer(v any) bool {
	switch v.(type) {
	case *Object, []any:
		return true
	}
	return false
}

package document

import (
	"math"
	"slices"
)

// sliceID identifies an array by its backing storage and length.
type sliceID struct {
	first *any
	n     int
}

func idOf(s []any) sliceID {
	return sliceID{first: &s[0], n: len(s)}
}

// Clone returns a deep copy of v.
//
// Shared and cyclic structure is reproduced rather than expanded: every
// source container is cloned exactly once, and later encounters link to the
// same clone.
func Clone(v any) any {
	c := cloner{
		objects: make(map[*Object]*Object),
		arrays:  make(map[sliceID][]any),
	}
	return c.clone(v)
}

type cloner struct {
	objects map[*Object]*Object
	arrays  map[sliceID][]any
}

func (c *cloner) clone(v any) any {
	switch val := v.(type) {
	case *Object:
		if val == nil {
			return val
		}
		if done, ok := c.objects[val]; ok {
			return done
		}
		out := NewObject(val.Len())
		c.objects[val] = out
		for k, child := range val.All() {
			out.Set(k, c.clone(child))
		}
		return out
	case []any:
		if len(val) == 0 {
			if val == nil {
				return val
			}
			return []any{}
		}
		id := idOf(val)
		if done, ok := c.arrays[id]; ok {
			return done
		}
		// Registered before filling: the header shares its backing array.
		out := make([]any, len(val))
		c.arrays[id] = out
		for i, child := range val {
			out[i] = c.clone(child)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether a and b are structurally equal. Object key order is
// ignored; numbers compare by value across integer and float types. Cycles
// terminate: a pair of containers already under comparison is assumed equal.
func Equal(a, b any) bool {
	e := equaler{objects: make(map[[2]*Object]bool), arrays: make(map[[2]sliceID]bool)}
	return e.equal(a, b)
}

type equaler struct {
	objects map[[2]*Object]bool
	arrays  map[[2]sliceID]bool
}

func (e *equaler) equal(a, b any) bool {
	switch av := a.(type) {
	case *Object:
		bv, ok := b.(*Object)
		if !ok {
			return false
		}
		if av == bv {
			return true
		}
		if av == nil || bv == nil || av.Len() != bv.Len() {
			return false
		}
		pair := [2]*Object{av, bv}
		if e.objects[pair] {
			return true
		}
		e.objects[pair] = true
		for k, achild := range av.All() {
			bchild, ok := bv.Get(k)
			if !ok || !e.equal(achild, bchild) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		if len(av) == 0 {
			return true
		}
		pair := [2]sliceID{idOf(av), idOf(bv)}
		if pair[0] == pair[1] || e.arrays[pair] {
			return true
		}
		e.arrays[pair] = true
		for i := range av {
			if !e.equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	}

	if an, ok := toNumber(a); ok {
		bn, ok := toNumber(b)
		return ok && an == bn
	}
	switch b.(type) {
	case *Object, []any:
		return false
	}
	return a == b
}

// number is a comparable numeric value: integers stay exact, floats with an
// integral value compare equal to the same integer.
type number struct {
	isInt bool
	i     int64
	f     float64
}

func toNumber(v any) (number, bool) {
	switch n := v.(type) {
	case int:
		return number{isInt: true, i: int64(n)}, true
	case int32:
		return number{isInt: true, i: int64(n)}, true
	case int64:
		return number{isInt: true, i: n}, true
	case uint64:
		if n > math.MaxInt64 {
			return number{f: float64(n)}, true
		}
		return number{isInt: true, i: int64(n)}, true
	case float32:
		return floatNumber(float64(n)), true
	case float64:
		return floatNumber(n), true
	}
	return number{}, false
}

func floatNumber(f float64) number {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return number{isInt: true, i: int64(f)}
	}
	return number{f: f}
}

// FromNative converts Go maps and slices into document values. Map keys are
// sorted so the result is deterministic. Values that are already document
// values are returned unchanged.
func FromNative(v any) any {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		obj := NewObject(len(keys))
		for _, k := range keys {
			obj.Set(k, FromNative(val[k]))
		}
		return obj
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = FromNative(item)
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	default:
		return v
	}
}

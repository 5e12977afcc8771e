package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectOrder(t *testing.T) {
	o := NewObject(0)
	o.Set("b", 1)
	o.Set("a", 2)
	o.Set("c", 3)
	o.Set("a", 20)

	assert.Equal(t, []string{"b", "a", "c"}, o.Keys())
	assert.Equal(t, 20, o.Value("a"))
	assert.Equal(t, 3, o.Len())

	assert.True(t, o.Delete("a"))
	assert.False(t, o.Delete("a"))
	assert.Equal(t, []string{"b", "c"}, o.Keys())
}

func TestObjectRename(t *testing.T) {
	o := NewObject(3)
	o.Set("Widget", "w")
	o.Set("Gadget", "g")
	o.Set("Other", "o")

	require.True(t, o.Rename("Gadget", "Gadget_1"))
	assert.Equal(t, []string{"Widget", "Gadget_1", "Other"}, o.Keys())
	assert.Equal(t, "g", o.Value("Gadget_1"))
	assert.False(t, o.Has("Gadget"))

	assert.False(t, o.Rename("missing", "x"), "missing source key")
	assert.False(t, o.Rename("Widget", "Other"), "target key taken")
}

func TestNilObject(t *testing.T) {
	var o *Object
	assert.Equal(t, 0, o.Len())
	assert.False(t, o.Has("a"))
	assert.Nil(t, o.Value("a"))
	assert.Nil(t, o.Keys())
	for range o.All() {
		t.Fatal("nil object should not yield")
	}

	_, ok := AsObject(o)
	assert.False(t, ok)
}

func TestObjectAllStopsEarly(t *testing.T) {
	o := NewObject(3)
	o.Set("a", 1)
	o.Set("b", 2)
	o.Set("c", 3)

	var seen []string
	for k := range o.All() {
		seen = append(seen, k)
		if k == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestObjectMarshalJSON(t *testing.T) {
	o := NewObject(2)
	o.Set("z", "<tag>")
	o.Set("a", []any{int64(1), true, nil})

	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"<tag>","a":[1,true,null]}`, string(data))
}

func TestIsContainer(t *testing.T) {
	assert.True(t, IsContainer(NewObject(0)))
	assert.True(t, IsContainer([]any{}))
	assert.False(t, IsContainer("x"))
	assert.False(t, IsContainer(nil))
}

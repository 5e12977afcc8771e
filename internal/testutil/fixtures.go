// Package testutil provides fixtures shared by the package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/parser"
	"github.com/stretchr/testify/require"
)

// Parse decodes an inline YAML or JSON document and fails the test on error.
func Parse(t testing.TB, src string) any {
	t.Helper()
	result, err := parser.ParseWithOptions(parser.WithBytes([]byte(src)))
	require.NoError(t, err)
	return result.Data
}

// Get follows keys through nested objects and fails the test if any is missing.
func Get(t testing.TB, v any, keys ...string) any {
	t.Helper()
	for _, k := range keys {
		obj, ok := document.AsObject(v)
		require.True(t, ok, "expected an object before %q", k)
		v, ok = obj.Get(k)
		require.True(t, ok, "missing key %q", k)
	}
	return v
}

// Keys returns the keys of an object in order.
func Keys(t testing.TB, v any) []string {
	t.Helper()
	obj, ok := document.AsObject(v)
	require.True(t, ok, "expected an object, got %T", v)
	return obj.Keys()
}

// WriteFile writes content to dir/name with owner-only permissions and
// returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

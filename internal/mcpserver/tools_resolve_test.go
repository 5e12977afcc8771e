package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// treeSpec has one recursive reference and one plain one.
const treeSpec = `definitions:
  Node:
    type: object
    properties:
      children:
        type: array
        items:
          $ref: '#/definitions/Node'
root:
  $ref: '#/definitions/Node'
`

func boolPtr(b bool) *bool { return &b }

func TestResolveTool_Inline(t *testing.T) {
	specCache.reset()
	_, output, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
		Spec: specInput{Content: treeSpec},
	})
	require.NoError(t, err)

	assert.Equal(t, "yaml", output.SourceFormat)
	assert.Equal(t, 2, output.ReferenceCount)
	assert.Equal(t, 1, output.CircularRefCount)
	require.Len(t, output.CircularRefs, 1)
	assert.Equal(t, circularRef{
		From: "#/definitions/Node/properties/children/items",
		To:   "#/definitions/Node",
	}, output.CircularRefs[0])

	assert.Contains(t, output.Document, "x-resolved-from: '#/definitions/Node'")
	assert.Equal(t, "Resolved 2 references (1 circular reference preserved).", output.Summary)
}

func TestResolveTool_NoMarkersJSON(t *testing.T) {
	specCache.reset()
	_, output, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
		Spec:      specInput{Content: `{"a": {"type": "string"}, "b": {"$ref": "#/a"}}`},
		NoMarkers: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "json", output.SourceFormat)
	assert.JSONEq(t, `{"a": {"type": "string"}, "b": {"type": "string"}}`, output.Document)
	assert.Equal(t, "Resolved 1 reference.", output.Summary)
}

func TestResolveTool_MarkersDefaultFromConfig(t *testing.T) {
	specCache.reset()
	withConfig(t, func(c *serverConfig) { c.NoMarkers = true })

	_, output, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
		Spec:   specInput{Content: treeSpec},
		Format: "json",
	})
	require.NoError(t, err)
	assert.NotContains(t, output.Document, "x-resolved-from")
}

func TestResolveTool_WriteOutput(t *testing.T) {
	specCache.reset()
	path := filepath.Join(t.TempDir(), "resolved.json")

	_, output, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, resolveInput{
		Spec:      specInput{Content: treeSpec},
		NoMarkers: boolPtr(true),
		Format:    "json",
		Output:    path,
	})
	require.NoError(t, err)
	assert.Empty(t, output.Document)
	assert.Equal(t, path, output.WrittenTo)
	assert.Contains(t, output.Summary, "Written to")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"$ref": "#/definitions/Node"`, "the cycle is written as a $ref")
}

func TestResolveTool_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input resolveInput
		want  string
	}{
		{"no input", resolveInput{}, "exactly one of file, url, or content"},
		{"bad format", resolveInput{Spec: specInput{Content: "a: 1"}, Format: "xml"}, "outputFormat"},
		{"unresolvable", resolveInput{Spec: specInput{Content: "a: {$ref: '#/missing'}"}}, "reference error: #/missing"},
		{"parse error", resolveInput{Spec: specInput{Content: "a: [1"}}, "parse error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specCache.reset()
			result, _, err := handleResolve(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
			text := result.Content[0].(*mcp.TextContent).Text
			assert.Contains(t, text, tt.want)
		})
	}
}

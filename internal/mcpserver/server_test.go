package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/parser"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestSession creates an in-process MCP server/client pair and returns
// the connected client session. The server is shut down when the test ends.
func startTestSession(t *testing.T) *mcp.ClientSession {
	t.Helper()

	server := newServer()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-done
	})
	return session
}

func unmarshalStructured(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}
	require.NotEmpty(t, result.Content, "expected at least one content item")
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &m))
	return m
}

func TestIntegration_ListTools(t *testing.T) {
	session := startTestSession(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.Len(t, result.Tools, 2)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, "tool %q has empty description", tool.Name)
	}
	assert.True(t, slices.Contains(names, "resolve"))
	assert.True(t, slices.Contains(names, "join"))
}

func TestIntegration_CallTool_Resolve(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "resolve",
		Arguments: map[string]any{
			"spec":       map[string]any{"content": treeSpec},
			"no_markers": true,
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	structured := unmarshalStructured(t, result)
	assert.Equal(t, float64(2), structured["reference_count"])
	assert.Equal(t, float64(1), structured["circular_ref_count"])
}

func TestIntegration_CallTool_JoinInvalidStrategy(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "join",
		Arguments: map[string]any{
			"specs":    []any{map[string]any{"content": "a: 1"}, map[string]any{"content": "b: 2"}},
			"strategy": "accept-left",
		},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error returns empty string", nil, ""},
		{"strips absolute path", fmt.Errorf("failed to open /home/user/secret/api.yaml: no such file"), "failed to open <path>: no such file"},
		{"preserves non-path content", fmt.Errorf("parse error at line 5"), "parse error at line 5"},
		{"strips multiple paths", fmt.Errorf("join /tmp/a.yaml and /tmp/b.yaml failed"), "join <path> and <path> failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.err))
		})
	}
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		requested string
		source    parser.SourceFormat
		want      document.Format
		wantErr   bool
	}{
		{"", parser.SourceFormatJSON, document.FormatJSON, false},
		{"", parser.SourceFormatYAML, document.FormatYAML, false},
		{"yaml", parser.SourceFormatJSON, document.FormatYAML, false},
		{"JSON", parser.SourceFormatYAML, document.FormatJSON, false},
		{"xml", parser.SourceFormatYAML, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.requested+"/"+string(tt.source), func(t *testing.T) {
			got, err := outputFormat(tt.requested, tt.source)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmit(t *testing.T) {
	doc := document.FromNative(map[string]any{"a": "b"})

	inline, writtenTo, err := emit(doc, document.FormatJSON, "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": "b"}`, inline)
	assert.Empty(t, writtenTo)

	path := filepath.Join(t.TempDir(), "out.yaml")
	inline, writtenTo, err = emit(doc, document.FormatYAML, path)
	require.NoError(t, err)
	assert.Empty(t, inline)
	assert.Equal(t, path, writtenTo)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: b\n", string(data))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestEmitRejectsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.yaml")
	require.NoError(t, os.WriteFile(target, nil, 0o600))
	link := filepath.Join(dir, "link.yaml")
	require.NoError(t, os.Symlink(target, link))

	_, _, err := emit(document.NewObject(0), document.FormatYAML, link)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output path")
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0 warnings", formatCount(0, "warning"))
	assert.Equal(t, "1 warning", formatCount(1, "warning"))
	assert.Equal(t, "3 warnings", formatCount(3, "warning"))
}

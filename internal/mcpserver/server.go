// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasref reference resolution and joining as tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/erraggy/oasref"
	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/internal/fileutil"
	"github.com/erraggy/oasref/internal/pathutil"
	"github.com/erraggy/oasref/parser"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `oasref MCP server: resolves $ref references in OpenAPI and JSON Schema documents and joins several documents into one.

Configuration: defaults come from OASREF_* environment variables set in your MCP client config.

Key settings:
- OASREF_CONFLICT_STRATEGY (default: rename) - join conflict strategy: rename, error or ignore
- OASREF_NO_MARKERS (default: false) - omit x-resolved-from / x-resolved-at markers
- OASREF_MAX_JOIN_SPECS (default: 20) - maximum documents per join
- OASREF_MAX_INLINE_BYTES (default: 10485760) - maximum inline content size
- OASREF_ALLOW_PRIVATE_IPS (default: false) - allow URL inputs on private networks

Circular references are preserved: in the returned document a cycle is written as a $ref back to the enclosing node.`

// cacheSweepInterval is how often expired parse results are dropped.
const cacheSweepInterval = time.Minute

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cacheSweepInterval)
	}
	return newServer().Run(ctx, &mcp.StdioTransport{})
}

func newServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasref", Version: oasref.Version()},
		&mcp.ServerOptions{Instructions: serverInstructions},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve",
		Description: "Resolve every $ref and $dynamicRef in one OpenAPI or JSON Schema document. Returns reference and circular reference counts plus the resolved document. Resolved nodes carry x-resolved-from and x-resolved-at markers unless no_markers is set. Use output to write the document to a file instead of returning it inline.",
	}, handleResolve)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "join",
		Description: "Join two or more documents into one and resolve the result. Component name collisions are handled by strategy: rename (default, adds _1, _2 suffixes and rewrites refs), error (fail on the first collision), or ignore (keep the first definition). The default strategy is configurable via OASREF_CONFLICT_STRATEGY.",
	}, handleJoin)
}

// outputFormat picks the requested format, or the source format when none is given.
func outputFormat(requested string, source parser.SourceFormat) (document.Format, error) {
	if requested == "" && source == parser.SourceFormatJSON {
		return document.FormatJSON, nil
	}
	return document.ParseFormat(requested)
}

// emit encodes doc and either writes it to output or returns it for inline use.
func emit(doc any, format document.Format, output string) (inline, writtenTo string, err error) {
	data, err := document.Encode(doc, format)
	if err != nil {
		return "", "", err
	}
	if output == "" {
		return string(data), "", nil
	}
	cleanPath, err := pathutil.SanitizeOutputPath(output)
	if err != nil {
		return "", "", fmt.Errorf("invalid output path: %w", err)
	}
	if err := os.WriteFile(cleanPath, data, fileutil.OwnerReadWrite); err != nil {
		return "", "", fmt.Errorf("failed to write output file: %w", err)
	}
	return "", cleanPath, nil
}

// pathPattern matches absolute filesystem paths so they can be stripped from
// error messages before they reach the MCP client.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

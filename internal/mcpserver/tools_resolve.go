package mcpserver

import (
	"context"

	"github.com/erraggy/oasref/walker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type resolveInput struct {
	Spec      specInput `json:"spec"                 jsonschema:"The document to resolve"`
	NoMarkers *bool     `json:"no_markers,omitempty" jsonschema:"Omit x-resolved-from and x-resolved-at markers (default from OASREF_NO_MARKERS)"`
	Format    string    `json:"format,omitempty"     jsonschema:"Output format: json or yaml (default: the source format)"`
	Output    string    `json:"output,omitempty"     jsonschema:"File path to write the resolved document. If omitted the result is returned inline."`
}

type circularRef struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type resolveOutput struct {
	SourceFormat     string        `json:"source_format"`
	ReferenceCount   int           `json:"reference_count"`
	CircularRefCount int           `json:"circular_ref_count"`
	CircularRefs     []circularRef `json:"circular_refs,omitempty"`
	IdentifierCount  int           `json:"identifier_count"`
	WrittenTo        string        `json:"written_to,omitempty"`
	Document         string        `json:"document,omitempty"`
	Summary          string        `json:"summary"`
}

func handleResolve(_ context.Context, _ *mcp.CallToolRequest, input resolveInput) (*mcp.CallToolResult, resolveOutput, error) {
	noMarkers := cfg.NoMarkers
	if input.NoMarkers != nil {
		noMarkers = *input.NoMarkers
	}

	parsed, err := input.Spec.load()
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}
	format, err := outputFormat(input.Format, parsed.SourceFormat)
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}

	result, err := walker.Walk(parsed.Data, walker.WithMarkers(!noMarkers))
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}

	output := resolveOutput{
		SourceFormat:     string(parsed.SourceFormat),
		ReferenceCount:   len(result.References),
		CircularRefCount: len(result.CircularRefs),
		IdentifierCount:  result.Index.Len(),
	}
	output.CircularRefs = makeSlice[circularRef](len(result.CircularRefs))
	for _, c := range result.CircularRefs {
		output.CircularRefs = append(output.CircularRefs, circularRef{From: c.From, To: c.To})
	}

	output.Document, output.WrittenTo, err = emit(result.Document, format, input.Output)
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}
	output.Summary = buildResolveSummary(output)
	return nil, output, nil
}

func buildResolveSummary(output resolveOutput) string {
	summary := "Resolved " + formatCount(output.ReferenceCount, "reference")
	if output.CircularRefCount > 0 {
		summary += " (" + formatCount(output.CircularRefCount, "circular reference") + " preserved)"
	}
	summary += "."
	if output.WrittenTo != "" {
		summary += " Written to " + output.WrittenTo + "."
	}
	return summary
}

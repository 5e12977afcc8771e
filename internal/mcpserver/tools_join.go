package mcpserver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/oasref/joiner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type joinInput struct {
	Specs     []specInput `json:"specs"                jsonschema:"Array of documents to join (minimum 2), in precedence order"`
	Strategy  string      `json:"strategy,omitempty"   jsonschema:"Conflict strategy for component name collisions: rename or error or ignore"`
	NoMarkers *bool       `json:"no_markers,omitempty" jsonschema:"Omit x-resolved-from and x-resolved-at markers (default from OASREF_NO_MARKERS)"`
	Format    string      `json:"format,omitempty"     jsonschema:"Output format: json or yaml (default: the format of the first document)"`
	Output    string      `json:"output,omitempty"     jsonschema:"File path to write the joined document. If omitted the result is returned inline."`
}

type joinWarning struct {
	Category string `json:"category"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Source   string `json:"source,omitempty"`
}

type joinOutput struct {
	SpecCount        int           `json:"spec_count"`
	Strategy         string        `json:"strategy"`
	CollisionCount   int           `json:"collision_count"`
	Renames          []string      `json:"renames,omitempty"`
	WarningCount     int           `json:"warning_count"`
	Warnings         []joinWarning `json:"warnings,omitempty"`
	CircularRefCount int           `json:"circular_ref_count"`
	WrittenTo        string        `json:"written_to,omitempty"`
	Document         string        `json:"document,omitempty"`
	Summary          string        `json:"summary"`
}

func handleJoin(_ context.Context, _ *mcp.CallToolRequest, input joinInput) (*mcp.CallToolResult, joinOutput, error) {
	strategy := cfg.ConflictStrategy
	if input.Strategy != "" {
		if !joiner.IsValidStrategy(input.Strategy) {
			return errResult(fmt.Errorf("invalid strategy: %q; valid values: %s",
				input.Strategy, strings.Join(joiner.ValidStrategies(), ", "))), joinOutput{}, nil
		}
		strategy = joiner.ConflictStrategy(input.Strategy)
	}
	noMarkers := cfg.NoMarkers
	if input.NoMarkers != nil {
		noMarkers = *input.NoMarkers
	}

	if len(input.Specs) < 2 {
		return errResult(fmt.Errorf("at least 2 specs are required for joining, got %d", len(input.Specs))), joinOutput{}, nil
	}
	if len(input.Specs) > cfg.MaxJoinSpecs {
		return errResult(fmt.Errorf("too many specs: got %d, maximum is %d; set OASREF_MAX_JOIN_SPECS to increase",
			len(input.Specs), cfg.MaxJoinSpecs)), joinOutput{}, nil
	}

	sources := make([]joiner.Source, 0, len(input.Specs))
	var firstFormat string
	for i, spec := range input.Specs {
		parsed, err := spec.load()
		if err != nil {
			return errResult(fmt.Errorf("spec[%d]: %w", i, err)), joinOutput{}, nil
		}
		if i == 0 {
			firstFormat = string(parsed.SourceFormat)
		}
		sources = append(sources, joiner.Source{Name: spec.name(i), Document: parsed.Data})
	}

	format := input.Format
	if format == "" {
		format = firstFormat
	}
	result, err := joiner.JoinWithOptions(
		joiner.WithSources(sources...),
		joiner.WithConflictStrategy(strategy),
		joiner.WithNoMarkers(noMarkers),
		joiner.WithOutputFormat(format),
	)
	if err != nil {
		return errResult(err), joinOutput{}, nil
	}

	output := joinOutput{
		SpecCount:        len(sources),
		Strategy:         string(strategy),
		CollisionCount:   result.CollisionCount,
		WarningCount:     len(result.Warnings),
		CircularRefCount: len(result.CircularRefs),
	}
	output.Renames = makeSlice[string](len(result.Renames))
	for _, r := range result.Renames {
		output.Renames = append(output.Renames, r.String())
	}
	output.Warnings = makeSlice[joinWarning](len(result.Warnings))
	for _, w := range result.Warnings {
		output.Warnings = append(output.Warnings, joinWarning{
			Category: string(w.Category),
			Severity: w.Severity.String(),
			Message:  w.Message,
			Source:   w.SourceFile,
		})
	}

	output.Document, output.WrittenTo, err = emit(result.Document, result.OutputFormat, input.Output)
	if err != nil {
		return errResult(err), joinOutput{}, nil
	}
	output.Summary = buildJoinSummary(output)
	return nil, output, nil
}

func buildJoinSummary(output joinOutput) string {
	summary := "Joined " + strconv.Itoa(output.SpecCount) + " specs using the " + output.Strategy + " strategy."
	if output.CollisionCount > 0 {
		summary += " " + formatCount(output.CollisionCount, "collision") + " resolved"
		if n := len(output.Renames); n > 0 {
			summary += " (" + formatCount(n, "rename") + ")"
		}
		summary += "."
	}
	if output.CircularRefCount > 0 {
		summary += " " + formatCount(output.CircularRefCount, "circular reference") + " preserved."
	}
	if output.WarningCount > 0 {
		summary += " " + formatCount(output.WarningCount, "warning") + "."
	}
	return summary
}

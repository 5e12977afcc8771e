package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/erraggy/oasref/internal/cliutil"
	"github.com/erraggy/oasref/parser"
	"github.com/erraggy/oasref/walker"
)

// ResolveFlags contains flags for the resolve command
type ResolveFlags struct {
	Output    string
	Format    string
	NoMarkers bool
	Verbose   bool
	Quiet     bool
}

// SetupResolveFlags creates and configures a FlagSet for the resolve command.
// Returns the FlagSet and a ResolveFlags struct with bound flag variables.
func SetupResolveFlags() (*flag.FlagSet, *ResolveFlags) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	flags := &ResolveFlags{}

	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Format, "format", "", "output format: json or yaml (default: from -o extension, else the source format)")
	fs.BoolVar(&flags.NoMarkers, "no-markers", false, "omit x-resolved-from / x-resolved-at markers")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log resolution details to stderr")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the document, no diagnostic messages")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: oasref resolve [flags] <file|url|->\n\n")
		cliutil.Writef(output, "Resolve every $ref and $dynamicRef in a document and print the result.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  oasref resolve openapi.yaml\n")
		cliutil.Writef(output, "  oasref resolve --no-markers -o resolved.json openapi.yaml\n")
		cliutil.Writef(output, "  cat schema.json | oasref resolve -q -\n")
		cliutil.Writef(output, "\nNotes:\n")
		cliutil.Writef(output, "  - Circular references are kept: the output writes a cycle as a $ref to the enclosing node\n")
		cliutil.Writef(output, "  - When -o is specified, file is written with restrictive permissions (0600)\n")
	}

	return fs, flags
}

// HandleResolve executes the resolve command
func HandleResolve(args []string) error {
	fs, flags := SetupResolveFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("resolve command requires exactly one file path, URL, or '-' for stdin")
	}
	specPath := fs.Arg(0)

	outPath := ""
	if flags.Output != "" {
		var err error
		if outPath, err = ValidateOutputPath(flags.Output, []string{specPath}); err != nil {
			return err
		}
	}

	logger := newLogger(flags.Verbose)
	startTime := time.Now()
	parsed, err := LoadSpec(specPath, logger)
	if err != nil {
		return err
	}
	format, err := ChooseFormat(flags.Format, flags.Output, parsed.SourceFormat)
	if err != nil {
		return err
	}

	result, err := walker.Walk(parsed.Data,
		walker.WithMarkers(!flags.NoMarkers),
		walker.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", FormatSpecPath(specPath), err)
	}
	totalTime := time.Since(startTime)

	diag := cliutil.NewDiagnostics(os.Stderr, flags.Quiet)
	OutputHeader(diag, "Reference Resolver")
	diag.Field("Specification", FormatSpecPath(specPath))
	diag.Field("Source Size", parser.FormatBytes(parsed.SourceSize))
	diag.Field("References", len(result.References))
	diag.Field("Identifiers", result.Index.Len())
	diag.Field("Circular References", len(result.CircularRefs))
	for _, c := range result.CircularRefs {
		diag.Item("%s -> %s", c.From, c.To)
	}
	diag.Printf("Total Time: %v\n\n", totalTime)

	if err := WriteDocument(result.Document, format, outPath); err != nil {
		return err
	}
	if outPath != "" {
		diag.Field("Output written to", flags.Output)
	}
	return nil
}

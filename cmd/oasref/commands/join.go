package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/erraggy/oasref/internal/cliutil"
	"github.com/erraggy/oasref/joiner"
)

// JoinFlags contains flags for the join command
type JoinFlags struct {
	Output    string
	Strategy  string
	Format    string
	NoMarkers bool
	Verbose   bool
	Quiet     bool
}

// SetupJoinFlags creates and configures a FlagSet for the join command.
// Returns the FlagSet and a JoinFlags struct with bound flag variables.
func SetupJoinFlags() (*flag.FlagSet, *JoinFlags) {
	fs := flag.NewFlagSet("join", flag.ContinueOnError)
	flags := &JoinFlags{}

	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Strategy, "strategy", string(joiner.StrategyRename), "conflict strategy for component name collisions (rename, error, ignore)")
	fs.StringVar(&flags.Format, "format", "", "output format: json or yaml (default: from -o extension, else the first source format)")
	fs.BoolVar(&flags.NoMarkers, "no-markers", false, "omit x-resolved-from / x-resolved-at markers")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log merge and resolution details to stderr")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: suppress diagnostic messages (for pipelining)")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: suppress diagnostic messages (for pipelining)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oasref join [flags] <file1> [file2...]\n\n")
		cliutil.Writef(fs.Output(), "Join documents into one and resolve every reference in the result.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nConflict Strategies:\n")
		cliutil.Writef(fs.Output(), "  rename    Keep the first component, rename later ones to Name_1, Name_2 and rewrite their refs\n")
		cliutil.Writef(fs.Output(), "  error     Fail on the first component name collision\n")
		cliutil.Writef(fs.Output(), "  ignore    Keep the first component and point later refs at it\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  oasref join -o merged.yaml users.yaml orders.yaml\n")
		cliutil.Writef(fs.Output(), "  oasref join --strategy error --no-markers base.yaml ext.yaml\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Colliding operations keep the earliest definition; other top-level keys take the last\n")
		cliutil.Writef(fs.Output(), "  - When -o is specified, file is written with restrictive permissions (0600)\n")
	}

	return fs, flags
}

// HandleJoin executes the join command
func HandleJoin(args []string) error {
	fs, flags := SetupJoinFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("join command requires at least 1 input file")
	}
	if !joiner.IsValidStrategy(flags.Strategy) {
		return fmt.Errorf("invalid strategy '%s'. Valid strategies: %v", flags.Strategy, joiner.ValidStrategies())
	}

	filePaths := fs.Args()
	outPath := ""
	if flags.Output != "" {
		var err error
		if outPath, err = ValidateOutputPath(flags.Output, filePaths); err != nil {
			return err
		}
	}

	logger := newLogger(flags.Verbose)
	startTime := time.Now()
	sources := make([]joiner.Source, 0, len(filePaths))
	for _, path := range filePaths {
		parsed, err := LoadSpec(path, logger)
		if err != nil {
			return err
		}
		sources = append(sources, joiner.Source{Name: parsed.SourcePath, Document: parsed.Data})
		if len(sources) == 1 && flags.Format == "" {
			format, err := ChooseFormat("", flags.Output, parsed.SourceFormat)
			if err != nil {
				return err
			}
			flags.Format = string(format)
		}
	}

	result, err := joiner.JoinWithOptions(
		joiner.WithSources(sources...),
		joiner.WithConflictStrategy(joiner.ConflictStrategy(flags.Strategy)),
		joiner.WithNoMarkers(flags.NoMarkers),
		joiner.WithOutputFormat(flags.Format),
		joiner.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("joining specifications: %w", err)
	}
	totalTime := time.Since(startTime)

	diag := cliutil.NewDiagnostics(os.Stderr, flags.Quiet)
	OutputHeader(diag, "Document Joiner")
	diag.Printf("Successfully joined %d specification files\n", len(filePaths))
	if flags.Output != "" {
		diag.Field("Output", flags.Output)
	} else {
		diag.Field("Output", "<stdout>")
	}
	diag.Field("Strategy", flags.Strategy)
	diag.Field("Circular References", len(result.CircularRefs))
	diag.Printf("Total Time: %v\n\n", totalTime)

	if result.CollisionCount > 0 {
		diag.Field("Collisions resolved", result.CollisionCount)
		for _, r := range result.Renames {
			diag.Item("%s", r)
		}
		diag.Printf("\n")
	}
	if len(result.Warnings) > 0 {
		order, counts := result.Warnings.CountByCategory()
		for _, cat := range order {
			diag.Field(cat.Label(), counts[cat])
		}
		diag.Printf("%s\n\n", result.Warnings.Summary())
	}
	diag.Printf("✓ Join completed successfully!\n")

	if outPath != "" {
		if err := joiner.WriteResult(result, outPath); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		diag.Printf("\nOutput written to: %s\n", flags.Output)
		return nil
	}
	return WriteDocument(result.Document, result.OutputFormat, "")
}

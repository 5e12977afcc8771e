package joiner

import (
	"fmt"
	"os"

	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/internal/fileutil"
	"github.com/erraggy/oasref/oaserrors"
	"github.com/erraggy/oasref/parser"
	"github.com/erraggy/oasref/walker"
)

// ConflictStrategy defines how colliding component names are handled when
// documents are merged
type ConflictStrategy string

const (
	// StrategyRename keeps the earlier component and renames the incoming one
	// to <name>_1, <name>_2, ... rewriting the references that point at it
	StrategyRename ConflictStrategy = "rename"
	// StrategyError fails the join on the first collision
	StrategyError ConflictStrategy = "error"
	// StrategyIgnore keeps the earlier component and drops the incoming one;
	// references to it then resolve to the kept component
	StrategyIgnore ConflictStrategy = "ignore"
)

// ValidStrategies returns all valid conflict strategy strings
func ValidStrategies() []string {
	return []string{
		string(StrategyRename),
		string(StrategyError),
		string(StrategyIgnore),
	}
}

// IsValidStrategy checks if a strategy string is valid
func IsValidStrategy(strategy string) bool {
	switch ConflictStrategy(strategy) {
	case StrategyRename, StrategyError, StrategyIgnore:
		return true
	default:
		return false
	}
}

// Config configures how documents are joined
type Config struct {
	// ConflictStrategy decides what happens when two documents declare the
	// same component. Empty means StrategyRename.
	ConflictStrategy ConflictStrategy
	// NoMarkers disables the x-resolved-from / x-resolved-at markers on
	// resolved objects
	NoMarkers bool
	// OutputFormat is the format used by WriteResult. It does not affect the
	// in-memory result.
	OutputFormat document.Format
	// Verbose enables debug logging when no Logger is set
	Verbose bool
	// Logger receives diagnostics. Nil means no logging.
	Logger parser.Logger
}

// DefaultConfig returns the default configuration: rename on conflict,
// markers enabled, YAML output
func DefaultConfig() Config {
	return Config{
		ConflictStrategy: StrategyRename,
		OutputFormat:     document.FormatYAML,
	}
}

func (c Config) validate() error {
	if c.ConflictStrategy != "" && !IsValidStrategy(string(c.ConflictStrategy)) {
		return &oaserrors.ConfigError{
			Option:  "conflictStrategy",
			Value:   c.ConflictStrategy,
			Message: fmt.Sprintf("must be one of %v", ValidStrategies()),
		}
	}
	if c.OutputFormat != "" {
		if _, err := document.ParseFormat(string(c.OutputFormat)); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) strategy() ConflictStrategy {
	if c.ConflictStrategy == "" {
		return StrategyRename
	}
	return c.ConflictStrategy
}

func (c Config) logger() parser.Logger {
	switch {
	case c.Logger != nil:
		return c.Logger
	case c.Verbose:
		return parser.NewVerboseLogger(os.Stderr)
	default:
		return parser.NopLogger{}
	}
}

// Source is one document taking part in a join
type Source struct {
	// Name identifies the document in errors and warnings, typically its path
	Name string
	// Document is the parsed document tree
	Document any
}

// Rename records a component renamed to avoid a collision
type Rename struct {
	// Source is the name of the document whose component was renamed
	Source string
	// Section is the component section, e.g. "schemas" or "definitions"
	Section string
	// From is the original component name
	From string
	// To is the new component name
	To string
}

// String returns "<section>/<from> -> <section>/<to> (<source>)".
func (r Rename) String() string {
	return fmt.Sprintf("%s/%s -> %s/%s (%s)", r.Section, r.From, r.Section, r.To, r.Source)
}

// JoinResult contains the joined document and metadata
type JoinResult struct {
	// Document is the merged and resolved document
	Document any
	// Renames lists the components renamed under StrategyRename, in merge order
	Renames []Rename
	// Warnings contains non-fatal issues encountered during joining
	Warnings JoinWarnings
	// CollisionCount tracks the number of collisions resolved
	CollisionCount int
	// Collisions holds the details of every collision
	Collisions *CollisionReport
	// CircularRefs lists the reference cycles preserved in Document
	CircularRefs []walker.CircularRef
	// OutputFormat is the format WriteResult uses
	OutputFormat document.Format
}

// AddWarning appends a warning to the result.
func (r *JoinResult) AddWarning(w *JoinWarning) {
	r.Warnings = append(r.Warnings, w)
}

// Joiner merges documents with a fixed configuration.
//
// Concurrency: a Joiner holds no per-join state and may be shared between
// goroutines.
type Joiner struct {
	config Config
}

// New creates a new Joiner instance with the provided configuration
func New(config Config) *Joiner {
	return &Joiner{config: config}
}

// Join merges sources with cfg.
func Join(sources []Source, cfg Config) (*JoinResult, error) {
	return New(cfg).Join(sources)
}

// Join merges the sources in order into a single resolved document.
//
// Every source is resolved on its own first so that a broken document is
// reported by name. The sources are then merged section by section and the
// merged document is resolved once more to produce the result.
func (j *Joiner) Join(sources []Source) (*JoinResult, error) {
	if err := j.config.validate(); err != nil {
		return nil, fmt.Errorf("joiner: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("joiner: %w", &oaserrors.ConfigError{
			Option:  "sources",
			Message: "at least one document is required",
		})
	}

	log := j.config.logger()
	result := &JoinResult{
		Collisions:   NewCollisionReport(),
		OutputFormat: j.config.OutputFormat,
	}
	if result.OutputFormat == "" {
		result.OutputFormat = document.FormatYAML
	}

	named := make([]Source, len(sources))
	for i, src := range sources {
		if src.Document == nil {
			return nil, fmt.Errorf("joiner: sources[%d].Document is nil", i)
		}
		if IsGenericSourceName(src.Name) {
			result.AddWarning(NewGenericSourceNameWarning(src.Name, i))
			src.Name = fmt.Sprintf("document %d", i+1)
		}
		if _, ok := document.AsObject(src.Document); !ok {
			return nil, fmt.Errorf("joiner: %s: document root must be a mapping, got %T", src.Name, src.Document)
		}
		if _, err := walker.Walk(src.Document, walker.WithMarkers(false), walker.WithLogger(log)); err != nil {
			return nil, fmt.Errorf("joiner: %s: %w", src.Name, err)
		}
		named[i] = src
	}

	m := newMerger(j.config.strategy(), result, log)
	for _, src := range named {
		if err := m.add(src); err != nil {
			return nil, fmt.Errorf("joiner: %w", err)
		}
	}

	wr, err := walker.Walk(m.out,
		walker.WithMarkers(!j.config.NoMarkers),
		walker.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("joiner: resolving merged document: %w", err)
	}
	result.Document = wr.Document
	result.CircularRefs = wr.CircularRefs
	result.CollisionCount = result.Collisions.TotalCollisions

	log.Info("join complete",
		"documents", len(named),
		"renames", len(result.Renames),
		"collisions", result.CollisionCount,
		"circular", len(result.CircularRefs))
	return result, nil
}

// WriteResult writes a join result to a file in the result's output format.
//
// The output file is written with restrictive permissions (0600 - owner read/write only)
// to protect potentially sensitive API specifications. If the file already exists, its
// permissions will be explicitly set to 0600 after writing.
func WriteResult(result *JoinResult, outputPath string) error {
	if result == nil {
		return fmt.Errorf("joiner: nil result")
	}
	data, err := document.Encode(result.Document, result.OutputFormat)
	if err != nil {
		return fmt.Errorf("joiner: failed to marshal joined document: %w", err)
	}
	if err := os.WriteFile(outputPath, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("joiner: failed to write output file: %w", err)
	}
	if err := os.Chmod(outputPath, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("joiner: failed to set output file permissions: %w", err)
	}
	return nil
}

package joiner

import (
	"fmt"

	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/internal/options"
	"github.com/erraggy/oasref/oaserrors"
	"github.com/erraggy/oasref/parser"
)

// Option is a function that configures a join operation
type Option func(*joinConfig) error

// joinConfig holds configuration for a join operation
type joinConfig struct {
	sources   []Source
	documents []any
	config    Config
}

// JoinWithOptions joins documents using functional options.
//
// Example:
//
//	result, err := joiner.JoinWithOptions(
//	    joiner.WithSources(users, billing),
//	    joiner.WithConflictStrategy(joiner.StrategyRename),
//	    joiner.WithNoMarkers(true),
//	)
func JoinWithOptions(opts ...Option) (*JoinResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("joiner: invalid options: %w", err)
	}
	sources := cfg.sources
	for i, doc := range cfg.documents {
		sources = append(sources, Source{Name: fmt.Sprintf("document %d", i+1), Document: doc})
	}
	return New(cfg.config).Join(sources)
}

// applyOptions applies option functions and validates the input sources
func applyOptions(opts ...Option) (*joinConfig, error) {
	cfg := &joinConfig{config: DefaultConfig()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if err := options.ValidateSingleInputSource(
		"must specify WithSources or WithDocuments",
		"cannot mix WithSources and WithDocuments",
		len(cfg.sources) > 0, len(cfg.documents) > 0,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithSources adds named documents to join, in order
func WithSources(sources ...Source) Option {
	return func(cfg *joinConfig) error {
		cfg.sources = append(cfg.sources, sources...)
		return nil
	}
}

// WithDocuments adds unnamed documents to join, in order. They are named
// "document 1", "document 2", ... in errors and warnings.
func WithDocuments(docs ...any) Option {
	return func(cfg *joinConfig) error {
		cfg.documents = append(cfg.documents, docs...)
		return nil
	}
}

// WithConflictStrategy sets the strategy for colliding components
func WithConflictStrategy(strategy ConflictStrategy) Option {
	return func(cfg *joinConfig) error {
		if !IsValidStrategy(string(strategy)) {
			return &oaserrors.ConfigError{
				Option:  "conflictStrategy",
				Value:   strategy,
				Message: fmt.Sprintf("must be one of %v", ValidStrategies()),
			}
		}
		cfg.config.ConflictStrategy = strategy
		return nil
	}
}

// WithNoMarkers disables the x-resolved-from and x-resolved-at markers
func WithNoMarkers(enabled bool) Option {
	return func(cfg *joinConfig) error {
		cfg.config.NoMarkers = enabled
		return nil
	}
}

// WithOutputFormat sets the format used by WriteResult ("json" or "yaml")
func WithOutputFormat(format string) Option {
	return func(cfg *joinConfig) error {
		f, err := document.ParseFormat(format)
		if err != nil {
			return err
		}
		cfg.config.OutputFormat = f
		return nil
	}
}

// WithVerbose enables debug logging to stderr when no logger is set
func WithVerbose(enabled bool) Option {
	return func(cfg *joinConfig) error {
		cfg.config.Verbose = enabled
		return nil
	}
}

// WithLogger sets the logger for diagnostics
func WithLogger(l parser.Logger) Option {
	return func(cfg *joinConfig) error {
		cfg.config.Logger = l
		return nil
	}
}

// WithConfig replaces the whole configuration. Options applied after it
// override individual fields.
func WithConfig(config Config) Option {
	return func(cfg *joinConfig) error {
		cfg.config = config
		return nil
	}
}

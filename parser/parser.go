package parser

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/erraggy/oasref"
	"github.com/erraggy/oasref/oaserrors"
)

// DefaultMaxFileSize is the size limit applied when none is configured (10 MiB).
const DefaultMaxFileSize int64 = 10 << 20

// Parser loads API documents into document trees
type Parser struct {
	// UserAgent is the User-Agent string used when fetching URLs
	// Defaults to "oasref/<version>" if not set
	UserAgent string
	// HTTPClient is the HTTP client used for fetching URLs.
	// If nil, a default client with 30-second timeout is created.
	HTTPClient *http.Client
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger Logger
	// MaxFileSize is the maximum source size in bytes.
	// Default: 10MB
	MaxFileSize int64
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		UserAgent:   oasref.UserAgent(),
		MaxFileSize: DefaultMaxFileSize,
	}
}

func (p *Parser) log() Logger {
	return loggerOrNop(p.Logger)
}

func (p *Parser) maxFileSize() int64 {
	if p.MaxFileSize > 0 {
		return p.MaxFileSize
	}
	return DefaultMaxFileSize
}

// SourceFormat represents the format of the source document
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// ParseResult contains a loaded document and metadata about its source.
//
// Callers should treat Data as read-only: the walker and the joiner never
// modify their input, and sharing a tree between them relies on that.
type ParseResult struct {
	// SourcePath is the path or URL the document was read from.
	// Note: if the source was not a file path, this will be set to the name of the method
	// and end in '.yaml' or '.json' based on the detected format
	SourcePath string
	// SourceFormat is the format of the source (JSON or YAML)
	SourceFormat SourceFormat
	// Data is the document tree: *document.Object, []any or a scalar
	Data any
	// LoadTime is the time taken to load the source data (file, URL, etc.)
	LoadTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
}

// Parse loads a document from a file path or an http(s) URL
func (p *Parser) Parse(specPath string) (*ParseResult, error) {
	var (
		data   []byte
		err    error
		format SourceFormat
	)

	loadStart := time.Now()
	if isURL(specPath) {
		var contentType string
		data, contentType, err = p.fetchURL(specPath)
		if err != nil {
			return nil, err
		}
		format = detectFormatFromURL(specPath, contentType)
	} else {
		data, err = p.readFile(specPath)
		if err != nil {
			return nil, err
		}
		format = detectFormatFromPath(specPath)
	}
	loadTime := time.Since(loadStart)

	res, err := p.parseBytes(data, specPath)
	if err != nil {
		return nil, err
	}
	res.SourcePath = specPath
	res.LoadTime = loadTime
	if format != SourceFormatUnknown {
		res.SourceFormat = format
	}
	p.log().Debug("loaded document",
		"source", specPath,
		"format", res.SourceFormat,
		"size", FormatBytes(res.SourceSize),
		"loadTime", loadTime)
	return res, nil
}

// ParseReader loads a document from an io.Reader
// Note: since there is no actual ParseResult.SourcePath, it will be set to: ParseReader.yaml or ParseReader.json
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := p.readLimited(r, "reader")
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, err
	}
	res, err := p.parseBytes(data, "ParseReader")
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	res.SourcePath = "ParseReader." + string(res.SourceFormat)
	return res, nil
}

// ParseBytes loads a document from a byte slice
// Note: since there is no actual ParseResult.SourcePath, it will be set to: ParseBytes.yaml or ParseBytes.json
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	if int64(len(data)) > p.maxFileSize() {
		return nil, p.sizeError("bytes", int64(len(data)))
	}
	res, err := p.parseBytes(data, "ParseBytes")
	if err != nil {
		return nil, err
	}
	res.SourcePath = "ParseBytes." + string(res.SourceFormat)
	return res, nil
}

// parseBytes decodes data; name identifies the source in errors.
func (p *Parser) parseBytes(data []byte, name string) (*ParseResult, error) {
	doc, err := decode(data, name)
	if err != nil {
		return nil, err
	}
	format := detectFormatFromContent(data)
	if format == SourceFormatUnknown {
		format = SourceFormatYAML
	}
	return &ParseResult{
		SourcePath:   name,
		SourceFormat: format,
		Data:         doc,
		SourceSize:   int64(len(data)),
	}, nil
}

func (p *Parser) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}
	if info.Size() > p.maxFileSize() {
		return nil, p.sizeError(path, info.Size())
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided input (CLI)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}
	return data, nil
}

// readLimited reads r up to the size limit plus one byte, so an oversized
// source is detected without reading it whole.
func (p *Parser) readLimited(r io.Reader, source string) ([]byte, error) {
	limit := p.maxFileSize()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, p.sizeError(source, int64(len(data)))
	}
	return data, nil
}

func (p *Parser) sizeError(source string, actual int64) error {
	return &oaserrors.ResourceLimitError{
		ResourceType: "file_size",
		Limit:        p.maxFileSize(),
		Actual:       actual,
		Message:      fmt.Sprintf("%s exceeds the maximum size of %s", source, FormatBytes(p.maxFileSize())),
	}
}

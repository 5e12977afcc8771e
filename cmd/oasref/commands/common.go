// Package commands provides CLI command handlers for oasref.
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/oasref"
	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/internal/cliutil"
	"github.com/erraggy/oasref/internal/fileutil"
	"github.com/erraggy/oasref/internal/pathutil"
	"github.com/erraggy/oasref/parser"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// stdout receives documents written without -o.
var stdout io.Writer = os.Stdout

// FormatSpecPath returns a display-friendly path for the specification.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// newLogger returns a debug logger on stderr when verbose is set.
func newLogger(verbose bool) parser.Logger {
	if verbose {
		return parser.NewVerboseLogger(os.Stderr)
	}
	return parser.NopLogger{}
}

// LoadSpec parses a file, URL, or stdin.
func LoadSpec(specPath string, logger parser.Logger) (*parser.ParseResult, error) {
	opts := []parser.Option{parser.WithLogger(logger)}
	if specPath == StdinFilePath {
		opts = append(opts, parser.WithReader(os.Stdin), parser.WithSourceName("<stdin>"))
	} else {
		opts = append(opts, parser.WithFilePath(specPath))
	}
	result, err := parser.ParseWithOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", FormatSpecPath(specPath), err)
	}
	return result, nil
}

// ChooseFormat picks the output format: the --format flag, then the output
// file extension, then the format of the source.
func ChooseFormat(flag, output string, source parser.SourceFormat) (document.Format, error) {
	if flag != "" {
		return document.ParseFormat(flag)
	}
	switch strings.ToLower(filepath.Ext(output)) {
	case ".json", ".yaml", ".yml":
		return document.FormatForPath(output), nil
	}
	if source == parser.SourceFormatJSON {
		return document.FormatJSON, nil
	}
	return document.FormatYAML, nil
}

// ValidateOutputPath checks if the output path is safe to write to
func ValidateOutputPath(outputPath string, inputPaths []string) (string, error) {
	cleanPath, err := pathutil.SanitizeOutputPath(outputPath)
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}

	for _, inputPath := range inputPaths {
		if inputPath == StdinFilePath {
			continue
		}
		absInputPath, err := filepath.Abs(inputPath)
		if err != nil {
			return "", fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}
		if cleanPath == absInputPath {
			return "", fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
		}
	}

	if _, err := os.Stat(cleanPath); err == nil {
		cliutil.Writef(os.Stderr, "Warning: output file %s already exists and will be overwritten\n", outputPath)
	}
	return cleanPath, nil
}

// WriteDocument encodes doc to path with owner-only permissions, or to
// stdout when path is empty.
func WriteDocument(doc any, format document.Format, path string) error {
	data, err := document.Encode(doc, format)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("writing document to stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// OutputHeader writes the banner shared by all commands.
func OutputHeader(diag *cliutil.Diagnostics, title string) {
	diag.Printf("%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	diag.Field("oasref version", oasref.Version())
}

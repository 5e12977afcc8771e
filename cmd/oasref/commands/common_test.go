package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/internal/testutil"
	"github.com/erraggy/oasref/parser"
)

// captureStdout redirects documents written without -o into a buffer.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = saved })
	return &buf
}

func TestFormatSpecPath(t *testing.T) {
	if got := FormatSpecPath(StdinFilePath); got != "<stdin>" {
		t.Errorf("FormatSpecPath(-) = %q, want <stdin>", got)
	}
	if got := FormatSpecPath("api.yaml"); got != "api.yaml" {
		t.Errorf("FormatSpecPath(api.yaml) = %q", got)
	}
}

func TestChooseFormat(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		output  string
		source  parser.SourceFormat
		want    document.Format
		wantErr bool
	}{
		{"flag wins", "json", "out.yaml", parser.SourceFormatYAML, document.FormatJSON, false},
		{"output extension", "", "out.json", parser.SourceFormatYAML, document.FormatJSON, false},
		{"yml extension", "", "out.yml", parser.SourceFormatJSON, document.FormatYAML, false},
		{"source format", "", "out.txt", parser.SourceFormatJSON, document.FormatJSON, false},
		{"stdout yaml", "", "", parser.SourceFormatYAML, document.FormatYAML, false},
		{"invalid flag", "toml", "", parser.SourceFormatYAML, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChooseFormat(tt.flag, tt.output, tt.source)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ChooseFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ChooseFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "api.yaml", "a: 1\n")

	if _, err := ValidateOutputPath(input, []string{input}); err == nil {
		t.Error("expected an error when output overwrites an input")
	}

	out := filepath.Join(dir, "out.yaml")
	got, err := ValidateOutputPath(out, []string{input, StdinFilePath})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != out {
		t.Errorf("ValidateOutputPath() = %q, want %q", got, out)
	}

	link := filepath.Join(dir, "link.yaml")
	if err := os.Symlink(input, link); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if _, err := ValidateOutputPath(link, nil); err == nil || !strings.Contains(err.Error(), "symlink") {
		t.Errorf("expected symlink rejection, got %v", err)
	}
}

func TestWriteDocument(t *testing.T) {
	doc := document.FromNative(map[string]any{"key": "value"})

	buf := captureStdout(t)
	if err := WriteDocument(doc, document.FormatJSON, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"key": "value"`) {
		t.Errorf("stdout = %q", buf.String())
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := WriteDocument(doc, document.FormatYAML, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("permissions = %v, want 0600", info.Mode().Perm())
	}
}

func TestLoadSpecMissingFile(t *testing.T) {
	_, err := LoadSpec(filepath.Join(t.TempDir(), "missing.yaml"), parser.NopLogger{})
	if err == nil || !strings.Contains(err.Error(), "loading") {
		t.Errorf("expected a loading error, got %v", err)
	}
}

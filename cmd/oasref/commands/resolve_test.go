package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erraggy/oasref/internal/testutil"
)

const cyclicSpec = `openapi: 3.1.0
components:
  schemas:
    Node:
      type: object
      properties:
        next:
          $ref: '#/components/schemas/Node'
paths:
  /nodes:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Node'
`

func TestSetupResolveFlags(t *testing.T) {
	fs, flags := SetupResolveFlags()
	args := []string{"-o", "out.json", "--format", "json", "--no-markers", "--verbose", "-q", "api.yaml"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if flags.Output != "out.json" || flags.Format != "json" {
		t.Errorf("unexpected output flags: %+v", flags)
	}
	if !flags.NoMarkers || !flags.Verbose || !flags.Quiet {
		t.Errorf("expected boolean flags to be set: %+v", flags)
	}
	if fs.NArg() != 1 {
		t.Errorf("expected 1 file arg, got %d", fs.NArg())
	}
}

func TestHandleResolve_Stdout(t *testing.T) {
	spec := testutil.WriteFile(t, t.TempDir(), "api.yaml", cyclicSpec)
	buf := captureStdout(t)

	if err := HandleResolve([]string{"-q", "--no-markers", "--format", "json", spec}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"next": {`) {
		t.Errorf("expected the resolved schema inline, got:\n%s", out)
	}
	if !strings.Contains(out, `"$ref": "#/components/schemas/Node"`) {
		t.Errorf("expected the cycle written as a $ref, got:\n%s", out)
	}
	if strings.Contains(out, "x-resolved-from") {
		t.Error("markers should be omitted with --no-markers")
	}
}

func TestHandleResolve_OutputFile(t *testing.T) {
	dir := t.TempDir()
	spec := testutil.WriteFile(t, dir, "api.yaml", cyclicSpec)
	out := filepath.Join(dir, "resolved.yaml")

	if err := HandleResolve([]string{"-q", "-o", out, spec}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "x-resolved-from: '#/components/schemas/Node'") {
		t.Errorf("expected markers in output, got:\n%s", data)
	}
}

func TestHandleResolve_Errors(t *testing.T) {
	dir := t.TempDir()
	broken := testutil.WriteFile(t, dir, "broken.yaml", "a:\n  $ref: '#/missing'\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no args", nil, "requires exactly one"},
		{"two args", []string{"a.yaml", "b.yaml"}, "requires exactly one"},
		{"unknown flag", []string{"--bogus", "a.yaml"}, "flag provided but not defined"},
		{"bad format", []string{"--format", "toml", broken}, "outputFormat"},
		{"unresolvable", []string{"-q", broken}, "resolving"},
		{"overwrite input", []string{"-o", broken, broken}, "would overwrite input file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HandleResolve(tt.args)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestHandleResolve_Help(t *testing.T) {
	if err := HandleResolve([]string{"--help"}); err != nil {
		t.Errorf("--help should not return an error, got %v", err)
	}
}

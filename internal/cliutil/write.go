// Package cliutil provides output helpers for the oasref command.
package cliutil

import (
	"fmt"
	"io"
	"os"
)

// Writef writes formatted output to w. A failed write is reported on stderr
// since there is nowhere better to send it.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Diagnostics writes the human-readable report of a command. A quiet
// Diagnostics discards everything, leaving stdout as the only output.
type Diagnostics struct {
	w     io.Writer
	quiet bool
}

// NewDiagnostics returns a Diagnostics writing to w unless quiet is set.
func NewDiagnostics(w io.Writer, quiet bool) *Diagnostics {
	return &Diagnostics{w: w, quiet: quiet}
}

// Printf writes a formatted line fragment.
func (d *Diagnostics) Printf(format string, args ...any) {
	if d.quiet {
		return
	}
	Writef(d.w, format, args...)
}

// Field writes "name: value" on its own line.
func (d *Diagnostics) Field(name string, value any) {
	d.Printf("%s: %v\n", name, value)
}

// Item writes an indented list entry.
func (d *Diagnostics) Item(format string, args ...any) {
	d.Printf("  - "+format+"\n", args...)
}

// Quiet reports whether output is suppressed.
func (d *Diagnostics) Quiet() bool {
	return d.quiet
}

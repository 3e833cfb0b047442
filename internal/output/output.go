// Package output provides consistent CLI output formatting. Icons are
// shown on terminals and suppressed when output is piped.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Writer provides formatted output for the CLI.
type Writer struct {
	out   io.Writer
	fancy bool
}

// New creates a Writer. Icons are enabled only when out is a terminal.
func New(out io.Writer) *Writer {
	fancy := false
	if f, ok := out.(*os.File); ok {
		fancy = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Writer{out: out, fancy: fancy}
}

// Status prints a message with an icon. Write errors are intentionally
// ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" && w.fancy {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
		return
	}
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s\n", msg)
		return
	}
	_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message.
func (w *Writer) Success(msg string) {
	w.Status("✅", msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", msg)
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("❌", msg)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

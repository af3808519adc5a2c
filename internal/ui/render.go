// Package ui renders diagnostics and pipeline progress for the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"quill/internal/diag"
	"quill/internal/source"
)

// RenderOptions controls diagnostic output.
type RenderOptions struct {
	Color bool
	// Context prints the offending source line with a caret underline.
	Context bool
	// Advices prints fix suggestions attached to diagnostics.
	Advices bool
}

// RenderDiagnostics prints each diagnostic as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line and caret when Context is on. The bag is
// expected to be sorted already.
func RenderDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts RenderOptions) {
	for _, d := range bag.Items() {
		renderOne(w, &d, fs, opts)
	}
}

func renderOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts RenderOptions) {
	path, lc := fs.Position(d.Primary)
	sev := severityText(d.Severity, opts.Color)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, lc.Line, lc.Col, sev, d.Code, d.Message)

	if opts.Context {
		renderContext(w, d, fs, opts)
	}

	for _, n := range d.Notes {
		npath, nlc := fs.Position(n.Span)
		fmt.Fprintf(w, "%s:%d:%d: note: %s\n", npath, nlc.Line, nlc.Col, n.Msg)
	}

	if opts.Advices {
		for _, a := range d.Advices {
			marker := "fix"
			if a.Applicability != diag.ApplicabilityAlways {
				marker = "fix (unsafe)"
			}
			fmt.Fprintf(w, "  %s: %s\n", marker, a.Message)
		}
	}
}

// renderContext prints the first line of the primary span with a caret
// underline. Column math uses display width so tabs and wide runes line up.
func renderContext(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts RenderOptions) {
	file := fs.Get(d.Primary.File)
	if file == nil {
		return
	}
	_, lc := fs.Position(d.Primary)
	line := file.Line(int(lc.Line))
	if line == "" {
		return
	}
	fmt.Fprintf(w, "    %s\n", line)

	col := int(lc.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	pad := runewidth.StringWidth(line[:col])
	span := int(d.Primary.Len())
	if span < 1 {
		span = 1
	}
	if rest := len(line) - col; span > rest && rest > 0 {
		span = rest
	}
	caret := "^" + strings.Repeat("~", span-1)
	if opts.Color {
		caret = color.New(caretColor(d.Severity)).Sprint(caret)
	}
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", pad), caret)
}

func severityText(s diag.Severity, colored bool) string {
	if !colored {
		return strings.ToLower(s.String())
	}
	switch s {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold).Sprint("error")
	case diag.SevWarning:
		return color.New(color.FgYellow).Sprint("warning")
	default:
		return color.New(color.FgCyan).Sprint("info")
	}
}

func caretColor(s diag.Severity) color.Attribute {
	switch s {
	case diag.SevError:
		return color.FgRed
	case diag.SevWarning:
		return color.FgYellow
	default:
		return color.FgCyan
	}
}

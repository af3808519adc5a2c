package diag

import (
	"fmt"
	"sort"
	"strings"

	"quill/internal/source"
)

type renderedDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShort renders diagnostics into a stable single-line-per-entry
// representation for CLI output and golden files. Entries are sorted
// deterministically; the result is empty when nothing remains.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]renderedDiagnostic, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		path, lc := fs.Position(d.Primary)
		rendered = append(rendered, renderedDiagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code.String(),
			Path:     path,
			Line:     lc.Line,
			Column:   lc.Col,
			Message:  d.Message,
		})
		if includeNotes {
			for _, n := range d.Notes {
				npath, nlc := fs.Position(n.Span)
				rendered = append(rendered, renderedDiagnostic{
					Severity: "NOTE",
					Code:     d.Code.String(),
					Path:     npath,
					Line:     nlc.Line,
					Column:   nlc.Col,
					Message:  n.Msg,
				})
			}
		}
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		return di.Code < dj.Code
	})

	var b strings.Builder
	for _, r := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s\n", r.Severity, r.Code, r.Path, r.Line, r.Column, r.Message)
	}
	return b.String()
}

package diag

import (
	"quill/internal/source"
)

// Note attaches secondary context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single finding against one file.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note

	// Advices carries "did you mean" suggestions derived from analyzer
	// actions for this finding.
	Advices []SuggestionAdvice

	// Suggestions carries independently-applicable fixes.
	Suggestions []CodeSuggestion
}

// WithNote returns a copy of the diagnostic with an extra note.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// HasFix reports whether any suggestion carries edits.
func (d *Diagnostic) HasFix() bool {
	for i := range d.Suggestions {
		if len(d.Suggestions[i].Edits) > 0 {
			return true
		}
	}
	return false
}

package diag

import "quill/internal/source"

// TextEdit is a single literal replacement of a byte range in one file.
// An insertion has an empty span; a deletion has empty NewText.
type TextEdit struct {
	Span    source.Span
	NewText string
}

// IsInsert reports whether the edit inserts without removing anything.
func (e TextEdit) IsInsert() bool {
	return e.Span.Empty() && e.NewText != ""
}

// IsDelete reports whether the edit removes without inserting anything.
func (e TextEdit) IsDelete() bool {
	return !e.Span.Empty() && e.NewText == ""
}

// Applicability is the confidence level of an automatic code change,
// deciding whether tooling may apply it without user confirmation.
type Applicability uint8

const (
	// ApplicabilityAlways marks a change that is always safe to apply.
	ApplicabilityAlways Applicability = iota
	// ApplicabilityMaybeIncorrect marks a change that may alter behavior
	// and needs review before applying.
	ApplicabilityMaybeIncorrect
)

func (a Applicability) String() string {
	switch a {
	case ApplicabilityAlways:
		return "always"
	case ApplicabilityMaybeIncorrect:
		return "maybe-incorrect"
	}
	return "unknown"
}

// CodeSuggestion is an independently-applicable code change surfaced to the
// reporting and fix-application layers.
type CodeSuggestion struct {
	// Span is the total byte range the suggestion affects.
	Span source.Span

	Applicability Applicability

	// Message describes the change to a human.
	Message string

	// Edits realize the change. Empty when the underlying mutation could
	// not be rendered; the suggestion is then advisory only.
	Edits []TextEdit

	// Labels optionally highlight related spans.
	Labels []source.Span
}

// SuggestionAdvice is the "did you mean" shape attached directly to a
// diagnostic. It drops rule and file identity.
type SuggestionAdvice struct {
	Applicability Applicability
	Message       string
	Edits         []TextEdit
}

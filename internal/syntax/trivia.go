package syntax

import "quill/internal/source"

//go:generate stringer -type=TriviaKind -trimprefix=Trivia

// TriviaKind tags a single piece of non-semantic token content.
type TriviaKind uint8

const (
	TriviaWhitespace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaSkipped
)

// TriviaPiece is one run of trivia attached to a token edge.
//
// Whitespace runs are coalesced into a single piece, but every newline is
// its own piece so that consumers can count source lines by counting pieces.
// Skipped pieces hold text the parser could not assign to any production.
type TriviaPiece struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

func (p TriviaPiece) IsWhitespace() bool { return p.Kind == TriviaWhitespace }
func (p TriviaPiece) IsNewline() bool    { return p.Kind == TriviaNewline }
func (p TriviaPiece) IsSkipped() bool    { return p.Kind == TriviaSkipped }

// IsComment reports whether the piece is a line or block comment.
func (p TriviaPiece) IsComment() bool {
	return p.Kind == TriviaLineComment || p.Kind == TriviaBlockComment
}

// TriviaText renders a trivia slice back to source text.
func TriviaText(pieces []TriviaPiece) string {
	n := 0
	for _, p := range pieces {
		n += len(p.Text)
	}
	out := make([]byte, 0, n)
	for _, p := range pieces {
		out = append(out, p.Text...)
	}
	return string(out)
}

// HasNewline reports whether any piece in the slice is a newline.
func HasNewline(pieces []TriviaPiece) bool {
	for _, p := range pieces {
		if p.IsNewline() {
			return true
		}
	}
	return false
}

// HasSkipped reports whether any piece in the slice is skipped text.
func HasSkipped(pieces []TriviaPiece) bool {
	for _, p := range pieces {
		if p.IsSkipped() {
			return true
		}
	}
	return false
}

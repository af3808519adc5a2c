package format

import "quill/internal/syntax"

// CommentKind classifies a comment for placement purposes.
type CommentKind uint8

const (
	CommentLine CommentKind = iota
	// CommentBlock spans multiple source lines.
	CommentBlock
	// CommentInlineBlock is a block comment on a single line.
	CommentInlineBlock
)

// SourceComment is a comment lifted out of token trivia for formatting:
// the piece plus the newline counts on both sides that the placement rules
// key on. Derived on demand, never stored.
type SourceComment struct {
	Kind CommentKind

	// LinesBefore counts newlines between the previous token or comment
	// and this comment.
	LinesBefore int

	// LinesAfter counts newlines between this comment and the next comment
	// or the token itself.
	LinesAfter int

	Piece syntax.TriviaPiece

	// key locates the piece for consumed-comment bookkeeping.
	key commentKey
}

// commentKey identifies one trivia piece of one token edge.
type commentKey struct {
	token    syntax.TokenID
	trailing bool
	index    int
}

func commentKind(p syntax.TriviaPiece) CommentKind {
	if p.Kind == syntax.TriviaLineComment {
		return CommentLine
	}
	for i := 0; i < len(p.Text); i++ {
		if p.Text[i] == '\n' {
			return CommentBlock
		}
	}
	return CommentInlineBlock
}

// leadingComments extracts the comments of a token's leading trivia with
// their surrounding newline counts.
func leadingComments(tok *syntax.Token, id syntax.TokenID) []SourceComment {
	var out []SourceComment
	lines := 0
	for i, p := range tok.Leading {
		switch {
		case p.IsNewline():
			lines++
		case p.IsComment():
			if len(out) > 0 {
				out[len(out)-1].LinesAfter = lines
			}
			out = append(out, SourceComment{
				Kind:        commentKind(p),
				LinesBefore: lines,
				Piece:       p,
				key:         commentKey{token: id, index: i},
			})
			lines = 0
		}
	}
	if len(out) > 0 {
		out[len(out)-1].LinesAfter = lines
	}
	return out
}

// trailingComments extracts the comments of a token's trailing trivia.
// Trailing trivia never holds newlines, so every comment is same-line.
func trailingComments(tok *syntax.Token, id syntax.TokenID) []SourceComment {
	var out []SourceComment
	for i, p := range tok.Trailing {
		if p.IsComment() {
			out = append(out, SourceComment{
				Kind:  commentKind(p),
				Piece: p,
				key:   commentKey{token: id, trailing: true, index: i},
			})
		}
	}
	return out
}

package format

import (
	"fmt"

	"quill/internal/syntax"
)

// FormatRemoved accounts for a token without printing it. Its skipped
// trivia still renders, so error-recovered bytes survive the removal.
func (f *Formatter) FormatRemoved(id syntax.TokenID) {
	if f.err != nil {
		return
	}
	if f.tree.Token(id) == nil {
		f.Fail(fmt.Errorf("format: token %d not in tree", id))
		return
	}
	f.consumedTokens[id] = true
	f.FormatSkippedTokenTrivia(id)
}

// FormatReplaced prints caller-supplied content in a token's place, keeping
// the token's skipped trivia and comments.
func (f *Formatter) FormatReplaced(id syntax.TokenID, content ...Element) {
	if f.err != nil {
		return
	}
	if f.tree.Token(id) == nil {
		f.Fail(fmt.Errorf("format: token %d not in tree", id))
		return
	}
	f.consumedTokens[id] = true
	f.FormatSkippedTokenTrivia(id)
	f.formatTokenLeadingComments(id)
	f.Write(content...)
	f.formatTokenTrailingComments(id)
}

// FormatOnlyIfBreaks prints the content only when the enclosing group
// breaks; when the group stays flat, only the token's skipped trivia
// appears. Used for punctuation that should vanish on one line, e.g. a
// trailing separator.
func (f *Formatter) FormatOnlyIfBreaks(id syntax.TokenID, content ...Element) {
	if f.err != nil {
		return
	}
	if f.tree.Token(id) == nil {
		f.Fail(fmt.Errorf("format: token %d not in tree", id))
		return
	}
	f.consumedTokens[id] = true
	flat := f.collect(func() { f.FormatSkippedTokenTrivia(id) })
	f.Write(IfBreaks(content...))
	if len(flat) > 0 {
		f.Write(IfFlat(flat...))
	}
}

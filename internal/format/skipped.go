package format

import (
	"quill/internal/source"
	"quill/internal/syntax"
)

// FormatSkippedTokenTrivia reproduces unparseable source text hiding in a
// token's leading trivia. The skipped bytes reappear verbatim, bracketed by
// whitespace reconstructed from the trivia around them, and any comments
// interleaved with the skipped text come out as dangling comments.
//
// Multiple disjoint skipped pieces in one token merge into a single covering
// range; the verbatim bytes then include whatever sat between them, so
// nothing is dropped, only comments inside the range stop being reflowed.
func (f *Formatter) FormatSkippedTokenTrivia(id syntax.TokenID) {
	if f.err != nil {
		return
	}
	tok := f.tree.Token(id)
	if tok == nil || !syntax.HasSkipped(tok.Leading) {
		return
	}

	// Seed the whitespace counters from the previous token's trailing
	// trivia, scanning backward until real content.
	lines, spaces := 0, 0
	if prev := f.tree.PrevToken(id); prev.IsValid() {
		tr := f.tree.Token(prev).Trailing
	seed:
		for i := len(tr) - 1; i >= 0; i-- {
			switch {
			case tr[i].IsWhitespace():
				spaces++
			case tr[i].IsNewline():
				lines++
				spaces = 0
			default:
				break seed
			}
		}
	}

	var dangling []SourceComment
	var covered source.Span
	haveRange := false

	for i, p := range tok.Leading {
		switch {
		case p.IsWhitespace():
			spaces++
		case p.IsNewline():
			lines++
			spaces = 0
		case p.IsComment():
			key := commentKey{token: id, index: i}
			if f.consumedComments[key] {
				continue
			}
			dangling = append(dangling, SourceComment{
				Kind:        commentKind(p),
				LinesBefore: lines,
				Piece:       p,
				key:         key,
			})
			lines, spaces = 0, 0
		case p.IsSkipped():
			if !haveRange {
				haveRange = true
				covered = p.Span
				f.writeSkippedLeading(dangling, lines, spaces)
			} else {
				covered = covered.Cover(p.Span)
			}
			// Comments between skipped pieces end up inside the covering
			// range and print with it.
			for _, c := range dangling {
				f.consumedComments[c.key] = true
			}
			dangling = nil
			lines, spaces = 0, 0
		}
	}

	f.Write(Verbatim(string(f.file.Text(covered))))

	// Separator after the verbatim bytes, with any comments that followed
	// the last skipped piece rendered as dangling comments first.
	if len(dangling) == 0 {
		switch {
		case lines > 0:
			f.Write(Hardline())
		case spaces > 0:
			f.Write(Space())
		}
		return
	}
	f.Write(skippedSeparator(dangling[0].LinesBefore))
	for i, c := range dangling {
		f.consumedComments[c.key] = true
		if i > 0 {
			f.Write(skippedSeparator(c.LinesBefore))
		}
		f.Write(Text(c.Piece.Text))
	}
	if lines > 0 || dangling[len(dangling)-1].Kind == CommentLine {
		f.Write(Hardline())
	} else {
		f.Write(Space())
	}
}

// writeSkippedLeading emits the separator due before the first skipped byte,
// plus any comments buffered up to that point.
func (f *Formatter) writeSkippedLeading(dangling []SourceComment, lines, spaces int) {
	if len(dangling) == 0 {
		switch {
		case lines > 0:
			f.Write(Hardline())
		case spaces > 0:
			f.Write(Space())
		}
		return
	}
	f.Write(skippedSeparator(dangling[0].LinesBefore))
	for i, c := range dangling {
		if i > 0 {
			f.Write(skippedSeparator(c.LinesBefore))
		}
		f.Write(Text(c.Piece.Text))
	}
	if dangling[len(dangling)-1].Kind == CommentLine {
		f.Write(Hardline())
	} else {
		f.Write(Space())
	}
}

// skippedSeparator maps a newline count to a separator, never omitting it.
func skippedSeparator(lines int) Element {
	switch {
	case lines == 0:
		return Space()
	case lines == 1:
		return Hardline()
	default:
		return Emptyline()
	}
}

package format

import "quill/internal/syntax"

// leadingSeparator picks the element emitted after a leading comment, based
// on the comment kind and how many newlines followed it in the source.
func leadingSeparator(c SourceComment) Element {
	if c.Kind == CommentLine {
		if c.LinesAfter >= 2 {
			return Emptyline()
		}
		return Hardline()
	}
	switch {
	case c.LinesAfter == 0:
		return Space()
	case c.LinesAfter == 1:
		if c.LinesBefore == 0 {
			return Softline()
		}
		return Hardline()
	default:
		return Emptyline()
	}
}

// FormatLeadingComments renders the comments before the node's first token.
func (f *Formatter) FormatLeadingComments(node syntax.NodeID) {
	if f.err != nil {
		return
	}
	first := f.tree.FirstToken(node)
	if !first.IsValid() {
		return
	}
	f.formatTokenLeadingComments(first)
}

// FormatTrailingComments renders the comments after the node's last token.
//
// The run covers the last token's own trailing trivia and, when the next
// token is a closing delimiter with no statement of its own, the comments
// in that token's leading trivia. Comments stay inline while no newline has
// been seen; once one has, the rest of the run goes on its own lines and
// the enclosing group is forced to break, so a comment at the end of a
// block never rides along on the block's closing line.
func (f *Formatter) FormatTrailingComments(node syntax.NodeID) {
	if f.err != nil {
		return
	}
	last := f.tree.LastToken(node)
	if !last.IsValid() {
		return
	}

	run := trailingComments(f.tree.Token(last), last)
	if next := f.tree.NextToken(last); next.IsValid() && isClosing(f.tree.Token(next).Kind) {
		run = append(run, leadingComments(f.tree.Token(next), next)...)
	}

	total := 0
	broke := false
	for _, c := range run {
		if f.consumedComments[c.key] {
			continue
		}
		f.consumedComments[c.key] = true
		total += c.LinesBefore
		if total == 0 {
			if c.Kind == CommentLine {
				f.Write(LineSuffix(Space(), Text(c.Piece.Text)))
			} else {
				f.Write(Space(), Text(c.Piece.Text))
			}
			continue
		}
		if !broke {
			broke = true
			f.Write(ExpandParent())
		}
		if c.LinesBefore >= 2 {
			f.Write(Emptyline())
		} else {
			f.Write(Hardline())
		}
		f.Write(Text(c.Piece.Text))
	}
}

func isClosing(k syntax.TokenKind) bool {
	switch k {
	case syntax.TokRBrace, syntax.TokRParen, syntax.TokEOF:
		return true
	}
	return false
}

// FormatDanglingComments renders the comments of a node that has no inner
// tokens to attach them to, e.g. an empty block. Consecutive comments are
// joined with hard breaks; a trailing line comment forces one more break so
// the physical line ends.
func (f *Formatter) FormatDanglingComments(node syntax.NodeID) {
	f.formatDangling(node, false)
}

// FormatDanglingCommentsIndented is FormatDanglingComments with the whole
// run nested one indentation level, preceded by a hard break.
func (f *Formatter) FormatDanglingCommentsIndented(node syntax.NodeID) {
	f.formatDangling(node, true)
}

func (f *Formatter) formatDangling(node syntax.NodeID, indented bool) {
	if f.err != nil {
		return
	}
	last := f.tree.LastToken(node)
	if !last.IsValid() {
		return
	}
	var run []SourceComment
	for _, c := range leadingComments(f.tree.Token(last), last) {
		if !f.consumedComments[c.key] {
			run = append(run, c)
		}
	}
	if len(run) == 0 {
		return
	}
	for _, c := range run {
		f.consumedComments[c.key] = true
	}

	body := func() {
		for i, c := range run {
			if i > 0 {
				f.Write(Hardline())
			}
			f.Write(Text(c.Piece.Text))
		}
	}
	if indented {
		f.Indent(func() {
			f.Write(Hardline())
			body()
		})
		return
	}
	body()
	if run[len(run)-1].Kind == CommentLine {
		f.Write(Hardline())
	}
}

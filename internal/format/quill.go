package format

import (
	"strings"

	"quill/internal/source"
	"quill/internal/syntax"
)

// Format prints the tree as normalized Quill source at the default width.
// The output always ends with exactly one newline. Formatting fails, rather
// than printing a partial file, when any token cannot be accounted for.
func Format(tree *syntax.Tree, file *source.File) (string, error) {
	return FormatWidth(tree, file, defaultWidth)
}

// FormatWidth is Format with an explicit target line width. A width of 0 or
// less falls back to the default.
func FormatWidth(tree *syntax.Tree, file *source.File, width int) (string, error) {
	if width <= 0 {
		width = defaultWidth
	}
	f := NewFormatter(tree, file)
	f.formatFile(tree.Root())
	doc, err := f.Finish()
	if err != nil {
		return "", err
	}
	return cleanup(PrintWidth(doc, width)), nil
}

// cleanup strips trailing whitespace the printer leaves on lines that end
// with an indent, and normalizes the final newline.
func cleanup(out string) string {
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	out = strings.Join(lines, "\n")
	return strings.TrimRight(out, "\n") + "\n"
}

func (f *Formatter) formatFile(root syntax.NodeID) {
	f.formatStmtList(f.tree.ChildNodes(root), false)

	toks := f.tree.ChildTokens(root)
	if len(toks) == 0 {
		return
	}
	// EOF carries whatever trivia follows the last statement. Comments there
	// are already consumed as trailing comments of that statement; anything
	// left (file-leading comments, skipped text) renders with the token.
	f.FormatToken(toks[len(toks)-1])
}

// formatStmtList prints statements with their source blank lines preserved,
// capped at one. Redundant semicolons disappear unless they carry comments
// or skipped text.
func (f *Formatter) formatStmtList(stmts []syntax.NodeID, inBlock bool) {
	emitted := false
	for _, s := range stmts {
		if f.tree.Node(s).Kind == syntax.NodeEmptyStmt {
			semi := f.tree.FirstToken(s)
			if semi.IsValid() && !f.tokenHasVisibleTrivia(semi) {
				f.FormatRemoved(semi)
				continue
			}
		}
		first := f.tree.FirstToken(s)
		switch {
		case first.IsValid() && syntax.HasSkipped(f.tree.Token(first).Leading):
			// The skipped-trivia renderer reconstructs its own separator
			// from the source whitespace around the skipped bytes.
		case emitted:
			f.Write(f.separatorFor(first))
		case inBlock:
			f.Write(Hardline())
		}
		f.formatStmt(s)
		f.FormatTrailingComments(s)
		emitted = true
	}
}

// separatorFor maps the source newlines before a token to a statement
// separator: a blank line survives, runs of blank lines collapse to one.
func (f *Formatter) separatorFor(id syntax.TokenID) Element {
	if f.sourceLinesBefore(id) >= 2 {
		return Emptyline()
	}
	return Hardline()
}

func (f *Formatter) sourceLinesBefore(id syntax.TokenID) int {
	tok := f.tree.Token(id)
	if tok == nil {
		return 0
	}
	lines := 0
	for _, p := range tok.Leading {
		switch {
		case p.IsNewline():
			lines++
		case p.IsComment() || p.IsSkipped():
			return lines
		}
	}
	return lines
}

// tokenHasVisibleTrivia reports whether the token still carries content the
// output must show: unconsumed comments or skipped text.
func (f *Formatter) tokenHasVisibleTrivia(id syntax.TokenID) bool {
	tok := f.tree.Token(id)
	if tok == nil {
		return false
	}
	if syntax.HasSkipped(tok.Leading) {
		return true
	}
	for _, c := range leadingComments(tok, id) {
		if !f.consumedComments[c.key] {
			return true
		}
	}
	for _, c := range trailingComments(tok, id) {
		if !f.consumedComments[c.key] {
			return true
		}
	}
	return false
}

func (f *Formatter) formatStmt(id syntax.NodeID) {
	switch f.tree.Node(id).Kind {
	case syntax.NodeLetStmt:
		f.formatLetStmt(id)
	case syntax.NodeFnDecl:
		f.formatFnDecl(id)
	case syntax.NodeBlock:
		f.formatBlock(id)
	case syntax.NodeExprStmt:
		f.formatExprStmt(id)
	case syntax.NodeEmptyStmt:
		f.formatEmptyStmt(id)
	default:
		f.formatGeneric(id)
	}
}

func (f *Formatter) formatLetStmt(id syntax.NodeID) {
	f.Group(func() {
		for _, c := range f.tree.Node(id).Children {
			if !c.IsToken() {
				f.formatExpr(c.Node)
				continue
			}
			f.FormatToken(c.Token)
			switch f.tree.Token(c.Token).Kind {
			case syntax.TokKwLet, syntax.TokIdent, syntax.TokAssign:
				f.Write(Space())
			}
		}
	})
}

func (f *Formatter) formatExprStmt(id syntax.NodeID) {
	f.Group(func() {
		for _, c := range f.tree.Node(id).Children {
			if c.IsToken() {
				f.FormatToken(c.Token)
			} else {
				f.formatExpr(c.Node)
			}
		}
	})
}

func (f *Formatter) formatEmptyStmt(id syntax.NodeID) {
	semi := f.tree.FirstToken(id)
	if !semi.IsValid() {
		return
	}
	f.FormatRemoved(semi)
	f.formatTokenLeadingComments(semi)
	f.formatTokenTrailingComments(semi)
}

func (f *Formatter) formatFnDecl(id syntax.NodeID) {
	for _, c := range f.tree.Node(id).Children {
		if c.IsToken() {
			f.FormatToken(c.Token)
			if f.tree.Token(c.Token).Kind == syntax.TokKwFn {
				f.Write(Space())
			}
			continue
		}
		switch f.tree.Node(c.Node).Kind {
		case syntax.NodeParamList:
			f.formatDelimited(c.Node, f.formatParam)
			f.Write(Space())
		case syntax.NodeBlock:
			f.formatBlock(c.Node)
		default:
			f.formatGeneric(c.Node)
		}
	}
}

func (f *Formatter) formatParam(id syntax.NodeID) {
	for _, t := range f.tree.ChildTokens(id) {
		f.FormatToken(t)
	}
}

func (f *Formatter) formatBlock(id syntax.NodeID) {
	toks := f.tree.ChildTokens(id)
	stmts := f.tree.ChildNodes(id)
	var lb, rb syntax.TokenID
	if len(toks) > 0 {
		lb = toks[0]
	}
	if len(toks) > 1 {
		rb = toks[len(toks)-1]
	}

	if lb.IsValid() {
		f.FormatToken(lb)
	}
	if len(stmts) == 0 {
		if rb.IsValid() && f.tokenHasVisibleTrivia(rb) {
			f.FormatDanglingCommentsIndented(id)
			f.Write(Hardline())
		}
		if rb.IsValid() {
			f.FormatToken(rb)
		}
		return
	}

	f.Indent(func() {
		f.formatStmtList(stmts, true)
	})
	f.Write(Hardline())
	if rb.IsValid() {
		f.FormatToken(rb)
	}
}

// formatDelimited prints a parenthesized, comma-separated list as one group:
// flat on one line, or broken with one item per line and a trailing comma.
func (f *Formatter) formatDelimited(id syntax.NodeID, item func(syntax.NodeID)) {
	var openTok, closeTok syntax.TokenID
	var commas []syntax.TokenID
	var items []syntax.NodeID
	for _, c := range f.tree.Node(id).Children {
		if !c.IsToken() {
			items = append(items, c.Node)
			continue
		}
		switch f.tree.Token(c.Token).Kind {
		case syntax.TokLParen:
			openTok = c.Token
		case syntax.TokRParen:
			closeTok = c.Token
		case syntax.TokComma:
			commas = append(commas, c.Token)
		default:
			f.FormatToken(c.Token)
		}
	}

	if len(items) == 0 {
		if openTok.IsValid() {
			f.FormatToken(openTok)
		}
		if closeTok.IsValid() {
			f.FormatToken(closeTok)
		}
		return
	}

	f.Group(func() {
		if openTok.IsValid() {
			f.FormatToken(openTok)
		}
		f.Indent(func() {
			f.Write(Softline())
			for i, it := range items {
				if i > 0 {
					if i-1 < len(commas) {
						f.FormatToken(commas[i-1])
					} else {
						f.Write(Text(","))
					}
					f.Write(Line())
				}
				item(it)
			}
			// A trailing comma appears only when the list breaks; one
			// already in the source vanishes when the list stays flat.
			if len(commas) >= len(items) {
				f.FormatOnlyIfBreaks(commas[len(items)-1], Text(","))
			} else {
				f.Write(IfBreaks(Text(",")))
			}
		})
		f.Write(Softline())
		if closeTok.IsValid() {
			f.FormatToken(closeTok)
		}
	})
}

func (f *Formatter) formatExpr(id syntax.NodeID) {
	switch f.tree.Node(id).Kind {
	case syntax.NodeNameExpr:
		f.formatGeneric(id)
	case syntax.NodeLiteralExpr:
		f.formatLiteral(id)
	case syntax.NodeBinaryExpr:
		f.formatBinary(id)
	case syntax.NodeParenExpr:
		f.formatGeneric(id)
	case syntax.NodeCallExpr:
		f.formatCall(id)
	default:
		f.formatGeneric(id)
	}
}

// formatLiteral prints a literal token, normalizing single-quoted strings to
// double quotes when that needs no re-escaping.
func (f *Formatter) formatLiteral(id syntax.NodeID) {
	for _, c := range f.tree.Node(id).Children {
		if !c.IsToken() {
			f.formatExpr(c.Node)
			continue
		}
		tok := f.tree.Token(c.Token)
		if tok.Kind == syntax.TokString {
			if normalized, ok := normalizeQuotes(tok.Text); ok {
				f.FormatReplaced(c.Token, Text(normalized))
				continue
			}
		}
		f.FormatToken(c.Token)
	}
}

func normalizeQuotes(text string) (string, bool) {
	if len(text) < 2 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return "", false
	}
	inner := text[1 : len(text)-1]
	if strings.ContainsAny(inner, `"\`) {
		return "", false
	}
	return `"` + inner + `"`, true
}

func (f *Formatter) formatBinary(id syntax.NodeID) {
	for _, c := range f.tree.Node(id).Children {
		if c.IsToken() {
			f.Write(Space())
			f.FormatToken(c.Token)
			f.Write(Space())
		} else {
			f.formatExpr(c.Node)
		}
	}
}

func (f *Formatter) formatCall(id syntax.NodeID) {
	for _, c := range f.tree.Node(id).Children {
		if c.IsToken() {
			f.FormatToken(c.Token)
			continue
		}
		if f.tree.Node(c.Node).Kind == syntax.NodeArgList {
			f.formatDelimited(c.Node, f.formatExpr)
		} else {
			f.formatExpr(c.Node)
		}
	}
}

// formatGeneric prints a node's tokens and children in document order with
// no extra layout. Fallback for error recovery shapes.
func (f *Formatter) formatGeneric(id syntax.NodeID) {
	for _, c := range f.tree.Node(id).Children {
		if c.IsToken() {
			f.FormatToken(c.Token)
		} else {
			f.formatExpr(c.Node)
		}
	}
}

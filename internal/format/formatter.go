package format

import (
	"fmt"

	"quill/internal/source"
	"quill/internal/syntax"
)

// Formatter lowers one tree into a layout document. Errors are sticky: after
// the first failure every call is a no-op and Finish returns the error, so
// glue code never checks errors mid-stream. A partially rendered document is
// never printed.
type Formatter struct {
	tree *syntax.Tree
	file *source.File
	buf  []Element
	err  error

	consumedTokens   map[syntax.TokenID]bool
	consumedComments map[commentKey]bool
}

// NewFormatter creates a formatter over one parsed file.
func NewFormatter(tree *syntax.Tree, file *source.File) *Formatter {
	return &Formatter{
		tree:             tree,
		file:             file,
		consumedTokens:   make(map[syntax.TokenID]bool),
		consumedComments: make(map[commentKey]bool),
	}
}

// Fail records a formatting failure. The first failure wins.
func (f *Formatter) Fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// Write appends raw elements to the document.
func (f *Formatter) Write(els ...Element) {
	if f.err != nil {
		return
	}
	f.buf = append(f.buf, els...)
}

// Group collects everything fn writes into one layout group.
func (f *Formatter) Group(fn func()) {
	f.nest(fn, Group)
}

// Indent collects everything fn writes into one indentation level.
func (f *Formatter) Indent(fn func()) {
	f.nest(fn, Indent)
}

func (f *Formatter) nest(fn func(), wrap func(...Element) Element) {
	if f.err != nil {
		return
	}
	saved := f.buf
	f.buf = nil
	fn()
	inner := f.buf
	f.buf = append(saved, wrap(inner...))
}

// collect runs fn with a fresh buffer and returns what it wrote, without
// appending it to the document.
func (f *Formatter) collect(fn func()) []Element {
	if f.err != nil {
		return nil
	}
	saved := f.buf
	f.buf = nil
	fn()
	inner := f.buf
	f.buf = saved
	return inner
}

// Finish returns the completed document. Every token of the tree must have
// been formatted, removed, or replaced; a token the glue never accounted for
// means the output would silently drop source text, which is fatal.
func (f *Formatter) Finish() ([]Element, error) {
	if f.err != nil {
		return nil, f.err
	}
	for id := syntax.TokenID(1); int(id) <= f.tree.NumTokens(); id++ {
		if !f.consumedTokens[id] {
			tok := f.tree.Token(id)
			return nil, fmt.Errorf("format: token %s %q at %s not consumed",
				tok.Kind, tok.Text, tok.Span)
		}
	}
	return f.buf, nil
}

// FormatToken renders one token: its skipped trivia, its unconsumed leading
// comments, the token text, and its same-line trailing comments.
func (f *Formatter) FormatToken(id syntax.TokenID) {
	if f.err != nil {
		return
	}
	tok := f.tree.Token(id)
	if tok == nil {
		f.Fail(fmt.Errorf("format: token %d not in tree", id))
		return
	}
	f.consumedTokens[id] = true
	f.FormatSkippedTokenTrivia(id)
	f.formatTokenLeadingComments(id)
	if tok.Text != "" {
		f.Write(Text(tok.Text))
	}
	f.formatTokenTrailingComments(id)
}

func (f *Formatter) formatTokenLeadingComments(id syntax.TokenID) {
	for _, c := range leadingComments(f.tree.Token(id), id) {
		if f.consumedComments[c.key] {
			continue
		}
		f.consumedComments[c.key] = true
		f.Write(Text(c.Piece.Text))
		f.Write(leadingSeparator(c))
	}
}

func (f *Formatter) formatTokenTrailingComments(id syntax.TokenID) {
	for _, c := range trailingComments(f.tree.Token(id), id) {
		if f.consumedComments[c.key] {
			continue
		}
		f.consumedComments[c.key] = true
		if c.Kind == CommentLine {
			f.Write(LineSuffix(Space(), Text(c.Piece.Text)))
		} else {
			f.Write(Space(), Text(c.Piece.Text))
		}
	}
}

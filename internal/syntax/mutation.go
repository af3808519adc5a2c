package syntax

import (
	"errors"
	"sort"

	"quill/internal/diag"
	"quill/internal/source"
)

// ErrInconsistentTree is returned when a mutation references a node or token
// that does not exist in the tree it was created from.
var ErrInconsistentTree = errors.New("syntax: mutation target not in tree")

type mutOpKind uint8

const (
	opReplaceToken mutOpKind = iota
	opRemoveToken
	opRemoveNode
	opReplaceNodeText
)

type mutOp struct {
	kind     mutOpKind
	token    TokenID
	node     NodeID
	newToken Token
	newText  string
}

// Mutation is a batched diff against one immutable tree: an ordered set of
// node/token replacements that can be rendered to text edits on demand.
// It never alters the tree it was created from, so independent mutations
// over the same tree can coexist.
type Mutation struct {
	tree *Tree
	ops  []mutOp
}

// NewMutation starts an empty mutation scoped to tree.
func NewMutation(tree *Tree) *Mutation {
	return &Mutation{tree: tree}
}

// Tree returns the tree this mutation diffs against.
func (m *Mutation) Tree() *Tree { return m.tree }

// IsEmpty reports whether no operations were recorded.
func (m *Mutation) IsEmpty() bool { return len(m.ops) == 0 }

// ReplaceToken records the replacement of a token with a new token value.
// The new token's trivia fully shadows the old token's trivia.
func (m *Mutation) ReplaceToken(id TokenID, tok Token) *Mutation {
	m.ops = append(m.ops, mutOp{kind: opReplaceToken, token: id, newToken: tok})
	return m
}

// ReplaceTokenLeading records the replacement of a token's leading trivia,
// keeping its text and trailing trivia.
func (m *Mutation) ReplaceTokenLeading(id TokenID, leading []TriviaPiece) *Mutation {
	old := m.tree.Token(id)
	if old == nil {
		// Recorded anyway so AsTextEdits can surface the inconsistency.
		m.ops = append(m.ops, mutOp{kind: opReplaceToken, token: id})
		return m
	}
	tok := *old
	tok.Leading = leading
	return m.ReplaceToken(id, tok)
}

// RemoveToken records the removal of a token including its trivia.
func (m *Mutation) RemoveToken(id TokenID) *Mutation {
	m.ops = append(m.ops, mutOp{kind: opRemoveToken, token: id})
	return m
}

// RemoveNode records the removal of a node including its tokens' trivia.
func (m *Mutation) RemoveNode(id NodeID) *Mutation {
	m.ops = append(m.ops, mutOp{kind: opRemoveNode, node: id})
	return m
}

// ReplaceNodeWithText records the replacement of a node's trimmed text,
// keeping the trivia on its edges.
func (m *Mutation) ReplaceNodeWithText(id NodeID, text string) *Mutation {
	m.ops = append(m.ops, mutOp{kind: opReplaceNodeText, node: id, newText: text})
	return m
}

// AsTextEdits renders the mutation into the covered byte range and the
// ordered list of literal text edits realizing it. The computation is pure:
// repeated calls return the same result and never touch the tree.
//
// Token replacements are diffed per trivia region (leading, text, trailing)
// so an edit is emitted only for regions that actually changed.
func (m *Mutation) AsTextEdits() (source.Span, []diag.TextEdit, error) {
	var edits []diag.TextEdit

	for _, op := range m.ops {
		switch op.kind {
		case opReplaceToken:
			old := m.tree.Token(op.token)
			if old == nil {
				return source.Span{}, nil, ErrInconsistentTree
			}
			edits = append(edits, diffToken(m.tree.file, old, &op.newToken)...)

		case opRemoveToken:
			old := m.tree.Token(op.token)
			if old == nil {
				return source.Span{}, nil, ErrInconsistentTree
			}
			edits = append(edits, diag.TextEdit{Span: old.FullSpan()})

		case opRemoveNode:
			if m.tree.Node(op.node) == nil {
				return source.Span{}, nil, ErrInconsistentTree
			}
			sp, ok := m.nodeFullSpan(op.node)
			if !ok {
				return source.Span{}, nil, ErrInconsistentTree
			}
			edits = append(edits, diag.TextEdit{Span: sp})

		case opReplaceNodeText:
			if m.tree.Node(op.node) == nil {
				return source.Span{}, nil, ErrInconsistentTree
			}
			sp := m.tree.Span(op.node)
			edits = append(edits, diag.TextEdit{Span: sp, NewText: op.newText})
		}
	}

	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Span.Start < edits[j].Span.Start
	})

	covered := source.Span{File: m.tree.file}
	for i, e := range edits {
		if i == 0 {
			covered = e.Span
		} else {
			covered = covered.Cover(e.Span)
		}
	}
	return covered, edits, nil
}

func (m *Mutation) nodeFullSpan(id NodeID) (source.Span, bool) {
	first := m.tree.FirstToken(id)
	last := m.tree.LastToken(id)
	if !first.IsValid() || !last.IsValid() {
		return source.Span{}, false
	}
	sp := m.tree.Token(first).FullSpan()
	return sp.Cover(m.tree.Token(last).FullSpan()), true
}

// diffToken emits one edit per trivia region (leading, trimmed text,
// trailing) of the token that differs between old and new.
func diffToken(file source.FileID, old, new *Token) []diag.TextEdit {
	var edits []diag.TextEdit

	oldLeading := TriviaText(old.Leading)
	newLeading := TriviaText(new.Leading)
	if oldLeading != newLeading {
		edits = append(edits, diag.TextEdit{
			Span:    source.Span{File: file, Start: old.FullSpan().Start, End: old.Span.Start},
			NewText: newLeading,
		})
	}

	if old.Text != new.Text {
		edits = append(edits, diag.TextEdit{
			Span:    old.Span,
			NewText: new.Text,
		})
	}

	oldTrailing := TriviaText(old.Trailing)
	newTrailing := TriviaText(new.Trailing)
	if oldTrailing != newTrailing {
		edits = append(edits, diag.TextEdit{
			Span:    source.Span{File: file, Start: old.Span.End, End: old.FullSpan().End},
			NewText: newTrailing,
		})
	}

	return edits
}

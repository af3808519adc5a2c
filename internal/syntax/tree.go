package syntax

import (
	"strings"

	"quill/internal/source"
)

type (
	// NodeID identifies a node inside one Tree (1-based, 0 = invalid).
	NodeID uint32
	// TokenID identifies a token inside one Tree (1-based, 0 = invalid).
	TokenID uint32
)

const (
	NoNodeID  NodeID  = 0
	NoTokenID TokenID = 0
)

func (id NodeID) IsValid() bool  { return id != NoNodeID }
func (id TokenID) IsValid() bool { return id != NoTokenID }

// Child is a reference to either a node or a token in document order.
// Exactly one of Node/Token is valid.
type Child struct {
	Node  NodeID
	Token TokenID
}

func (c Child) IsToken() bool { return c.Token.IsValid() }

// Token is a leaf of the CST. Span covers only the trimmed token text;
// trivia pieces carry their own spans.
//
// Leading trivia holds everything from the previous line break (inclusive)
// up to the token; trailing trivia holds same-line whitespace and comments
// after the token, never newlines.
type Token struct {
	Kind     TokenKind
	Span     source.Span
	Text     string
	Leading  []TriviaPiece
	Trailing []TriviaPiece
	Parent   NodeID
}

// FullSpan returns the token span including leading and trailing trivia.
func (t *Token) FullSpan() source.Span {
	sp := t.Span
	if len(t.Leading) > 0 {
		sp.Start = t.Leading[0].Span.Start
	}
	if len(t.Trailing) > 0 {
		sp.End = t.Trailing[len(t.Trailing)-1].Span.End
	}
	return sp
}

// FullText renders the token including its trivia.
func (t *Token) FullText() string {
	var b strings.Builder
	for _, p := range t.Leading {
		b.WriteString(p.Text)
	}
	b.WriteString(t.Text)
	for _, p := range t.Trailing {
		b.WriteString(p.Text)
	}
	return b.String()
}

// Node is an interior CST node. Children are in document order.
type Node struct {
	Kind     NodeKind
	Parent   NodeID
	Children []Child
}

// Tree is an immutable arena-backed CST for one file. Nodes and tokens are
// addressed by stable indices; analysis passes never mutate a tree, they
// describe changes with a Mutation instead.
type Tree struct {
	file   source.FileID
	nodes  []Node
	tokens []Token
	root   NodeID
}

func (t *Tree) File() source.FileID { return t.file }
func (t *Tree) Root() NodeID        { return t.root }

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id NodeID) *Node {
	if !id.IsValid() || int(id) > len(t.nodes) {
		return nil
	}
	return &t.nodes[id-1]
}

// Token returns the token with the given id, or nil.
func (t *Tree) Token(id TokenID) *Token {
	if !id.IsValid() || int(id) > len(t.tokens) {
		return nil
	}
	return &t.tokens[id-1]
}

// NumTokens returns the token count.
func (t *Tree) NumTokens() int { return len(t.tokens) }

// FirstToken returns the first token under the node in document order.
func (t *Tree) FirstToken(id NodeID) TokenID {
	n := t.Node(id)
	if n == nil {
		return NoTokenID
	}
	for _, c := range n.Children {
		if c.IsToken() {
			return c.Token
		}
		if tok := t.FirstToken(c.Node); tok.IsValid() {
			return tok
		}
	}
	return NoTokenID
}

// LastToken returns the last token under the node in document order.
func (t *Tree) LastToken(id NodeID) TokenID {
	n := t.Node(id)
	if n == nil {
		return NoTokenID
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		c := n.Children[i]
		if c.IsToken() {
			return c.Token
		}
		if tok := t.LastToken(c.Node); tok.IsValid() {
			return tok
		}
	}
	return NoTokenID
}

// Ancestors returns the node's ancestor chain, nearest first, ending at the root.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	n := t.Node(id)
	for n != nil && n.Parent.IsValid() {
		out = append(out, n.Parent)
		n = t.Node(n.Parent)
	}
	return out
}

// PrevToken returns the token preceding id in document order, or NoTokenID.
// Token ids are allocated in document order by the builder.
func (t *Tree) PrevToken(id TokenID) TokenID {
	if !id.IsValid() || id == 1 {
		return NoTokenID
	}
	return id - 1
}

// NextToken returns the token following id in document order, or NoTokenID.
func (t *Tree) NextToken(id TokenID) TokenID {
	if !id.IsValid() || int(id) >= len(t.tokens) {
		return NoTokenID
	}
	return id + 1
}

// Span returns the trimmed span covered by the node (without edge trivia).
func (t *Tree) Span(id NodeID) source.Span {
	first := t.FirstToken(id)
	last := t.LastToken(id)
	if !first.IsValid() || !last.IsValid() {
		return source.Span{File: t.file}
	}
	return t.Token(first).Span.Cover(t.Token(last).Span)
}

// ChildNodes returns the node children of id, skipping tokens.
func (t *Tree) ChildNodes(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	var out []NodeID
	for _, c := range n.Children {
		if !c.IsToken() {
			out = append(out, c.Node)
		}
	}
	return out
}

// ChildTokens returns the token children of id, skipping nodes.
func (t *Tree) ChildTokens(id NodeID) []TokenID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	var out []TokenID
	for _, c := range n.Children {
		if c.IsToken() {
			out = append(out, c.Token)
		}
	}
	return out
}

// Preorder visits every node in document order, parents before children.
func (t *Tree) Preorder(visit func(NodeID)) {
	var walk func(NodeID)
	walk = func(id NodeID) {
		visit(id)
		for _, c := range t.Node(id).Children {
			if !c.IsToken() {
				walk(c.Node)
			}
		}
	}
	if t.root.IsValid() {
		walk(t.root)
	}
}

// Text reconstructs the exact source text of the whole tree.
func (t *Tree) Text() string {
	var b strings.Builder
	for i := range t.tokens {
		b.WriteString(t.tokens[i].FullText())
	}
	return b.String()
}

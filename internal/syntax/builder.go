package syntax

import "quill/internal/source"

// Builder assembles a Tree bottom-up in document order, in the style of an
// event stream: StartNode/FinishNode bracket interior nodes, Token appends
// leaves. Token ids are handed out strictly in document order.
type Builder struct {
	file    source.FileID
	nodes   []Node
	tokens  []Token
	stack   []NodeID
	root    NodeID
	pending map[NodeID][]Child
}

// NewBuilder creates a builder for a tree belonging to file.
func NewBuilder(file source.FileID) *Builder {
	return &Builder{
		file:    file,
		pending: make(map[NodeID][]Child),
	}
}

// StartNode opens a new node; all tokens and nodes added before the matching
// FinishNode become its children.
func (b *Builder) StartNode(kind NodeKind) NodeID {
	b.nodes = append(b.nodes, Node{Kind: kind})
	id := NodeID(len(b.nodes))
	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1]
		b.nodes[id-1].Parent = parent
		b.pending[parent] = append(b.pending[parent], Child{Node: id})
	} else {
		b.root = id
	}
	b.stack = append(b.stack, id)
	return id
}

// FinishNode closes the most recently started node.
func (b *Builder) FinishNode() {
	if len(b.stack) == 0 {
		return
	}
	id := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.nodes[id-1].Children = b.pending[id]
	delete(b.pending, id)
}

// Token appends a leaf token to the currently open node.
func (b *Builder) Token(tok Token) TokenID {
	b.tokens = append(b.tokens, tok)
	id := TokenID(len(b.tokens))
	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1]
		b.tokens[id-1].Parent = parent
		b.pending[parent] = append(b.pending[parent], Child{Token: id})
	}
	return id
}

// Finish closes any open nodes and returns the completed tree.
func (b *Builder) Finish() *Tree {
	for len(b.stack) > 0 {
		b.FinishNode()
	}
	return &Tree{
		file:   b.file,
		nodes:  b.nodes,
		tokens: b.tokens,
		root:   b.root,
	}
}

package analyze

import (
	"fmt"
	"strings"

	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/syntax"
)

const suppressionMarker = "// rule-ignore "

// SuppressionComment renders the comment that silences one rule on the
// following statement.
func SuppressionComment(group, name string) string {
	return fmt.Sprintf("%s%s/%s: suppressed", suppressionMarker, group, name)
}

// FindSuppressionAnchor walks node and its ancestors, nearest first, and
// returns the first one whose first token starts a line, i.e. carries a
// newline in its leading trivia. A suppression comment inserted above that
// node lands on its own line. Falls back to the root when nothing starts a
// line (the node is on the file's first line).
func FindSuppressionAnchor(tree *syntax.Tree, node syntax.NodeID) syntax.NodeID {
	chain := append([]syntax.NodeID{node}, tree.Ancestors(node)...)
	for _, id := range chain {
		first := tree.FirstToken(id)
		if !first.IsValid() {
			continue
		}
		if syntax.HasNewline(tree.Token(first).Leading) {
			return id
		}
	}
	return tree.Root()
}

// buildSuppressionAction creates the quick fix inserting a suppression
// comment above the anchor statement. The new trivia replaces the anchor's
// first-token leading edge wholesale: one newline terminating the previous
// line, the comment, and the newline that puts the anchor back on its own
// line.
func buildSuppressionAction(tree *syntax.Tree, meta Meta, node syntax.NodeID) *Action {
	anchor := FindSuppressionAnchor(tree, node)
	first := tree.FirstToken(anchor)
	if !first.IsValid() {
		return nil
	}
	tok := tree.Token(first)
	at := tok.FullSpan().Start

	comment := SuppressionComment(meta.Group, meta.Name)
	leading := []syntax.TriviaPiece{
		{Kind: syntax.TriviaNewline, Span: source.EmptyAt(tree.File(), at), Text: "\n"},
		{Kind: syntax.TriviaLineComment, Span: source.EmptyAt(tree.File(), at), Text: comment},
		{Kind: syntax.TriviaNewline, Span: source.EmptyAt(tree.File(), at), Text: "\n"},
	}

	return &Action{
		Group:         meta.Group,
		Rule:          meta.Name,
		File:          tree.File(),
		Category:      CategoryQuickFix,
		Applicability: diag.ApplicabilityAlways,
		Message:       fmt.Sprintf("Suppress rule %s/%s", meta.Group, meta.Name),
		Mutation:      syntax.NewMutation(tree).ReplaceTokenLeading(first, leading),
	}
}

// IsSuppressed reports whether a rule-ignore comment for group/name covers
// the node: some node in its ancestor chain (itself included) has the
// comment in its first token's leading trivia.
func IsSuppressed(tree *syntax.Tree, group, name string, node syntax.NodeID) bool {
	ruleID := group + "/" + name
	chain := append([]syntax.NodeID{node}, tree.Ancestors(node)...)
	for _, id := range chain {
		first := tree.FirstToken(id)
		if !first.IsValid() {
			continue
		}
		for _, p := range tree.Token(first).Leading {
			if p.Kind != syntax.TriviaLineComment {
				continue
			}
			rest, ok := strings.CutPrefix(p.Text, suppressionMarker)
			if !ok {
				continue
			}
			if target, _, _ := strings.Cut(rest, ":"); strings.TrimSpace(target) == ruleID {
				return true
			}
		}
	}
	return false
}

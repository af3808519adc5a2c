package rules

import (
	"quill/internal/analyze"
	"quill/internal/diag"
	"quill/internal/syntax"
)

// EmptyBlock flags blocks containing no statements and no comments. There is
// no automatic fix: an empty block is usually a stub the author meant to
// fill in, not something to delete.
type EmptyBlock struct{}

func (EmptyBlock) Meta() analyze.Meta {
	return analyze.Meta{
		Group:    "correctness",
		Name:     "emptyBlock",
		Code:     diag.LintEmptyBlock,
		Severity: diag.SevWarning,
	}
}

func (EmptyBlock) Run(ctx *analyze.RuleContext) []analyze.State {
	var states []analyze.State
	ctx.Tree.Preorder(func(id syntax.NodeID) {
		if ctx.Tree.Node(id).Kind != syntax.NodeBlock {
			return
		}
		if len(ctx.Tree.ChildNodes(id)) > 0 {
			return
		}
		// A comment between the braces counts as content. It lives either in
		// the opening brace's trailing trivia (same line) or in the closing
		// brace's leading trivia (own line).
		toks := ctx.Tree.ChildTokens(id)
		if len(toks) == 2 {
			if hasComment(ctx.Tree.Token(toks[0]).Trailing) ||
				hasComment(ctx.Tree.Token(toks[1]).Leading) {
				return
			}
		}
		states = append(states, analyze.State{Node: id})
	})
	return states
}

func hasComment(trivia []syntax.TriviaPiece) bool {
	for _, p := range trivia {
		if p.Kind == syntax.TriviaLineComment || p.Kind == syntax.TriviaBlockComment {
			return true
		}
	}
	return false
}

func (r EmptyBlock) Diagnostic(ctx *analyze.RuleContext, st analyze.State) *diag.Diagnostic {
	meta := r.Meta()
	return &diag.Diagnostic{
		Severity: meta.Severity,
		Code:     meta.Code,
		Message:  "empty block",
		Primary:  ctx.Tree.Span(st.Node),
	}
}

func (EmptyBlock) Action(ctx *analyze.RuleContext, st analyze.State) *analyze.RuleAction {
	return nil
}

func (EmptyBlock) SuppressibleNode(ctx *analyze.RuleContext, st analyze.State) syntax.NodeID {
	return st.Node
}

// Default returns the built-in rule set in reporting order.
func Default() []analyze.Rule {
	return []analyze.Rule{
		RedundantSemicolon{},
		EmptyBlock{},
	}
}

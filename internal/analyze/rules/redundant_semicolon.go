// Package rules holds the built-in lint rules and their registry.
package rules

import (
	"quill/internal/analyze"
	"quill/internal/diag"
	"quill/internal/syntax"
)

// RedundantSemicolon flags empty statements: semicolons that terminate
// nothing. The fix deletes the semicolon but leaves its trivia in place, so
// comments hanging off the statement survive.
type RedundantSemicolon struct{}

func (RedundantSemicolon) Meta() analyze.Meta {
	return analyze.Meta{
		Group:    "style",
		Name:     "redundantSemicolon",
		Code:     diag.LintRedundantSemicolon,
		Severity: diag.SevWarning,
	}
}

func (RedundantSemicolon) Run(ctx *analyze.RuleContext) []analyze.State {
	var states []analyze.State
	ctx.Tree.Preorder(func(id syntax.NodeID) {
		if ctx.Tree.Node(id).Kind == syntax.NodeEmptyStmt {
			states = append(states, analyze.State{Node: id})
		}
	})
	return states
}

func (r RedundantSemicolon) Diagnostic(ctx *analyze.RuleContext, st analyze.State) *diag.Diagnostic {
	meta := r.Meta()
	return &diag.Diagnostic{
		Severity: meta.Severity,
		Code:     meta.Code,
		Message:  "redundant semicolon",
		Primary:  ctx.Tree.Span(st.Node),
	}
}

func (RedundantSemicolon) Action(ctx *analyze.RuleContext, st analyze.State) *analyze.RuleAction {
	semi := ctx.Tree.FirstToken(st.Node)
	if !semi.IsValid() {
		return nil
	}
	blank := *ctx.Tree.Token(semi)
	blank.Text = ""
	return &analyze.RuleAction{
		Category:      analyze.CategoryQuickFix,
		Applicability: diag.ApplicabilityAlways,
		Message:       "Remove the semicolon",
		Mutation:      syntax.NewMutation(ctx.Tree).ReplaceToken(semi, blank),
	}
}

func (RedundantSemicolon) SuppressibleNode(ctx *analyze.RuleContext, st analyze.State) syntax.NodeID {
	return st.Node
}

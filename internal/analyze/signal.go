package analyze

import (
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/syntax"
)

// Signal is one analyzer finding. Both methods are lazy: nothing about the
// finding is materialized until a consumer asks for it, so a driver that only
// wants diagnostics never pays for action rendering and vice versa.
type Signal interface {
	// Diagnostic materializes the finding's diagnostic, or nil when the
	// signal carries none.
	Diagnostic() *diag.Diagnostic

	// Actions materializes the finding's code actions, or nil when the
	// signal cannot produce any. Each call builds a fresh iterator.
	Actions() *ActionIter
}

// DiagnosticSignal wraps a plain diagnostic factory as a Signal with no
// actions. Used for findings that come from outside the rule protocol, e.g.
// parse errors replayed through the analyzer.
type DiagnosticSignal struct {
	factory func() *diag.Diagnostic
}

func NewDiagnosticSignal(factory func() *diag.Diagnostic) *DiagnosticSignal {
	return &DiagnosticSignal{factory: factory}
}

func (s *DiagnosticSignal) Diagnostic() *diag.Diagnostic { return s.factory() }

func (s *DiagnosticSignal) Actions() *ActionIter { return nil }

// ruleSignal defers rule evaluation for one match. The rule context is
// rebuilt on every access; when a required service has gone missing the
// signal degrades to "nothing to report" rather than failing the run.
type ruleSignal struct {
	rule     Rule
	state    State
	tree     *syntax.Tree
	file     *source.File
	services *ServiceBag
	options  Options
}

// NewRuleSignal wraps one rule match as a lazy signal.
func NewRuleSignal(rule Rule, st State, tree *syntax.Tree, file *source.File, services *ServiceBag, opts Options) Signal {
	return &ruleSignal{
		rule:     rule,
		state:    st,
		tree:     tree,
		file:     file,
		services: services,
		options:  opts,
	}
}

func (s *ruleSignal) context() *RuleContext {
	ctx, err := newRuleContext(s.rule.Meta(), s.tree, s.file, s.services, s.options)
	if err != nil {
		return nil
	}
	return ctx
}

func (s *ruleSignal) Diagnostic() *diag.Diagnostic {
	ctx := s.context()
	if ctx == nil {
		return nil
	}
	return s.rule.Diagnostic(ctx, s.state)
}

func (s *ruleSignal) Actions() *ActionIter {
	ctx := s.context()
	if ctx == nil {
		return nil
	}

	meta := s.rule.Meta()
	var actions []Action

	// The rule's own fix always precedes the suppression action.
	if ra := s.rule.Action(ctx, s.state); ra != nil {
		actions = append(actions, Action{
			Group:         meta.Group,
			Rule:          meta.Name,
			File:          s.tree.File(),
			Category:      ra.Category,
			Applicability: ra.Applicability,
			Message:       ra.Message,
			Mutation:      ra.Mutation,
		})
	}

	if node := s.rule.SuppressibleNode(ctx, s.state); node.IsValid() {
		if sa := buildSuppressionAction(s.tree, meta, node); sa != nil {
			actions = append(actions, *sa)
		}
	}

	return NewActionIter(s.tree.File(), actions)
}

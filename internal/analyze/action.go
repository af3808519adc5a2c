package analyze

import (
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/syntax"
)

// Action is a fully-attributed code action: a mutation tagged with the rule
// that proposed it and how safe it is to apply automatically.
type Action struct {
	Group         string
	Rule          string
	File          source.FileID
	Category      ActionCategory
	Applicability diag.Applicability
	Message       string
	Mutation      *syntax.Mutation
}

// RuleID returns the "group/name" identifier of the proposing rule.
func (a *Action) RuleID() string {
	return a.Group + "/" + a.Rule
}

// ActionIter walks the actions of one signal in emission order. It is
// single-pass: Next consumes, and the adapter iterators below consume the
// same underlying sequence.
type ActionIter struct {
	file    source.FileID
	actions []Action
	pos     int
}

func NewActionIter(file source.FileID, actions []Action) *ActionIter {
	return &ActionIter{file: file, actions: actions}
}

// Next returns the next action, or false when exhausted.
func (it *ActionIter) Next() (*Action, bool) {
	if it == nil || it.pos >= len(it.actions) {
		return nil, false
	}
	a := &it.actions[it.pos]
	it.pos++
	return a, true
}

// Len returns the number of actions not yet consumed.
func (it *ActionIter) Len() int {
	if it == nil {
		return 0
	}
	return len(it.actions) - it.pos
}

// SuggestionAdvices adapts the remaining actions into diagnostic advices.
func (it *ActionIter) SuggestionAdvices() *SuggestionAdviceIter {
	return &SuggestionAdviceIter{inner: it}
}

// CodeSuggestions adapts the remaining actions into standalone suggestions.
func (it *ActionIter) CodeSuggestions() *CodeSuggestionIter {
	return &CodeSuggestionIter{inner: it}
}

// SuggestionAdviceIter renders actions as advices for attaching to a
// diagnostic. An action whose mutation cannot be rendered keeps its message
// and applicability but carries no edits.
type SuggestionAdviceIter struct {
	inner *ActionIter
}

func (it *SuggestionAdviceIter) Next() (diag.SuggestionAdvice, bool) {
	a, ok := it.inner.Next()
	if !ok {
		return diag.SuggestionAdvice{}, false
	}
	advice := diag.SuggestionAdvice{
		Applicability: a.Applicability,
		Message:       a.Message,
	}
	if a.Mutation != nil {
		if _, edits, err := a.Mutation.AsTextEdits(); err == nil {
			advice.Edits = edits
		}
	}
	return advice, true
}

func (it *SuggestionAdviceIter) Len() int { return it.inner.Len() }

// CodeSuggestionItem pairs a rendered suggestion with the identity of the
// action that produced it.
type CodeSuggestionItem struct {
	Category   ActionCategory
	RuleID     string
	Suggestion diag.CodeSuggestion
}

// CodeSuggestionIter renders actions as standalone code suggestions, the
// shape editors consume for quick-fix menus.
type CodeSuggestionIter struct {
	inner *ActionIter
}

func (it *CodeSuggestionIter) Next() (CodeSuggestionItem, bool) {
	a, ok := it.inner.Next()
	if !ok {
		return CodeSuggestionItem{}, false
	}
	item := CodeSuggestionItem{
		Category: a.Category,
		RuleID:   a.RuleID(),
		Suggestion: diag.CodeSuggestion{
			Applicability: a.Applicability,
			Message:       a.Message,
		},
	}
	if a.Mutation != nil {
		if covered, edits, err := a.Mutation.AsTextEdits(); err == nil {
			item.Suggestion.Span = covered
			item.Suggestion.Edits = edits
		}
	}
	return item, true
}

func (it *CodeSuggestionIter) Len() int { return it.inner.Len() }

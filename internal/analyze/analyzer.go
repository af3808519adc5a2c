package analyze

import (
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/syntax"
)

// Analyzer runs a fixed set of rules over trees and emits signals.
type Analyzer struct {
	rules    []Rule
	services *ServiceBag
	options  Options
}

// New builds an analyzer. A nil service bag is treated as empty.
func New(opts Options, services *ServiceBag, rules ...Rule) *Analyzer {
	if services == nil {
		services = NewServiceBag()
	}
	return &Analyzer{rules: rules, services: services, options: opts}
}

// Run evaluates every rule against the tree and calls emit once per
// surviving match, in rule order then document order. Rules whose required
// services are missing are skipped silently. Matches covered by a
// suppression comment are dropped before emission unless the options say
// otherwise. emit returns false to stop the run early.
func (a *Analyzer) Run(tree *syntax.Tree, file *source.File, emit func(Signal) bool) {
	for _, rule := range a.rules {
		meta := rule.Meta()
		ctx, err := newRuleContext(meta, tree, file, a.services, a.options)
		if err != nil {
			continue
		}
		for _, st := range rule.Run(ctx) {
			if !a.options.IgnoreSuppressions && st.Node.IsValid() &&
				IsSuppressed(tree, meta.Group, meta.Name, st.Node) {
				continue
			}
			if !emit(NewRuleSignal(rule, st, tree, file, a.services, a.options)) {
				return
			}
		}
	}
}

// CollectDiagnostics runs the analyzer and folds every signal into the bag,
// attaching rendered fix advices and suggestions to each diagnostic.
func (a *Analyzer) CollectDiagnostics(tree *syntax.Tree, file *source.File, bag *diag.Bag) {
	a.Run(tree, file, func(sig Signal) bool {
		d := sig.Diagnostic()
		if d == nil {
			return true
		}
		if it := sig.Actions(); it != nil {
			advices := it.SuggestionAdvices()
			for {
				adv, ok := advices.Next()
				if !ok {
					break
				}
				d.Advices = append(d.Advices, adv)
			}
		}
		// Actions builds a fresh iterator, so suggestions see the full set.
		if it := sig.Actions(); it != nil {
			suggestions := it.CodeSuggestions()
			for {
				item, ok := suggestions.Next()
				if !ok {
					break
				}
				d.Suggestions = append(d.Suggestions, item.Suggestion)
			}
		}
		bag.Add(*d)
		return !bag.Full()
	})
}

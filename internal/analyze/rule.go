// Package analyze hosts the rule engine of the toolchain: rules match the
// CST, signals lazily turn matches into diagnostics and code actions, and
// suppression comments are both honored and offered as quick fixes.
package analyze

import (
	"errors"
	"fmt"

	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/syntax"
)

// ErrServiceMissing is returned when a rule's evaluation context cannot be
// built because a required service is absent from the bag.
var ErrServiceMissing = errors.New("analyze: required service missing")

// ActionCategory classifies a code action.
type ActionCategory uint8

const (
	CategoryQuickFix ActionCategory = iota
	CategoryRefactor
)

func (c ActionCategory) String() string {
	switch c {
	case CategoryQuickFix:
		return "quickfix"
	case CategoryRefactor:
		return "refactor"
	}
	return "unknown"
}

// Meta identifies a rule and its defaults.
type Meta struct {
	// Group is the rule group, e.g. "style" or "correctness".
	Group string
	// Name is the rule name within its group, e.g. "redundantSemicolon".
	Name string
	Code     diag.Code
	Severity diag.Severity
	// Services lists service-bag keys the rule needs to evaluate.
	Services []string
}

// ID returns the canonical "group/name" rule identifier.
func (m Meta) ID() string {
	return m.Group + "/" + m.Name
}

// State is one match of a rule against the tree: the reported node plus
// whatever the rule computed while matching.
type State struct {
	Node syntax.NodeID
	Data any
}

// RuleAction is a fix proposed by a rule for one match, before the analyzer
// tags it with rule identity.
type RuleAction struct {
	Category      ActionCategory
	Applicability diag.Applicability
	Message       string
	Mutation      *syntax.Mutation
}

// Rule is the closed interface every lint rule implements. The signal layer
// depends only on this interface, never on concrete rule types.
type Rule interface {
	Meta() Meta

	// Run evaluates the rule against the tree and returns zero or more
	// matches.
	Run(ctx *RuleContext) []State

	// Diagnostic produces the finding for one match, or nil.
	Diagnostic(ctx *RuleContext, st State) *diag.Diagnostic

	// Action produces the fix for one match, or nil when there is no safe
	// automatic fix.
	Action(ctx *RuleContext, st State) *RuleAction

	// SuppressibleNode returns the node a suppression comment should
	// target for this match, or NoNodeID when the match cannot be
	// suppressed.
	SuppressibleNode(ctx *RuleContext, st State) syntax.NodeID
}

// ServiceBag carries optional per-run services rules may depend on.
type ServiceBag struct {
	services map[string]any
}

func NewServiceBag() *ServiceBag {
	return &ServiceBag{services: make(map[string]any)}
}

func (b *ServiceBag) Insert(key string, svc any) {
	b.services[key] = svc
}

func (b *ServiceBag) Get(key string) (any, bool) {
	if b == nil {
		return nil, false
	}
	svc, ok := b.services[key]
	return svc, ok
}

// Options carries per-run analyzer knobs.
type Options struct {
	// IgnoreSuppressions makes the analyzer report findings even when a
	// rule-ignore comment covers them.
	IgnoreSuppressions bool
}

// RuleContext is the evaluation context handed to a rule. Construction
// fails when a required service is missing; the caller treats that as
// "rule inapplicable here", not as an error.
type RuleContext struct {
	Tree    *syntax.Tree
	File    *source.File
	Options Options

	meta     Meta
	services *ServiceBag
}

func newRuleContext(meta Meta, tree *syntax.Tree, file *source.File, services *ServiceBag, opts Options) (*RuleContext, error) {
	for _, key := range meta.Services {
		if _, ok := services.Get(key); !ok {
			return nil, fmt.Errorf("%w: %s", ErrServiceMissing, key)
		}
	}
	return &RuleContext{
		Tree:     tree,
		File:     file,
		Options:  opts,
		meta:     meta,
		services: services,
	}, nil
}

// Service returns a service the rule declared in Meta.Services.
func (c *RuleContext) Service(key string) any {
	svc, _ := c.services.Get(key)
	return svc
}

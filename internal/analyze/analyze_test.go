package analyze_test

import (
	"strings"
	"testing"

	"quill/internal/analyze"
	"quill/internal/analyze/rules"
	"quill/internal/diag"
	"quill/internal/parser"
	"quill/internal/source"
	"quill/internal/syntax"
)

func parse(t *testing.T, src string) (*syntax.Tree, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.ql", []byte(src))
	file := fs.Get(id)
	return parser.Parse(file, diag.NopReporter{}), file
}

func collectSignals(a *analyze.Analyzer, tree *syntax.Tree, file *source.File) []analyze.Signal {
	var signals []analyze.Signal
	a.Run(tree, file, func(sig analyze.Signal) bool {
		signals = append(signals, sig)
		return true
	})
	return signals
}

func TestRedundantSemicolonSignal(t *testing.T) {
	tree, file := parse(t, "let a = 1;\n;\n")
	a := analyze.New(analyze.Options{}, nil, rules.Default()...)

	signals := collectSignals(a, tree, file)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}

	d := signals[0].Diagnostic()
	if d == nil || d.Code != diag.LintRedundantSemicolon {
		t.Fatalf("diagnostic %+v", d)
	}

	it := signals[0].Actions()
	if it.Len() != 2 {
		t.Fatalf("got %d actions, want fix plus suppression", it.Len())
	}
	fix, _ := it.Next()
	if fix.Message != "Remove the semicolon" {
		t.Fatalf("first action %q, want the rule fix first", fix.Message)
	}
	suppress, _ := it.Next()
	if !strings.HasPrefix(suppress.Message, "Suppress rule style/redundantSemicolon") {
		t.Fatalf("second action %q", suppress.Message)
	}
	if _, ok := it.Next(); ok {
		t.Fatal("iterator yielded a third action")
	}
}

func TestSignalIsLazyAndRepeatable(t *testing.T) {
	tree, file := parse(t, ";\n")
	a := analyze.New(analyze.Options{}, nil, rules.Default()...)
	signals := collectSignals(a, tree, file)
	if len(signals) != 1 {
		t.Fatalf("got %d signals", len(signals))
	}

	// Each Actions call builds a fresh iterator over the full set.
	first := signals[0].Actions()
	for {
		if _, ok := first.Next(); !ok {
			break
		}
	}
	second := signals[0].Actions()
	if second.Len() != 2 {
		t.Fatalf("second iterator has %d actions, want 2", second.Len())
	}
	if d1, d2 := signals[0].Diagnostic(), signals[0].Diagnostic(); d1.Message != d2.Message {
		t.Fatal("repeated Diagnostic calls disagree")
	}
}

func TestSuppressionEdit(t *testing.T) {
	src := "let a = 1;\n;\n"
	tree, file := parse(t, src)
	a := analyze.New(analyze.Options{}, nil, rules.RedundantSemicolon{})
	signals := collectSignals(a, tree, file)
	if len(signals) != 1 {
		t.Fatalf("got %d signals", len(signals))
	}

	it := signals[0].Actions()
	it.Next() // skip the rule fix
	suppress, ok := it.Next()
	if !ok {
		t.Fatal("no suppression action")
	}

	_, edits, err := suppress.Mutation.AsTextEdits()
	if err != nil {
		t.Fatal(err)
	}
	if len(edits) != 1 {
		t.Fatalf("got %d edits, want a single leading-trivia replacement", len(edits))
	}
	want := "\n// rule-ignore style/redundantSemicolon: suppressed\n"
	if edits[0].NewText != want {
		t.Fatalf("edit text %q, want %q", edits[0].NewText, want)
	}
	// The empty statement starts its own line, so the anchor is the
	// statement itself and the edit replaces the newline before it.
	if edits[0].Span != (source.Span{Start: 10, End: 11}) {
		t.Fatalf("edit span %v", edits[0].Span)
	}

	// Applying the edit must actually silence the rule.
	fixed := src[:edits[0].Span.Start] + edits[0].NewText + src[edits[0].Span.End:]
	tree2, file2 := parse(t, fixed)
	if got := collectSignals(a, tree2, file2); len(got) != 0 {
		t.Fatalf("rule still fires after suppression: %d signals", len(got))
	}

	// Unless suppressions are explicitly ignored.
	loud := analyze.New(analyze.Options{IgnoreSuppressions: true}, nil, rules.RedundantSemicolon{})
	if got := collectSignals(loud, tree2, file2); len(got) != 1 {
		t.Fatalf("IgnoreSuppressions: got %d signals, want 1", len(got))
	}
}

func TestFindSuppressionAnchor(t *testing.T) {
	tree, _ := parse(t, "let a = 1;\nfn f() {}\n")

	var block syntax.NodeID
	tree.Preorder(func(id syntax.NodeID) {
		if tree.Node(id).Kind == syntax.NodeBlock {
			block = id
		}
	})
	if !block.IsValid() {
		t.Fatal("no block node")
	}

	// The block's '{' sits mid-line; the nearest line-starting ancestor is
	// the fn declaration.
	anchor := analyze.FindSuppressionAnchor(tree, block)
	if tree.Node(anchor).Kind != syntax.NodeFnDecl {
		t.Fatalf("anchor kind %s, want FnDecl", tree.Node(anchor).Kind)
	}

	// A node on the file's first line falls back to the root.
	first := tree.ChildNodes(tree.Root())[0]
	if got := analyze.FindSuppressionAnchor(tree, first); got != tree.Root() {
		t.Fatalf("anchor %v, want root", got)
	}
}

func TestIsSuppressed(t *testing.T) {
	tree, _ := parse(t, "let a = 1;\n// rule-ignore style/redundantSemicolon: suppressed\n;\nlet b = 2;\n")
	stmts := tree.ChildNodes(tree.Root())
	if !analyze.IsSuppressed(tree, "style", "redundantSemicolon", stmts[1]) {
		t.Fatal("empty statement should be suppressed")
	}
	if analyze.IsSuppressed(tree, "correctness", "emptyBlock", stmts[1]) {
		t.Fatal("comment must only suppress the named rule")
	}
	if analyze.IsSuppressed(tree, "style", "redundantSemicolon", stmts[2]) {
		t.Fatal("suppression must not leak to the next statement")
	}
}

func TestEmptyBlockRule(t *testing.T) {
	cases := []struct {
		src  string
		want int
	}{
		{"fn f() {}\n", 1},
		{"fn f() { }\n", 1},
		{"fn f() { let x = 1; }\n", 0},
		{"fn f() { /* stub */ }\n", 0},
		{"fn f() {\n    // todo\n}\n", 0},
	}
	for _, tc := range cases {
		tree, file := parse(t, tc.src)
		a := analyze.New(analyze.Options{}, nil, rules.EmptyBlock{})
		if got := len(collectSignals(a, tree, file)); got != tc.want {
			t.Errorf("emptyBlock on %q: got %d signals, want %d", tc.src, got, tc.want)
		}
	}
}

func TestCollectDiagnostics(t *testing.T) {
	tree, file := parse(t, "let a = 1;\n;\n")
	bag := diag.NewBag(16)
	a := analyze.New(analyze.Options{}, nil, rules.Default()...)
	a.CollectDiagnostics(tree, file, bag)

	if bag.Len() != 1 {
		t.Fatalf("bag has %d diagnostics, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Advices) != 2 {
		t.Fatalf("got %d advices, want 2", len(d.Advices))
	}
	if len(d.Suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(d.Suggestions))
	}
	if len(d.Suggestions[0].Edits) != 1 || !d.Suggestions[0].Edits[0].IsDelete() {
		t.Fatalf("fix suggestion edits %+v, want one deletion", d.Suggestions[0].Edits)
	}
	if !d.HasFix() {
		t.Fatal("diagnostic should report a fix")
	}
}

func TestCollectDiagnosticsHonorsCap(t *testing.T) {
	tree, file := parse(t, ";\n;\n;\n")
	bag := diag.NewBag(2)
	a := analyze.New(analyze.Options{}, nil, rules.Default()...)
	a.CollectDiagnostics(tree, file, bag)
	if bag.Len() != 2 {
		t.Fatalf("bag has %d diagnostics, want cap of 2", bag.Len())
	}
}

func TestRunStopsWhenEmitReturnsFalse(t *testing.T) {
	tree, file := parse(t, ";\n;\n;\n")
	a := analyze.New(analyze.Options{}, nil, rules.Default()...)
	calls := 0
	a.Run(tree, file, func(analyze.Signal) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Fatalf("emit called %d times after returning false", calls)
	}
}

func TestDiagnosticSignal(t *testing.T) {
	sig := analyze.NewDiagnosticSignal(func() *diag.Diagnostic {
		return &diag.Diagnostic{Code: diag.SynUnexpectedToken, Message: "boom"}
	})
	if d := sig.Diagnostic(); d == nil || d.Message != "boom" {
		t.Fatalf("diagnostic %+v", d)
	}
	it := sig.Actions()
	if it.Len() != 0 {
		t.Fatal("diagnostic signal should have no actions")
	}
	if _, ok := it.Next(); ok {
		t.Fatal("nil iterator yielded an action")
	}
}

// needsSemaRule is a stub rule gated on a "sema" service.
type needsSemaRule struct{}

func (needsSemaRule) Meta() analyze.Meta {
	return analyze.Meta{
		Group:    "test",
		Name:     "needsSema",
		Code:     diag.LintInfo,
		Severity: diag.SevInfo,
		Services: []string{"sema"},
	}
}

func (needsSemaRule) Run(ctx *analyze.RuleContext) []analyze.State {
	return []analyze.State{{Node: ctx.Tree.Root()}}
}

func (r needsSemaRule) Diagnostic(ctx *analyze.RuleContext, st analyze.State) *diag.Diagnostic {
	return &diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.LintInfo,
		Message:  "sema available",
		Primary:  ctx.Tree.Span(st.Node),
	}
}

func (needsSemaRule) Action(*analyze.RuleContext, analyze.State) *analyze.RuleAction {
	return nil
}

func (needsSemaRule) SuppressibleNode(*analyze.RuleContext, analyze.State) syntax.NodeID {
	return syntax.NoNodeID
}

func TestServiceGating(t *testing.T) {
	tree, file := parse(t, "let a = 1;\n")

	// Without the service the rule is skipped silently.
	bare := analyze.New(analyze.Options{}, nil, needsSemaRule{})
	if got := collectSignals(bare, tree, file); len(got) != 0 {
		t.Fatalf("got %d signals without the required service", len(got))
	}

	services := analyze.NewServiceBag()
	services.Insert("sema", struct{}{})
	a := analyze.New(analyze.Options{}, services, needsSemaRule{})
	signals := collectSignals(a, tree, file)
	if len(signals) != 1 {
		t.Fatalf("got %d signals with the service present", len(signals))
	}
	if d := signals[0].Diagnostic(); d == nil || d.Message != "sema available" {
		t.Fatalf("diagnostic %+v", d)
	}
	// No fix and no suppressible node: the action set is empty but usable.
	if it := signals[0].Actions(); it.Len() != 0 {
		t.Fatalf("got %d actions, want none", it.Len())
	}
}

package parser

import (
	"testing"

	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/syntax"
)

func parse(t *testing.T, src string) (*syntax.Tree, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.ql", []byte(src))
	bag := diag.NewBag(32)
	tree := Parse(fs.Get(id), &diag.BagReporter{Bag: bag})
	return tree, bag
}

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"let x = 1;\n",
		"let x = 'str';\nfn add(a, b) { a + b; }\n",
		"// comment\nlet a = 1; // tail\n\n\nb;\n",
		"{ let inner = 2; }\n",
		"f(1, 2, 3);\n",
		"let nested = (1 + 2) * 3;\n",
		";;\n",
		// Error recovery: every byte must still survive.
		"let = 1;\n",
		"let x = @@@ 1;\n",
		"fn f( { }\n",
		"???\n",
		"let a = 1; $$ let b = 2;\n",
	}
	for _, src := range cases {
		tree, _ := parse(t, src)
		if got := tree.Text(); got != src {
			t.Errorf("round trip of %q: got %q", src, got)
		}
	}
}

func TestParseStructure(t *testing.T) {
	tree, bag := parse(t, "fn f(a, b) { let x = 1; };\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}

	root := tree.Root()
	if tree.Node(root).Kind != syntax.NodeFile {
		t.Fatalf("root kind %s, want File", tree.Node(root).Kind)
	}
	stmts := tree.ChildNodes(root)
	if len(stmts) != 2 {
		t.Fatalf("got %d top-level nodes, want 2", len(stmts))
	}
	if tree.Node(stmts[0]).Kind != syntax.NodeFnDecl {
		t.Fatalf("first stmt kind %s, want FnDecl", tree.Node(stmts[0]).Kind)
	}
	if tree.Node(stmts[1]).Kind != syntax.NodeEmptyStmt {
		t.Fatalf("second stmt kind %s, want EmptyStmt", tree.Node(stmts[1]).Kind)
	}

	var kinds []syntax.NodeKind
	tree.Preorder(func(id syntax.NodeID) {
		kinds = append(kinds, tree.Node(id).Kind)
	})
	want := []syntax.NodeKind{
		syntax.NodeFile,
		syntax.NodeFnDecl,
		syntax.NodeParamList,
		syntax.NodeParam,
		syntax.NodeParam,
		syntax.NodeBlock,
		syntax.NodeLetStmt,
		syntax.NodeLiteralExpr,
		syntax.NodeEmptyStmt,
	}
	if len(kinds) != len(want) {
		t.Fatalf("preorder kinds %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("preorder kinds %v, want %v", kinds, want)
		}
	}
}

func TestParseBinaryChain(t *testing.T) {
	tree, bag := parse(t, "a + b * c;\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	count := 0
	tree.Preorder(func(id syntax.NodeID) {
		if tree.Node(id).Kind == syntax.NodeBinaryExpr {
			count++
		}
	})
	if count != 2 {
		t.Fatalf("got %d binary nodes, want 2", count)
	}
}

func TestParseCall(t *testing.T) {
	tree, bag := parse(t, "print(1, x, g(2));\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	calls := 0
	tree.Preorder(func(id syntax.NodeID) {
		if tree.Node(id).Kind == syntax.NodeCallExpr {
			calls++
		}
	})
	if calls != 2 {
		t.Fatalf("got %d call nodes, want 2", calls)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{"let = 1;\n", diag.SynExpectIdentifier},
		{"let x 1;\n", diag.SynExpectAssign},
		{"let x = ;\n", diag.SynExpectExpression},
		{"let x = 1\n", diag.SynExpectSemicolon},
		{"{ let a = 1;\n", diag.SynUnclosedBrace},
		{"f(1;\n", diag.SynUnclosedParen},
	}
	for _, tc := range cases {
		_, bag := parse(t, tc.src)
		found := false
		for _, d := range bag.Items() {
			if d.Code == tc.code {
				found = true
			}
		}
		if !found {
			t.Errorf("parse %q: missing %s, got %+v", tc.src, tc.code, bag.Items())
		}
	}
}

func TestSkippedTokensKeepPosition(t *testing.T) {
	tree, bag := parse(t, "let a = 1; $$ let b = 2;\n")
	if !bag.HasErrors() {
		t.Fatal("expected errors for unparseable bytes")
	}
	// The skipped bytes hide in the next statement's first token.
	stmts := tree.ChildNodes(tree.Root())
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
	first := tree.FirstToken(stmts[1])
	if !syntax.HasSkipped(tree.Token(first).Leading) {
		t.Fatal("skipped trivia not attached to following statement")
	}
}

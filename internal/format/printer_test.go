package format

import "testing"

func TestPrintFlatGroup(t *testing.T) {
	doc := []Element{Group(Text("let"), Space(), Text("x"), Line(), Text("= 1;"))}
	if got := Print(doc); got != "let x = 1;" {
		t.Fatalf("got %q", got)
	}
}

func TestGroupBreaksWhenTooWide(t *testing.T) {
	doc := []Element{Group(Text("aa"), Line(), Text("bb"))}
	if got := PrintWidth(doc, 3); got != "aa\nbb" {
		t.Fatalf("got %q", got)
	}
	if got := PrintWidth(doc, 5); got != "aa bb" {
		t.Fatalf("got %q", got)
	}
}

func TestSoftline(t *testing.T) {
	doc := []Element{Group(Text("("), Softline(), Text("x"), Softline(), Text(")"))}
	if got := PrintWidth(doc, 80); got != "(x)" {
		t.Fatalf("flat: got %q", got)
	}
	if got := PrintWidth(doc, 2); got != "(\nx\n)" {
		t.Fatalf("broken: got %q", got)
	}
}

func TestHardlineForcesGroupBreak(t *testing.T) {
	doc := []Element{Group(Text("a"), Hardline(), Text("b"), Line(), Text("c"))}
	// Plenty of width, but the hard break wins and lines break too.
	if got := PrintWidth(doc, 80); got != "a\nb\nc" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandParentForcesBreak(t *testing.T) {
	doc := []Element{Group(Text("a"), ExpandParent(), Line(), Text("b"))}
	if got := PrintWidth(doc, 80); got != "a\nb" {
		t.Fatalf("got %q", got)
	}
}

func TestVerbatimNewlineForcesBreak(t *testing.T) {
	doc := []Element{Group(Text("x"), Line(), Verbatim("raw\nbytes"))}
	if got := PrintWidth(doc, 80); got != "x\nraw\nbytes" {
		t.Fatalf("got %q", got)
	}
}

func TestIndent(t *testing.T) {
	doc := []Element{Group(
		Text("f("),
		Indent(Softline(), Text("x,"), Line(), Text("y")),
		Softline(),
		Text(")"),
	)}
	if got := PrintWidth(doc, 4); got != "f(\n    x,\n    y\n)" {
		t.Fatalf("got %q", got)
	}
	if got := PrintWidth(doc, 80); got != "f(x, y)" {
		t.Fatalf("flat: got %q", got)
	}
}

func TestNestedGroupBreaksIndependently(t *testing.T) {
	inner := Group(Text("bbbb"), Line(), Text("cccc"))
	doc := []Element{Group(Text("aaaa"), Hardline(), inner)}
	// The outer group is forced to break; the inner still fits flat.
	if got := PrintWidth(doc, 10); got != "aaaa\nbbbb cccc" {
		t.Fatalf("got %q", got)
	}
}

func TestEmptyline(t *testing.T) {
	doc := []Element{Text("a;"), Emptyline(), Text("b;")}
	if got := Print(doc); got != "a;\n\nb;" {
		t.Fatalf("got %q", got)
	}
}

func TestLineSuffixDefersToLineEnd(t *testing.T) {
	doc := []Element{
		Text("a;"),
		LineSuffix(Space(), Text("// tail")),
		Text(" more"),
		Hardline(),
		Text("b;"),
	}
	if got := Print(doc); got != "a; more // tail\nb;" {
		t.Fatalf("got %q", got)
	}
}

func TestLineSuffixFlushedAtEnd(t *testing.T) {
	doc := []Element{Text("a;"), LineSuffix(Space(), Text("// tail"))}
	if got := Print(doc); got != "a; // tail" {
		t.Fatalf("got %q", got)
	}
}

func TestIfBreaksIfFlat(t *testing.T) {
	doc := []Element{Group(
		Text("x"),
		Line(),
		Text("y"),
		IfBreaks(Text(",")),
		IfFlat(Text(";")),
	)}
	if got := PrintWidth(doc, 80); got != "x y;" {
		t.Fatalf("flat: got %q", got)
	}
	if got := PrintWidth(doc, 2); got != "x\ny," {
		t.Fatalf("broken: got %q", got)
	}
}

func TestIfBreaksDoesNotAffectMeasurement(t *testing.T) {
	// "x y" is 3 columns; the IfBreaks content must not push it over.
	doc := []Element{Group(Text("x"), Line(), Text("y"), IfBreaks(Text(",,,,,,,")))}
	if got := PrintWidth(doc, 3); got != "x y" {
		t.Fatalf("got %q", got)
	}
}

func TestWillBreak(t *testing.T) {
	cases := []struct {
		el   Element
		want bool
	}{
		{Text("x"), false},
		{Hardline(), true},
		{Emptyline(), true},
		{ExpandParent(), true},
		{Verbatim("plain"), false},
		{Verbatim("two\nlines"), true},
		{Group(Text("a"), Hardline()), true},
		{Indent(Softline()), false},
		{IfBreaks(Hardline()), true},
	}
	for i, tc := range cases {
		if got := willBreak(tc.el); got != tc.want {
			t.Errorf("case %d: willBreak = %v, want %v", i, got, tc.want)
		}
	}
}

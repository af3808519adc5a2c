package format

import (
	"strings"
	"testing"

	"quill/internal/diag"
	"quill/internal/parser"
	"quill/internal/source"
	"quill/internal/syntax"
)

func parseSrc(t *testing.T, src string) (*syntax.Tree, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.ql", []byte(src))
	file := fs.Get(id)
	return parser.Parse(file, diag.NopReporter{}), file
}

func formatSrc(t *testing.T, src string) string {
	t.Helper()
	tree, file := parseSrc(t, src)
	out, err := Format(tree, file)
	if err != nil {
		t.Fatalf("format %q: %v", src, err)
	}
	return out
}

func TestFormat(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "normalizes spacing",
			src:  "let   x=1;",
			want: "let x = 1;\n",
		},
		{
			name: "drops redundant semicolon",
			src:  "let x = 1;;\n",
			want: "let x = 1;\n",
		},
		{
			name: "collapses blank line runs",
			src:  "let a = 1;\n\n\n\nlet b = 2;\n",
			want: "let a = 1;\n\nlet b = 2;\n",
		},
		{
			name: "normalizes single quotes",
			src:  "let s = 'hi';\n",
			want: "let s = \"hi\";\n",
		},
		{
			name: "keeps single quotes when escaping would change",
			src:  "let s = 'say \"hi\"';\n",
			want: "let s = 'say \"hi\"';\n",
		},
		{
			name: "keeps trailing line comment",
			src:  "let a = 1; // note\n",
			want: "let a = 1; // note\n",
		},
		{
			name: "keeps trailing block comment",
			src:  "let a = 1; /* c */\nlet b = 2;\n",
			want: "let a = 1; /* c */\nlet b = 2;\n",
		},
		{
			name: "keeps header comment",
			src:  "// header\nlet a = 1;\n",
			want: "// header\nlet a = 1;\n",
		},
		{
			name: "lays out function",
			src:  "fn f(a,b){let x=1;}",
			want: "fn f(a, b) {\n    let x = 1;\n}\n",
		},
		{
			name: "empty block stays inline",
			src:  "fn f() {}\n",
			want: "fn f() {}\n",
		},
		{
			name: "empty block keeps dangling comment",
			src:  "fn f() {\n    // todo\n}\n",
			want: "fn f() {\n    // todo\n}\n",
		},
		{
			name: "comment before closing brace stays on own line",
			src:  "fn f() {\n    let a = 1;\n    // tail\n}\n",
			want: "fn f() {\n    let a = 1;\n    // tail\n}\n",
		},
		{
			name: "binary expression",
			src:  "let v = 1+2 * 3;\n",
			want: "let v = 1 + 2 * 3;\n",
		},
		{
			name: "flat call drops source trailing comma",
			src:  "f(a, b,);\n",
			want: "f(a, b);\n",
		},
		{
			name: "skipped bytes survive verbatim",
			src:  "let x = 1;\n@@@\nlet y = 2;\n",
			want: "let x = 1;\n@@@\nlet y = 2;\n",
		},
		{
			name: "comment before skipped bytes survives",
			src:  "let x = 1;\n// note\n@@@\nlet y = 2;\n",
			want: "let x = 1;\n// note\n@@@\nlet y = 2;\n",
		},
		{
			name: "comments inside merged skipped range keep their bytes",
			src:  "@@ /* mid */ @@\nlet x = 1;\n",
			want: "@@ /* mid */ @@\nlet x = 1;\n",
		},
		{
			name: "final newline is normalized",
			src:  "let x = 1;\n\n\n",
			want: "let x = 1;\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := formatSrc(t, tc.src)
			if got != tc.want {
				t.Fatalf("got:\n%q\nwant:\n%q", got, tc.want)
			}
			// A second pass over the output must be a fixed point.
			if again := formatSrc(t, got); again != got {
				t.Fatalf("not idempotent:\nfirst:  %q\nsecond: %q", got, again)
			}
		})
	}
}

func TestFormatBreaksLongCall(t *testing.T) {
	args := []string{
		"aaaaaaaaaaaa", "bbbbbbbbbbbb", "cccccccccccc",
		"dddddddddddd", "eeeeeeeeeeee", "ffffffffffff",
	}
	src := "f(" + strings.Join(args, ", ") + ");\n"
	want := "f(\n    " + strings.Join(args, ",\n    ") + ",\n);\n"
	got := formatSrc(t, src)
	if got != want {
		t.Fatalf("got:\n%q\nwant:\n%q", got, want)
	}
	if again := formatSrc(t, got); again != got {
		t.Fatalf("not idempotent:\n%q\n%q", got, again)
	}
}

func TestFormatterCompleteness(t *testing.T) {
	tree, file := parseSrc(t, "let x = 1;\n")
	f := NewFormatter(tree, file)
	// Deliberately skip every token.
	if _, err := f.Finish(); err == nil {
		t.Fatal("Finish must fail when tokens were never consumed")
	}
}

func TestFormatterStickyError(t *testing.T) {
	tree, file := parseSrc(t, "let x = 1;\n")
	f := NewFormatter(tree, file)
	f.FormatToken(999) // not in tree
	f.Write(Text("should be dropped"))
	if _, err := f.Finish(); err == nil {
		t.Fatal("expected the recorded failure")
	}
}

func TestFormatOnlyIfBreaksKeepsSkippedTrivia(t *testing.T) {
	// The trailing comma carries skipped bytes; even when the list stays
	// flat and the comma vanishes, the bytes must not.
	src := "f(a, b@,);\n"
	got := formatSrc(t, src)
	if !strings.Contains(got, "@") {
		t.Fatalf("skipped bytes lost: %q", got)
	}
	if again := formatSrc(t, got); again != got {
		t.Fatalf("not idempotent:\n%q\n%q", got, again)
	}
}

func TestLeadingSeparator(t *testing.T) {
	cases := []struct {
		c    SourceComment
		want Element
	}{
		{SourceComment{Kind: CommentLine, LinesAfter: 1}, Hardline()},
		{SourceComment{Kind: CommentLine, LinesAfter: 3}, Emptyline()},
		{SourceComment{Kind: CommentInlineBlock, LinesAfter: 0}, Space()},
		{SourceComment{Kind: CommentInlineBlock, LinesBefore: 0, LinesAfter: 1}, Softline()},
		{SourceComment{Kind: CommentInlineBlock, LinesBefore: 1, LinesAfter: 1}, Hardline()},
		{SourceComment{Kind: CommentBlock, LinesBefore: 2, LinesAfter: 2}, Emptyline()},
	}
	for i, tc := range cases {
		if got := leadingSeparator(tc.c); got.kind != tc.want.kind {
			t.Errorf("case %d: got kind %d, want %d", i, got.kind, tc.want.kind)
		}
	}
}

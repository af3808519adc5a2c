package lexer

import (
	"strings"
	"testing"

	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/syntax"
)

func tokenize(t *testing.T, src string) ([]syntax.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.ql", []byte(src))
	bag := diag.NewBag(16)
	toks := New(fs.Get(id), &diag.BagReporter{Bag: bag}).Tokenize()
	return toks, bag
}

func TestTokenizeRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"let x = 1;",
		"let x = 1;\n",
		"let   spaced\t= 42;\n\n\nx;\n",
		"// leading comment\nlet a = 1; // trailing\n",
		"/* block */ let b = 'str';\n",
		"/* multi\n   line */\nfn f(a, b) { a + b; }\n",
		"let x = @@@ 1;\n",
		"fn broken( { }\n",
		"let s = \"unterminated\n",
		"/* unterminated block",
	}
	for _, src := range cases {
		toks, _ := tokenize(t, src)
		var b strings.Builder
		for i := range toks {
			b.WriteString(toks[i].FullText())
		}
		if got := b.String(); got != src {
			t.Errorf("round trip of %q: got %q", src, got)
		}
		if toks[len(toks)-1].Kind != syntax.TokEOF {
			t.Errorf("tokenize %q: last token is %s, want EOF", src, toks[len(toks)-1].Kind)
		}
	}
}

func TestTrailingTriviaStaysOnLine(t *testing.T) {
	toks, _ := tokenize(t, "let x = 1; // note\nlet y = 2; /* same line */\nz;\n")
	for _, tok := range toks {
		for _, p := range tok.Trailing {
			if p.IsNewline() {
				t.Fatalf("token %s carries a newline in trailing trivia", tok.Kind)
			}
			if p.Kind == syntax.TriviaBlockComment && strings.Contains(p.Text, "\n") {
				t.Fatalf("token %s carries a multi-line block comment in trailing trivia", tok.Kind)
			}
		}
	}
}

func TestSameLineCommentIsTrailing(t *testing.T) {
	toks, _ := tokenize(t, "let x = 1; // note\n")
	var semi *syntax.Token
	for i := range toks {
		if toks[i].Kind == syntax.TokSemi {
			semi = &toks[i]
		}
	}
	if semi == nil {
		t.Fatal("no semicolon token")
	}
	found := false
	for _, p := range semi.Trailing {
		if p.Kind == syntax.TriviaLineComment && p.Text == "// note" {
			found = true
		}
	}
	if !found {
		t.Fatalf("comment not in semicolon trailing trivia: %+v", semi.Trailing)
	}
}

func TestOwnLineCommentIsLeading(t *testing.T) {
	toks, _ := tokenize(t, "let a = 1;\n// between\nlet b = 2;\n")
	var second *syntax.Token
	seen := 0
	for i := range toks {
		if toks[i].Kind == syntax.TokKwLet {
			seen++
			if seen == 2 {
				second = &toks[i]
			}
		}
	}
	if second == nil {
		t.Fatal("no second let token")
	}
	found := false
	newlines := 0
	for _, p := range second.Leading {
		if p.IsNewline() {
			newlines++
		}
		if p.Kind == syntax.TriviaLineComment && p.Text == "// between" {
			found = true
		}
	}
	if !found {
		t.Fatalf("comment not in leading trivia: %+v", second.Leading)
	}
	if newlines != 2 {
		t.Fatalf("got %d newline pieces in leading trivia, want 2", newlines)
	}
}

func TestNewlinesAreSeparatePieces(t *testing.T) {
	toks, _ := tokenize(t, "a;\n\n\nb;\n")
	var b *syntax.Token
	seen := 0
	for i := range toks {
		if toks[i].Kind == syntax.TokIdent {
			seen++
			if seen == 2 {
				b = &toks[i]
			}
		}
	}
	if b == nil {
		t.Fatal("no second identifier")
	}
	count := 0
	for _, p := range b.Leading {
		if p.IsNewline() {
			if p.Text != "\n" {
				t.Fatalf("newline piece text %q, want single newline", p.Text)
			}
			count++
		}
	}
	if count != 3 {
		t.Fatalf("got %d newline pieces, want 3", count)
	}
}

func TestUnknownBytesBecomeSkipped(t *testing.T) {
	toks, bag := tokenize(t, "let x = @@@ 1;\n")
	found := false
	for _, tok := range toks {
		for _, p := range tok.Leading {
			if p.IsSkipped() && p.Text == "@@@" {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("skipped piece for unknown bytes not found")
	}
	if !hasCode(bag, diag.LexUnknownChar) {
		t.Fatal("expected LexUnknownChar diagnostic")
	}
}

func TestUnterminatedString(t *testing.T) {
	toks, bag := tokenize(t, "let s = \"oops\n")
	if !hasCode(bag, diag.LexUnterminatedString) {
		t.Fatal("expected unterminated string diagnostic")
	}
	found := false
	for _, tok := range toks {
		if tok.Kind == syntax.TokString {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a string token despite the error")
	}
}

func TestKeywordRecognition(t *testing.T) {
	toks, _ := tokenize(t, "let fn letter fnord")
	want := []syntax.TokenKind{
		syntax.TokKwLet, syntax.TokKwFn, syntax.TokIdent, syntax.TokIdent, syntax.TokEOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestNumberScanning(t *testing.T) {
	toks, _ := tokenize(t, "1 42 3.14 5.")
	var texts []string
	for _, tok := range toks {
		if tok.Kind == syntax.TokNumber {
			texts = append(texts, tok.Text)
		}
	}
	// "5." scans as the number 5 followed by an unknown '.'.
	want := []string{"1", "42", "3.14", "5"}
	if len(texts) != len(want) {
		t.Fatalf("numbers %v, want %v", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("number %d: got %q, want %q", i, texts[i], want[i])
		}
	}
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

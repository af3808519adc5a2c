package ui

import (
	"strings"
	"testing"

	"quill/internal/diag"
	"quill/internal/source"
)

func TestRenderDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.ql", []byte("let a = 1;\n;\n"))

	bag := diag.NewBag(4)
	d := diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.LintRedundantSemicolon,
		Message:  "redundant semicolon",
		Primary:  source.Span{File: id, Start: 11, End: 12},
	}
	d.Advices = append(d.Advices, diag.SuggestionAdvice{
		Applicability: diag.ApplicabilityAlways,
		Message:       "Remove the semicolon",
	})
	bag.Add(d)

	var out strings.Builder
	RenderDiagnostics(&out, bag, fs, RenderOptions{Context: true, Advices: true})
	got := out.String()

	want := "a.ql:2:1: warning Q4001: redundant semicolon\n" +
		"    ;\n" +
		"    ^\n" +
		"  fix: Remove the semicolon\n"
	if got != want {
		t.Fatalf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestRenderCaretAlignment(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("b.ql", []byte("let abc = 1;\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SynUnexpectedToken,
		Message:  "boom",
		Primary:  source.Span{File: id, Start: 4, End: 7},
	})

	var out strings.Builder
	RenderDiagnostics(&out, bag, fs, RenderOptions{Context: true})
	got := out.String()

	if !strings.Contains(got, "    let abc = 1;\n        ^~~\n") {
		t.Fatalf("caret misaligned:\n%q", got)
	}
}

func TestRenderWithoutContext(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("c.ql", []byte(";\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.LintInfo,
		Message:  "hello",
		Primary:  source.Span{File: id, Start: 0, End: 1},
	})

	var out strings.Builder
	RenderDiagnostics(&out, bag, fs, RenderOptions{})
	if got := out.String(); got != "c.ql:1:1: info Q4000: hello\n" {
		t.Fatalf("got %q", got)
	}
}

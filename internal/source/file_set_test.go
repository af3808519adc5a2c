package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPosition(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("pos.ql", []byte("let a = 1;\nlet b = 2;\n"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{4, LineCol{Line: 1, Col: 5}},
		{10, LineCol{Line: 1, Col: 11}}, // the newline terminates line 1
		{11, LineCol{Line: 2, Col: 1}},
		{15, LineCol{Line: 2, Col: 5}},
	}
	for _, tc := range cases {
		path, lc := fs.Position(Span{File: id, Start: tc.off, End: tc.off})
		if path != "pos.ql" || lc != tc.want {
			t.Errorf("Position(%d) = %q %+v, want %+v", tc.off, path, lc, tc.want)
		}
	}
}

func TestPositionUnknownFile(t *testing.T) {
	fs := NewFileSet()
	path, lc := fs.Position(Span{File: 42})
	if path != "" || lc != (LineCol{Line: 1, Col: 1}) {
		t.Fatalf("got %q %+v", path, lc)
	}
}

func TestLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("line.ql", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	cases := []struct {
		n    int
		want string
	}{
		{1, "first"},
		{2, "second"},
		{3, "third"}, // no trailing newline
		{0, ""},
		{4, ""},
	}
	for _, tc := range cases {
		if got := f.Line(tc.n); got != tc.want {
			t.Errorf("Line(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestText(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.ql", []byte("let a = 1;"))
	f := fs.Get(id)

	if got := f.Text(Span{File: id, Start: 4, End: 5}); string(got) != "a" {
		t.Fatalf("got %q", got)
	}
	if got := f.Text(Span{File: id, Start: 5, End: 99}); got != nil {
		t.Fatalf("out-of-range span returned %q", got)
	}
}

func TestLoadNormalizesCRLFAndBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "win.ql")
	raw := []byte("\xEF\xBB\xBFlet a = 1;\r\nlet b = 2;\r\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	f := fs.Get(id)
	if string(f.Content) != "let a = 1;\nlet b = 2;\n" {
		t.Fatalf("content %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags %b", f.Flags)
	}
	if f.Flags&FileVirtual != 0 {
		t.Fatal("disk file marked virtual")
	}
}

func TestLoneCRIsKept(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("cr.ql", []byte("a\rb\r\nc"))
	if got := string(fs.Get(id).Content); got != "a\rb\nc" {
		t.Fatalf("content %q", got)
	}
}

func TestReAddCreatesNewVersion(t *testing.T) {
	fs := NewFileSet()
	first := fs.Add("same.ql", []byte("v1"), 0)
	second := fs.Add("same.ql", []byte("v2"), 0)

	if first == second {
		t.Fatal("re-adding a path must mint a fresh id")
	}
	if got := string(fs.Get(first).Content); got != "v1" {
		t.Fatalf("old version content %q", got)
	}
	id, ok := fs.Lookup("same.ql")
	if !ok || id != second {
		t.Fatalf("lookup %v ok=%v, want latest id %v", id, ok, second)
	}
	if fs.Len() != 2 {
		t.Fatalf("len %d", fs.Len())
	}
}

func TestRelPath(t *testing.T) {
	f := &File{Path: "/proj/src/a.ql"}
	if got := f.RelPath("/proj"); got != "src/a.ql" {
		t.Fatalf("got %q", got)
	}
	if got := f.RelPath(""); got != "/proj/src/a.ql" {
		t.Fatalf("empty base: got %q", got)
	}
	virtual := &File{Path: "mem.ql"}
	if got := virtual.RelPath("/proj"); got != "mem.ql" {
		t.Fatalf("virtual: got %q", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Fatalf("got %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("cross-file cover changed the span: %v", got)
	}
}

package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

// newInput собирает Input с одним файлом и одной диагностикой.
func newInput(t *testing.T, path, content string, d func(table *symbols.Table, file source.FileID) diag.Diagnostic) Input {
	t.Helper()
	files := source.NewFileSet()
	file := files.Add(path, []byte(content), source.FileVirtual)
	table := symbols.NewTable(symbols.Hints{}, nil)
	bag := diag.NewBag(10)
	bag.Add(d(table, file))
	return Input{Path: "/tmp/snap.mtree", Bag: bag, Files: files, Table: table}
}

func TestPrettyHeaderAndCaret(t *testing.T) {
	in := newInput(t, "src/main.mg", "let x = 1\nprint(y)\n", func(table *symbols.Table, file source.FileID) diag.Diagnostic {
		return diag.NewError(diag.SemaVariableNotFound, source.Span{File: file, Start: 16, End: 17}).
			WithName(table.Strings.Intern("y"))
	})

	var buf bytes.Buffer
	Pretty(&buf, in, PrettyOpts{Color: false, Context: 0})
	out := buf.String()

	header := "src/main.mg:2:7: ERROR " + diag.SemaVariableNotFound.ID() + ": Variable not found: `y`\n"
	if !strings.HasPrefix(out, header) {
		t.Fatalf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, " 2 | print(y)\n") {
		t.Fatalf("missing source line:\n%s", out)
	}
	if !strings.Contains(out, "   | "+strings.Repeat(" ", 6)+"^\n") {
		t.Fatalf("caret misplaced:\n%s", out)
	}
	if strings.Contains(out, "let x") {
		t.Fatalf("context 0 must not print neighbours:\n%s", out)
	}
}

func TestPrettyContextLines(t *testing.T) {
	in := newInput(t, "a.mg", "one\ntwo\nthree\nfour\n", func(_ *symbols.Table, file source.FileID) diag.Diagnostic {
		return diag.NewError(diag.SemaBreakOutsideOfLoop, source.Span{File: file, Start: 8, End: 13})
	})

	var buf bytes.Buffer
	Pretty(&buf, in, PrettyOpts{Context: 1})
	out := buf.String()
	for _, want := range []string{" 2 | two\n", " 3 | three\n", " 4 | four\n", "   | ^~~~~\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "one") {
		t.Fatalf("line 1 is outside the context window:\n%s", out)
	}
}

func TestPrettyWideCharacters(t *testing.T) {
	// "名前" занимает 6 байт и 4 колонки
	in := newInput(t, "w.mg", "let 名前 = y\n", func(_ *symbols.Table, file source.FileID) diag.Diagnostic {
		return diag.NewError(diag.SemaVariableNotFound, source.Span{File: file, Start: 13, End: 14})
	})

	var buf bytes.Buffer
	Pretty(&buf, in, PrettyOpts{})
	if !strings.Contains(buf.String(), "   | "+strings.Repeat(" ", 11)+"^\n") {
		t.Fatalf("caret must follow display width:\n%s", buf.String())
	}
}

func TestPrettySecondarySpans(t *testing.T) {
	in := newInput(t, "s.mg", "let a = 1\nlet a = 2\n", func(table *symbols.Table, file source.FileID) diag.Diagnostic {
		return diag.NewError(diag.SemaNameAlreadyDefined, source.Span{File: file, Start: 14, End: 15}).
			WithSpan(source.Span{File: file, Start: 4, End: 5}).
			WithName(table.Strings.Intern("a"))
	})

	var buf bytes.Buffer
	Pretty(&buf, in, PrettyOpts{ShowSecondary: true})
	if !strings.Contains(buf.String(), "note: s.mg:1:5\n") {
		t.Fatalf("expected secondary note:\n%s", buf.String())
	}

	buf.Reset()
	Pretty(&buf, in, PrettyOpts{})
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("secondary spans must be hidden by default:\n%s", buf.String())
	}
}

func TestPrettyWithoutSource(t *testing.T) {
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}).WithDetail("open x.mtree: no such file"))
	in := Input{Path: "build/x.mtree", Bag: bag}

	var buf bytes.Buffer
	Pretty(&buf, in, PrettyOpts{PathMode: PathModeBasename})
	want := "x.mtree: ERROR " + diag.IOLoadFileError.ID() + ": I/O load file error: open x.mtree: no such file\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestPathModes(t *testing.T) {
	long := "/home/user/projects/margarine/examples/very/deep/tree/main.mg"
	tests := []struct {
		name string
		path string
		mode PathMode
		want string
	}{
		{name: "auto keeps short", path: "src/main.mg", mode: PathModeAuto, want: "src/main.mg"},
		{name: "auto shortens long absolute", path: long, mode: PathModeAuto, want: "main.mg"},
		{name: "basename", path: "src/main.mg", mode: PathModeBasename, want: "main.mg"},
		{name: "absolute", path: "/x/y.mg", mode: PathModeAbsolute, want: "/x/y.mg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPath(tt.path, tt.mode); got != tt.want {
				t.Fatalf("formatPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestMessagePayloads(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)
	name := table.Strings.Intern("None")
	tests := []struct {
		name string
		d    diag.Diagnostic
		want string
	}{
		{
			name: "mismatch",
			d:    diag.NewError(diag.SemaTypeMismatch, source.Span{}).WithTypes(symbols.TyStr, symbols.TyBool),
			want: "Type mismatch: expected `bool`, found `str`",
		},
		{
			name: "binary",
			d:    diag.NewError(diag.SemaInvalidBinaryOp, source.Span{}).WithTypes(symbols.TyStr, symbols.TyBool).WithDetail("+"),
			want: "Invalid binary operation: `str` + `bool`",
		},
		{
			name: "unary",
			d:    diag.NewError(diag.SemaInvalidUnaryOp, source.Span{}).WithTypes(symbols.TyStr).WithDetail("-"),
			want: "Invalid unary operation: -`str`",
		},
		{
			name: "missing match",
			d:    diag.NewError(diag.SemaMissingMatch, source.Span{}).WithName(name),
			want: "Match is not exhaustive: missing `None`",
		},
		{
			name: "arity",
			d:    diag.NewError(diag.SemaFunctionArgsMismatch, source.Span{}).WithCounts(1, 2),
			want: "Wrong number of arguments (found 1, expected 2)",
		},
		{
			name: "nesting",
			d:    diag.NewError(diag.SemaNestingTooDeep, source.Span{}).WithCounts(4097, 4096),
			want: "Expression nesting is too deep (limit 4096)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.d, table); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

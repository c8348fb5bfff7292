package ast

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"margarine/internal/source"
)

func TestSnapshotRoundTrip(t *testing.T) {
	strs := source.NewInterner()
	b := NewBuilder(Hints{})
	file := b.NewFile(source.Span{End: 40})

	point := strs.Intern("Point")
	x := strs.Intern("x")
	intTy := b.Types.NewNamed(source.Span{Start: 16, End: 19}, source.StrInt)
	decl := b.Decls.NewStruct(source.Span{End: 24}, StructDecl{
		Name:   point,
		Fields: []StructField{{Name: x, Type: intTy}},
	})
	b.PushDecl(file, decl)
	lit := b.Exprs.NewLiteral(source.Span{Start: 30, End: 31}, ExprLitInt, strs.Intern("5"))
	b.Push(file, ExprNode(b.Exprs.NewUnary(source.Span{Start: 29, End: 31}, ExprUnaryNeg, lit)))

	var buf bytes.Buffer
	snap := &Snapshot{Strings: strs, Tree: b, Roots: []FileID{file}}
	if err := snap.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	nodes := got.Tree.Files.Get(file).Body.Nodes
	if len(nodes) != 2 {
		t.Fatalf("expected 2 root nodes, got %d", len(nodes))
	}
	id, ok := nodes[0].Decl()
	if !ok {
		t.Fatalf("first node is %v, want decl", nodes[0])
	}
	sd, ok := got.Tree.Decls.Struct(id)
	if !ok {
		t.Fatalf("decl %d is not a struct", id)
	}
	if name := got.Strings.MustLookup(sd.Name); name != "Point" {
		t.Fatalf("struct name %q", name)
	}
	if len(sd.Fields) != 1 || got.Tree.Types.Get(sd.Fields[0].Type).Name != source.StrInt {
		t.Fatalf("unexpected fields %+v", sd.Fields)
	}
	eid, _ := nodes[1].Expr()
	un, ok := got.Tree.Exprs.Unary(eid)
	if !ok || un.Op != ExprUnaryNeg {
		t.Fatalf("expected negation, got %+v", got.Tree.Exprs.Get(eid))
	}
	if l, ok := got.Tree.Exprs.Literal(un.Operand); !ok || got.Strings.MustLookup(l.Value) != "5" {
		t.Fatalf("operand lost")
	}
}

func TestSnapshotSchemaMismatch(t *testing.T) {
	snap := &Snapshot{Schema: SnapshotSchema + 1, Strings: source.NewInterner(), Tree: NewBuilder(Hints{})}
	data, err := msgpack.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	_, err = DecodeSnapshot(bytes.NewReader(data))
	if !errors.Is(err, ErrSnapshotSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestExprAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{})
	id := b.Exprs.NewIdent(source.Span{}, source.StrValue)
	if _, ok := b.Exprs.Binary(id); ok {
		t.Fatalf("ident must not read as binary")
	}
	if _, ok := b.Exprs.Ident(id); !ok {
		t.Fatalf("ident accessor failed")
	}
	if _, ok := b.Exprs.Ident(NoExprID); ok {
		t.Fatalf("NoExprID must not resolve")
	}
	loop := b.Exprs.NewLoop(source.Span{}, Block{})
	if _, ok := b.Exprs.Block(loop); !ok {
		t.Fatalf("loop should expose its block")
	}
}

func TestTypesSame(t *testing.T) {
	b := NewBuilder(Hints{})
	a := b.Types.NewOption(source.Span{Start: 1}, b.Types.NewNamed(source.Span{Start: 2}, source.StrInt))
	c := b.Types.NewOption(source.Span{Start: 9}, b.Types.NewNamed(source.Span{Start: 10}, source.StrInt))
	d := b.Types.NewOption(source.Span{}, b.Types.NewNamed(source.Span{}, source.StrStr))
	if !b.Types.Same(a, c) {
		t.Fatalf("spans must not affect comparison")
	}
	if b.Types.Same(a, d) {
		t.Fatalf("Option<int> and Option<str> compared equal")
	}
}

func TestSnapshotRejectsSpansOutsideSource(t *testing.T) {
	tests := []struct {
		name     string
		fileSpan source.Span
		nodeSpan source.Span
		content  string
	}{
		{name: "file beyond content", fileSpan: source.Span{End: 50}, nodeSpan: source.Span{End: 2}, content: "x\n"},
		{name: "node outside file", fileSpan: source.Span{End: 2}, nodeSpan: source.Span{Start: 1, End: 9}, content: "x\n"},
		{name: "node in other file", fileSpan: source.Span{End: 2}, nodeSpan: source.Span{File: 3, End: 1}, content: "x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(Hints{})
			file := b.NewFile(tt.fileSpan)
			b.Push(file, ExprNode(b.Exprs.NewIdent(tt.nodeSpan, source.StrValue)))
			snap := &Snapshot{
				Strings: source.NewInterner(),
				Tree:    b,
				Roots:   []FileID{file},
				Sources: []source.File{{ID: 0, Path: "a.mg", Content: []byte(tt.content)}},
			}
			var buf bytes.Buffer
			if err := snap.Encode(&buf); err != nil {
				t.Fatalf("encode: %v", err)
			}
			if _, err := DecodeSnapshot(&buf); err == nil {
				t.Fatalf("expected span validation error")
			}
		})
	}
}

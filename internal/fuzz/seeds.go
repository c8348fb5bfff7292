package fuzztests

import (
	"bytes"
	"testing"

	"margarine/internal/ast"
	"margarine/internal/source"
)

const (
	maxFuzzInput = 64 << 10 // 64 KiB
)

// addSnapshotSeeds adds well-formed snapshots and a few broken byte strings.
func addSnapshotSeeds(f *testing.F) {
	for _, build := range []func(b *ast.Builder, strs *source.Interner, file ast.FileID){
		seedLetAndUse,
		seedStructLiteral,
		seedBinary,
	} {
		strs := source.NewInterner()
		b := ast.NewBuilder(ast.Hints{})
		file := b.NewFile(source.Span{End: 64})
		build(b, strs, file)
		snap := &ast.Snapshot{Strings: strs, Tree: b, Roots: []ast.FileID{file}}
		var buf bytes.Buffer
		if err := snap.Encode(&buf); err != nil {
			f.Fatalf("encode seed: %v", err)
		}
		f.Add(buf.Bytes())
	}
	f.Add([]byte{})
	f.Add([]byte("not msgpack"))
	f.Add([]byte{0x85, 0xa6, 'S', 'c', 'h', 'e', 'm', 'a', 0x01})
}

func seedLetAndUse(b *ast.Builder, strs *source.Interner, file ast.FileID) {
	lit := b.Exprs.NewLiteral(source.Span{Start: 8, End: 9}, ast.ExprLitInt, strs.Intern("1"))
	b.Push(file, ast.StmtNode(b.Stmts.NewLet(source.Span{End: 9}, strs.Intern("x"), source.Span{Start: 4, End: 5}, ast.NoTypeID, false, lit)))
	b.Push(file, ast.ExprNode(b.Exprs.NewIdent(source.Span{Start: 10, End: 11}, strs.Intern("x"))))
}

func seedStructLiteral(b *ast.Builder, strs *source.Interner, file ast.FileID) {
	point := strs.Intern("Point")
	x := strs.Intern("x")
	intTy := b.Types.NewNamed(source.Span{Start: 16, End: 19}, source.StrInt)
	b.PushDecl(file, b.Decls.NewStruct(source.Span{End: 24}, ast.StructDecl{
		Name:   point,
		Fields: []ast.StructField{{Name: x, Type: intTy}},
	}))
	val := b.Exprs.NewLiteral(source.Span{Start: 40, End: 41}, ast.ExprLitInt, strs.Intern("3"))
	lit := b.Exprs.NewStruct(source.Span{Start: 26, End: 44}, b.Types.NewNamed(source.Span{Start: 26, End: 31}, point),
		[]ast.StructFieldInit{{Name: x, Value: val}})
	b.Push(file, ast.ExprNode(lit))
}

func seedBinary(b *ast.Builder, strs *source.Interner, file ast.FileID) {
	l := b.Exprs.NewLiteral(source.Span{Start: 0, End: 1}, ast.ExprLitInt, strs.Intern("1"))
	r := b.Exprs.NewLiteral(source.Span{Start: 4, End: 7}, ast.ExprLitFloat, strs.Intern("2.0"))
	b.Push(file, ast.ExprNode(b.Exprs.NewBinary(source.Span{End: 7}, ast.ExprBinaryAdd, l, r)))
}

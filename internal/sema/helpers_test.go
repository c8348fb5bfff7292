package sema

import (
	"testing"

	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/source"
)

// tree builds small syntax trees for checker tests. Every node gets its own
// span so diagnostics can be told apart.
type tree struct {
	t       *testing.T
	b       *ast.Builder
	strings *source.Interner
	file    ast.FileID
	pos     uint32
}

func newTree(t *testing.T) *tree {
	t.Helper()
	b := ast.NewBuilder(ast.Hints{})
	return &tree{t: t, b: b, strings: source.NewInterner(), file: b.NewFile(source.Span{})}
}

func (x *tree) sp() source.Span {
	x.pos += 2
	return source.Span{File: 1, Start: x.pos, End: x.pos + 1}
}

func (x *tree) id(name string) source.StringID { return x.strings.Intern(name) }

func (x *tree) ids(names ...string) []source.StringID {
	out := make([]source.StringID, 0, len(names))
	for _, n := range names {
		out = append(out, x.id(n))
	}
	return out
}

func (x *tree) typ(name string, args ...ast.TypeID) ast.TypeID {
	return x.b.Types.NewNamed(x.sp(), x.id(name), args...)
}

func (x *tree) unitType() ast.TypeID { return x.b.Types.NewUnit(x.sp()) }

func (x *tree) field(name string, ty ast.TypeID) ast.StructField {
	return ast.StructField{Name: x.id(name), Type: ty, Span: x.sp()}
}

func (x *tree) structDecl(name string, generics []string, fields ...ast.StructField) ast.NodeID {
	return ast.DeclNode(x.b.Decls.NewStruct(x.sp(), ast.StructDecl{
		Name:     x.id(name),
		Header:   x.sp(),
		Fields:   fields,
		Generics: x.ids(generics...),
	}))
}

// enumDecl declares payload-less variants.
func (x *tree) enumDecl(name string, variants ...string) ast.NodeID {
	vs := make([]ast.EnumVariant, 0, len(variants))
	for i, v := range variants {
		vs = append(vs, ast.EnumVariant{
			Name:         x.id(v),
			Number:       uint16(i),
			Type:         x.unitType(),
			Span:         x.sp(),
			ImplicitUnit: true,
		})
	}
	return ast.DeclNode(x.b.Decls.NewEnum(x.sp(), ast.EnumDecl{Name: x.id(name), Header: x.sp(), Variants: vs}))
}

func (x *tree) arg(name string, ty ast.TypeID, inout bool) ast.FnArg {
	return ast.FnArg{Name: x.id(name), Type: ty, Inout: inout, Span: x.sp()}
}

func (x *tree) block(nodes ...ast.NodeID) ast.Block {
	return ast.Block{Nodes: nodes, Span: x.sp()}
}

func (x *tree) fnDecl(name string, generics []string, args []ast.FnArg, ret ast.TypeID, body ...ast.NodeID) ast.DeclID {
	return x.b.Decls.NewFn(x.sp(), ast.FnDecl{
		Sig: ast.FnSig{
			Name:     x.id(name),
			Span:     x.sp(),
			Args:     args,
			Generics: x.ids(generics...),
			Ret:      ret,
		},
		Body: x.block(body...),
	})
}

func (x *tree) fn(name string, generics []string, args []ast.FnArg, ret ast.TypeID, body ...ast.NodeID) ast.NodeID {
	return ast.DeclNode(x.fnDecl(name, generics, args, ret, body...))
}

func (x *tree) expr(id ast.ExprID) ast.NodeID { return ast.ExprNode(id) }

func (x *tree) ident(name string) ast.ExprID { return x.b.Exprs.NewIdent(x.sp(), x.id(name)) }

func (x *tree) intLit(v string) ast.ExprID {
	return x.b.Exprs.NewLiteral(x.sp(), ast.ExprLitInt, x.id(v))
}

func (x *tree) boolLit(v bool) ast.ExprID {
	id := source.StrFalse
	if v {
		id = source.StrTrue
	}
	return x.b.Exprs.NewLiteral(x.sp(), ast.ExprLitBool, id)
}

func (x *tree) strLit(v string) ast.ExprID {
	return x.b.Exprs.NewLiteral(x.sp(), ast.ExprLitString, x.id(v))
}

func (x *tree) call(name string, args ...ast.CallArg) ast.ExprID {
	return x.b.Exprs.NewCall(x.sp(), x.id(name), false, args)
}

func (x *tree) method(recv ast.ExprID, name string, args ...ast.CallArg) ast.ExprID {
	all := append([]ast.CallArg{{Value: recv}}, args...)
	return x.b.Exprs.NewCall(x.sp(), x.id(name), true, all)
}

func plain(id ast.ExprID) ast.CallArg { return ast.CallArg{Value: id} }
func inout(id ast.ExprID) ast.CallArg { return ast.CallArg{Value: id, Inout: true} }

func (x *tree) fieldOf(value ast.ExprID, name string) ast.ExprID {
	return x.b.Exprs.NewField(x.sp(), value, x.id(name))
}

func (x *tree) blockExpr(nodes ...ast.NodeID) ast.ExprID {
	return x.b.Exprs.NewBlock(x.block(nodes...))
}

func (x *tree) let(name string, mutable bool, value ast.ExprID) ast.NodeID {
	return ast.StmtNode(x.b.Stmts.NewLet(x.sp(), x.id(name), x.sp(), ast.NoTypeID, mutable, value))
}

func (x *tree) letHint(name string, hint ast.TypeID, value ast.ExprID) ast.NodeID {
	return ast.StmtNode(x.b.Stmts.NewLet(x.sp(), x.id(name), x.sp(), hint, false, value))
}

func (x *tree) arm(variant, binding string, body ast.ExprID) ast.MatchArm {
	return ast.MatchArm{Variant: x.id(variant), Binding: x.id(binding), BindingSpan: x.sp(), Body: body, Span: x.sp()}
}

func (x *tree) match(value ast.ExprID, arms ...ast.MatchArm) ast.ExprID {
	return x.b.Exprs.NewMatch(x.sp(), value, false, arms)
}

func (x *tree) structLit(ty ast.TypeID, fields ...ast.StructFieldInit) ast.ExprID {
	return x.b.Exprs.NewStruct(x.sp(), ty, fields)
}

func (x *tree) init(name string, value ast.ExprID) ast.StructFieldInit {
	return ast.StructFieldInit{Name: x.id(name), Span: x.sp(), Value: value}
}

// top appends nodes to the file body.
func (x *tree) top(nodes ...ast.NodeID) {
	for _, n := range nodes {
		x.b.Push(x.file, n)
	}
}

func (x *tree) check() (Result, *diag.Bag) {
	x.t.Helper()
	bag := diag.NewBag(0)
	res := Check(x.b, x.strings, x.file, Options{Reporter: diag.BagReporter{Bag: bag}})
	return res, bag
}

func (x *tree) typeName(res Result, id ast.ExprID) string {
	x.t.Helper()
	ty, ok := res.TypeOf(id)
	if !ok {
		x.t.Fatalf("no type recorded for expr %d", id)
	}
	return res.Table.TypeName(ty)
}

func expectNoDiagnostics(t *testing.T, bag *diag.Bag) {
	t.Helper()
	if bag.Len() != 0 {
		for _, d := range bag.Items() {
			t.Logf("unexpected: %s at %s", d.Code, d.Primary)
		}
		t.Fatalf("expected no diagnostics, got %d", bag.Len())
	}
}

func expectOnly(t *testing.T, bag *diag.Bag, code diag.Code) diag.Diagnostic {
	t.Helper()
	if bag.Len() != 1 || bag.Items()[0].Code != code {
		for _, d := range bag.Items() {
			t.Logf("got: %s at %s", d.Code, d.Primary)
		}
		t.Fatalf("expected exactly one %s, got %d diagnostics", code.ID(), bag.Len())
	}
	return bag.Items()[0]
}

package sema

import (
	"testing"

	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

func TestCheckEmptyFile(t *testing.T) {
	x := newTree(t)
	res, bag := x.check()
	expectNoDiagnostics(t, bag)
	if res.Table == nil {
		t.Fatalf("expected symbol table")
	}
	if !res.Table.Eq(res.Value.Type, symbols.TyUnit) {
		t.Fatalf("empty file should evaluate to unit, got %s", res.Table.TypeName(res.Value.Type))
	}
}

func TestCheckNilBuilder(t *testing.T) {
	res := Check(nil, nil, ast.NoFileID, Options{})
	if res.Table == nil || res.Exprs == nil {
		t.Fatalf("expected initialized result")
	}
}

func TestEndToEndPointField(t *testing.T) {
	x := newTree(t)
	px := x.fieldOf(x.ident("p"), "x")
	f := x.fnDecl("f", nil, []ast.FnArg{x.arg("p", x.typ("Point"), false)}, x.typ("int"), x.expr(px))
	x.top(
		x.structDecl("Point", nil, x.field("x", x.typ("int")), x.field("y", x.typ("int"))),
		ast.DeclNode(f),
	)

	res, bag := x.check()
	expectNoDiagnostics(t, bag)
	body, ok := res.Bodies[f]
	if !ok {
		t.Fatalf("body of f not recorded")
	}
	if got := res.Table.TypeName(body.Type); got != "i64" {
		t.Fatalf("body type = %s, want i64", got)
	}
	if got := x.typeName(res, px); got != "i64" {
		t.Fatalf("p.x type = %s, want i64", got)
	}
}

func TestForwardReferenceBetweenStructs(t *testing.T) {
	x := newTree(t)
	x.top(
		x.structDecl("A", nil, x.field("next", x.typ("Ptr", x.typ("B")))),
		x.structDecl("B", nil, x.field("prev", x.typ("Ptr", x.typ("A")))),
	)

	res, bag := x.check()
	expectNoDiagnostics(t, bag)

	ns := res.Table.Namespaces.Get(res.Namespace)
	a, okA := ns.Sym(x.id("A"))
	b, okB := ns.Sym(x.id("B"))
	if !okA || !okB {
		t.Fatalf("structs not declared")
	}
	next := res.Table.Symbol(a.Symbol).Container.Fields[0].Type
	if next.Symbol != symbols.SymPtr || next.Args[0].Gen.Symbol != b.Symbol {
		t.Fatalf("A.next does not point at B: %+v", next)
	}
	prev := res.Table.Symbol(b.Symbol).Container.Fields[0].Type
	if prev.Args[0].Gen.Symbol != a.Symbol {
		t.Fatalf("B.prev does not point at A: %+v", prev)
	}
}

func TestMatchReportsMissingVariant(t *testing.T) {
	x := newTree(t)
	m := x.match(x.ident("e"),
		x.arm("A", "v", x.b.Exprs.NewUnit(x.sp())),
		x.arm("B", "v", x.b.Exprs.NewUnit(x.sp())),
	)
	x.top(
		x.enumDecl("E", "A", "B", "C"),
		x.fn("f", nil, []ast.FnArg{x.arg("e", x.typ("E"), false)}, ast.NoTypeID, x.expr(m)),
	)

	_, bag := x.check()
	d := expectOnly(t, bag, diag.SemaMissingMatch)
	if len(d.Names) != 1 || d.Names[0] != x.id("C") {
		t.Fatalf("expected MissingMatch naming C, got %v", d.Names)
	}
}

func TestMatchReportsDuplicateVariantOnce(t *testing.T) {
	x := newTree(t)
	unit := func() ast.ExprID { return x.b.Exprs.NewUnit(x.sp()) }
	m := x.match(x.ident("e"),
		x.arm("A", "v", unit()),
		x.arm("B", "v", unit()),
		x.arm("C", "v", unit()),
		x.arm("A", "v", unit()),
	)
	x.top(
		x.enumDecl("E", "A", "B", "C"),
		x.fn("f", nil, []ast.FnArg{x.arg("e", x.typ("E"), false)}, ast.NoTypeID, x.expr(m)),
	)

	_, bag := x.check()
	expectOnly(t, bag, diag.SemaDuplicateMatch)
}

func TestMatchUnifiesArmTypes(t *testing.T) {
	x := newTree(t)
	m := x.match(x.ident("e"),
		x.arm("A", "v", x.intLit("1")),
		x.arm("B", "v", x.intLit("2")),
	)
	x.top(
		x.enumDecl("E", "A", "B"),
		x.fn("f", nil, []ast.FnArg{x.arg("e", x.typ("E"), false)}, x.typ("i32"), x.expr(m)),
	)

	res, bag := x.check()
	expectNoDiagnostics(t, bag)
	if got := x.typeName(res, m); got != "i32" {
		t.Fatalf("match type = %s, want i32", got)
	}
}

func TestGenericInferenceAtCallSite(t *testing.T) {
	x := newTree(t)
	arg := x.intLit("5")
	call := x.call("identity", plain(arg))
	x.top(
		x.fn("identity", []string{"T"}, []ast.FnArg{x.arg("x", x.typ("T"), false)}, x.typ("T"), x.expr(x.ident("x"))),
		x.expr(call),
	)

	res, bag := x.check()
	expectNoDiagnostics(t, bag)
	info, ok := res.Calls[call]
	if !ok {
		t.Fatalf("call not recorded")
	}
	gens := res.Table.Gens(info.Gens)
	if len(gens) != 1 || gens[0].Name != source.StrT {
		t.Fatalf("unexpected generics %v", gens)
	}
	if got := res.Table.TypeName(gens[0].Sym); got != "i64" {
		t.Fatalf("T = %s, want i64", got)
	}
	callTy, _ := res.TypeOf(call)
	argTy, _ := res.TypeOf(arg)
	if !res.Table.Eq(callTy, argTy) || res.Table.TypeName(callTy) != "i64" {
		t.Fatalf("call type %s != argument type %s", res.Table.TypeName(callTy), res.Table.TypeName(argTy))
	}
}

func TestGenericFunctionBodyIsOpaque(t *testing.T) {
	x := newTree(t)
	// fn bad<T>(x: T) -> T { 1 }
	x.top(x.fn("bad", []string{"T"}, []ast.FnArg{x.arg("x", x.typ("T"), false)}, x.typ("T"), x.expr(x.intLit("1"))))

	_, bag := x.check()
	expectOnly(t, bag, diag.SemaFunctionBodyReturnMismatch)
}

func bumpFn(x *tree) ast.NodeID {
	return x.fn("bump", nil, []ast.FnArg{x.arg("n", x.typ("int"), true)}, ast.NoTypeID)
}

func TestInoutArgumentMustBeMutable(t *testing.T) {
	x := newTree(t)
	x.top(
		bumpFn(x),
		x.let("a", false, x.intLit("1")),
		x.expr(x.call("bump", inout(x.ident("a")))),
	)
	_, bag := x.check()
	expectOnly(t, bag, diag.SemaInOutValueIsntMut)
}

func TestInoutArgumentMustBeMarked(t *testing.T) {
	x := newTree(t)
	x.top(
		bumpFn(x),
		x.let("a", true, x.intLit("1")),
		x.expr(x.call("bump", plain(x.ident("a")))),
	)
	_, bag := x.check()
	expectOnly(t, bag, diag.SemaInOutBindingWithoutInOutValue)
}

func TestInoutArgumentForPlainParameter(t *testing.T) {
	x := newTree(t)
	x.top(
		x.fn("show", nil, []ast.FnArg{x.arg("n", x.typ("int"), false)}, ast.NoTypeID),
		x.let("a", true, x.intLit("1")),
		x.expr(x.call("show", inout(x.ident("a")))),
	)
	_, bag := x.check()
	expectOnly(t, bag, diag.SemaInOutValueWithoutInOutBinding)
}

func TestInoutAccessorReceiver(t *testing.T) {
	for _, mutable := range []bool{false, true} {
		x := newTree(t)
		target := x.typ("Counter")
		bump := x.fnDecl("bump", nil, []ast.FnArg{x.arg("self", x.typ("Counter"), true)}, ast.NoTypeID)
		fn, _ := x.b.Decls.Fn(bump)
		fn.Impl = target
		impl := x.b.Decls.NewImpl(x.sp(), ast.ImplDecl{Type: target, Body: x.block(ast.DeclNode(bump))})
		x.top(
			x.structDecl("Counter", nil),
			ast.DeclNode(impl),
			x.let("c", mutable, x.structLit(x.typ("Counter"))),
			x.expr(x.method(x.ident("c"), "bump")),
		)

		_, bag := x.check()
		if mutable {
			expectNoDiagnostics(t, bag)
		} else {
			expectOnly(t, bag, diag.SemaInOutValueIsntMut)
		}
	}
}

func TestIfWithoutElse(t *testing.T) {
	x := newTree(t)
	withValue := x.b.Exprs.NewIf(x.sp(), x.ident("c"), x.blockExpr(x.expr(x.intLit("5"))), ast.NoExprID)
	withUnit := x.b.Exprs.NewIf(x.sp(), x.ident("c"), x.blockExpr(x.expr(x.call("print"))), ast.NoExprID)
	x.top(
		x.fn("print", nil, nil, ast.NoTypeID),
		x.let("c", false, x.boolLit(true)),
		x.expr(withValue),
		x.expr(withUnit),
	)

	res, bag := x.check()
	expectOnly(t, bag, diag.SemaIfMissingElse)
	if got := x.typeName(res, withUnit); got != "()" {
		t.Fatalf("unit if type = %s", got)
	}
	if got := x.typeName(res, withValue); got != "{error}" {
		t.Fatalf("valued if without else must be ERROR, got %s", got)
	}
	if code := res.Errors[nodeOf(withValue)]; code != diag.SemaIfMissingElse {
		t.Fatalf("error recorded on the if node = %s", code.ID())
	}
}

func TestIfWithoutElseDoesNotCascade(t *testing.T) {
	x := newTree(t)
	cond := x.b.Exprs.NewIf(x.sp(), x.boolLit(true), x.blockExpr(x.expr(x.intLit("5"))), ast.NoExprID)
	x.top(x.letHint("v", x.typ("bool"), cond))

	_, bag := x.check()
	expectOnly(t, bag, diag.SemaIfMissingElse)
}

func TestIfElseBranches(t *testing.T) {
	x := newTree(t)
	ok := x.b.Exprs.NewIf(x.sp(), x.boolLit(true), x.intLit("1"), x.intLit("2"))
	diverging := x.b.Exprs.NewIf(x.sp(), x.boolLit(true), x.blockExpr(x.expr(x.b.Exprs.NewBreak(x.sp()))), x.strLit("s"))
	bad := x.b.Exprs.NewIf(x.sp(), x.boolLit(true), x.intLit("1"), x.boolLit(false))
	loop := x.b.Exprs.NewLoop(x.sp(), x.block(x.expr(diverging), x.expr(x.b.Exprs.NewBreak(x.sp()))))
	x.top(x.expr(ok), x.expr(loop), x.expr(bad))

	res, bag := x.check()
	expectOnly(t, bag, diag.SemaIfElseMismatch)
	if got := x.typeName(res, diverging); got != "str" {
		t.Fatalf("diverging then-branch should take else type, got %s", got)
	}
	if got := x.typeName(res, ok); got != "i64" {
		t.Fatalf("if type = %s", got)
	}
}

func TestIfConditionMustBeBool(t *testing.T) {
	x := newTree(t)
	inner := x.ident("missing")
	cond := x.b.Exprs.NewIf(x.sp(), x.intLit("1"), x.blockExpr(x.expr(inner)), ast.NoExprID)
	x.top(x.expr(cond))

	res, bag := x.check()
	if bag.Len() != 2 || bag.Count(diag.SemaConditionNotBool) != 1 || bag.Count(diag.SemaVariableNotFound) != 1 {
		t.Fatalf("expected condition and body diagnostics, got %d", bag.Len())
	}
	if _, ok := res.Exprs[inner]; !ok {
		t.Fatalf("body of a broken if should still be checked")
	}
}

func TestShadowingInNestedBlock(t *testing.T) {
	x := newTree(t)
	innerX := x.ident("x")
	outerX := x.ident("x")
	x.top(
		x.let("x", false, x.boolLit(true)),
		x.expr(x.blockExpr(x.let("x", false, x.intLit("1")), x.expr(innerX))),
		x.expr(outerX),
	)

	res, bag := x.check()
	expectNoDiagnostics(t, bag)
	if got := x.typeName(res, innerX); got != "i64" {
		t.Fatalf("inner x = %s, want i64", got)
	}
	if got := x.typeName(res, outerX); got != "bool" {
		t.Fatalf("outer x = %s, want bool", got)
	}
}

func TestFunctionDoesNotSeeCallerLocals(t *testing.T) {
	x := newTree(t)
	x.top(
		x.let("secret", false, x.intLit("1")),
		x.fn("peek", nil, nil, x.typ("int"), x.expr(x.ident("secret"))),
	)
	_, bag := x.check()
	expectOnly(t, bag, diag.SemaVariableNotFound)
}

func TestDuplicateNameReportedOnce(t *testing.T) {
	x := newTree(t)
	x.top(
		x.structDecl("P", nil),
		x.structDecl("P", nil),
		x.let("p", false, x.structLit(x.typ("P"))),
	)
	_, bag := x.check()
	expectOnly(t, bag, diag.SemaNameAlreadyDefined)
}

func TestReservedIteratorName(t *testing.T) {
	x := newTree(t)
	x.top(x.structDecl("__next__", nil))
	_, bag := x.check()
	expectOnly(t, bag, diag.SemaNameReservedForFunctions)
}

func TestBinaryOperators(t *testing.T) {
	x := newTree(t)
	sum := x.b.Exprs.NewBinary(x.sp(), ast.ExprBinaryAdd, x.intLit("1"), x.intLit("2"))
	cmp := x.b.Exprs.NewBinary(x.sp(), ast.ExprBinaryLt, x.intLit("1"), x.intLit("2"))
	bad := x.b.Exprs.NewBinary(x.sp(), ast.ExprBinaryAdd, x.boolLit(true), x.boolLit(false))
	// ошибка в операнде не порождает второй диагностики
	poisoned := x.b.Exprs.NewBinary(x.sp(), ast.ExprBinaryAdd, bad, x.intLit("3"))
	x.top(x.letHint("s", x.typ("u8"), sum), x.expr(cmp), x.expr(poisoned))

	res, bag := x.check()
	expectOnly(t, bag, diag.SemaInvalidBinaryOp)
	if got := x.typeName(res, sum); got != "u8" {
		t.Fatalf("literal sum should follow the hint, got %s", got)
	}
	if got := x.typeName(res, cmp); got != "bool" {
		t.Fatalf("comparison type = %s", got)
	}
	if res.Errors[ast.ExprNode(poisoned)] != diag.SemaBypass {
		t.Fatalf("parent of a failed operand should be bypassed, got %v", res.Errors[ast.ExprNode(poisoned)])
	}
}

func TestUnaryOperators(t *testing.T) {
	x := newTree(t)
	neg := x.b.Exprs.NewUnary(x.sp(), ast.ExprUnaryNeg, x.intLit("1"))
	not := x.b.Exprs.NewUnary(x.sp(), ast.ExprUnaryNot, x.boolLit(true))
	bad := x.b.Exprs.NewUnary(x.sp(), ast.ExprUnaryNeg, x.strLit("s"))
	x.top(x.letHint("n", x.typ("i32"), neg), x.expr(not), x.expr(bad))

	res, bag := x.check()
	expectOnly(t, bag, diag.SemaInvalidUnaryOp)
	if got := x.typeName(res, neg); got != "i32" {
		t.Fatalf("negation type = %s", got)
	}
}

func TestGenericStructLiteralInference(t *testing.T) {
	x := newTree(t)
	lit := x.structLit(x.typ("Box"), x.init("v", x.intLit("5")))
	access := x.fieldOf(x.ident("b"), "v")
	x.top(
		x.structDecl("Box", []string{"T"}, x.field("v", x.typ("T"))),
		x.let("b", false, lit),
		x.expr(access),
	)

	res, bag := x.check()
	expectNoDiagnostics(t, bag)
	if got := x.typeName(res, lit); got != "Box<i64>" {
		t.Fatalf("literal type = %s", got)
	}
	if got := x.typeName(res, access); got != "i64" {
		t.Fatalf("field type = %s", got)
	}
}

func TestStructLiteralFieldErrors(t *testing.T) {
	cases := []struct {
		name   string
		fields func(x *tree) []ast.StructFieldInit
		want   diag.Code
	}{
		{"missing", func(x *tree) []ast.StructFieldInit {
			return []ast.StructFieldInit{x.init("x", x.intLit("1"))}
		}, diag.SemaMissingFields},
		{"unknown", func(x *tree) []ast.StructFieldInit {
			return []ast.StructFieldInit{x.init("x", x.intLit("1")), x.init("y", x.intLit("2")), x.init("z", x.intLit("3"))}
		}, diag.SemaFieldDoesntExist},
		{"duplicate", func(x *tree) []ast.StructFieldInit {
			return []ast.StructFieldInit{x.init("x", x.intLit("1")), x.init("x", x.intLit("2"))}
		}, diag.SemaDuplicateField},
		{"mismatch", func(x *tree) []ast.StructFieldInit {
			return []ast.StructFieldInit{x.init("x", x.intLit("1")), x.init("y", x.boolLit(true))}
		}, diag.SemaTypeMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x := newTree(t)
			lit := x.structLit(x.typ("Point"), tc.fields(x)...)
			x.top(
				x.structDecl("Point", nil, x.field("x", x.typ("int")), x.field("y", x.typ("int"))),
				x.expr(lit),
			)
			res, bag := x.check()
			expectOnly(t, bag, tc.want)
			if res.Errors[ast.ExprNode(lit)] != tc.want {
				t.Fatalf("error not recorded on the literal")
			}
		})
	}
}

func TestStructLiteralOnEnum(t *testing.T) {
	x := newTree(t)
	x.top(x.enumDecl("E", "A"), x.expr(x.structLit(x.typ("E"))))
	_, bag := x.check()
	expectOnly(t, bag, diag.SemaStructLiteralOnNonStruct)
}

func TestEnumFieldAccessYieldsOption(t *testing.T) {
	x := newTree(t)
	access := x.fieldOf(x.ident("e"), "A")
	x.top(
		x.enumDecl("E", "A", "B"),
		x.fn("f", nil, []ast.FnArg{x.arg("e", x.typ("E"), false)}, x.b.Types.NewOption(x.sp(), x.unitType()), x.expr(access)),
	)
	res, bag := x.check()
	expectNoDiagnostics(t, bag)
	if got := x.typeName(res, access); got != "Option<()>" {
		t.Fatalf("variant access type = %s", got)
	}
}

func TestTupleDestructuring(t *testing.T) {
	x := newTree(t)
	names := func(n ...string) []ast.TupleBinding {
		out := make([]ast.TupleBinding, 0, len(n))
		for _, s := range n {
			out = append(out, ast.TupleBinding{Name: x.id(s), Span: x.sp()})
		}
		return out
	}
	pair := x.b.Exprs.NewTuple(x.sp(), []ast.ExprID{x.intLit("1"), x.boolLit(true)})
	b := x.ident("b")
	second := x.fieldOf(x.ident("t"), "1")
	x.top(
		ast.StmtNode(x.b.Stmts.NewLetTuple(x.sp(), names("a", "b"), ast.NoTypeID, pair)),
		x.expr(b),
		x.let("t", false, x.b.Exprs.NewTuple(x.sp(), []ast.ExprID{x.intLit("1"), x.strLit("s")})),
		x.expr(second),
		ast.StmtNode(x.b.Stmts.NewLetTuple(x.sp(), names("p", "q", "r"), ast.NoTypeID, x.ident("t"))),
	)

	res, bag := x.check()
	expectOnly(t, bag, diag.SemaTupleArityMismatch)
	if got := x.typeName(res, b); got != "bool" {
		t.Fatalf("b = %s, want bool", got)
	}
	if got := x.typeName(res, second); got != "str" {
		t.Fatalf("t.1 = %s, want str", got)
	}
	if got := x.typeName(res, pair); got != "(i64, bool)" {
		t.Fatalf("tuple type = %s", got)
	}
}

func TestForOverRange(t *testing.T) {
	x := newTree(t)
	i := x.ident("i")
	rng := x.b.Exprs.NewRange(x.sp(), x.intLit("0"), x.intLit("3"))
	loop := x.b.Stmts.NewFor(x.sp(), ast.ForBinding{Name: x.id("i"), Span: x.sp()}, false, rng, x.block(x.expr(i)))
	notIter := x.b.Stmts.NewFor(x.sp(), ast.ForBinding{Name: x.id("j"), Span: x.sp()}, false, x.boolLit(true), x.block())
	x.top(ast.StmtNode(loop), ast.StmtNode(notIter))

	res, bag := x.check()
	expectOnly(t, bag, diag.SemaValueIsntIterator)
	if got := x.typeName(res, i); got != "i64" {
		t.Fatalf("loop binding = %s, want i64", got)
	}
	if got := x.typeName(res, rng); got != "Range" {
		t.Fatalf("range type = %s", got)
	}
}

func TestForInoutNeedsMutableIterator(t *testing.T) {
	x := newTree(t)
	rng := x.b.Exprs.NewRange(x.sp(), x.intLit("0"), x.intLit("3"))
	loop := x.b.Stmts.NewFor(x.sp(), ast.ForBinding{Name: x.id("i"), Inout: true, Span: x.sp()}, true, x.ident("r"), x.block())
	x.top(x.let("r", true, rng), ast.StmtNode(loop))

	_, bag := x.check()
	expectOnly(t, bag, diag.SemaValueIsntMutableIterator)
}

func TestForInoutChecksAreIndependent(t *testing.T) {
	x := newTree(t)
	rng := x.b.Exprs.NewRange(x.sp(), x.intLit("0"), x.intLit("3"))
	loop := x.b.Stmts.NewFor(x.sp(), ast.ForBinding{Name: x.id("i"), Span: x.sp()}, true, x.ident("r"), x.block())
	x.top(x.let("r", false, rng), ast.StmtNode(loop))

	_, bag := x.check()
	for _, code := range []diag.Code{
		diag.SemaInOutValueIsntMut,
		diag.SemaInOutValueWithoutInOutBinding,
		diag.SemaValueIsntMutableIterator,
	} {
		if bag.Count(code) != 1 {
			t.Fatalf("expected one %s, got %d", code.ID(), bag.Count(code))
		}
	}
	if bag.Len() != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", bag.Len())
	}
}

func TestControlFlowOutsideContext(t *testing.T) {
	x := newTree(t)
	x.top(
		x.expr(x.b.Exprs.NewBreak(x.sp())),
		x.expr(x.b.Exprs.NewContinue(x.sp())),
		x.expr(x.b.Exprs.NewReturn(x.sp(), x.intLit("1"))),
		x.expr(x.b.Exprs.NewLoop(x.sp(), x.block(x.expr(x.b.Exprs.NewBreak(x.sp()))))),
	)
	_, bag := x.check()
	for _, code := range []diag.Code{diag.SemaBreakOutsideOfLoop, diag.SemaContinueOutsideOfLoop, diag.SemaOutsideOfFunction} {
		if bag.Count(code) != 1 {
			t.Fatalf("expected one %s", code.ID())
		}
	}
	if bag.Len() != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", bag.Len())
	}
}

func TestLoopDoesNotCrossFunction(t *testing.T) {
	x := newTree(t)
	inner := x.fn("inner", nil, nil, ast.NoTypeID, x.expr(x.b.Exprs.NewBreak(x.sp())))
	x.top(x.expr(x.b.Exprs.NewLoop(x.sp(), x.block(inner, x.expr(x.b.Exprs.NewBreak(x.sp()))))))
	_, bag := x.check()
	expectOnly(t, bag, diag.SemaBreakOutsideOfLoop)
}

func TestReturnTypeMismatch(t *testing.T) {
	x := newTree(t)
	ret := x.b.Exprs.NewReturn(x.sp(), x.boolLit(true))
	x.top(x.fn("f", nil, nil, x.typ("int"), x.expr(ret)))
	res, bag := x.check()
	expectOnly(t, bag, diag.SemaReturnTypeMismatch)
	if res.Errors[ast.ExprNode(ret)] != diag.SemaReturnTypeMismatch {
		t.Fatalf("error not recorded on return")
	}
}

func optionSome(x *tree, v ast.ExprID) ast.ExprID {
	return x.b.Exprs.NewWithinNamespace(x.sp(), source.StrOption, x.sp(), x.call("some", plain(v)))
}

func TestTryOperator(t *testing.T) {
	x := newTree(t)
	good := x.b.Exprs.NewOrReturn(x.sp(), optionSome(x, x.intLit("1")))
	optInt := x.b.Types.NewOption(x.sp(), x.typ("int"))
	x.top(
		x.fn("ok", nil, nil, optInt, x.let("v", false, good), x.expr(optionSome(x, x.ident("v")))),
		x.fn("bad", nil, nil, x.typ("int"), x.expr(x.b.Exprs.NewOrReturn(x.sp(), optionSome(x, x.intLit("1"))))),
	)
	res, bag := x.check()
	expectOnly(t, bag, diag.SemaFunctionDoesntReturnOption)
	if got := x.typeName(res, good); got != "i64" {
		t.Fatalf("try payload = %s", got)
	}
}

func TestTryOperatorShapeBeforeContext(t *testing.T) {
	x := newTree(t)
	notWrapper := x.b.Exprs.NewOrReturn(x.sp(), x.intLit("5"))
	x.top(x.expr(notWrapper))
	res, bag := x.check()
	expectOnly(t, bag, diag.SemaCantTry)
	if res.Errors[nodeOf(notWrapper)] != diag.SemaCantTry {
		t.Fatalf("error not recorded on the try node")
	}

	x = newTree(t)
	x.top(x.expr(x.b.Exprs.NewOrReturn(x.sp(), optionSome(x, x.intLit("1")))))
	_, bag = x.check()
	expectOnly(t, bag, diag.SemaOutsideOfFunction)
}

func TestUnwrapAndCast(t *testing.T) {
	x := newTree(t)
	unwrapped := x.b.Exprs.NewUnwrap(x.sp(), optionSome(x, x.strLit("s")))
	cast := x.b.Exprs.NewCast(x.sp(), x.intLit("1"), x.typ("f32"))
	x.top(
		x.expr(unwrapped),
		x.expr(cast),
		x.expr(x.b.Exprs.NewUnwrap(x.sp(), x.intLit("1"))),
		x.expr(x.b.Exprs.NewCast(x.sp(), x.strLit("s"), x.typ("int"))),
	)
	res, bag := x.check()
	if bag.Len() != 2 || bag.Count(diag.SemaCantUnwrap) != 1 || bag.Count(diag.SemaInvalidCast) != 1 {
		t.Fatalf("expected CantUnwrap and InvalidCast, got %d diagnostics", bag.Len())
	}
	if got := x.typeName(res, unwrapped); got != "str" {
		t.Fatalf("unwrap type = %s", got)
	}
	if got := x.typeName(res, cast); got != "f32" {
		t.Fatalf("cast type = %s", got)
	}
}

func TestCallErrors(t *testing.T) {
	x := newTree(t)
	x.top(
		x.fn("one", nil, []ast.FnArg{x.arg("n", x.typ("int"), false)}, ast.NoTypeID),
		x.structDecl("S", nil),
		x.expr(x.call("one")),
		x.expr(x.call("nope")),
		x.expr(x.call("S")),
		x.expr(x.call("one", plain(x.strLit("s")))),
	)
	_, bag := x.check()
	for _, code := range []diag.Code{diag.SemaFunctionArgsMismatch, diag.SemaFunctionNotFound, diag.SemaCallOnNonFunction, diag.SemaTypeMismatch} {
		if bag.Count(code) != 1 {
			t.Fatalf("expected one %s", code.ID())
		}
	}
}

func TestStartupAttribute(t *testing.T) {
	x := newTree(t)
	sys := x.fnDecl("boot", nil, nil, ast.NoTypeID)
	fn, _ := x.b.Decls.Fn(sys)
	fn.Sig.IsSystem = true
	plainFn := x.fnDecl("helper", nil, nil, ast.NoTypeID)
	attr := func(target ast.DeclID, name source.StringID) ast.NodeID {
		return ast.DeclNode(x.b.Decls.NewAttr(x.sp(), ast.AttrDecl{Attr: name, AttrSpan: x.sp(), Target: target}))
	}
	x.top(
		attr(sys, source.StrStartup),
		attr(plainFn, source.StrStartup),
	)

	res, bag := x.check()
	expectOnly(t, bag, diag.SemaInvalidAttrValue)
	if len(res.Startups) != 1 {
		t.Fatalf("expected one startup function, got %d", len(res.Startups))
	}
	if name := res.Table.Symbol(res.Startups[0]).Name; name != x.id("boot") {
		t.Fatalf("startup = %s", x.strings.MustLookup(name))
	}
}

func TestUnknownAttribute(t *testing.T) {
	x := newTree(t)
	target := x.fnDecl("f", nil, nil, ast.NoTypeID)
	x.top(ast.DeclNode(x.b.Decls.NewAttr(x.sp(), ast.AttrDecl{Attr: x.id("inline"), AttrSpan: x.sp(), Target: target})))
	_, bag := x.check()
	expectOnly(t, bag, diag.SemaUnknownAttr)
}

func TestModulesAndUses(t *testing.T) {
	x := newTree(t)
	mod := x.b.Decls.NewModule(x.sp(), ast.ModuleDecl{
		Name:   x.id("geo"),
		Header: x.sp(),
		Body:   x.block(x.structDecl("Point", nil, x.field("x", x.typ("int")))),
	})
	use := x.b.Decls.NewUse(x.sp(), ast.UseItem{Name: x.id("geo"), Kind: ast.UseList, Span: x.sp(), Items: []ast.UseItem{
		{Name: x.id("Point"), Kind: ast.UseBringName, Span: x.sp()},
	}})
	missing := x.b.Decls.NewUse(x.sp(), ast.UseItem{Name: x.id("nowhere"), Kind: ast.UseAll, Span: x.sp()})
	lit := x.structLit(x.typ("Point"), x.init("x", x.intLit("1")))
	qualified := x.structLit(x.b.Types.NewWithin(x.sp(), x.id("geo"), x.typ("Point")), x.init("x", x.intLit("2")))
	x.top(ast.DeclNode(mod), ast.DeclNode(use), ast.DeclNode(missing), x.expr(lit), x.expr(qualified))

	res, bag := x.check()
	expectOnly(t, bag, diag.SemaNamespaceNotFound)
	if got := x.typeName(res, lit); got != "geo::Point" {
		t.Fatalf("imported type = %s", got)
	}
	if got := x.typeName(res, qualified); got != "geo::Point" {
		t.Fatalf("qualified type = %s", got)
	}
}

func TestWildcardUse(t *testing.T) {
	x := newTree(t)
	inner := x.b.Decls.NewModule(x.sp(), ast.ModuleDecl{
		Name:   x.id("inner"),
		Header: x.sp(),
		Body:   x.block(x.structDecl("Deep", nil)),
	})
	geo := x.b.Decls.NewModule(x.sp(), ast.ModuleDecl{
		Name:   x.id("geo"),
		Header: x.sp(),
		Body: x.block(
			x.structDecl("Point", nil, x.field("x", x.typ("int"))),
			x.structDecl("Line", nil),
			ast.DeclNode(inner),
		),
	})
	all := x.b.Decls.NewUse(x.sp(), ast.UseItem{Name: x.id("geo"), Kind: ast.UseAll, Span: x.sp()})
	again := x.b.Decls.NewUse(x.sp(), ast.UseItem{Name: x.id("geo"), Kind: ast.UseList, Span: x.sp(), Items: []ast.UseItem{
		{Name: x.id("Point"), Kind: ast.UseBringName, Span: x.sp()},
	}})
	point := x.structLit(x.typ("Point"), x.init("x", x.intLit("1")))
	deep := x.structLit(x.b.Types.NewWithin(x.sp(), x.id("inner"), x.typ("Deep")))
	line := x.structLit(x.typ("Line"))
	x.top(
		ast.DeclNode(geo),
		x.structDecl("Line", nil),
		ast.DeclNode(all),
		ast.DeclNode(again),
		x.expr(point),
		x.expr(deep),
		x.expr(line),
	)

	res, bag := x.check()
	// повторный импорт того же Point молчит, конфликт только у Line
	expectOnly(t, bag, diag.SemaNameAlreadyDefined)
	if got := x.typeName(res, point); got != "geo::Point" {
		t.Fatalf("wildcard Point = %s", got)
	}
	if got := x.typeName(res, deep); got != "geo::inner::Deep" {
		t.Fatalf("wildcard namespace = %s", got)
	}
	if got := x.typeName(res, line); got != "Line" {
		t.Fatalf("local Line must win, got %s", got)
	}
}

func TestIteratorSignatureValidation(t *testing.T) {
	x := newTree(t)
	target := x.typ("Counter")
	next := x.fnDecl("__next__", nil, []ast.FnArg{x.arg("self", x.typ("Counter"), false)}, x.typ("int"), x.expr(x.intLit("0")))
	fn, _ := x.b.Decls.Fn(next)
	fn.Impl = target
	impl := x.b.Decls.NewImpl(x.sp(), ast.ImplDecl{Type: target, Body: x.block(ast.DeclNode(next))})
	x.top(x.structDecl("Counter", nil), ast.DeclNode(impl))

	_, bag := x.check()
	expectOnly(t, bag, diag.SemaIteratorInvalidSig)
}

func TestNestingTooDeepReportedOnce(t *testing.T) {
	x := newTree(t)
	e := x.intLit("1")
	for range 6 {
		e = x.b.Exprs.NewUnary(x.sp(), ast.ExprUnaryNeg, e)
	}
	x.top(x.expr(e))

	bag := diag.NewBag(0)
	res := Check(x.b, x.strings, x.file, Options{Reporter: diag.BagReporter{Bag: bag}, MaxDepth: 3})
	expectOnly(t, bag, diag.SemaNestingTooDeep)
	if !res.Table.IsError(res.Value.Type) {
		t.Fatalf("too deep expression should evaluate to ERROR")
	}
}

func TestAssignmentRules(t *testing.T) {
	x := newTree(t)
	assign := func(target string, value ast.ExprID) ast.NodeID {
		return ast.StmtNode(x.b.Stmts.NewAssign(x.sp(), x.ident(target), value))
	}
	x.top(
		x.let("a", false, x.intLit("1")),
		x.let("b", true, x.intLit("1")),
		assign("a", x.intLit("2")),
		assign("b", x.intLit("2")),
		assign("b", x.boolLit(true)),
	)
	_, bag := x.check()
	if bag.Len() != 2 || bag.Count(diag.SemaValueUpdateNotMut) != 1 || bag.Count(diag.SemaTypeMismatch) != 1 {
		t.Fatalf("expected ValueUpdateNotMut and TypeMismatch, got %d", bag.Len())
	}
}

func TestLetHintMismatchBindsHint(t *testing.T) {
	x := newTree(t)
	use := x.ident("v")
	x.top(x.letHint("v", x.typ("bool"), x.intLit("1")), x.expr(use))
	res, bag := x.check()
	expectOnly(t, bag, diag.SemaVariableHintMismatch)
	if got := x.typeName(res, use); got != "bool" {
		t.Fatalf("variable should take the hint type, got %s", got)
	}
}

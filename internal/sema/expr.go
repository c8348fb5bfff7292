package sema

import (
	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
	"margarine/internal/trace"
)

// expr evaluates one expression and records its result. A failed
// expression is recorded as ERROR so its parents stay quiet.
func (tc *typeChecker) expr(path source.StringID, scope symbols.ScopeID, id ast.ExprID) AnalysisResult {
	e := tc.builder.Exprs.Get(id)
	if e == nil {
		return errorResult()
	}

	tc.exprDepth++
	defer func() { tc.exprDepth-- }()
	if tc.exprDepth > tc.maxDepth {
		d := fail(errorf(diag.SemaNestingTooDeep, e.Span).WithCounts(tc.exprDepth, tc.maxDepth))
		if tc.depthReported {
			_, d = bypass()
		}
		tc.depthReported = true
		tc.error(nodeOf(id), d)
		tc.result.Exprs[id] = errorResult()
		return errorResult()
	}

	var span *trace.Span
	if tc.tracer != nil && tc.tracer.Level() >= trace.LevelDebug {
		span = trace.Begin(tc.tracer, trace.ScopeNode, "expr_"+e.Kind.String(), 0)
	}

	res, d := tc.exprKind(path, scope, id, e)
	if d != nil {
		tc.error(nodeOf(id), d)
		res = errorResult()
	}
	tc.result.Exprs[id] = res

	if span != nil {
		span.WithExtra("type", tc.table.TypeName(res.Type))
		span.End("")
	}
	return res
}

// walk evaluates expressions whose results are not needed, so every node
// of a failed parent still gets a recorded type.
func (tc *typeChecker) walk(path source.StringID, scope symbols.ScopeID, ids ...ast.ExprID) {
	for _, id := range ids {
		if id.IsValid() {
			tc.expr(path, scope, id)
		}
	}
}

func (tc *typeChecker) exprKind(path source.StringID, scope symbols.ScopeID, id ast.ExprID, e *ast.Expr) (AnalysisResult, *diag.Diagnostic) {
	exprs := tc.builder.Exprs
	switch e.Kind {
	case ast.ExprUnit:
		return unitResult(), nil

	case ast.ExprLit:
		lit, _ := exprs.Literal(id)
		switch lit.Kind {
		case ast.ExprLitInt:
			return value(tc.table.NewVar(e.Span, symbols.VarInteger)), nil
		case ast.ExprLitFloat:
			return value(tc.table.NewVar(e.Span, symbols.VarFloat)), nil
		case ast.ExprLitString:
			return value(symbols.TyStr), nil
		default:
			return value(symbols.TyBool), nil
		}

	case ast.ExprIdent:
		ident, _ := exprs.Ident(id)
		return tc.ident(scope, e.Span, ident.Name)

	case ast.ExprDeref:
		w, _ := exprs.Wrap(id)
		return tc.deref(path, scope, w.Value)

	case ast.ExprRange:
		r, _ := exprs.Range(id)
		return tc.rangeExpr(path, scope, r)

	case ast.ExprBinary:
		b, _ := exprs.Binary(id)
		return tc.binary(path, scope, e.Span, b)

	case ast.ExprUnary:
		u, _ := exprs.Unary(id)
		return tc.unary(path, scope, e.Span, u)

	case ast.ExprIf:
		data, _ := exprs.If(id)
		return tc.ifExpr(path, scope, data)

	case ast.ExprMatch:
		m, _ := exprs.Match(id)
		return tc.match(path, scope, e.Span, m)

	case ast.ExprBlock:
		b, _ := exprs.Block(id)
		return tc.block(path, scope, b.Block), nil

	case ast.ExprLoop:
		b, _ := exprs.Block(id)
		tc.block(path, tc.table.Scopes.PushLoop(scope), b.Block)
		return unitResult(), nil

	case ast.ExprStruct:
		s, _ := exprs.Struct(id)
		return tc.structLiteral(path, scope, id, e.Span, s)

	case ast.ExprField:
		f, _ := exprs.Field(id)
		return tc.fieldAccess(path, scope, e.Span, f)

	case ast.ExprCall:
		c, _ := exprs.Call(id)
		return tc.call(path, scope, id, e.Span, c)

	case ast.ExprWithinNamespace:
		w, _ := exprs.Within(id)
		nsID, poisoned, ok := tc.table.FindNS(scope, w.Namespace)
		if !ok {
			tc.walkDetached(path, w.Action)
			return errorResult(), errNamespaceNotFound(w.NamespaceSpan, w.Namespace)
		}
		if poisoned {
			tc.walkDetached(path, w.Action)
			return bypass()
		}
		return tc.expr(path, tc.table.Scopes.PushNamespace(scope, nsID), w.Action), nil

	case ast.ExprWithinType:
		w, _ := exprs.Within(id)
		ty, d := tc.dtToTy(scope, w.Type)
		if d != nil {
			tc.walkDetached(path, w.Action)
			return errorResult(), d
		}
		sym, ok := tc.table.SymbolOf(ty)
		if !ok || tc.table.IsBottom(ty) {
			tc.walkDetached(path, w.Action)
			return bypass()
		}
		inner := tc.table.Scopes.PushNamespace(scope, tc.table.Symbol(sym).Namespace)
		return tc.expr(path, inner, w.Action), nil

	case ast.ExprReturn:
		w, _ := exprs.Wrap(id)
		return tc.returnExpr(path, scope, e.Span, w.Value)

	case ast.ExprContinue:
		if !tc.table.Scopes.FindLoop(scope) {
			return errorResult(), fail(errorf(diag.SemaContinueOutsideOfLoop, e.Span))
		}
		return neverResult(), nil

	case ast.ExprBreak:
		if !tc.table.Scopes.FindLoop(scope) {
			return errorResult(), fail(errorf(diag.SemaBreakOutsideOfLoop, e.Span))
		}
		return neverResult(), nil

	case ast.ExprTuple:
		t, _ := exprs.Tuple(id)
		return tc.tuple(path, scope, t), nil

	case ast.ExprCast:
		c, _ := exprs.Cast(id)
		return tc.cast(path, scope, e.Span, c)

	case ast.ExprUnwrap:
		w, _ := exprs.Wrap(id)
		return tc.unwrap(path, scope, e.Span, w.Value)

	case ast.ExprOrReturn:
		w, _ := exprs.Wrap(id)
		return tc.orReturn(path, scope, e.Span, w.Value)
	}
	return errorResult(), fail(errorf(diag.UnknownCode, e.Span).WithDetail("unknown expression kind " + e.Kind.String()))
}

// walkDetached evaluates an action whose qualifier failed to resolve. The
// lookups inside cannot succeed, so its diagnostics are swallowed.
func (tc *typeChecker) walkDetached(path source.StringID, id ast.ExprID) {
	saved := tc.reporter
	tc.reporter = nil
	tc.walk(path, symbols.NoScopeID, id)
	tc.reporter = saved
}

func (tc *typeChecker) ident(scope symbols.ScopeID, span source.Span, name source.StringID) (AnalysisResult, *diag.Diagnostic) {
	if v, ok := tc.table.Scopes.FindVar(scope, name); ok {
		return AnalysisResult{Type: v.Type, Mutable: v.Mutable}, nil
	}
	if _, ok := tc.table.Scopes.FindGeneric(scope, name); ok {
		return errorResult(), fail(errorf(diag.SemaNotAValue, span).WithName(name))
	}
	if e, ok := tc.table.FindSym(scope, name); ok {
		if e.Err {
			return bypass()
		}
		return errorResult(), fail(errorf(diag.SemaNotAValue, span).WithName(name))
	}
	return errorResult(), fail(errorf(diag.SemaVariableNotFound, span).WithName(name))
}

func (tc *typeChecker) deref(path source.StringID, scope symbols.ScopeID, inner ast.ExprID) (AnalysisResult, *diag.Diagnostic) {
	v := tc.expr(path, scope, inner)
	if res, d, stop := tc.bottom(v.Type); stop {
		return res, d
	}
	at := tc.exprSpan(inner)
	sym, d := tc.symbolOf(v.Type, at)
	if d != nil {
		return errorResult(), d
	}
	if sym != symbols.SymPtr {
		return errorResult(), fail(errorf(diag.SemaDerefOnNonPtr, at).WithTypes(v.Type))
	}
	payload, ok := tc.table.GenOf(v.Type, source.StrT)
	if !ok {
		return bypass()
	}
	return AnalysisResult{Type: payload, Mutable: v.Mutable}, nil
}

func (tc *typeChecker) rangeExpr(path source.StringID, scope symbols.ScopeID, r *ast.ExprRangeData) (AnalysisResult, *diag.Diagnostic) {
	lo := tc.expr(path, scope, r.Lo)
	hi := tc.expr(path, scope, r.Hi)
	for _, side := range []struct {
		id  ast.ExprID
		res AnalysisResult
	}{{r.Lo, lo}, {r.Hi, hi}} {
		if res, d, stop := tc.bottom(side.res.Type); stop {
			return res, d
		}
		if !tc.table.Eq(side.res.Type, symbols.TyInt) {
			return errorResult(), fail(errorf(diag.SemaInvalidRange, tc.exprSpan(side.id)).WithTypes(side.res.Type))
		}
	}
	return value(symbols.TyRange), nil
}

func (tc *typeChecker) binary(path source.StringID, scope symbols.ScopeID, span source.Span, b *ast.ExprBinaryData) (AnalysisResult, *diag.Diagnostic) {
	lhs := tc.expr(path, scope, b.Left)
	rhs := tc.expr(path, scope, b.Right)
	same := tc.table.Eq(lhs.Type, rhs.Type)

	for _, side := range [...]AnalysisResult{lhs, rhs} {
		if res, d, stop := tc.bottom(side.Type); stop {
			return res, d
		}
	}
	if _, ok := tc.table.Peek(lhs.Type); !ok {
		return errorResult(), fail(errorf(diag.SemaCannotInferType, tc.exprSpan(b.Left)))
	}

	var need symbols.Caps
	switch {
	case b.Op.IsArith():
		need = symbols.CapArith
	case b.Op.IsBitwise():
		need = symbols.CapBitwise
	case b.Op.IsOrdering():
		need = symbols.CapOrdering
	default:
		need = symbols.CapEquality
	}
	if !same || !tc.table.Caps(lhs.Type).Has(need) {
		return errorResult(), fail(errorf(diag.SemaInvalidBinaryOp, span).
			WithTypes(lhs.Type, rhs.Type).
			WithDetail(b.Op.String()))
	}
	if b.Op.IsComparison() {
		return value(symbols.TyBool), nil
	}
	return value(lhs.Type), nil
}

func (tc *typeChecker) unary(path source.StringID, scope symbols.ScopeID, span source.Span, u *ast.ExprUnaryData) (AnalysisResult, *diag.Diagnostic) {
	v := tc.expr(path, scope, u.Operand)
	if res, d, stop := tc.bottom(v.Type); stop {
		return res, d
	}
	sym, ok := tc.table.Peek(v.Type)
	if !ok {
		return errorResult(), fail(errorf(diag.SemaCannotInferType, tc.exprSpan(u.Operand)))
	}
	switch u.Op {
	case ast.ExprUnaryNot:
		ok = sym == symbols.SymBool
	case ast.ExprUnaryNeg:
		ok = sym.IsSignedInt() || sym.IsFloat()
	}
	if !ok {
		return errorResult(), fail(errorf(diag.SemaInvalidUnaryOp, span).
			WithTypes(v.Type).
			WithDetail(u.Op.String()))
	}
	return value(v.Type), nil
}

func (tc *typeChecker) tuple(path source.StringID, scope symbols.ScopeID, t *ast.ExprTupleData) AnalysisResult {
	elems := make([]symbols.Sym, 0, len(t.Elements))
	for _, el := range t.Elements {
		elems = append(elems, tc.expr(path, scope, el).Type)
	}
	return value(tc.table.Instantiate(tc.table.TupleSymbol(len(elems)), elems...))
}

func (tc *typeChecker) cast(path source.StringID, scope symbols.ScopeID, span source.Span, c *ast.ExprCastData) (AnalysisResult, *diag.Diagnostic) {
	v := tc.expr(path, scope, c.Value)
	target, d := tc.dtToTy(scope, c.Type)
	if d != nil {
		return errorResult(), d
	}
	switch {
	case tc.table.IsBottom(v.Type) || tc.table.IsBottom(target):
	case tc.table.Eq(v.Type, target):
	case tc.table.IsNum(v.Type) && tc.table.IsNum(target):
	default:
		return errorResult(), fail(errorf(diag.SemaInvalidCast, span).WithTypes(v.Type, target))
	}
	return value(target), nil
}

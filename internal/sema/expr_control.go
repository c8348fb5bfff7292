package sema

import (
	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

// ifExpr checks `if cond { then } else { else }`. Both branches are walked
// even when the condition is broken. A diverging then-branch takes the type
// of the else-branch. A valued if without else is an error itself.
func (tc *typeChecker) ifExpr(path source.StringID, scope symbols.ScopeID, data *ast.ExprIfData) (AnalysisResult, *diag.Diagnostic) {
	cond := tc.expr(path, scope, data.Cond)
	var condErr *diag.Diagnostic
	switch {
	case tc.table.IsError(cond.Type):
		_, condErr = bypass()
	case tc.table.IsNever(cond.Type):
	case !tc.table.Eq(cond.Type, symbols.TyBool):
		condErr = fail(errorf(diag.SemaConditionNotBool, tc.exprSpan(data.Cond)).WithTypes(cond.Type, symbols.TyBool))
	}

	then := tc.expr(path, scope, data.Then)
	result := then.Type

	var missingElse *diag.Diagnostic
	if data.Else.IsValid() {
		els := tc.expr(path, scope, data.Else)
		switch {
		case tc.table.IsBottom(result):
			result = els.Type
		case !tc.table.Eq(els.Type, result):
			tc.error(nodeOf(data.Else), fail(errorf(diag.SemaIfElseMismatch, tc.exprSpan(data.Else)).
				WithSpan(tc.exprSpan(data.Then)).
				WithTypes(els.Type, result)))
		}
	} else {
		if tc.table.IsBottom(result) {
			result = symbols.TyUnit
		}
		if tc.table.Ne(result, symbols.TyUnit) {
			missingElse = fail(errorf(diag.SemaIfMissingElse, tc.exprSpan(data.Cond).Cover(tc.exprSpan(data.Then))).
				WithSpan(tc.exprSpan(data.Then)).
				WithTypes(result))
		}
	}

	if condErr != nil {
		return errorResult(), condErr
	}
	if missingElse != nil {
		return errorResult(), missingElse
	}
	if tc.table.IsNever(cond.Type) {
		return neverResult(), nil
	}
	return value(result), nil
}

func (tc *typeChecker) returnExpr(path source.StringID, scope symbols.ScopeID, span source.Span, val ast.ExprID) (AnalysisResult, *diag.Diagnostic) {
	ty := symbols.TyUnit
	if val.IsValid() {
		ty = tc.expr(path, scope, val).Type
	}
	fn, ok := tc.table.Scopes.FindFunc(scope)
	if !ok {
		return errorResult(), errOutsideOfFunction(span)
	}
	if tc.table.IsError(ty) {
		return bypass()
	}
	if !tc.table.Eq(ty, fn.Ret) {
		at := span
		if val.IsValid() {
			at = tc.exprSpan(val)
		}
		return errorResult(), fail(errorf(diag.SemaReturnTypeMismatch, at).
			WithSpan(fn.RetSpan).
			WithTypes(ty, fn.Ret))
	}
	return neverResult(), nil
}

// payloadOf resolves Option<T> / Result<T, E> operands shared by unwrap and
// the try operator.
func (tc *typeChecker) payloadOf(path source.StringID, scope symbols.ScopeID, val ast.ExprID) (AnalysisResult, symbols.SymbolID, *diag.Diagnostic, bool) {
	v := tc.expr(path, scope, val)
	if res, d, stop := tc.bottom(v.Type); stop {
		return res, symbols.NoSymbolID, d, true
	}
	sym, d := tc.symbolOf(v.Type, tc.exprSpan(val))
	if d != nil {
		return errorResult(), symbols.NoSymbolID, d, true
	}
	return v, sym, nil, false
}

func (tc *typeChecker) unwrap(path source.StringID, scope symbols.ScopeID, span source.Span, val ast.ExprID) (AnalysisResult, *diag.Diagnostic) {
	v, sym, d, stop := tc.payloadOf(path, scope, val)
	if stop {
		return v, d
	}
	if sym != symbols.SymOption && sym != symbols.SymResult {
		return errorResult(), fail(errorf(diag.SemaCantUnwrap, span).WithTypes(v.Type))
	}
	payload, ok := tc.table.GenOf(v.Type, source.StrT)
	if !ok {
		return bypass()
	}
	return AnalysisResult{Type: payload, Mutable: v.Mutable}, nil
}

// orReturn checks the try operator `value?`: the none/err case returns
// early from the enclosing function, which must return the same wrapper.
func (tc *typeChecker) orReturn(path source.StringID, scope symbols.ScopeID, span source.Span, val ast.ExprID) (AnalysisResult, *diag.Diagnostic) {
	v, sym, d, stop := tc.payloadOf(path, scope, val)
	if stop {
		return v, d
	}
	if sym != symbols.SymOption && sym != symbols.SymResult {
		return errorResult(), fail(errorf(diag.SemaCantTry, span).WithTypes(v.Type))
	}
	fn, ok := tc.table.Scopes.FindFunc(scope)
	if !ok {
		return errorResult(), errOutsideOfFunction(span)
	}
	payload, _ := tc.table.GenOf(v.Type, source.StrT)
	if tc.table.IsBottom(fn.Ret) {
		return value(payload), nil
	}
	retSym, _ := tc.table.SymbolOf(fn.Ret)

	switch sym {
	case symbols.SymOption:
		if retSym != symbols.SymOption {
			return errorResult(), fail(errorf(diag.SemaFunctionDoesntReturnOption, span).
				WithSpan(fn.RetSpan).
				WithTypes(fn.Ret))
		}
	case symbols.SymResult:
		if retSym != symbols.SymResult {
			return errorResult(), fail(errorf(diag.SemaFunctionDoesntReturnResult, span).
				WithSpan(fn.RetSpan).
				WithTypes(fn.Ret))
		}
		valErr, _ := tc.table.GenOf(v.Type, source.StrE)
		retErr, _ := tc.table.GenOf(fn.Ret, source.StrE)
		if !tc.table.Eq(valErr, retErr) {
			return errorResult(), fail(errorf(diag.SemaResultErrMismatch, span).
				WithSpan(fn.RetSpan).
				WithTypes(valErr, retErr))
		}
	}
	return value(payload), nil
}

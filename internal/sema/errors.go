package sema

import (
	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

func fail(d diag.Diagnostic) *diag.Diagnostic { return &d }

func errorf(code diag.Code, span source.Span) diag.Diagnostic {
	return diag.NewError(code, span)
}

var bypassDiag = diag.Diagnostic{Severity: diag.SevError, Code: diag.SemaBypass}

func unitResult() AnalysisResult  { return AnalysisResult{Type: symbols.TyUnit, Mutable: true} }
func errorResult() AnalysisResult { return AnalysisResult{Type: symbols.TyError, Mutable: true} }
func neverResult() AnalysisResult { return AnalysisResult{Type: symbols.TyNever, Mutable: true} }

func value(ty symbols.Sym) AnalysisResult { return AnalysisResult{Type: ty, Mutable: true} }

// bypass poisons the node without a new diagnostic.
func bypass() (AnalysisResult, *diag.Diagnostic) {
	d := bypassDiag
	return errorResult(), &d
}

// bottom short-circuits on ERROR and NEVER operands. ok is false when ty is
// neither and evaluation should continue.
func (tc *typeChecker) bottom(ty symbols.Sym) (res AnalysisResult, d *diag.Diagnostic, ok bool) {
	switch {
	case tc.table.IsError(ty):
		res, d = bypass()
		return res, d, true
	case tc.table.IsNever(ty):
		return neverResult(), nil, true
	}
	return AnalysisResult{}, nil, false
}

// symbolOf resolves ty to a symbol or explains why inference is stuck.
func (tc *typeChecker) symbolOf(ty symbols.Sym, at source.Span) (symbols.SymbolID, *diag.Diagnostic) {
	id, ok := tc.table.SymbolOf(ty)
	if !ok {
		d := errorf(diag.SemaCannotInferType, at)
		if sp, has := tc.table.VarSpan(ty); has {
			d = d.WithSpan(sp)
		}
		return symbols.NoSymbolID, fail(d)
	}
	return id, nil
}

func errNameAlreadyDefined(at source.Span, name source.StringID) *diag.Diagnostic {
	return fail(errorf(diag.SemaNameAlreadyDefined, at).WithName(name))
}

func errNamespaceNotFound(at source.Span, name source.StringID) *diag.Diagnostic {
	return fail(errorf(diag.SemaNamespaceNotFound, at).WithName(name))
}

func errTypeMismatch(at source.Span, found, expected symbols.Sym) *diag.Diagnostic {
	return fail(errorf(diag.SemaTypeMismatch, at).WithTypes(found, expected))
}

func errUnknownGeneric(err error, fallback source.Span) *diag.Diagnostic {
	if ug, ok := err.(*symbols.UnknownGenericError); ok {
		at := ug.Span
		if at == (source.Span{}) {
			at = fallback
		}
		return fail(errorf(diag.SemaUnknownGeneric, at).WithName(ug.Name))
	}
	return fail(errorf(diag.SemaUnknownGeneric, fallback).WithDetail(err.Error()))
}

func errFieldDoesntExist(at source.Span, name source.StringID, ty symbols.Sym) *diag.Diagnostic {
	return fail(errorf(diag.SemaFieldDoesntExist, at).WithName(name).WithTypes(ty))
}

func errInOut(code diag.Code, at source.Span) *diag.Diagnostic {
	return fail(errorf(code, at))
}

func errOutsideOfFunction(at source.Span) *diag.Diagnostic {
	return fail(errorf(diag.SemaOutsideOfFunction, at))
}

// nodeOf wraps an expression id for Errors keys.
func nodeOf(id ast.ExprID) ast.NodeID { return ast.ExprNode(id) }

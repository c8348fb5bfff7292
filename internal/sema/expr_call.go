package sema

import (
	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

// call checks a call. Accessor calls (`value.method(...)`) find the callee
// in the namespace of the receiver's type; the receiver is argument 0.
// Callee generics are inferred by unifying each argument with a fresh
// variable per generic parameter.
func (tc *typeChecker) call(path source.StringID, scope symbols.ScopeID, id ast.ExprID, span source.Span, c *ast.ExprCallData) (AnalysisResult, *diag.Diagnostic) {
	args := make([]AnalysisResult, len(c.Args))
	for i, a := range c.Args {
		args[i] = tc.expr(path, scope, a.Value)
	}

	var (
		entry symbols.NSEntry
		found bool
	)
	if c.Accessor && len(args) > 0 {
		recv := args[0].Type
		if res, d, stop := tc.bottom(recv); stop {
			return res, d
		}
		sym, d := tc.symbolOf(recv, tc.exprSpan(c.Args[0].Value))
		if d != nil {
			return errorResult(), d
		}
		entry, found = tc.table.Namespaces.Get(tc.table.Symbol(sym).Namespace).Sym(c.Name)
	} else {
		entry, found = tc.table.FindSym(scope, c.Name)
	}
	if !found {
		return errorResult(), fail(errorf(diag.SemaFunctionNotFound, span).WithName(c.Name))
	}
	if entry.Err {
		return bypass()
	}
	callee := *tc.table.Symbol(entry.Symbol)
	if callee.Kind != symbols.SymbolFunction {
		return errorResult(), fail(errorf(diag.SemaCallOnNonFunction, span).WithName(c.Name))
	}
	fn := callee.Function
	if len(args) != len(fn.Args) {
		return errorResult(), fail(errorf(diag.SemaFunctionArgsMismatch, span).
			WithName(c.Name).
			WithCounts(len(args), len(fn.Args)))
	}

	gens := make([]symbols.GenBinding, 0, len(callee.Generics))
	for _, g := range callee.Generics {
		gens = append(gens, symbols.GenBinding{Name: g, Sym: tc.table.NewVar(span, symbols.VarPlain)})
	}
	ret, err := tc.table.ToTy(fn.Ret, gens)
	if err != nil {
		return errorResult(), errUnknownGeneric(err, span)
	}

	node := nodeOf(id)
	for i, param := range fn.Args {
		want, err := tc.table.ToTy(param.Type, gens)
		if err != nil {
			return errorResult(), errUnknownGeneric(err, span)
		}
		arg := args[i]
		argSpan := tc.exprSpan(c.Args[i].Value)
		if !tc.table.Eq(arg.Type, want) {
			tc.error(node, errTypeMismatch(argSpan, arg.Type, want))
		}

		inout := c.Args[i].Inout || (c.Accessor && i == 0 && param.Inout)
		switch {
		case inout && !param.Inout:
			tc.error(node, errInOut(diag.SemaInOutValueWithoutInOutBinding, argSpan))
		case inout && !arg.Mutable:
			tc.error(node, errInOut(diag.SemaInOutValueIsntMut, argSpan))
		case !inout && param.Inout:
			tc.error(node, errInOut(diag.SemaInOutBindingWithoutInOutValue, argSpan))
		}
	}

	tc.result.Calls[id] = CallInfo{Func: entry.Symbol, Gens: tc.table.AddGens(gens)}
	return value(ret), nil
}

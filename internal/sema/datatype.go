package sema

import (
	"slices"

	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

// dtToGen resolves a written type into a Generic. Names listed in generics
// become generic parameters; everything else is looked up from scope.
func (tc *typeChecker) dtToGen(scope symbols.ScopeID, id ast.TypeID, generics []source.StringID) (symbols.Generic, *diag.Diagnostic) {
	return tc.dtToGenIn(scope, symbols.NoNamespaceID, id, generics, false)
}

// dtToGenOpen is dtToGen that leaves the generic parameters of a bare named
// type open (as GenVar of the parameter name) instead of reporting a count
// mismatch. Struct literals infer them.
func (tc *typeChecker) dtToGenOpen(scope symbols.ScopeID, id ast.TypeID) (symbols.Generic, *diag.Diagnostic) {
	return tc.dtToGenIn(scope, symbols.NoNamespaceID, id, nil, true)
}

// dtToTy resolves a written type in value position.
func (tc *typeChecker) dtToTy(scope symbols.ScopeID, id ast.TypeID) (symbols.Sym, *diag.Diagnostic) {
	gen, d := tc.dtToGen(scope, id, nil)
	if d != nil {
		return symbols.TyError, d
	}
	ty, err := tc.table.ToTy(gen, nil)
	if err != nil {
		return symbols.TyError, errUnknownGeneric(err, tc.typeSpan(id))
	}
	return ty, nil
}

// dtToGenIn does the work of dtToGen. A valid within restricts the lookup
// of the outermost name to that namespace; type arguments are always
// resolved from scope.
func (tc *typeChecker) dtToGenIn(scope symbols.ScopeID, within symbols.NamespaceID, id ast.TypeID, generics []source.StringID, open bool) (symbols.Generic, *diag.Diagnostic) {
	te := tc.builder.Types.Get(id)
	if te == nil {
		return symbols.GenSym(source.Span{}, symbols.SymUnit), nil
	}
	switch te.Kind {
	case ast.TypeUnit:
		return symbols.GenSym(te.Span, symbols.SymUnit), nil
	case ast.TypeNever:
		return symbols.GenSym(te.Span, symbols.SymNever), nil

	case ast.TypeNamed:
		return tc.namedToGen(scope, within, te, generics, open)

	case ast.TypeWithin:
		var (
			nsID     symbols.NamespaceID
			poisoned bool
			ok       bool
		)
		if within.IsValid() {
			nsID, poisoned, ok = tc.childNS(within, te.Name)
		} else {
			nsID, poisoned, ok = tc.table.FindNS(scope, te.Name)
		}
		if !ok {
			return symbols.GenError(te.Span), errNamespaceNotFound(te.Span, te.Name)
		}
		if poisoned {
			_, d := bypass()
			return symbols.GenError(te.Span), d
		}
		if len(te.Args) != 1 {
			return symbols.GenError(te.Span), fail(errorf(diag.SemaNotAType, te.Span).WithName(te.Name))
		}
		return tc.dtToGenIn(scope, nsID, te.Args[0], generics, open)

	case ast.TypeTuple:
		tuple := tc.table.TupleSymbol(len(te.Args))
		names := tc.table.Symbol(tuple).Generics
		args := make([]symbols.GenericArg, 0, len(te.Args))
		for i, a := range te.Args {
			g, d := tc.dtToGenIn(scope, symbols.NoNamespaceID, a, generics, false)
			if d != nil {
				return symbols.GenError(te.Span), d
			}
			args = append(args, symbols.GenericArg{Name: names[i], Gen: g})
		}
		return symbols.GenSym(te.Span, tuple, args...), nil

	case ast.TypeOption:
		inner, d := tc.dtToGenIn(scope, symbols.NoNamespaceID, te.Args[0], generics, false)
		if d != nil {
			return symbols.GenError(te.Span), d
		}
		return symbols.GenSym(te.Span, symbols.SymOption, symbols.GenericArg{Name: source.StrT, Gen: inner}), nil

	case ast.TypeResult:
		ok, d := tc.dtToGenIn(scope, symbols.NoNamespaceID, te.Args[0], generics, false)
		if d != nil {
			return symbols.GenError(te.Span), d
		}
		errTy, d := tc.dtToGenIn(scope, symbols.NoNamespaceID, te.Args[1], generics, false)
		if d != nil {
			return symbols.GenError(te.Span), d
		}
		return symbols.GenSym(te.Span, symbols.SymResult,
			symbols.GenericArg{Name: source.StrT, Gen: ok},
			symbols.GenericArg{Name: source.StrE, Gen: errTy},
		), nil
	}
	return symbols.GenError(te.Span), fail(errorf(diag.SemaNotAType, te.Span))
}

func (tc *typeChecker) namedToGen(scope symbols.ScopeID, within symbols.NamespaceID, te *ast.TypeExpr, generics []source.StringID, open bool) (symbols.Generic, *diag.Diagnostic) {
	var (
		entry symbols.NSEntry
		found bool
	)
	if within.IsValid() {
		entry, found = tc.table.Namespaces.Get(within).Sym(te.Name)
	} else {
		if slices.Contains(generics, te.Name) {
			if len(te.Args) > 0 {
				return symbols.GenError(te.Span), fail(errorf(diag.SemaGenericCountMismatch, te.Span).WithName(te.Name).WithCounts(len(te.Args), 0))
			}
			return symbols.GenVar(te.Span, te.Name), nil
		}
		// параметр объемлющей функции: плейсхолдер, привязанный в кадре generics
		if g, ok := tc.table.Scopes.FindGeneric(scope, te.Name); ok && g.Symbol.IsValid() {
			if len(te.Args) > 0 {
				return symbols.GenError(te.Span), fail(errorf(diag.SemaGenericCountMismatch, te.Span).WithName(te.Name).WithCounts(len(te.Args), 0))
			}
			return symbols.GenSym(te.Span, g.Symbol), nil
		}
		entry, found = tc.table.FindSym(scope, te.Name)
	}
	if !found {
		return symbols.GenError(te.Span), fail(errorf(diag.SemaTypeNotFound, te.Span).WithName(te.Name))
	}
	if entry.Err {
		_, d := bypass()
		return symbols.GenError(te.Span), d
	}
	sym := tc.table.Symbol(entry.Symbol)
	if sym.Kind == symbols.SymbolFunction {
		return symbols.GenError(te.Span), fail(errorf(diag.SemaNotAType, te.Span).WithName(te.Name))
	}
	if open && len(te.Args) == 0 && len(sym.Generics) > 0 {
		args := make([]symbols.GenericArg, len(sym.Generics))
		for i, g := range sym.Generics {
			args[i] = symbols.GenericArg{Name: g, Gen: symbols.GenVar(te.Span, g)}
		}
		return symbols.GenSym(te.Span, entry.Symbol, args...), nil
	}
	if len(te.Args) != len(sym.Generics) {
		return symbols.GenError(te.Span), fail(errorf(diag.SemaGenericCountMismatch, te.Span).WithName(te.Name).WithCounts(len(te.Args), len(sym.Generics)))
	}
	// sym может устареть: разрешение аргументов способно создать кортежный символ
	names := slices.Clone(sym.Generics)
	args := make([]symbols.GenericArg, 0, len(te.Args))
	for i, a := range te.Args {
		g, d := tc.dtToGenIn(scope, symbols.NoNamespaceID, a, generics, false)
		if d != nil {
			return symbols.GenError(te.Span), d
		}
		args = append(args, symbols.GenericArg{Name: names[i], Gen: g})
	}
	return symbols.GenSym(te.Span, entry.Symbol, args...), nil
}

// childNS resolves name inside parent: a child namespace or the namespace of
// a symbol bound there.
func (tc *typeChecker) childNS(parent symbols.NamespaceID, name source.StringID) (symbols.NamespaceID, bool, bool) {
	ns := tc.table.Namespaces.Get(parent)
	if child, ok := ns.NS(name); ok {
		return child, false, true
	}
	if e, ok := ns.Sym(name); ok {
		if e.Err {
			return symbols.NoNamespaceID, true, true
		}
		return tc.table.Symbol(e.Symbol).Namespace, false, true
	}
	return symbols.NoNamespaceID, false, false
}

package sema

import (
	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

func (tc *typeChecker) stmt(path source.StringID, scope *symbols.ScopeID, id ast.StmtID) {
	stmts := tc.builder.Stmts
	st := stmts.Get(id)
	node := ast.StmtNode(id)
	switch st.Kind {
	case ast.StmtLet:
		let, _ := stmts.Let(id)
		tc.let(path, scope, node, let)
	case ast.StmtLetTuple:
		lt, _ := stmts.LetTuple(id)
		tc.letTuple(path, scope, node, st.Span, lt)
	case ast.StmtAssign:
		as, _ := stmts.Assign(id)
		tc.assign(path, *scope, node, st.Span, as)
	case ast.StmtFor:
		f, _ := stmts.For(id)
		tc.forLoop(path, *scope, node, f)
	}
}

func (tc *typeChecker) let(path source.StringID, scope *symbols.ScopeID, node ast.NodeID, let *ast.LetStmt) {
	bind := func(ty symbols.Sym) {
		*scope = tc.table.Scopes.PushVariable(*scope, let.Name, ty, let.Mutable)
	}
	rhs := tc.expr(path, *scope, let.Value)
	if tc.table.IsError(rhs.Type) {
		bind(symbols.TyError)
		return
	}
	if !let.Hint.IsValid() {
		bind(rhs.Type)
		return
	}
	hint, d := tc.dtToTy(*scope, let.Hint)
	if d != nil {
		tc.error(node, d)
		bind(symbols.TyError)
		return
	}
	if !tc.table.Eq(rhs.Type, hint) {
		tc.error(node, fail(errorf(diag.SemaVariableHintMismatch, tc.exprSpan(let.Value)).
			WithSpan(tc.typeSpan(let.Hint)).
			WithName(let.Name).
			WithTypes(rhs.Type, hint)))
	}
	bind(hint)
}

func (tc *typeChecker) letTuple(path source.StringID, scope *symbols.ScopeID, node ast.NodeID, span source.Span, lt *ast.LetTupleStmt) {
	dummies := func() {
		for _, b := range lt.Names {
			*scope = tc.table.Scopes.PushVariable(*scope, b.Name, symbols.TyError, b.Mutable)
		}
	}
	rhs := tc.expr(path, *scope, lt.Value)
	ty := rhs.Type
	if lt.Hint.IsValid() {
		hint, d := tc.dtToTy(*scope, lt.Hint)
		if d != nil {
			tc.error(node, d)
			dummies()
			return
		}
		if !tc.table.Eq(ty, hint) {
			tc.error(node, fail(errorf(diag.SemaVariableHintMismatch, tc.exprSpan(lt.Value)).
				WithSpan(tc.typeSpan(lt.Hint)).
				WithTypes(ty, hint)))
		}
		ty = hint
	}
	if tc.table.IsBottom(ty) {
		dummies()
		return
	}
	sym, d := tc.symbolOf(ty, tc.exprSpan(lt.Value))
	if d != nil {
		tc.error(node, d)
		dummies()
		return
	}
	s := tc.table.Symbol(sym)
	if !s.IsContainer(symbols.ContainerTuple) {
		tc.error(node, fail(errorf(diag.SemaVariableValueNotTuple, tc.exprSpan(lt.Value)).WithTypes(ty)))
		dummies()
		return
	}
	if len(s.Container.Fields) != len(lt.Names) {
		tc.error(node, fail(errorf(diag.SemaTupleArityMismatch, span).
			WithTypes(ty).
			WithCounts(len(lt.Names), len(s.Container.Fields))))
		dummies()
		return
	}
	fields := s.Container.Fields
	for i, b := range lt.Names {
		elem, ok := tc.table.GenOf(ty, fields[i].Name)
		if !ok {
			elem = symbols.TyError
		}
		*scope = tc.table.Scopes.PushVariable(*scope, b.Name, elem, b.Mutable)
	}
}

func (tc *typeChecker) assign(path source.StringID, scope symbols.ScopeID, node ast.NodeID, span source.Span, as *ast.AssignStmt) {
	lhs := tc.expr(path, scope, as.Target)
	rhs := tc.expr(path, scope, as.Value)
	if !lhs.Mutable {
		tc.error(node, fail(errorf(diag.SemaValueUpdateNotMut, tc.exprSpan(as.Target)).WithTypes(lhs.Type)))
	}
	if !tc.table.Eq(lhs.Type, rhs.Type) {
		tc.error(node, errTypeMismatch(span, rhs.Type, lhs.Type))
	}
}

// forLoop checks `for [inout] x in [inout] value { ... }`. The value's type
// must provide __next__ (and __mutate__ for inout iteration) in its namespace.
func (tc *typeChecker) forLoop(path source.StringID, scope symbols.ScopeID, node ast.NodeID, f *ast.ForStmt) {
	iter := tc.expr(path, scope, f.Iter)
	iterSpan := tc.exprSpan(f.Iter)

	if f.Inout && !iter.Mutable {
		tc.error(node, errInOut(diag.SemaInOutValueIsntMut, iterSpan))
	}
	switch {
	case f.Inout && !f.Binding.Inout:
		tc.error(node, errInOut(diag.SemaInOutValueWithoutInOutBinding, f.Binding.Span))
	case !f.Inout && f.Binding.Inout:
		tc.error(node, errInOut(diag.SemaInOutBindingWithoutInOutValue, iterSpan))
	}

	elem := tc.iterElem(node, f, iter.Type, iterSpan)

	body := tc.table.Scopes.PushLoop(scope)
	body = tc.table.Scopes.PushVariable(body, f.Binding.Name, elem, f.Binding.Inout)
	tc.block(path, body, f.Body)
}

// iterElem returns the element type produced by iterating over ty, or ERROR.
func (tc *typeChecker) iterElem(node ast.NodeID, f *ast.ForStmt, ty symbols.Sym, at source.Span) symbols.Sym {
	if tc.table.IsBottom(ty) {
		return symbols.TyError
	}
	notIterator := func() symbols.Sym {
		tc.error(node, fail(errorf(diag.SemaValueIsntIterator, at).WithTypes(ty)))
		return symbols.TyError
	}
	sym, ok := tc.table.SymbolOf(ty)
	if !ok {
		return notIterator()
	}
	ns := tc.table.Namespaces.Get(tc.table.Symbol(sym).Namespace)
	next, ok := ns.Sym(source.StrIterNext)
	if !ok {
		return notIterator()
	}
	if next.Err {
		return symbols.TyError
	}
	if f.Inout {
		if _, ok := ns.Sym(source.StrIterMutate); !ok {
			tc.error(node, fail(errorf(diag.SemaValueIsntMutableIterator, at).WithTypes(ty)))
		}
	}
	nextFn := tc.table.Symbol(next.Symbol)
	if nextFn.Kind != symbols.SymbolFunction {
		return notIterator()
	}
	ret, err := tc.table.ToTy(nextFn.Function.Ret, tc.table.GensOf(ty))
	if err != nil {
		tc.error(node, errUnknownGeneric(err, at))
		return symbols.TyError
	}
	retSym, ok := tc.table.SymbolOf(ret)
	if !ok || retSym != symbols.SymOption {
		// сигнатура уже отклонена при вычислении типов
		return symbols.TyError
	}
	elem, ok := tc.table.GenOf(ret, source.StrT)
	if !ok {
		return symbols.TyError
	}
	return elem
}

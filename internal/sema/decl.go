package sema

import (
	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

// decl evaluates the bodies a declaration carries. Names and signatures
// were settled by the collection passes.
func (tc *typeChecker) decl(scope symbols.ScopeID, nsID symbols.NamespaceID, id ast.DeclID) {
	decls := tc.builder.Decls
	node := ast.DeclNode(id)
	switch decls.Get(id).Kind {
	case ast.DeclFunction:
		fn, _ := decls.Fn(id)
		tc.function(scope, nsID, id, fn)

	case ast.DeclImpl:
		impl, _ := decls.Impl(id)
		sym, d := tc.implTarget(scope, impl)
		if d != nil {
			return
		}
		symNS := tc.table.Symbol(sym).Namespace
		for _, n := range impl.Body.Nodes {
			if did, ok := n.Decl(); ok {
				tc.decl(scope, symNS, did)
			}
		}

	case ast.DeclModule:
		m, _ := decls.Module(id)
		modNS, ok := tc.table.Namespaces.Get(nsID).NS(m.Name)
		if !ok {
			return
		}
		inner := tc.table.Scopes.PushNamespace(scope, modNS)
		path := tc.table.Namespaces.Get(modNS).Path
		for _, n := range m.Body.Nodes {
			tc.node(path, &inner, modNS, n)
		}

	case ast.DeclAttribute:
		a, _ := decls.Attr(id)
		tc.decl(scope, nsID, a.Target)
		tc.attribute(node, nsID, a)
	}
}

func (tc *typeChecker) attribute(node ast.NodeID, nsID symbols.NamespaceID, a *ast.AttrDecl) {
	if a.Attr != source.StrStartup {
		tc.error(node, fail(errorf(diag.SemaUnknownAttr, a.AttrSpan).WithName(a.Attr)))
		return
	}
	target := tc.builder.Decls.Get(a.Target)
	fn, isFn := tc.builder.Decls.Fn(a.Target)
	if !isFn || !fn.Sig.IsSystem {
		d := errorf(diag.SemaInvalidAttrValue, a.AttrSpan).WithName(a.Attr)
		if target != nil {
			d = d.WithSpan(target.Span)
		}
		tc.error(node, fail(d))
		return
	}
	e, ok := tc.table.Namespaces.Get(nsID).Sym(fn.Sig.Name)
	if !ok || e.Err {
		return
	}
	tc.result.Startups = append(tc.result.Startups, e.Symbol)
}

// function checks a function body against its signature. Generic
// parameters are bound to opaque placeholder types so the body is checked
// once for every instantiation.
func (tc *typeChecker) function(scope symbols.ScopeID, nsID symbols.NamespaceID, id ast.DeclID, fn *ast.FnDecl) {
	sig := &fn.Sig
	e, ok := tc.table.Namespaces.Get(nsID).Sym(sig.Name)
	if !ok || e.Err {
		return
	}
	sym := *tc.table.Symbol(e.Symbol)
	if sym.Kind != symbols.SymbolFunction || sym.Function.Decl != id {
		return
	}
	node := ast.DeclNode(id)

	bindings := make([]symbols.GenBinding, 0, len(sym.Generics))
	for _, g := range sym.Generics {
		placeholder := tc.table.Pending(g, g, nil, sig.Span)
		tc.table.FillContainer(placeholder, symbols.Container{Kind: symbols.ContainerStruct})
		bindings = append(bindings, symbols.GenBinding{Name: g, Sym: symbols.Sym{Symbol: placeholder}})
	}
	inner := tc.table.Scopes.PushGenerics(scope, bindings, true)

	for i, a := range sym.Function.Args {
		ty, err := tc.table.ToTy(a.Type, bindings)
		if err != nil {
			tc.error(node, errUnknownGeneric(err, sig.Args[i].Span))
		}
		inner = tc.table.Scopes.PushVariable(inner, a.Name, ty, a.Inout)
	}
	ret, err := tc.table.ToTy(sym.Function.Ret, bindings)
	if err != nil {
		tc.error(node, errUnknownGeneric(err, sig.Span))
	}
	retSpan := tc.typeSpan(sig.Ret)
	if retSpan == (source.Span{}) {
		retSpan = sig.Span
	}
	inner = tc.table.Scopes.PushFunction(inner, ret, retSpan)

	body := tc.block(sym.Path, inner, fn.Body)
	tc.result.Bodies[id] = body
	if !tc.table.Eq(body.Type, ret) {
		d := errorf(diag.SemaFunctionBodyReturnMismatch, sig.Span).
			WithSpan(fn.Body.Span).
			WithName(sig.Name).
			WithTypes(body.Type, ret)
		tc.error(node, fail(d))
	}
}

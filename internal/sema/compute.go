package sema

import (
	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

// pendingFor returns the pending symbol name is bound to in ns. Poisoned and
// already defined names are skipped.
func (tc *typeChecker) pendingFor(nsID symbols.NamespaceID, name source.StringID) (symbols.SymbolID, bool) {
	e, ok := tc.table.Namespaces.Get(nsID).Sym(name)
	if !ok || e.Err || e.Imported {
		return symbols.NoSymbolID, false
	}
	if tc.table.Symbol(e.Symbol).Kind != symbols.SymbolPending {
		return symbols.NoSymbolID, false
	}
	return e.Symbol, true
}

// genOrError resolves a written type; on failure it reports and yields GenError.
func (tc *typeChecker) genOrError(node ast.NodeID, scope symbols.ScopeID, id ast.TypeID, generics []source.StringID) symbols.Generic {
	gen, d := tc.dtToGen(scope, id, generics)
	if d != nil {
		tc.error(node, d)
		return symbols.GenError(tc.typeSpan(id))
	}
	return gen
}

// computeTypes fills every pending symbol of nodes with its definition.
func (tc *typeChecker) computeTypes(scope symbols.ScopeID, nsID symbols.NamespaceID, nodes []ast.NodeID) {
	decls := tc.builder.Decls
	for _, n := range nodes {
		id, ok := n.Decl()
		if !ok {
			continue
		}
		switch decls.Get(id).Kind {
		case ast.DeclStruct:
			s, _ := decls.Struct(id)
			sym, ok := tc.pendingFor(nsID, s.Name)
			if !ok {
				continue
			}
			generics := tc.table.Symbol(sym).Generics
			fields := make([]symbols.Field, 0, len(s.Fields))
			for _, f := range s.Fields {
				fields = append(fields, symbols.Field{Name: f.Name, Type: tc.genOrError(n, scope, f.Type, generics)})
			}
			tc.table.FillContainer(sym, symbols.Container{Kind: symbols.ContainerStruct, Fields: fields})

		case ast.DeclEnum:
			e, _ := decls.Enum(id)
			sym, ok := tc.pendingFor(nsID, e.Name)
			if !ok {
				continue
			}
			generics := tc.table.Symbol(sym).Generics
			variants := make([]symbols.Field, 0, len(e.Variants))
			implicit := make([]bool, 0, len(e.Variants))
			for _, v := range e.Variants {
				variants = append(variants, symbols.Field{Name: v.Name, Type: tc.genOrError(n, scope, v.Type, generics)})
				implicit = append(implicit, v.ImplicitUnit)
			}
			tc.table.FillEnum(sym, variants, implicit)

		case ast.DeclFunction:
			fn, _ := decls.Fn(id)
			sym, ok := tc.pendingFor(nsID, fn.Sig.Name)
			if !ok {
				continue
			}
			tc.computeFunction(n, scope, sym, id, fn)

		case ast.DeclExtern:
			ext, _ := decls.Extern(id)
			for _, f := range ext.Functions {
				sym, ok := tc.pendingFor(nsID, f.Name)
				if !ok {
					continue
				}
				args := make([]symbols.FunctionArg, 0, len(f.Args))
				for _, a := range f.Args {
					args = append(args, symbols.FunctionArg{Name: a.Name, Type: tc.genOrError(n, scope, a.Type, nil), Inout: a.Inout})
				}
				tc.table.FillFunction(sym, symbols.Function{
					Args:       args,
					Ret:        tc.genOrError(n, scope, f.Ret, nil),
					Origin:     symbols.OriginExtern,
					ExternPath: f.Path,
				})
			}

		case ast.DeclModule:
			m, _ := decls.Module(id)
			modNS, ok := tc.table.Namespaces.Get(nsID).NS(m.Name)
			if !ok {
				continue
			}
			tc.computeTypes(tc.table.Scopes.PushNamespace(scope, modNS), modNS, m.Body.Nodes)

		case ast.DeclImpl:
			impl, _ := decls.Impl(id)
			sym, d := tc.implTarget(scope, impl)
			if d != nil {
				continue
			}
			tc.computeTypes(scope, tc.table.Symbol(sym).Namespace, impl.Body.Nodes)

		case ast.DeclAttribute:
			a, _ := decls.Attr(id)
			tc.computeTypes(scope, nsID, []ast.NodeID{ast.DeclNode(a.Target)})
		}
	}
}

func (tc *typeChecker) computeFunction(n ast.NodeID, scope symbols.ScopeID, sym symbols.SymbolID, id ast.DeclID, fn *ast.FnDecl) {
	sig := &fn.Sig
	generics := tc.table.Symbol(sym).Generics
	args := make([]symbols.FunctionArg, 0, len(sig.Args))
	for _, a := range sig.Args {
		args = append(args, symbols.FunctionArg{Name: a.Name, Type: tc.genOrError(n, scope, a.Type, generics), Inout: a.Inout})
	}
	ret := tc.genOrError(n, scope, sig.Ret, generics)

	if sig.IsSystem && (len(sig.Generics) > 0 || fn.Impl.IsValid()) {
		tc.error(n, fail(errorf(diag.SemaInvalidSystem, sig.Span).WithName(sig.Name)))
	}
	if fn.Impl.IsValid() && sig.Name == source.StrIterNext {
		valid := len(sig.Args) == 1 &&
			sig.Args[0].Inout &&
			tc.builder.Types.Same(sig.Args[0].Type, fn.Impl) &&
			ret.Kind == symbols.GenericSym && ret.Symbol == symbols.SymOption
		if !valid {
			tc.error(n, fail(errorf(diag.SemaIteratorInvalidSig, sig.Span).WithName(sig.Name)))
		}
	}

	tc.table.FillFunction(sym, symbols.Function{
		Args:   args,
		Ret:    ret,
		Origin: symbols.OriginUserDefined,
		Decl:   id,
	})
}

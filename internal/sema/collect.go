package sema

import (
	"slices"

	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

// declare reserves a pending symbol for name in ns. A repeated name poisons
// the entry so later lookups are silently bypassed.
func (tc *typeChecker) declare(node ast.NodeID, path source.StringID, nsID symbols.NamespaceID, name source.StringID, generics []source.StringID, header source.Span) {
	ns := tc.table.Namespaces.Get(nsID)
	if e, exists := ns.Sym(name); exists {
		if !e.Err {
			ns.SetErrSym(name)
		}
		tc.error(node, errNameAlreadyDefined(header, name))
		return
	}
	// Pending растит арену пространств имён: ns после него устарел
	id := tc.table.Pending(tc.strings().Concat(path, name), name, generics, header)
	tc.table.Namespaces.Get(nsID).AddSym(name, id)
}

func reservedForFunctions(name source.StringID) bool {
	return name == source.StrIterNext || name == source.StrIterMutate
}

// collectNames reserves a symbol for every named declaration of nodes.
// implGenerics prefixes the generics of declarations inside an impl block.
func (tc *typeChecker) collectNames(path source.StringID, nsID symbols.NamespaceID, nodes []ast.NodeID, implGenerics []source.StringID) {
	decls := tc.builder.Decls
	for _, n := range nodes {
		id, ok := n.Decl()
		if !ok {
			continue
		}
		switch decls.Get(id).Kind {
		case ast.DeclStruct:
			s, _ := decls.Struct(id)
			if reservedForFunctions(s.Name) {
				tc.error(n, fail(errorf(diag.SemaNameReservedForFunctions, s.Header).WithName(s.Name)))
			}
			tc.declare(n, path, nsID, s.Name, slices.Concat(implGenerics, s.Generics), s.Header)

		case ast.DeclEnum:
			e, _ := decls.Enum(id)
			if reservedForFunctions(e.Name) {
				tc.error(n, fail(errorf(diag.SemaNameReservedForFunctions, e.Header).WithName(e.Name)))
			}
			tc.declare(n, path, nsID, e.Name, slices.Concat(implGenerics, e.Generics), e.Header)

		case ast.DeclFunction:
			fn, _ := decls.Fn(id)
			tc.declare(n, path, nsID, fn.Sig.Name, slices.Concat(implGenerics, fn.Sig.Generics), fn.Sig.Span)

		case ast.DeclExtern:
			ext, _ := decls.Extern(id)
			for _, f := range ext.Functions {
				tc.declare(n, path, nsID, f.Name, nil, f.Span)
			}

		case ast.DeclModule:
			m, _ := decls.Module(id)
			if _, exists := tc.table.Namespaces.Get(nsID).NS(m.Name); exists {
				tc.error(n, errNameAlreadyDefined(m.Header, m.Name))
				continue
			}
			modPath := tc.strings().Concat(path, m.Name)
			modNS := tc.table.Namespaces.New(modPath)
			tc.table.Namespaces.Get(nsID).AddNS(m.Name, modNS)
			tc.collectNames(modPath, modNS, m.Body.Nodes, implGenerics)

		case ast.DeclAttribute:
			a, _ := decls.Attr(id)
			tc.collectNames(path, nsID, []ast.NodeID{ast.DeclNode(a.Target)}, implGenerics)
		}
	}
}

// implTarget resolves the symbol an impl block extends.
func (tc *typeChecker) implTarget(scope symbols.ScopeID, impl *ast.ImplDecl) (symbols.SymbolID, *diag.Diagnostic) {
	gen, d := tc.dtToGen(scope, impl.Type, impl.Generics)
	if d != nil {
		return symbols.NoSymbolID, d
	}
	sym, ok := gen.SymbolID()
	if !ok {
		return symbols.NoSymbolID, fail(errorf(diag.SemaImplOnGeneric, tc.typeSpan(impl.Type)))
	}
	return sym, nil
}

// collectImpls registers methods of impl blocks in the namespace of their
// target type. Only this pass reports a bad impl target.
func (tc *typeChecker) collectImpls(scope symbols.ScopeID, nsID symbols.NamespaceID, nodes []ast.NodeID) {
	decls := tc.builder.Decls
	for _, n := range nodes {
		id, ok := n.Decl()
		if !ok {
			continue
		}
		switch decls.Get(id).Kind {
		case ast.DeclModule:
			m, _ := decls.Module(id)
			modNS, ok := tc.table.Namespaces.Get(nsID).NS(m.Name)
			if !ok {
				continue
			}
			tc.collectImpls(tc.table.Scopes.PushNamespace(scope, modNS), modNS, m.Body.Nodes)

		case ast.DeclImpl:
			impl, _ := decls.Impl(id)
			sym, d := tc.implTarget(scope, impl)
			if d != nil {
				tc.error(n, d)
				continue
			}
			symNS := tc.table.Symbol(sym).Namespace
			tc.collectNames(tc.table.Namespaces.Get(symNS).Path, symNS, impl.Body.Nodes, impl.Generics)
			tc.collectImpls(scope, symNS, impl.Body.Nodes)

		case ast.DeclAttribute:
			a, _ := decls.Attr(id)
			tc.collectImpls(scope, nsID, []ast.NodeID{ast.DeclNode(a.Target)})
		}
	}
}

// collectUses resolves use declarations into namespace entries.
func (tc *typeChecker) collectUses(scope symbols.ScopeID, nsID symbols.NamespaceID, nodes []ast.NodeID) {
	decls := tc.builder.Decls
	for _, n := range nodes {
		id, ok := n.Decl()
		if !ok {
			continue
		}
		switch decls.Get(id).Kind {
		case ast.DeclModule:
			m, _ := decls.Module(id)
			modNS, ok := tc.table.Namespaces.Get(nsID).NS(m.Name)
			if !ok {
				continue
			}
			tc.collectUses(tc.table.Scopes.PushNamespace(scope, modNS), modNS, m.Body.Nodes)

		case ast.DeclImpl:
			impl, _ := decls.Impl(id)
			sym, d := tc.implTarget(scope, impl)
			if d != nil {
				continue
			}
			tc.collectUses(scope, tc.table.Symbol(sym).Namespace, impl.Body.Nodes)

		case ast.DeclUse:
			u, _ := decls.Use(id)
			tc.collectUse(n, scope, nsID, u.Item)

		case ast.DeclAttribute:
			a, _ := decls.Attr(id)
			tc.collectUses(scope, nsID, []ast.NodeID{ast.DeclNode(a.Target)})
		}
	}
}

func (tc *typeChecker) collectUse(node ast.NodeID, scope symbols.ScopeID, nsID symbols.NamespaceID, item ast.UseItem) {
	ns := tc.table.Namespaces.Get(nsID)
	switch item.Kind {
	case ast.UseList:
		importNS, poisoned, ok := tc.table.FindNS(scope, item.Name)
		if !ok {
			tc.error(node, errNamespaceNotFound(item.Span, item.Name))
			return
		}
		if poisoned {
			return
		}
		// элементы списка ищутся только внутри импортируемого пространства
		inner := tc.table.Scopes.PushNamespace(symbols.NoScopeID, importNS)
		for _, sub := range item.Items {
			tc.collectUse(node, inner, nsID, sub)
		}

	case ast.UseBringName:
		if e, ok := tc.table.FindSym(scope, item.Name); ok {
			if e.Err {
				ns.SetErrSym(item.Name)
				return
			}
			tc.importSym(node, ns, item.Name, e.Symbol, item.Span)
			return
		}
		importNS, poisoned, ok := tc.table.FindNS(scope, item.Name)
		if !ok {
			tc.error(node, errNamespaceNotFound(item.Span, item.Name))
			return
		}
		if !poisoned {
			ns.AddImportNS(item.Name, importNS)
		}

	case ast.UseAll:
		importNS, poisoned, ok := tc.table.FindNS(scope, item.Name)
		if !ok {
			tc.error(node, errNamespaceNotFound(item.Span, item.Name))
			return
		}
		if poisoned {
			return
		}
		src := tc.table.Namespaces.Get(importNS)
		for _, name := range src.SymNames() {
			e, _ := src.Sym(name)
			if e.Err {
				continue
			}
			tc.importSym(node, ns, name, e.Symbol, item.Span)
		}
		for _, name := range src.NSNames() {
			child, _ := src.NS(name)
			ns.AddImportNS(name, child)
		}
	}
}

func (tc *typeChecker) importSym(node ast.NodeID, ns *symbols.Namespace, name source.StringID, sym symbols.SymbolID, at source.Span) {
	if e, exists := ns.Sym(name); exists {
		if e.Symbol != sym && !e.Err {
			tc.error(node, errNameAlreadyDefined(at, name))
		}
		return
	}
	ns.AddImportSym(name, sym)
}

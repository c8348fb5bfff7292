package sema

import (
	"margarine/internal/ast"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

// block analyses one block body. Declarations are gathered up front so
// they can be used before the line that declares them:
//
//	collect names → collect impls → collect uses → compute types → evaluate
//
// The block's value is the value of its last node; declarations and
// statements yield unit.
func (tc *typeChecker) block(path source.StringID, scope symbols.ScopeID, blk ast.Block) AnalysisResult {
	tc.blockDepth++
	defer func() { tc.blockDepth-- }()

	ns := tc.table.Namespaces.New(path)
	if tc.blockDepth == 1 {
		tc.result.Namespace = ns
	}

	done := tc.beginPhase("collect_names")
	tc.collectNames(path, ns, blk.Nodes, nil)
	done()

	scope = tc.table.Scopes.PushNamespace(scope, ns)

	done = tc.beginPhase("collect_impls")
	tc.collectImpls(scope, ns, blk.Nodes)
	done()

	done = tc.beginPhase("collect_uses")
	tc.collectUses(scope, ns, blk.Nodes)
	done()

	done = tc.beginPhase("compute_types")
	tc.computeTypes(scope, ns, blk.Nodes)
	done()

	done = tc.beginPhase("evaluate")
	defer done()
	last := unitResult()
	for _, n := range blk.Nodes {
		last = tc.node(path, &scope, ns, n)
	}
	return last
}

// node evaluates one block entry. Statements may extend *scope.
func (tc *typeChecker) node(path source.StringID, scope *symbols.ScopeID, ns symbols.NamespaceID, n ast.NodeID) AnalysisResult {
	switch n.Kind {
	case ast.NodeDecl:
		id, _ := n.Decl()
		tc.decl(*scope, ns, id)
		return unitResult()
	case ast.NodeStmt:
		id, _ := n.Stmt()
		tc.stmt(path, scope, id)
		return unitResult()
	case ast.NodeExpr:
		id, _ := n.Expr()
		return tc.expr(path, *scope, id)
	default:
		// the parser already reported this node
		tc.error(n, &bypassDiag)
		return errorResult()
	}
}

package ast

import (
	"margarine/internal/source"
)

type Hints struct{ Files, Decls, Stmts, Exprs, Types uint }

// Builder owns every arena of one syntax tree.
type Builder struct {
	Files *Files
	Decls *Decls
	Stmts *Stmts
	Exprs *Exprs
	Types *Types
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 3
	}
	if hints.Decls == 0 {
		hints.Decls = 1 << 7
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if hints.Types == 0 {
		hints.Types = 1 << 7
	}
	return &Builder{
		Files: NewFiles(hints.Files),
		Decls: NewDecls(hints.Decls),
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
		Types: NewTypes(hints.Types),
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

// Push appends a node to the file's top-level block.
func (b *Builder) Push(file FileID, node NodeID) {
	f := b.Files.Get(file)
	f.Body.Nodes = append(f.Body.Nodes, node)
}

func (b *Builder) PushDecl(file FileID, decl DeclID) {
	b.Push(file, DeclNode(decl))
}

// NodeSpan returns the span of any node kind.
func (b *Builder) NodeSpan(n NodeID) source.Span {
	switch n.Kind {
	case NodeDecl:
		if d := b.Decls.Get(DeclID(n.ID)); d != nil {
			return d.Span
		}
	case NodeStmt:
		if s := b.Stmts.Get(StmtID(n.ID)); s != nil {
			return s.Span
		}
	case NodeExpr:
		if e := b.Exprs.Get(ExprID(n.ID)); e != nil {
			return e.Span
		}
	case NodeErr:
		return n.Span
	}
	return source.Span{}
}

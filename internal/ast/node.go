package ast

import (
	"fmt"

	"margarine/internal/source"
)

// NodeKind tags what a NodeID points at.
type NodeKind uint8

const (
	NodeDecl NodeKind = iota + 1
	NodeStmt
	NodeExpr
	// NodeErr is a placeholder left by the parser where it failed to recover.
	NodeErr
)

// NodeID is one entry of a block body: a declaration, a statement or an expression.
type NodeID struct {
	Kind NodeKind
	ID   uint32
	Span source.Span `msgpack:",omitempty"` // only set for NodeErr
}

func DeclNode(id DeclID) NodeID { return NodeID{Kind: NodeDecl, ID: uint32(id)} }
func StmtNode(id StmtID) NodeID { return NodeID{Kind: NodeStmt, ID: uint32(id)} }
func ExprNode(id ExprID) NodeID { return NodeID{Kind: NodeExpr, ID: uint32(id)} }
func ErrNode(sp source.Span) NodeID {
	return NodeID{Kind: NodeErr, Span: sp}
}

func (n NodeID) Decl() (DeclID, bool) { return DeclID(n.ID), n.Kind == NodeDecl }
func (n NodeID) Stmt() (StmtID, bool) { return StmtID(n.ID), n.Kind == NodeStmt }
func (n NodeID) Expr() (ExprID, bool) { return ExprID(n.ID), n.Kind == NodeExpr }

func (n NodeID) String() string {
	switch n.Kind {
	case NodeDecl:
		return fmt.Sprintf("decl#%d", n.ID)
	case NodeStmt:
		return fmt.Sprintf("stmt#%d", n.ID)
	case NodeExpr:
		return fmt.Sprintf("expr#%d", n.ID)
	case NodeErr:
		return "err@" + n.Span.String()
	default:
		return "node?"
	}
}

// Block is an ordered list of nodes with its own span.
type Block struct {
	Nodes []NodeID
	Span  source.Span
}

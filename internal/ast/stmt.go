package ast

import (
	"margarine/internal/source"
)

type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtLetTuple
	StmtAssign
	StmtFor
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// LetStmt: Hint is NoTypeID when the type is not written.
type LetStmt struct {
	Name     source.StringID
	NameSpan source.Span
	Hint     TypeID
	Mutable  bool
	Value    ExprID
}

type TupleBinding struct {
	Name    source.StringID
	Mutable bool
	Span    source.Span
}

type LetTupleStmt struct {
	Names []TupleBinding
	Hint  TypeID
	Value ExprID
}

type AssignStmt struct {
	Target ExprID
	Value  ExprID
}

type ForBinding struct {
	Name  source.StringID
	Inout bool
	Span  source.Span
}

type ForStmt struct {
	Binding ForBinding
	// Inout marks the iterated expression (for inout x in &mut it).
	Inout bool
	Iter  ExprID
	Body  Block
}

type Stmts struct {
	Arena     *Arena[Stmt]
	Lets      *Arena[LetStmt]
	LetTuples *Arena[LetTupleStmt]
	Assigns   *Arena[AssignStmt]
	Fors      *Arena[ForStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:     NewArena[Stmt](capHint),
		Lets:      NewArena[LetStmt](capHint),
		LetTuples: NewArena[LetTupleStmt](capHint / 8),
		Assigns:   NewArena[AssignStmt](capHint / 2),
		Fors:      NewArena[ForStmt](capHint / 8),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: payload}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewLet(span source.Span, name source.StringID, nameSpan source.Span, hint TypeID, mutable bool, value ExprID) StmtID {
	payload := PayloadID(s.Lets.Allocate(LetStmt{
		Name:     name,
		NameSpan: nameSpan,
		Hint:     hint,
		Mutable:  mutable,
		Value:    value,
	}))
	return s.new(StmtLet, span, payload)
}

func (s *Stmts) Let(id StmtID) (*LetStmt, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtLet {
		return nil, false
	}
	return s.Lets.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewLetTuple(span source.Span, names []TupleBinding, hint TypeID, value ExprID) StmtID {
	payload := PayloadID(s.LetTuples.Allocate(LetTupleStmt{Names: names, Hint: hint, Value: value}))
	return s.new(StmtLetTuple, span, payload)
}

func (s *Stmts) LetTuple(id StmtID) (*LetTupleStmt, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtLetTuple {
		return nil, false
	}
	return s.LetTuples.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewAssign(span source.Span, target, value ExprID) StmtID {
	payload := PayloadID(s.Assigns.Allocate(AssignStmt{Target: target, Value: value}))
	return s.new(StmtAssign, span, payload)
}

func (s *Stmts) Assign(id StmtID) (*AssignStmt, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtAssign {
		return nil, false
	}
	return s.Assigns.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewFor(span source.Span, binding ForBinding, inout bool, iter ExprID, body Block) StmtID {
	payload := PayloadID(s.Fors.Allocate(ForStmt{Binding: binding, Inout: inout, Iter: iter, Body: body}))
	return s.new(StmtFor, span, payload)
}

func (s *Stmts) For(id StmtID) (*ForStmt, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtFor {
		return nil, false
	}
	return s.Fors.Get(uint32(stmt.Payload)), true
}

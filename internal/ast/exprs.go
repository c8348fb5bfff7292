package ast

import (
	"margarine/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Literals *Arena[ExprLiteralData]
	Idents   *Arena[ExprIdentData]
	Wraps    *Arena[ExprWrapData]
	Ranges   *Arena[ExprRangeData]
	Binaries *Arena[ExprBinaryData]
	Unaries  *Arena[ExprUnaryData]
	Ifs      *Arena[ExprIfData]
	Matches  *Arena[ExprMatchData]
	Blocks   *Arena[ExprBlockData]
	Structs  *Arena[ExprStructData]
	Fields   *Arena[ExprFieldData]
	Calls    *Arena[ExprCallData]
	Withins  *Arena[ExprWithinData]
	Tuples   *Arena[ExprTupleData]
	Casts    *Arena[ExprCastData]
}

// NewExprs creates per-kind arenas; capHint 0 means 1<<8.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/4 + 1
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Literals: NewArena[ExprLiteralData](capHint),
		Idents:   NewArena[ExprIdentData](capHint),
		Wraps:    NewArena[ExprWrapData](small),
		Ranges:   NewArena[ExprRangeData](small),
		Binaries: NewArena[ExprBinaryData](capHint),
		Unaries:  NewArena[ExprUnaryData](small),
		Ifs:      NewArena[ExprIfData](small),
		Matches:  NewArena[ExprMatchData](small),
		Blocks:   NewArena[ExprBlockData](small),
		Structs:  NewArena[ExprStructData](small),
		Fields:   NewArena[ExprFieldData](small),
		Calls:    NewArena[ExprCallData](capHint),
		Withins:  NewArena[ExprWithinData](small),
		Tuples:   NewArena[ExprTupleData](small),
		Casts:    NewArena[ExprCastData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// payloadOf checks the kind and returns the payload index.
func (e *Exprs) payloadOf(id ExprID, kinds ...ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil {
		return 0, false
	}
	for _, k := range kinds {
		if expr.Kind == k {
			return uint32(expr.Payload), true
		}
	}
	return 0, false
}

func (e *Exprs) NewUnit(span source.Span) ExprID {
	return e.new(ExprUnit, span, NoPayloadID)
}

func (e *Exprs) NewLiteral(span source.Span, kind ExprLitKind, value source.StringID) ExprID {
	payload := PayloadID(e.Literals.Allocate(ExprLiteralData{Kind: kind, Value: value}))
	return e.new(ExprLit, span, payload)
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	p, ok := e.payloadOf(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	payload := PayloadID(e.Idents.Allocate(ExprIdentData{Name: name}))
	return e.new(ExprIdent, span, payload)
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payloadOf(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

func (e *Exprs) newWrap(kind ExprKind, span source.Span, value ExprID) ExprID {
	payload := PayloadID(e.Wraps.Allocate(ExprWrapData{Value: value}))
	return e.new(kind, span, payload)
}

func (e *Exprs) NewDeref(span source.Span, value ExprID) ExprID {
	return e.newWrap(ExprDeref, span, value)
}

// NewReturn: value may be NoExprID for a bare return.
func (e *Exprs) NewReturn(span source.Span, value ExprID) ExprID {
	return e.newWrap(ExprReturn, span, value)
}

func (e *Exprs) NewUnwrap(span source.Span, value ExprID) ExprID {
	return e.newWrap(ExprUnwrap, span, value)
}

func (e *Exprs) NewOrReturn(span source.Span, value ExprID) ExprID {
	return e.newWrap(ExprOrReturn, span, value)
}

// Wrap returns the operand of deref/return/unwrap/or-return.
func (e *Exprs) Wrap(id ExprID) (*ExprWrapData, bool) {
	p, ok := e.payloadOf(id, ExprDeref, ExprReturn, ExprUnwrap, ExprOrReturn)
	if !ok {
		return nil, false
	}
	return e.Wraps.Get(p), true
}

func (e *Exprs) NewRange(span source.Span, lo, hi ExprID) ExprID {
	payload := PayloadID(e.Ranges.Allocate(ExprRangeData{Lo: lo, Hi: hi}))
	return e.new(ExprRange, span, payload)
}

func (e *Exprs) Range(id ExprID) (*ExprRangeData, bool) {
	p, ok := e.payloadOf(id, ExprRange)
	if !ok {
		return nil, false
	}
	return e.Ranges.Get(p), true
}

func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	payload := PayloadID(e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
	return e.new(ExprBinary, span, payload)
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payloadOf(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	payload := PayloadID(e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
	return e.new(ExprUnary, span, payload)
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payloadOf(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

func (e *Exprs) NewIf(span source.Span, cond, then, els ExprID) ExprID {
	payload := PayloadID(e.Ifs.Allocate(ExprIfData{Cond: cond, Then: then, Else: els}))
	return e.new(ExprIf, span, payload)
}

func (e *Exprs) If(id ExprID) (*ExprIfData, bool) {
	p, ok := e.payloadOf(id, ExprIf)
	if !ok {
		return nil, false
	}
	return e.Ifs.Get(p), true
}

func (e *Exprs) NewMatch(span source.Span, value ExprID, inout bool, arms []MatchArm) ExprID {
	payload := PayloadID(e.Matches.Allocate(ExprMatchData{Value: value, Inout: inout, Arms: arms}))
	return e.new(ExprMatch, span, payload)
}

func (e *Exprs) Match(id ExprID) (*ExprMatchData, bool) {
	p, ok := e.payloadOf(id, ExprMatch)
	if !ok {
		return nil, false
	}
	return e.Matches.Get(p), true
}

func (e *Exprs) NewBlock(block Block) ExprID {
	payload := PayloadID(e.Blocks.Allocate(ExprBlockData{Block: block}))
	return e.new(ExprBlock, block.Span, payload)
}

func (e *Exprs) NewLoop(span source.Span, body Block) ExprID {
	payload := PayloadID(e.Blocks.Allocate(ExprBlockData{Block: body}))
	return e.new(ExprLoop, span, payload)
}

// Block returns the body of a block or loop expression.
func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	p, ok := e.payloadOf(id, ExprBlock, ExprLoop)
	if !ok {
		return nil, false
	}
	return e.Blocks.Get(p), true
}

func (e *Exprs) NewStruct(span source.Span, typ TypeID, fields []StructFieldInit) ExprID {
	payload := PayloadID(e.Structs.Allocate(ExprStructData{Type: typ, Fields: fields}))
	return e.new(ExprStruct, span, payload)
}

func (e *Exprs) Struct(id ExprID) (*ExprStructData, bool) {
	p, ok := e.payloadOf(id, ExprStruct)
	if !ok {
		return nil, false
	}
	return e.Structs.Get(p), true
}

func (e *Exprs) NewField(span source.Span, value ExprID, field source.StringID) ExprID {
	payload := PayloadID(e.Fields.Allocate(ExprFieldData{Value: value, Field: field}))
	return e.new(ExprField, span, payload)
}

func (e *Exprs) Field(id ExprID) (*ExprFieldData, bool) {
	p, ok := e.payloadOf(id, ExprField)
	if !ok {
		return nil, false
	}
	return e.Fields.Get(p), true
}

func (e *Exprs) NewCall(span source.Span, name source.StringID, accessor bool, args []CallArg) ExprID {
	payload := PayloadID(e.Calls.Allocate(ExprCallData{Name: name, Accessor: accessor, Args: args}))
	return e.new(ExprCall, span, payload)
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payloadOf(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewWithinNamespace(span source.Span, ns source.StringID, nsSpan source.Span, action ExprID) ExprID {
	payload := PayloadID(e.Withins.Allocate(ExprWithinData{
		Namespace:     ns,
		NamespaceSpan: nsSpan,
		Action:        action,
	}))
	return e.new(ExprWithinNamespace, span, payload)
}

func (e *Exprs) NewWithinType(span source.Span, typ TypeID, action ExprID) ExprID {
	payload := PayloadID(e.Withins.Allocate(ExprWithinData{Type: typ, Action: action}))
	return e.new(ExprWithinType, span, payload)
}

func (e *Exprs) Within(id ExprID) (*ExprWithinData, bool) {
	p, ok := e.payloadOf(id, ExprWithinNamespace, ExprWithinType)
	if !ok {
		return nil, false
	}
	return e.Withins.Get(p), true
}

func (e *Exprs) NewContinue(span source.Span) ExprID {
	return e.new(ExprContinue, span, NoPayloadID)
}

func (e *Exprs) NewBreak(span source.Span) ExprID {
	return e.new(ExprBreak, span, NoPayloadID)
}

func (e *Exprs) NewTuple(span source.Span, elements []ExprID) ExprID {
	payload := PayloadID(e.Tuples.Allocate(ExprTupleData{Elements: elements}))
	return e.new(ExprTuple, span, payload)
}

func (e *Exprs) Tuple(id ExprID) (*ExprTupleData, bool) {
	p, ok := e.payloadOf(id, ExprTuple)
	if !ok {
		return nil, false
	}
	return e.Tuples.Get(p), true
}

func (e *Exprs) NewCast(span source.Span, value ExprID, typ TypeID) ExprID {
	payload := PayloadID(e.Casts.Allocate(ExprCastData{Value: value, Type: typ}))
	return e.new(ExprCast, span, payload)
}

func (e *Exprs) Cast(id ExprID) (*ExprCastData, bool) {
	p, ok := e.payloadOf(id, ExprCast)
	if !ok {
		return nil, false
	}
	return e.Casts.Get(p), true
}

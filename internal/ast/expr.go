package ast

import (
	"margarine/internal/source"
)

type ExprKind uint8

const (
	ExprUnit ExprKind = iota
	ExprLit
	ExprIdent
	ExprDeref
	ExprRange
	ExprBinary
	ExprUnary
	ExprIf
	ExprMatch
	ExprBlock
	ExprStruct
	ExprField
	ExprCall
	ExprWithinNamespace
	ExprWithinType
	ExprLoop
	ExprReturn
	ExprContinue
	ExprBreak
	ExprTuple
	ExprCast
	ExprUnwrap
	ExprOrReturn
)

var exprKindNames = [...]string{
	ExprUnit:            "unit",
	ExprLit:             "literal",
	ExprIdent:           "identifier",
	ExprDeref:           "deref",
	ExprRange:           "range",
	ExprBinary:          "binary",
	ExprUnary:           "unary",
	ExprIf:              "if",
	ExprMatch:           "match",
	ExprBlock:           "block",
	ExprStruct:          "struct literal",
	ExprField:           "field access",
	ExprCall:            "call",
	ExprWithinNamespace: "within namespace",
	ExprWithinType:      "within type",
	ExprLoop:            "loop",
	ExprReturn:          "return",
	ExprContinue:        "continue",
	ExprBreak:           "break",
	ExprTuple:           "tuple",
	ExprCast:            "cast",
	ExprUnwrap:          "unwrap",
	ExprOrReturn:        "or-return",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "expr?"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota
	ExprLitFloat
	ExprLitString
	ExprLitBool
)

type ExprLiteralData struct {
	Kind ExprLitKind
	// Value holds the literal text; for bools it is StrTrue or StrFalse.
	Value source.StringID
}

type ExprIdentData struct {
	Name source.StringID
}

// ExprWrapData is the payload of single-operand kinds: deref, return, unwrap, or-return.
// Return without a value stores NoExprID.
type ExprWrapData struct {
	Value ExprID
}

type ExprRangeData struct {
	Lo ExprID
	Hi ExprID
}

type ExprBinaryOp uint8

const (
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryRem
	ExprBinaryBitAnd
	ExprBinaryBitOr
	ExprBinaryBitXor
	ExprBinaryShl
	ExprBinaryShr
	ExprBinaryEq
	ExprBinaryNe
	ExprBinaryGt
	ExprBinaryGe
	ExprBinaryLt
	ExprBinaryLe
)

var binaryOpText = [...]string{
	ExprBinaryAdd:    "+",
	ExprBinarySub:    "-",
	ExprBinaryMul:    "*",
	ExprBinaryDiv:    "/",
	ExprBinaryRem:    "%",
	ExprBinaryBitAnd: "&",
	ExprBinaryBitOr:  "|",
	ExprBinaryBitXor: "^",
	ExprBinaryShl:    "<<",
	ExprBinaryShr:    ">>",
	ExprBinaryEq:     "==",
	ExprBinaryNe:     "!=",
	ExprBinaryGt:     ">",
	ExprBinaryGe:     ">=",
	ExprBinaryLt:     "<",
	ExprBinaryLe:     "<=",
}

func (op ExprBinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

func (op ExprBinaryOp) IsArith() bool {
	return op >= ExprBinaryAdd && op <= ExprBinaryRem
}

func (op ExprBinaryOp) IsBitwise() bool {
	return op >= ExprBinaryBitAnd && op <= ExprBinaryShr
}

func (op ExprBinaryOp) IsOrdering() bool {
	return op >= ExprBinaryGt && op <= ExprBinaryLe
}

func (op ExprBinaryOp) IsEquality() bool {
	return op == ExprBinaryEq || op == ExprBinaryNe
}

// IsComparison reports operators that yield bool.
func (op ExprBinaryOp) IsComparison() bool {
	return op.IsOrdering() || op.IsEquality()
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryOp uint8

const (
	ExprUnaryNot ExprUnaryOp = iota
	ExprUnaryNeg
)

func (op ExprUnaryOp) String() string {
	if op == ExprUnaryNot {
		return "!"
	}
	return "-"
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

// ExprIfData: Else is NoExprID when the branch is absent.
type ExprIfData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

type MatchArm struct {
	Variant     source.StringID
	Binding     source.StringID
	BindingSpan source.Span
	Inout       bool
	Body        ExprID
	Span        source.Span
}

type ExprMatchData struct {
	Value ExprID
	Inout bool
	Arms  []MatchArm
}

// ExprBlockData backs both ExprBlock and ExprLoop.
type ExprBlockData struct {
	Block Block
}

type StructFieldInit struct {
	Name  source.StringID
	Span  source.Span
	Value ExprID
}

type ExprStructData struct {
	Type   TypeID
	Fields []StructFieldInit
}

type ExprFieldData struct {
	Value ExprID
	Field source.StringID
}

type CallArg struct {
	Value ExprID
	Inout bool
}

// ExprCallData: for accessor calls (value.f(...)) the receiver is Args[0].
type ExprCallData struct {
	Name     source.StringID
	Accessor bool
	Args     []CallArg
}

// ExprWithinData backs ns::action (Namespace set) and Type::action (Type set).
type ExprWithinData struct {
	Namespace     source.StringID
	NamespaceSpan source.Span
	Type          TypeID
	Action        ExprID
}

type ExprTupleData struct {
	Elements []ExprID
}

type ExprCastData struct {
	Value ExprID
	Type  TypeID
}

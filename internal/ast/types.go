package ast

import (
	"margarine/internal/source"
)

// TypeKind enumerates surface type syntax ("DataType").
type TypeKind uint8

const (
	TypeUnit TypeKind = iota
	TypeNever
	TypeNamed
	TypeWithin
	TypeTuple
	TypeOption
	TypeResult
)

// TypeExpr is one written type.
//
//	Named:  Name<Args...>
//	Within: Name::Args[0]   (Name is the namespace)
//	Tuple:  (Args...)
//	Option: Args[0]?
//	Result: Args[0] ! Args[1]
type TypeExpr struct {
	Kind TypeKind
	Span source.Span
	Name source.StringID
	Args []TypeID
}

type Types struct {
	Arena *Arena[TypeExpr]
}

func NewTypes(capHint uint) *Types {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Types{Arena: NewArena[TypeExpr](capHint)}
}

func (t *Types) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}

func (t *Types) new(kind TypeKind, span source.Span, name source.StringID, args []TypeID) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Kind: kind, Span: span, Name: name, Args: args}))
}

func (t *Types) NewUnit(span source.Span) TypeID  { return t.new(TypeUnit, span, source.NoStringID, nil) }
func (t *Types) NewNever(span source.Span) TypeID { return t.new(TypeNever, span, source.NoStringID, nil) }

func (t *Types) NewNamed(span source.Span, name source.StringID, args ...TypeID) TypeID {
	return t.new(TypeNamed, span, name, args)
}

func (t *Types) NewWithin(span source.Span, ns source.StringID, inner TypeID) TypeID {
	return t.new(TypeWithin, span, ns, []TypeID{inner})
}

func (t *Types) NewTuple(span source.Span, elems ...TypeID) TypeID {
	return t.new(TypeTuple, span, source.NoStringID, elems)
}

func (t *Types) NewOption(span source.Span, inner TypeID) TypeID {
	return t.new(TypeOption, span, source.NoStringID, []TypeID{inner})
}

func (t *Types) NewResult(span source.Span, ok, err TypeID) TypeID {
	return t.new(TypeResult, span, source.NoStringID, []TypeID{ok, err})
}

// Same compares two written types structurally, ignoring spans.
func (t *Types) Same(a, b TypeID) bool {
	if a == b {
		return true
	}
	x, y := t.Get(a), t.Get(b)
	if x == nil || y == nil {
		return false
	}
	if x.Kind != y.Kind || x.Name != y.Name || len(x.Args) != len(y.Args) {
		return false
	}
	for i := range x.Args {
		if !t.Same(x.Args[i], y.Args[i]) {
			return false
		}
	}
	return true
}

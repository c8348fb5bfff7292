package symbols

import (
	"fmt"

	"margarine/internal/source"
)

type GenericKind uint8

const (
	GenericSym GenericKind = iota
	GenericVar
	GenericError
)

// GenericArg binds one generic parameter of Generic.Symbol by name.
type GenericArg struct {
	Name source.StringID
	Gen  Generic
}

// Generic is a type expression that may still name generic parameters.
//
//	GenericSym:   Symbol<Args...>
//	GenericVar:   a generic parameter Name, substituted by ToTy
//	GenericError: the written type failed to resolve
type Generic struct {
	Kind   GenericKind
	Span   source.Span
	Symbol SymbolID
	Args   []GenericArg
	Name   source.StringID
}

func GenSym(span source.Span, sym SymbolID, args ...GenericArg) Generic {
	return Generic{Kind: GenericSym, Span: span, Symbol: sym, Args: args}
}

func GenVar(span source.Span, name source.StringID) Generic {
	return Generic{Kind: GenericVar, Span: span, Name: name}
}

func GenError(span source.Span) Generic {
	return Generic{Kind: GenericError, Span: span}
}

// SymbolID returns the symbol of a GenericSym.
func (g Generic) SymbolID() (SymbolID, bool) {
	if g.Kind != GenericSym {
		return NoSymbolID, false
	}
	return g.Symbol, true
}

// Same compares generics structurally; arguments are matched by name.
func (g Generic) Same(o Generic) bool {
	if g.Kind != o.Kind {
		return false
	}
	switch g.Kind {
	case GenericError:
		return true
	case GenericVar:
		return g.Name == o.Name
	}
	if g.Symbol != o.Symbol || len(g.Args) != len(o.Args) {
		return false
	}
	for _, a := range g.Args {
		found := false
		for _, b := range o.Args {
			if a.Name == b.Name {
				if !a.Gen.Same(b.Gen) {
					return false
				}
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// GenBinding maps a generic parameter name to a concrete type.
type GenBinding struct {
	Name source.StringID
	Sym  Sym
}

// UnknownGenericError is returned by ToTy when a generic parameter has no binding.
type UnknownGenericError struct {
	Name source.StringID
	Span source.Span
}

func (e *UnknownGenericError) Error() string {
	return fmt.Sprintf("unknown generic parameter #%d at %s", e.Name, e.Span)
}

func lookupBinding(bindings []GenBinding, name source.StringID) (Sym, bool) {
	for i := len(bindings) - 1; i >= 0; i-- {
		if bindings[i].Name == name {
			return bindings[i].Sym, true
		}
	}
	return Sym{}, false
}

// ToTy substitutes generic parameters from bindings and returns the concrete type.
func (t *Table) ToTy(g Generic, bindings []GenBinding) (Sym, error) {
	switch g.Kind {
	case GenericError:
		return TyError, nil
	case GenericVar:
		s, ok := lookupBinding(bindings, g.Name)
		if !ok {
			return TyError, &UnknownGenericError{Name: g.Name, Span: g.Span}
		}
		return s, nil
	}
	if len(g.Args) == 0 {
		return Sym{Symbol: g.Symbol}, nil
	}
	list := make([]GenBinding, 0, len(g.Args))
	for _, a := range g.Args {
		s, err := t.ToTy(a.Gen, bindings)
		if err != nil {
			return TyError, err
		}
		list = append(list, GenBinding{Name: a.Name, Sym: s})
	}
	return Sym{Symbol: g.Symbol, Gens: t.AddGens(list)}, nil
}

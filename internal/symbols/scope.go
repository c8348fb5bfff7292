package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"margarine/internal/source"
)

// ScopeKind enumerates scope frames.
type ScopeKind uint8

const (
	ScopeVariable ScopeKind = iota
	ScopeGenerics
	ScopeImplicitNamespace
	ScopeLoop
	ScopeFunction
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeVariable:
		return "variable"
	case ScopeGenerics:
		return "generics"
	case ScopeImplicitNamespace:
		return "namespace"
	case ScopeLoop:
		return "loop"
	case ScopeFunction:
		return "function"
	default:
		return "invalid"
	}
}

// Scope is one immutable frame. Only the fields of its Kind are meaningful.
type Scope struct {
	Kind   ScopeKind
	Parent ScopeID

	// ScopeVariable
	Name    source.StringID
	Type    Sym
	Mutable bool

	// ScopeGenerics. Boundary marks the frame opening a function body:
	// variable lookup does not cross it.
	Generics []GenBinding
	Boundary bool

	// ScopeImplicitNamespace
	NS NamespaceID

	// ScopeFunction
	Ret     Sym
	RetSpan source.Span
}

// Scopes stores frames; pushing never mutates an existing frame.
type Scopes struct {
	data []Scope
}

func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 64
	}
	return &Scopes{data: make([]Scope, 1, capacity+1)}
}

func (s *Scopes) push(sc Scope) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	s.data = append(s.data, sc)
	return ScopeID(value)
}

func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

func (s *Scopes) Len() int { return len(s.data) - 1 }

func (s *Scopes) PushVariable(parent ScopeID, name source.StringID, ty Sym, mutable bool) ScopeID {
	return s.push(Scope{Kind: ScopeVariable, Parent: parent, Name: name, Type: ty, Mutable: mutable})
}

func (s *Scopes) PushGenerics(parent ScopeID, bindings []GenBinding, boundary bool) ScopeID {
	return s.push(Scope{Kind: ScopeGenerics, Parent: parent, Generics: bindings, Boundary: boundary})
}

func (s *Scopes) PushNamespace(parent ScopeID, ns NamespaceID) ScopeID {
	return s.push(Scope{Kind: ScopeImplicitNamespace, Parent: parent, NS: ns})
}

func (s *Scopes) PushLoop(parent ScopeID) ScopeID {
	return s.push(Scope{Kind: ScopeLoop, Parent: parent})
}

func (s *Scopes) PushFunction(parent ScopeID, ret Sym, retSpan source.Span) ScopeID {
	return s.push(Scope{Kind: ScopeFunction, Parent: parent, Ret: ret, RetSpan: retSpan})
}

// FindVar returns the innermost variable frame named name. The search stops
// at the generics frame that opens the enclosing function.
func (s *Scopes) FindVar(from ScopeID, name source.StringID) (*Scope, bool) {
	for id := from; id.IsValid(); {
		sc := s.Get(id)
		switch {
		case sc.Kind == ScopeVariable && sc.Name == name:
			return sc, true
		case sc.Kind == ScopeGenerics && sc.Boundary:
			return nil, false
		}
		id = sc.Parent
	}
	return nil, false
}

// FindGeneric resolves a generic parameter bound by an enclosing generics frame.
func (s *Scopes) FindGeneric(from ScopeID, name source.StringID) (Sym, bool) {
	for id := from; id.IsValid(); {
		sc := s.Get(id)
		if sc.Kind == ScopeGenerics {
			if ty, ok := lookupBinding(sc.Generics, name); ok {
				return ty, true
			}
		}
		id = sc.Parent
	}
	return Sym{}, false
}

// FindLoop reports whether a loop frame encloses from within the current function.
func (s *Scopes) FindLoop(from ScopeID) bool {
	for id := from; id.IsValid(); {
		sc := s.Get(id)
		switch sc.Kind {
		case ScopeLoop:
			return true
		case ScopeFunction:
			return false
		}
		id = sc.Parent
	}
	return false
}

// FindFunc returns the innermost function frame.
func (s *Scopes) FindFunc(from ScopeID) (*Scope, bool) {
	for id := from; id.IsValid(); {
		sc := s.Get(id)
		if sc.Kind == ScopeFunction {
			return sc, true
		}
		id = sc.Parent
	}
	return nil, false
}

// FindSym looks name up in the namespaces visible from scope, innermost first.
func (t *Table) FindSym(from ScopeID, name source.StringID) (NSEntry, bool) {
	for id := from; id.IsValid(); {
		sc := t.Scopes.Get(id)
		if sc.Kind == ScopeImplicitNamespace {
			if e, ok := t.Namespaces.Get(sc.NS).Sym(name); ok {
				return e, true
			}
		}
		id = sc.Parent
	}
	return NSEntry{}, false
}

// FindNS resolves name to a namespace: a child namespace, or the namespace
// of a visible symbol. poisoned is true when name is a redefined symbol.
func (t *Table) FindNS(from ScopeID, name source.StringID) (ns NamespaceID, poisoned, ok bool) {
	for id := from; id.IsValid(); {
		sc := t.Scopes.Get(id)
		if sc.Kind == ScopeImplicitNamespace {
			cur := t.Namespaces.Get(sc.NS)
			if child, found := cur.NS(name); found {
				return child, false, true
			}
			if e, found := cur.Sym(name); found {
				if e.Err {
					return NoNamespaceID, true, true
				}
				return t.Symbol(e.Symbol).Namespace, false, true
			}
		}
		id = sc.Parent
	}
	return NoNamespaceID, false, false
}

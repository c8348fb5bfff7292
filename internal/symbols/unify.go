package symbols

import "margarine/internal/source"

// Resolve follows bound type variables. The result is either concrete or an
// unbound variable.
func (t *Table) Resolve(s Sym) Sym {
	for s.IsVar() {
		slot := &t.vars[s.Var]
		if !slot.Bound {
			return s
		}
		s = slot.To
	}
	return s
}

// Eq reports type equality, binding unbound variables on the way. A bound
// variable is never rebound, so a repeated call is a plain comparison.
// ERROR and NEVER equal everything and bind nothing.
func (t *Table) Eq(a, b Sym) bool {
	a, b = t.Resolve(a), t.Resolve(b)
	switch {
	case a.IsVar() && b.IsVar():
		return t.mergeVars(a.Var, b.Var)
	case a.IsVar():
		return t.bindVar(a.Var, b)
	case b.IsVar():
		return t.bindVar(b.Var, a)
	}
	if isBottom(a.Symbol) || isBottom(b.Symbol) {
		return true
	}
	if a.Symbol != b.Symbol {
		return false
	}
	if a.Gens == b.Gens {
		return true
	}
	ga, gb := t.Gens(a.Gens), t.Gens(b.Gens)
	if len(ga) != len(gb) {
		return false
	}
	for _, x := range ga {
		y, ok := lookupBinding(gb, x.Name)
		if !ok || !t.Eq(x.Sym, y) {
			return false
		}
	}
	return true
}

// Ne is !Eq; it may still bind variables.
func (t *Table) Ne(a, b Sym) bool { return !t.Eq(a, b) }

func isBottom(id SymbolID) bool { return id == SymError || id == SymNever }

func (t *Table) mergeVars(a, b VarID) bool {
	if a == b {
		return true
	}
	ca, cb := t.vars[a].Class, t.vars[b].Class
	class := ca
	switch {
	case ca == cb:
	case ca == VarPlain:
		class = cb
	case cb == VarPlain:
		class = ca
	default:
		return false
	}
	t.vars[a].Bound = true
	t.vars[a].To = Sym{Var: b}
	t.vars[b].Class = class
	return true
}

func (t *Table) bindVar(v VarID, to Sym) bool {
	if isBottom(to.Symbol) {
		return true
	}
	switch t.vars[v].Class {
	case VarInteger:
		if !to.Symbol.IsInt() {
			return false
		}
	case VarFloat:
		if !to.Symbol.IsFloat() {
			return false
		}
	}
	if t.occurs(v, to) {
		return false
	}
	t.vars[v].Bound = true
	t.vars[v].To = to
	return true
}

func (t *Table) occurs(v VarID, s Sym) bool {
	s = t.Resolve(s)
	if s.IsVar() {
		return s.Var == v
	}
	for _, g := range t.Gens(s.Gens) {
		if t.occurs(v, g.Sym) {
			return true
		}
	}
	return false
}

// SymbolOf returns the symbol of s. Literal variables are defaulted (and
// bound) to int or float; an unconstrained plain variable reports false.
func (t *Table) SymbolOf(s Sym) (SymbolID, bool) {
	s = t.Resolve(s)
	if !s.IsVar() {
		return s.Symbol, true
	}
	slot := &t.vars[s.Var]
	switch slot.Class {
	case VarInteger:
		slot.Bound, slot.To = true, TyInt
		return SymInt, true
	case VarFloat:
		slot.Bound, slot.To = true, TyFloat
		return SymFloat, true
	}
	return NoSymbolID, false
}

// Peek is SymbolOf without side effects: literal variables report their
// default symbol but stay unbound.
func (t *Table) Peek(s Sym) (SymbolID, bool) {
	s = t.Resolve(s)
	if !s.IsVar() {
		return s.Symbol, true
	}
	switch t.vars[s.Var].Class {
	case VarInteger:
		return SymInt, true
	case VarFloat:
		return SymFloat, true
	}
	return NoSymbolID, false
}

// VarSpan returns where an unresolved variable was created.
func (t *Table) VarSpan(s Sym) (source.Span, bool) {
	s = t.Resolve(s)
	if !s.IsVar() {
		return source.Span{}, false
	}
	return t.vars[s.Var].Span, true
}

// Finalize defaults every variable still unbound after analysis: integer
// literals become int, float literals float, and plain variables NEVER (no
// value ever flowed into them).
func (t *Table) Finalize() (defaulted int) {
	for i := 1; i < len(t.vars); i++ {
		slot := &t.vars[i]
		if slot.Bound {
			continue
		}
		slot.Bound = true
		switch slot.Class {
		case VarInteger:
			slot.To = TyInt
		case VarFloat:
			slot.To = TyFloat
		default:
			slot.To = TyNever
			defaulted++
		}
	}
	return defaulted
}

func (t *Table) is(s Sym, id SymbolID) bool {
	s = t.Resolve(s)
	return !s.IsVar() && s.Symbol == id
}

func (t *Table) IsError(s Sym) bool { return t.is(s, SymError) }
func (t *Table) IsNever(s Sym) bool { return t.is(s, SymNever) }

// IsBottom reports ERROR or NEVER.
func (t *Table) IsBottom(s Sym) bool { return t.IsError(s) || t.IsNever(s) }

func (t *Table) IsInt(s Sym) bool {
	id, ok := t.Peek(s)
	return ok && id.IsInt()
}

func (t *Table) IsNum(s Sym) bool {
	id, ok := t.Peek(s)
	return ok && id.IsNum()
}

// Caps returns the operator capabilities of s.
func (t *Table) Caps(s Sym) Caps {
	id, ok := t.Peek(s)
	if !ok {
		return 0
	}
	return t.Symbol(id).Caps
}

package symbols

// Sym is the type of an evaluated expression: either a concrete symbol with
// its generics list, or a type variable (Var set) resolved through the table.
// Sym is comparable; use Table.Eq for type equality.
type Sym struct {
	Var    VarID
	Symbol SymbolID
	Gens   GensID
}

var (
	TyUnit  = Sym{Symbol: SymUnit}
	TyNever = Sym{Symbol: SymNever}
	TyError = Sym{Symbol: SymError}
	TyBool  = Sym{Symbol: SymBool}
	TyInt   = Sym{Symbol: SymInt}
	TyFloat = Sym{Symbol: SymFloat}
	TyStr   = Sym{Symbol: SymStr}
	TyRange = Sym{Symbol: SymRange}
)

// IsVar reports whether s is a type variable handle (resolved or not).
func (s Sym) IsVar() bool { return s.Var.IsValid() }

// VarClass restricts what a type variable may be bound to.
type VarClass uint8

const (
	VarPlain VarClass = iota
	// VarInteger comes from an integer literal and defaults to int.
	VarInteger
	// VarFloat comes from a float literal and defaults to float.
	VarFloat
)

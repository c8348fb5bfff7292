package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"margarine/internal/source"
)

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Scopes, Symbols, Namespaces uint }

type varSlot struct {
	Class VarClass
	Bound bool
	To    Sym
	Span  source.Span
}

// Table owns every symbol, namespace, scope, generics list and type-variable
// slot of one analysis session.
type Table struct {
	Strings    *source.Interner
	Namespaces *Namespaces
	Scopes     *Scopes

	symbols []Symbol
	gens    [][]GenBinding
	vars    []varSlot
	tuples  map[int]SymbolID

	// Prelude holds the built-in names; Root is the scope that exposes it.
	Prelude NamespaceID
	Root    ScopeID
}

// NewTable builds a table seeded with the built-in symbols.
// If strings is nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	nsCap, err := safecast.Conv[uint32](h.Namespaces)
	if err != nil {
		panic(fmt.Errorf("namespace capacity overflow: %w", err))
	}
	if h.Symbols == 0 {
		h.Symbols = 64
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	t := &Table{
		Strings:    strings,
		Namespaces: NewNamespaces(nsCap),
		Scopes:     NewScopes(scopeCap),
		symbols:    make([]Symbol, 1, h.Symbols+1),
		gens:       make([][]GenBinding, 1, h.Symbols+1),
		vars:       make([]varSlot, 1, h.Symbols+1),
		tuples:     make(map[int]SymbolID),
	}
	t.Prelude = t.Namespaces.New(source.NoStringID)
	t.Root = t.Scopes.PushNamespace(NoScopeID, t.Prelude)
	t.installBuiltins()
	return t
}

// Pending reserves a symbol (and its namespace) before its definition is known.
func (t *Table) Pending(path, name source.StringID, generics []source.StringID, span source.Span) SymbolID {
	value, err := safecast.Conv[uint32](len(t.symbols))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	t.symbols = append(t.symbols, Symbol{
		Name:      name,
		Path:      path,
		Generics:  generics,
		Namespace: t.Namespaces.New(path),
		Span:      span,
		Kind:      SymbolPending,
	})
	return SymbolID(value)
}

func (t *Table) Symbol(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(t.symbols) {
		panic(fmt.Sprintf("symbols: invalid symbol id %d", id))
	}
	return &t.symbols[id]
}

// Len counts symbols including built-ins.
func (t *Table) Len() int { return len(t.symbols) - 1 }

func (t *Table) mustBePending(id SymbolID) *Symbol {
	sym := t.Symbol(id)
	if sym.Kind != SymbolPending {
		panic(fmt.Sprintf("symbols: symbol %d filled twice", id))
	}
	return sym
}

// FillContainer defines a pending symbol as a struct, enum or tuple.
func (t *Table) FillContainer(id SymbolID, c Container) {
	sym := t.mustBePending(id)
	sym.Kind = SymbolContainer
	sym.Container = c
}

// FillFunction defines a pending symbol as a function.
func (t *Table) FillFunction(id SymbolID, f Function) {
	sym := t.mustBePending(id)
	sym.Kind = SymbolFunction
	sym.Function = f
}

// FillEnum defines an enum and adds one constructor function per variant to
// its namespace. Payload-less variants take no arguments.
func (t *Table) FillEnum(id SymbolID, variants []Field, implicitUnit []bool) {
	t.FillContainer(id, Container{Kind: ContainerEnum, Fields: variants})
	sym := t.Symbol(id)
	self := t.selfGeneric(id)
	ns := sym.Namespace
	for i, v := range variants {
		var args []FunctionArg
		if i >= len(implicitUnit) || !implicitUnit[i] {
			args = []FunctionArg{{Name: source.StrValue, Type: v.Type}}
		}
		path := t.Strings.Concat(sym.Path, v.Name)
		ctor := t.Pending(path, v.Name, sym.Generics, v.Type.Span)
		t.FillFunction(ctor, Function{
			Args:    args,
			Ret:     self,
			Origin:  OriginEnumVariant,
			Variant: i,
		})
		t.Namespaces.Get(ns).AddSym(v.Name, ctor)
	}
}

// selfGeneric is Name<T, U...> with every generic parameter left open.
func (t *Table) selfGeneric(id SymbolID) Generic {
	sym := t.Symbol(id)
	args := make([]GenericArg, 0, len(sym.Generics))
	for _, g := range sym.Generics {
		args = append(args, GenericArg{Name: g, Gen: GenVar(sym.Span, g)})
	}
	return GenSym(sym.Span, id, args...)
}

// AddGens stores a generics list. Empty lists share NoGensID.
func (t *Table) AddGens(list []GenBinding) GensID {
	if len(list) == 0 {
		return NoGensID
	}
	value, err := safecast.Conv[uint32](len(t.gens))
	if err != nil {
		panic(fmt.Errorf("generics arena overflow: %w", err))
	}
	t.gens = append(t.gens, list)
	return GensID(value)
}

// Gens returns a stored generics list. READONLY.
func (t *Table) Gens(id GensID) []GenBinding {
	if int(id) >= len(t.gens) {
		panic(fmt.Sprintf("symbols: invalid generics id %d", id))
	}
	return t.gens[id]
}

// GensOf returns the generics of s after resolving variables.
func (t *Table) GensOf(s Sym) []GenBinding {
	s = t.Resolve(s)
	if s.IsVar() {
		return nil
	}
	return t.Gens(s.Gens)
}

// GenOf returns the binding of one named generic parameter of s.
func (t *Table) GenOf(s Sym, name source.StringID) (Sym, bool) {
	return lookupBinding(t.GensOf(s), name)
}

// Instantiate returns Symbol<...> built from sym and bindings in declaration order.
func (t *Table) Instantiate(id SymbolID, args ...Sym) Sym {
	sym := t.Symbol(id)
	if len(args) != len(sym.Generics) {
		panic(fmt.Sprintf("symbols: %d generic args for %d parameters", len(args), len(sym.Generics)))
	}
	list := make([]GenBinding, len(args))
	for i, a := range args {
		list[i] = GenBinding{Name: sym.Generics[i], Sym: a}
	}
	return Sym{Symbol: id, Gens: t.AddGens(list)}
}

// NewVar allocates a fresh type variable.
func (t *Table) NewVar(span source.Span, class VarClass) Sym {
	value, err := safecast.Conv[uint32](len(t.vars))
	if err != nil {
		panic(fmt.Errorf("type variable arena overflow: %w", err))
	}
	t.vars = append(t.vars, varSlot{Class: class, Span: span})
	return Sym{Var: VarID(value)}
}

// VarCount is the number of type variables allocated so far.
func (t *Table) VarCount() int { return len(t.vars) - 1 }

package symbols

import (
	"strconv"
	"strings"

	"margarine/internal/source"
)

// TupleSymbol returns the tuple container of the given arity, creating it on
// first use. Its slots and generic parameters are named "0", "1", ...
func (t *Table) TupleSymbol(arity int) SymbolID {
	if id, ok := t.tuples[arity]; ok {
		return id
	}
	names := make([]source.StringID, arity)
	fields := make([]Field, arity)
	for i := range arity {
		names[i] = t.Strings.Intern(strconv.Itoa(i))
		fields[i] = Field{Name: names[i], Type: GenVar(source.Span{}, names[i])}
	}
	path := t.Strings.Intern("(" + strconv.Itoa(arity) + "-tuple)")
	id := t.Pending(path, path, names, source.Span{})
	t.FillContainer(id, Container{Kind: ContainerTuple, Fields: fields})
	t.tuples[arity] = id
	return id
}

// TypeName renders s for diagnostics.
func (t *Table) TypeName(s Sym) string {
	var sb strings.Builder
	t.writeType(&sb, s, 0)
	return sb.String()
}

func (t *Table) writeType(sb *strings.Builder, s Sym, depth int) {
	if depth > 32 {
		sb.WriteString("...")
		return
	}
	s = t.Resolve(s)
	if s.IsVar() {
		switch t.vars[s.Var].Class {
		case VarInteger:
			sb.WriteString("{integer}")
		case VarFloat:
			sb.WriteString("{float}")
		default:
			sb.WriteString("_")
		}
		return
	}
	sym := t.Symbol(s.Symbol)
	gens := t.Gens(s.Gens)
	if sym.IsContainer(ContainerTuple) {
		sb.WriteByte('(')
		for i, g := range gens {
			if i > 0 {
				sb.WriteString(", ")
			}
			t.writeType(sb, g.Sym, depth+1)
		}
		sb.WriteByte(')')
		return
	}
	sb.WriteString(t.Strings.MustLookup(sym.Path))
	if len(gens) == 0 {
		return
	}
	sb.WriteByte('<')
	// declaration order, not binding order
	for i, name := range sym.Generics {
		if i > 0 {
			sb.WriteString(", ")
		}
		if g, ok := lookupBinding(gens, name); ok {
			t.writeType(sb, g, depth+1)
		} else {
			sb.WriteByte('_')
		}
	}
	sb.WriteByte('>')
}

// GenericName renders a declared type such as a field or parameter type.
// Generic parameters print by name.
func (t *Table) GenericName(g Generic) string {
	var sb strings.Builder
	t.writeGeneric(&sb, g, 0)
	return sb.String()
}

func (t *Table) writeGeneric(sb *strings.Builder, g Generic, depth int) {
	if depth > 32 {
		sb.WriteString("...")
		return
	}
	switch g.Kind {
	case GenericVar:
		sb.WriteString(t.Strings.MustLookup(g.Name))
		return
	case GenericError:
		sb.WriteString("{error}")
		return
	}
	sym := t.Symbol(g.Symbol)
	if sym.IsContainer(ContainerTuple) {
		sb.WriteByte('(')
		for i, name := range sym.Generics {
			if i > 0 {
				sb.WriteString(", ")
			}
			t.writeGenericArg(sb, g.Args, name, depth)
		}
		sb.WriteByte(')')
		return
	}
	sb.WriteString(t.Strings.MustLookup(sym.Path))
	if len(g.Args) == 0 {
		return
	}
	sb.WriteByte('<')
	for i, name := range sym.Generics {
		if i > 0 {
			sb.WriteString(", ")
		}
		t.writeGenericArg(sb, g.Args, name, depth)
	}
	sb.WriteByte('>')
}

func (t *Table) writeGenericArg(sb *strings.Builder, args []GenericArg, name source.StringID, depth int) {
	for _, a := range args {
		if a.Name == name {
			t.writeGeneric(sb, a.Gen, depth+1)
			return
		}
	}
	sb.WriteByte('_')
}

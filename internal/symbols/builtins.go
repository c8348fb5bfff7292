package symbols

import (
	"fmt"

	"margarine/internal/source"
)

type builtin struct {
	id       SymbolID
	name     string
	generics []source.StringID
	caps     Caps
	prelude  bool
}

const (
	intCaps   = CapArith | CapBitwise | CapOrdering | CapEquality
	floatCaps = CapArith | CapOrdering | CapEquality
)

var builtinSymbols = [...]builtin{
	{id: SymUnit, name: "()", caps: CapEquality},
	{id: SymNever, name: "!"},
	{id: SymError, name: "{error}"},
	{id: SymBool, name: "bool", caps: CapBitwise | CapEquality, prelude: true},
	{id: SymI8, name: "i8", caps: intCaps, prelude: true},
	{id: SymI16, name: "i16", caps: intCaps, prelude: true},
	{id: SymI32, name: "i32", caps: intCaps, prelude: true},
	{id: SymI64, name: "i64", caps: intCaps, prelude: true},
	{id: SymU8, name: "u8", caps: intCaps, prelude: true},
	{id: SymU16, name: "u16", caps: intCaps, prelude: true},
	{id: SymU32, name: "u32", caps: intCaps, prelude: true},
	{id: SymU64, name: "u64", caps: intCaps, prelude: true},
	{id: SymF32, name: "f32", caps: floatCaps, prelude: true},
	{id: SymF64, name: "f64", caps: floatCaps, prelude: true},
	{id: SymStr, name: "str", caps: CapEquality, prelude: true},
	{id: SymRange, name: "Range", prelude: true},
	{id: SymPtr, name: "Ptr", generics: []source.StringID{source.StrT}, prelude: true},
	{id: SymOption, name: "Option", generics: []source.StringID{source.StrT}, prelude: true},
	{id: SymResult, name: "Result", generics: []source.StringID{source.StrT, source.StrE}, prelude: true},
}

func (t *Table) installBuiltins() {
	for _, b := range builtinSymbols {
		name := t.Strings.Intern(b.name)
		id := t.Pending(name, name, b.generics, source.Span{})
		if id != b.id {
			panic(fmt.Sprintf("symbols: builtin %q got id %d, want %d", b.name, id, b.id))
		}
		if b.prelude {
			// Pending растит арену пространств имён, указатель берём заново
			t.Namespaces.Get(t.Prelude).AddSym(name, id)
		}
	}
	prelude := t.Namespaces.Get(t.Prelude)
	prelude.AddSym(source.StrInt, SymInt)
	prelude.AddSym(source.StrFloat, SymFloat)

	for _, b := range builtinSymbols {
		switch b.id {
		case SymOption, SymResult, SymRange:
			continue
		}
		t.FillContainer(b.id, Container{Kind: ContainerStruct})
	}

	var none source.Span
	t.FillEnum(SymOption, []Field{
		{Name: source.StrSome, Type: GenVar(none, source.StrT)},
		{Name: source.StrNone, Type: GenSym(none, SymUnit)},
	}, []bool{false, true})
	t.FillEnum(SymResult, []Field{
		{Name: source.StrOk, Type: GenVar(none, source.StrT)},
		{Name: source.StrErr, Type: GenVar(none, source.StrE)},
	}, nil)

	t.FillContainer(SymRange, Container{Kind: ContainerStruct, Fields: []Field{
		{Name: source.StrMin, Type: GenSym(none, SymInt)},
		{Name: source.StrMax, Type: GenSym(none, SymInt)},
	}})
	// Range is iterable: __next__(inout self: Range) -> Option<int>.
	rangeNS := t.Symbol(SymRange).Namespace
	next := t.Pending(t.Strings.Concat(t.Symbol(SymRange).Path, source.StrIterNext), source.StrIterNext, nil, none)
	t.FillFunction(next, Function{
		Args:   []FunctionArg{{Name: source.StrSelf, Type: GenSym(none, SymRange), Inout: true}},
		Ret:    GenSym(none, SymOption, GenericArg{Name: source.StrT, Gen: GenSym(none, SymInt)}),
		Origin: OriginBuiltin,
	})
	t.Namespaces.Get(rangeNS).AddSym(source.StrIterNext, next)

	for _, b := range builtinSymbols {
		t.Symbol(b.id).Caps = b.caps
	}
}

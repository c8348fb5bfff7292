package diagfmt

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"fortio.org/safecast"

	"margarine/internal/ast"
	"margarine/internal/sema"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

// SemanticsInput carries the data required to build a semantic dump of one root.
type SemanticsInput struct {
	Builder *ast.Builder
	FileID  ast.FileID
	Result  *sema.Result
}

// SemanticsOutput represents semantic data emitted for one snapshot root.
type SemanticsOutput struct {
	File     uint32         `json:"file"`
	Symbols  []SymbolJSON   `json:"symbols"`
	Exprs    []ExprTypeJSON `json:"exprs"`
	Calls    []CallJSON     `json:"calls,omitempty"`
	Bodies   []BodyJSON     `json:"bodies,omitempty"`
	Startups []string       `json:"startups,omitempty"`
	Value    string         `json:"value"`
	// Defaulted counts type variables that fell back to their default.
	Defaulted int `json:"defaulted"`
}

type SymbolJSON struct {
	ID       uint32      `json:"id"`
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	Kind     string      `json:"kind"`
	Generics []string    `json:"generics,omitempty"`
	Span     source.Span `json:"span"`
	// Container part
	Container string      `json:"container,omitempty"`
	Fields    []FieldJSON `json:"fields,omitempty"`
	// Function part
	Origin string      `json:"origin,omitempty"`
	Args   []FieldJSON `json:"args,omitempty"`
	Ret    string      `json:"ret,omitempty"`
}

type FieldJSON struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Inout bool   `json:"inout,omitempty"`
}

type ExprTypeJSON struct {
	ExprID  uint32      `json:"expr_id"`
	Kind    string      `json:"kind"`
	Span    source.Span `json:"span"`
	Type    string      `json:"type"`
	Mutable bool        `json:"mutable,omitempty"`
}

type CallJSON struct {
	ExprID uint32   `json:"expr_id"`
	Callee string   `json:"callee"`
	Gens   []string `json:"gens,omitempty"`
}

type BodyJSON struct {
	DeclID uint32 `json:"decl_id"`
	Type   string `json:"type"`
}

// BuildSemanticsOutput flattens a sema result into a stable, sorted dump.
func BuildSemanticsOutput(in *SemanticsInput) (*SemanticsOutput, error) {
	if in == nil || in.Result == nil || in.Result.Table == nil || in.Builder == nil {
		return nil, fmt.Errorf("semantics: incomplete input")
	}
	table := in.Result.Table
	out := &SemanticsOutput{
		File:      uint32(in.FileID),
		Symbols:   make([]SymbolJSON, 0, table.Len()),
		Exprs:     make([]ExprTypeJSON, 0, len(in.Result.Exprs)),
		Value:     table.TypeName(in.Result.Value.Type),
		Defaulted: in.Result.Defaulted,
	}

	// Symbols stored with sentinel at index 0.
	for idx := 1; idx <= table.Len(); idx++ {
		symValue, err := safecast.Conv[uint32](idx)
		if err != nil {
			return nil, fmt.Errorf("semantics: symbol id overflow: %w", err)
		}
		sym := table.Symbol(symbols.SymbolID(symValue))
		out.Symbols = append(out.Symbols, symbolJSON(table, symValue, sym))
	}

	for _, exprID := range sortedKeys(in.Result.Exprs) {
		expr := in.Builder.Exprs.Get(exprID)
		if expr == nil {
			continue
		}
		res := in.Result.Exprs[exprID]
		out.Exprs = append(out.Exprs, ExprTypeJSON{
			ExprID:  uint32(exprID),
			Kind:    expr.Kind.String(),
			Span:    expr.Span,
			Type:    table.TypeName(res.Type),
			Mutable: res.Mutable,
		})
	}

	for _, exprID := range sortedKeys(in.Result.Calls) {
		info := in.Result.Calls[exprID]
		call := CallJSON{ExprID: uint32(exprID), Callee: symbolPath(table, info.Func)}
		for _, b := range table.Gens(info.Gens) {
			call.Gens = append(call.Gens, lookup(table, b.Name)+"="+table.TypeName(b.Sym))
		}
		out.Calls = append(out.Calls, call)
	}

	for _, declID := range sortedKeys(in.Result.Bodies) {
		out.Bodies = append(out.Bodies, BodyJSON{
			DeclID: uint32(declID),
			Type:   table.TypeName(in.Result.Bodies[declID].Type),
		})
	}

	for _, id := range in.Result.Startups {
		out.Startups = append(out.Startups, symbolPath(table, id))
	}
	return out, nil
}

func symbolJSON(table *symbols.Table, id uint32, sym *symbols.Symbol) SymbolJSON {
	sj := SymbolJSON{
		ID:   id,
		Name: lookup(table, sym.Name),
		Path: lookup(table, sym.Path),
		Kind: sym.Kind.String(),
		Span: sym.Span,
	}
	for _, g := range sym.Generics {
		sj.Generics = append(sj.Generics, lookup(table, g))
	}
	switch sym.Kind {
	case symbols.SymbolContainer:
		sj.Container = sym.Container.Kind.String()
		for _, f := range sym.Container.Fields {
			sj.Fields = append(sj.Fields, FieldJSON{Name: lookup(table, f.Name), Type: table.GenericName(f.Type)})
		}
	case symbols.SymbolFunction:
		sj.Origin = sym.Function.Origin.String()
		for _, a := range sym.Function.Args {
			sj.Args = append(sj.Args, FieldJSON{Name: lookup(table, a.Name), Type: table.GenericName(a.Type), Inout: a.Inout})
		}
		sj.Ret = table.GenericName(sym.Function.Ret)
	}
	return sj
}

func symbolPath(table *symbols.Table, id symbols.SymbolID) string {
	if !id.IsValid() || int(id) > table.Len() {
		return ""
	}
	sym := table.Symbol(id)
	if path := lookup(table, sym.Path); path != "" {
		return path
	}
	return lookup(table, sym.Name)
}

func lookup(table *symbols.Table, id source.StringID) string {
	s, _ := table.Strings.Lookup(id)
	return s
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Semantics пишет дамп для всех корней снапшота.
func Semantics(w io.Writer, inputs []*SemanticsInput) error {
	outputs := make([]*SemanticsOutput, 0, len(inputs))
	for _, in := range inputs {
		out, err := BuildSemanticsOutput(in)
		if err != nil {
			return err
		}
		outputs = append(outputs, out)
	}
	return writeIndented(w, outputs)
}

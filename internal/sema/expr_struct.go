package sema

import (
	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

// structLiteral checks `Type { field: value, ... }`. A generic struct
// written without type arguments gets a fresh variable per parameter,
// resolved by the field values.
func (tc *typeChecker) structLiteral(path source.StringID, scope symbols.ScopeID, id ast.ExprID, span source.Span, s *ast.ExprStructData) (AnalysisResult, *diag.Diagnostic) {
	values := make([]ast.ExprID, 0, len(s.Fields))
	for _, f := range s.Fields {
		values = append(values, f.Value)
	}

	gen, d := tc.dtToGenOpen(scope, s.Type)
	if d != nil {
		tc.walk(path, scope, values...)
		return errorResult(), d
	}
	sym, ok := gen.SymbolID()
	if !ok {
		tc.walk(path, scope, values...)
		return bypass()
	}
	generics := tc.table.Symbol(sym).Generics
	bindings := make([]symbols.GenBinding, 0, len(generics))
	for _, g := range generics {
		bindings = append(bindings, symbols.GenBinding{Name: g, Sym: tc.table.NewVar(span, symbols.VarPlain)})
	}
	ty, err := tc.table.ToTy(gen, bindings)
	if err != nil {
		tc.walk(path, scope, values...)
		return errorResult(), errUnknownGeneric(err, tc.typeSpan(s.Type))
	}
	if tc.table.IsBottom(ty) {
		tc.walk(path, scope, values...)
		res, d, _ := tc.bottom(ty)
		return res, d
	}

	def := tc.table.Symbol(sym)
	if !def.IsContainer(symbols.ContainerStruct) {
		tc.walk(path, scope, values...)
		return errorResult(), fail(errorf(diag.SemaStructLiteralOnNonStruct, tc.typeSpan(s.Type)).WithTypes(ty))
	}
	fields := def.Container.Fields

	given := make([]bool, len(fields))
	for _, f := range s.Fields {
		idx := def.Container.FieldIndex(f.Name)
		if idx < 0 {
			tc.walk(path, scope, values...)
			return errorResult(), errFieldDoesntExist(f.Span, f.Name, ty)
		}
		if given[idx] {
			tc.walk(path, scope, values...)
			return errorResult(), fail(errorf(diag.SemaDuplicateField, f.Span).WithName(f.Name))
		}
		given[idx] = true
	}
	var missing []source.StringID
	for i, ok := range given {
		if !ok {
			missing = append(missing, fields[i].Name)
		}
	}
	if len(missing) > 0 {
		tc.walk(path, scope, values...)
		return errorResult(), fail(errorf(diag.SemaMissingFields, span).WithName(missing...).WithTypes(ty))
	}

	gens := tc.table.GensOf(ty)
	for _, f := range s.Fields {
		field := fields[def.Container.FieldIndex(f.Name)]
		want, err := tc.table.ToTy(field.Type, gens)
		if err != nil {
			tc.error(nodeOf(id), errUnknownGeneric(err, f.Span))
			tc.walk(path, scope, f.Value)
			continue
		}
		got := tc.expr(path, scope, f.Value)
		if !tc.table.Eq(got.Type, want) {
			tc.error(nodeOf(id), errTypeMismatch(f.Span, got.Type, want))
		}
	}
	return value(ty), nil
}

// fieldAccess returns the field type of a struct or tuple. On an enum it
// names a variant and yields Option<payload>.
func (tc *typeChecker) fieldAccess(path source.StringID, scope symbols.ScopeID, span source.Span, f *ast.ExprFieldData) (AnalysisResult, *diag.Diagnostic) {
	v := tc.expr(path, scope, f.Value)
	if res, d, stop := tc.bottom(v.Type); stop {
		return res, d
	}
	sym, d := tc.symbolOf(v.Type, tc.exprSpan(f.Value))
	if d != nil {
		return errorResult(), d
	}
	def := tc.table.Symbol(sym)
	if def.Kind != symbols.SymbolContainer {
		return errorResult(), fail(errorf(diag.SemaFieldAccessOnNonContainer, span).WithName(f.Field).WithTypes(v.Type))
	}
	idx := def.Container.FieldIndex(f.Field)
	if idx < 0 {
		return errorResult(), errFieldDoesntExist(span, f.Field, v.Type)
	}
	ty, err := tc.table.ToTy(def.Container.Fields[idx].Type, tc.table.GensOf(v.Type))
	if err != nil {
		return errorResult(), errUnknownGeneric(err, span)
	}
	if def.Container.Kind == symbols.ContainerEnum {
		ty = tc.table.Instantiate(symbols.SymOption, ty)
	}
	return AnalysisResult{Type: ty, Mutable: v.Mutable}, nil
}

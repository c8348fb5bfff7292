package sema

import (
	"slices"

	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

// match checks an enum match. Every variant must be covered exactly once and
// all arms unify into one shared result variable. An arm binding receives
// the payload of its variant.
func (tc *typeChecker) match(path source.StringID, scope symbols.ScopeID, span source.Span, m *ast.ExprMatchData) (AnalysisResult, *diag.Diagnostic) {
	v := tc.expr(path, scope, m.Value)
	valueSpan := tc.exprSpan(m.Value)

	// обходим ветви с ERROR-привязками, чтобы у всех узлов был тип
	walkArms := func() {
		for _, arm := range m.Arms {
			inner := tc.table.Scopes.PushVariable(scope, arm.Binding, symbols.TyError, arm.Inout)
			tc.expr(path, inner, arm.Body)
		}
	}

	if tc.table.IsBottom(v.Type) {
		walkArms()
		res, d, _ := tc.bottom(v.Type)
		return res, d
	}
	sym, d := tc.symbolOf(v.Type, valueSpan)
	if d != nil {
		walkArms()
		return errorResult(), d
	}
	enum := tc.table.Symbol(sym)
	if !enum.IsContainer(symbols.ContainerEnum) {
		walkArms()
		return errorResult(), fail(errorf(diag.SemaMatchValueIsntEnum, valueSpan).WithTypes(v.Type))
	}
	variants := enum.Container.Fields

	indices := make([]int, len(m.Arms))
	seen := make([]bool, len(variants))
	for i, arm := range m.Arms {
		idx := enum.Container.FieldIndex(arm.Variant)
		if idx < 0 {
			walkArms()
			return errorResult(), fail(errorf(diag.SemaInvalidMatch, arm.Span).WithName(arm.Variant).WithTypes(v.Type))
		}
		if seen[idx] {
			first := m.Arms[slices.Index(indices[:i], idx)]
			walkArms()
			return errorResult(), fail(errorf(diag.SemaDuplicateMatch, arm.Span).WithSpan(first.Span).WithName(arm.Variant))
		}
		seen[idx] = true
		indices[i] = idx
	}
	var missing []source.StringID
	for i, ok := range seen {
		if !ok {
			missing = append(missing, variants[i].Name)
		}
	}
	if len(missing) > 0 {
		walkArms()
		return errorResult(), fail(errorf(diag.SemaMissingMatch, span).WithName(missing...).WithTypes(v.Type))
	}

	if m.Inout && !v.Mutable {
		tc.error(nodeOf(m.Value), errInOut(diag.SemaInOutValueIsntMut, valueSpan))
	}

	result := tc.table.NewVar(span, symbols.VarPlain)
	gens := tc.table.GensOf(v.Type)
	for i, arm := range m.Arms {
		if arm.Inout && !m.Inout {
			tc.error(nodeOf(arm.Body), errInOut(diag.SemaInOutValueWithoutInOutBinding, arm.BindingSpan))
		}
		payload, err := tc.table.ToTy(variants[indices[i]].Type, gens)
		if err != nil {
			tc.error(nodeOf(arm.Body), errUnknownGeneric(err, arm.Span))
			payload = symbols.TyError
		}
		inner := tc.table.Scopes.PushVariable(scope, arm.Binding, payload, arm.Inout)
		body := tc.expr(path, inner, arm.Body)
		if !tc.table.Eq(body.Type, result) {
			tc.error(nodeOf(arm.Body), errTypeMismatch(tc.exprSpan(arm.Body), body.Type, result))
		}
	}
	return value(result), nil
}

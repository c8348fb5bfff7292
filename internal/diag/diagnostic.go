package diag

import (
	"margarine/internal/source"
	"margarine/internal/symbols"
)

// Diagnostic is a structured finding. It carries no text: renderers build
// the message from Code and the typed payload below.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Primary  source.Span
	// Spans are secondary locations (the earlier definition, the return type, ...).
	Spans []source.Span
	// Names are identifiers involved: the missing variant, the unknown field, ...
	Names []source.StringID
	// Types are involved types, usually in (found, expected) order.
	Types []symbols.Sym
	// Counts are arities: (found, expected).
	Counts []int
	Detail string
}

func New(sev Severity, code Code, primary source.Span) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
	}
}

func NewError(code Code, primary source.Span) Diagnostic {
	return New(SevError, code, primary)
}

func (d Diagnostic) WithSpan(sp source.Span) Diagnostic {
	d.Spans = append(d.Spans, sp)
	return d
}

func (d Diagnostic) WithName(names ...source.StringID) Diagnostic {
	d.Names = append(d.Names, names...)
	return d
}

func (d Diagnostic) WithTypes(types ...symbols.Sym) Diagnostic {
	d.Types = append(d.Types, types...)
	return d
}

func (d Diagnostic) WithCounts(found, expected int) Diagnostic {
	d.Counts = append(d.Counts, found, expected)
	return d
}

func (d Diagnostic) WithDetail(detail string) Diagnostic {
	d.Detail = detail
	return d
}

package diagfmt

import (
	"encoding/json"
	"io"

	"margarine/internal/diag"
	"margarine/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string         `json:"severity"`
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Location LocationJSON   `json:"location"`
	Related  []LocationJSON `json:"related,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Path        string           `json:"path"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(in Input, span source.Span, opts JSONOpts) LocationJSON {
	loc := LocationJSON{
		File:      in.pathOf(span, opts.PathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if !opts.IncludePositions {
		return loc
	}
	if start, end, ok := in.position(span); ok {
		loc.StartLine = start.Line
		loc.StartCol = start.Col
		loc.EndLine = end.Line
		loc.EndCol = end.Col
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(in Input, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{
		Path:        formatPath(in.Path, opts.PathMode),
		Diagnostics: []DiagnosticJSON{},
	}
	if in.Bag == nil {
		return out
	}

	items := in.Bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for _, d := range items {
		out.Diagnostics = append(out.Diagnostics, diagnosticJSON(in, d, opts))
	}
	out.Count = len(out.Diagnostics)
	return out
}

func diagnosticJSON(in Input, d diag.Diagnostic, opts JSONOpts) DiagnosticJSON {
	dj := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  Message(d, in.Table),
		Location: makeLocation(in, d.Primary, opts),
	}
	for _, sp := range d.Spans {
		dj.Related = append(dj.Related, makeLocation(in, sp, opts))
	}
	return dj
}

// JSON форматирует диагностики одного снапшота в JSON.
func JSON(w io.Writer, in Input, opts JSONOpts) error {
	return writeIndented(w, BuildDiagnosticsOutput(in, opts))
}

// JSONAll пишет массив результатов для нескольких снапшотов.
func JSONAll(w io.Writer, inputs []Input, opts JSONOpts) error {
	outputs := make([]DiagnosticsOutput, 0, len(inputs))
	for _, in := range inputs {
		outputs = append(outputs, BuildDiagnosticsOutput(in, opts))
	}
	return writeIndented(w, outputs)
}

func writeIndented(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

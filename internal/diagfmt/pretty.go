package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"margarine/internal/diag"
	"margarine/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, gutter    *color.Color
	caret, note     *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждой диагностики печатает
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// затем строки контекста с подчёркиванием ^~~~ по span.
func Pretty(w io.Writer, in Input, opts PrettyOpts) {
	if in.Bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range in.Bag.Items() {
		prettyOne(w, in, d, opts, p)
	}
}

func prettyOne(w io.Writer, in Input, d diag.Diagnostic, opts PrettyOpts, p palette) {
	loc := in.pathOf(d.Primary, opts.PathMode)
	start, _, ok := in.position(d.Primary)
	if ok {
		loc = fmt.Sprintf("%s:%d:%d", loc, start.Line, start.Col)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		loc,
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		Message(d, in.Table))
	if ok {
		writeSnippet(w, in, d.Primary, opts.Context, p)
	}
	if !opts.ShowSecondary {
		return
	}
	for _, sp := range d.Spans {
		at := in.pathOf(sp, opts.PathMode)
		if s, _, ok := in.position(sp); ok {
			at = fmt.Sprintf("%s:%d:%d", at, s.Line, s.Col)
		}
		fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), at)
		if _, _, ok := in.position(sp); ok {
			writeSnippet(w, in, sp, 0, p)
		}
	}
}

// writeSnippet prints the lines around span with a caret row under its
// first line. Text is NFC-normalised and carets follow display width, so
// wide and combining characters line up.
func writeSnippet(w io.Writer, in Input, span source.Span, context int8, p palette) {
	f := in.sourceOf(span)
	start, end := in.Files.Resolve(span)

	ctx := uint32(max(context, 0))
	lines, err := safecast.Conv[uint32](len(f.LineIdx) + 1)
	if err != nil {
		return
	}
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := min(start.Line+ctx, lines)
	gutterWidth := len(strconv.FormatUint(uint64(last), 10))

	for n := first; n <= last; n++ {
		text := f.GetLine(n)
		num := fmt.Sprintf("%*d", gutterWidth, n)
		fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), expandTabs(norm.NFC.String(text)))
		if n != start.Line {
			continue
		}

		col := int(start.Col) - 1
		col = min(max(col, 0), len(text))
		stop := len(text)
		if end.Line == start.Line {
			stop = min(max(int(end.Col)-1, col), len(text))
		}
		pad := displayWidth(text[:col])
		width := max(displayWidth(text[col:stop]), 1)
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, " %s %s %s%s\n",
			strings.Repeat(" ", gutterWidth),
			p.gutter.Sprint("|"),
			strings.Repeat(" ", pad),
			p.caret.Sprint(marker))
	}
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(norm.NFC.String(s)))
}

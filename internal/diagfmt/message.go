package diagfmt

import (
	"fmt"
	"strings"

	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

// Message builds the text of d from its code and payload. table may be nil
// for diagnostics raised before analysis; names and types are then omitted.
func Message(d diag.Diagnostic, table *symbols.Table) string {
	var sb strings.Builder
	sb.WriteString(d.Code.Title())

	names := quotedNames(d.Names, table)
	types := typeNames(d.Types, table)

	switch d.Code {
	case diag.SemaMissingMatch, diag.SemaMissingFields:
		if len(names) > 0 {
			sb.WriteString(": missing ")
			sb.WriteString(strings.Join(names, ", "))
		}
		if len(types) > 0 {
			fmt.Fprintf(&sb, " in `%s`", types[0])
		}
		return sb.String()

	case diag.SemaInvalidBinaryOp:
		if len(types) == 2 {
			fmt.Fprintf(&sb, ": `%s` %s `%s`", types[0], d.Detail, types[1])
			return sb.String()
		}

	case diag.SemaInvalidUnaryOp:
		if len(types) == 1 {
			fmt.Fprintf(&sb, ": %s`%s`", d.Detail, types[0])
			return sb.String()
		}

	case diag.SemaResultErrMismatch:
		if len(types) == 2 {
			fmt.Fprintf(&sb, ": `%s` can't be returned as `%s`", types[0], types[1])
			return sb.String()
		}

	case diag.SemaNestingTooDeep:
		if len(d.Counts) == 2 {
			fmt.Fprintf(&sb, " (limit %d)", d.Counts[1])
		}
		return sb.String()
	}

	if len(names) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(names, ", "))
	}
	switch len(types) {
	case 0:
	case 1:
		fmt.Fprintf(&sb, " (type `%s`)", types[0])
	default:
		fmt.Fprintf(&sb, ": expected `%s`, found `%s`", types[1], types[0])
	}
	if len(d.Counts) == 2 {
		fmt.Fprintf(&sb, " (found %d, expected %d)", d.Counts[0], d.Counts[1])
	}
	if d.Detail != "" && d.Code != diag.SemaInvalidBinaryOp && d.Code != diag.SemaInvalidUnaryOp {
		sb.WriteString(": ")
		sb.WriteString(d.Detail)
	}
	return sb.String()
}

func quotedNames(ids []source.StringID, table *symbols.Table) []string {
	if table == nil || len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if s, ok := table.Strings.Lookup(id); ok {
			out = append(out, "`"+s+"`")
		}
	}
	return out
}

func typeNames(types []symbols.Sym, table *symbols.Table) []string {
	if table == nil || len(types) == 0 {
		return nil
	}
	out := make([]string, 0, len(types))
	for _, ty := range types {
		out = append(out, table.TypeName(ty))
	}
	return out
}

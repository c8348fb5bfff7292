package diagfmt

import (
	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short paths and shortens long absolute ones to the basename.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeBasename
)

// Input is one checked snapshot as renderers see it.
type Input struct {
	// Path of the snapshot; used for diagnostics whose span has no source file.
	Path  string
	Bag   *diag.Bag
	Files *source.FileSet
	// Table renders names and types. It is nil when the snapshot failed to load.
	Table *symbols.Table
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	Context  int8 // строки контекста до и после основной
	PathMode PathMode
	// ShowSecondary prints the secondary spans under the primary one.
	ShowSecondary bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}

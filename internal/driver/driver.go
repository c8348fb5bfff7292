package driver

import (
	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/observ"
	"margarine/internal/sema"
	"margarine/internal/source"
	"margarine/internal/symbols"
	"margarine/internal/trace"
)

// Options control a check run.
type Options struct {
	// MaxDiagnostics caps the diagnostics kept per snapshot; <= 0 is unlimited.
	MaxDiagnostics int
	// MaxDepth is passed to sema.Options.MaxDepth.
	MaxDepth int
	// Jobs bounds how many snapshots are checked at once; <= 0 uses GOMAXPROCS.
	Jobs int
	// Tracer receives driver and pass spans. nil disables tracing.
	Tracer trace.Tracer
	// Timer collects per-phase timings when not nil.
	Timer *observ.Timer
}

// Unit is one checked snapshot. All roots of a snapshot share the string
// table and the symbol table, so its diagnostics render against Table.
type Unit struct {
	Path     string
	Snapshot *ast.Snapshot
	Files    *source.FileSet
	Table    *symbols.Table
	Bag      *diag.Bag
	Results  []FileResult
}

// FileResult is the analysis of one root file of a snapshot.
type FileResult struct {
	Root ast.FileID
	Sema sema.Result
}

// HasErrors reports whether the unit failed to load or check.
func (u *Unit) HasErrors() bool {
	return u != nil && u.Bag != nil && u.Bag.HasErrors()
}

// Strings returns the interner the unit's diagnostics refer to.
func (u *Unit) Strings() *source.Interner {
	if u == nil || u.Snapshot == nil {
		return nil
	}
	return u.Snapshot.Strings
}

func (o Options) tracer() trace.Tracer {
	if o.Tracer == nil {
		return trace.Nop
	}
	return o.Tracer
}

// phase times a driver step when a timer is configured.
func (o Options) phase(name string, fn func() string) {
	if o.Timer == nil {
		fn()
		return
	}
	o.Timer.Track(name, fn)
}

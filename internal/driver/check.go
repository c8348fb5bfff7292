package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"margarine/internal/diag"
	"margarine/internal/sema"
	"margarine/internal/symbols"
	"margarine/internal/trace"
)

// CheckUnit runs the semantic analysis over every root of a loaded unit.
// Roots share one symbol table; each gets its own top-level namespace.
func CheckUnit(ctx context.Context, unit *Unit, opts Options) {
	if unit == nil || unit.Snapshot == nil {
		return
	}
	tracer := opts.tracer()
	span := trace.Begin(tracer, trace.ScopeFile, "file:"+filepath.Base(unit.Path), trace.CurrentSpan(ctx))
	defer span.End("")

	snap := unit.Snapshot
	unit.Table = symbols.NewTable(symbols.Hints{}, snap.Strings)
	unit.Results = make([]FileResult, 0, len(snap.Roots))
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: unit.Bag})
	for _, root := range snap.Roots {
		if ctx.Err() != nil {
			return
		}
		res := sema.Check(snap.Tree, snap.Strings, root, sema.Options{
			Reporter: reporter,
			Tracer:   tracer,
			MaxDepth: opts.MaxDepth,
			Table:    unit.Table,
		})
		unit.Results = append(unit.Results, FileResult{Root: root, Sema: res})
	}
	unit.Bag.Sort()
	span.WithExtra("roots", strconv.Itoa(len(snap.Roots)))
	span.WithExtra("diagnostics", strconv.Itoa(unit.Bag.Len()))
}

// CheckFiles loads and checks snapshots in parallel, at most opts.Jobs at a
// time. Units keep the order of paths. Per-file failures are diagnostics;
// the error is only set when ctx is cancelled.
func CheckFiles(ctx context.Context, paths []string, opts Options) ([]*Unit, error) {
	tracer := opts.tracer()
	span := trace.Begin(tracer, trace.ScopeDriver, "check_files", 0)
	defer span.End("")
	span.WithExtra("files", strconv.Itoa(len(paths)))
	ctx = trace.WithSpan(ctx, span)

	units := make([]*Unit, len(paths))
	if len(paths) == 0 {
		return units, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var unit *Unit
			opts.phase("load "+filepath.Base(path), func() string {
				unit = LoadUnit(path, opts.MaxDiagnostics)
				return ""
			})
			opts.phase("sema "+filepath.Base(path), func() string {
				CheckUnit(gctx, unit, opts)
				return fmt.Sprintf("diags=%d", unit.Bag.Len())
			})
			// индекс i уникален для горутины, мьютекс не нужен
			units[i] = unit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return units, err
	}
	return units, nil
}

// Summary counts what a run produced.
type Summary struct {
	Files    int
	Errors   int
	Warnings int
}

func Summarize(units []*Unit) Summary {
	var s Summary
	for _, u := range units {
		if u == nil {
			continue
		}
		s.Files++
		for _, d := range u.Bag.Items() {
			switch {
			case d.Severity.IsError():
				s.Errors++
			case d.Severity == diag.SevWarning:
				s.Warnings++
			}
		}
	}
	return s
}

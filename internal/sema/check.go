package sema

import (
	"strconv"

	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/source"
	"margarine/internal/symbols"
	"margarine/internal/trace"
)

// DefaultMaxDepth bounds expression nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 4096

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// MaxDepth limits expression nesting; deeper nodes get SemaNestingTooDeep.
	MaxDepth int
	Hints    symbols.Hints
	// Table lets several files share one symbol table. A fresh one is built when nil.
	Table *symbols.Table
}

// AnalysisResult is the type of an evaluated expression and whether it
// denotes a mutable place.
type AnalysisResult struct {
	Type    symbols.Sym
	Mutable bool
}

// CallInfo records the resolved callee of a call and the generic bindings
// inferred at the call site.
type CallInfo struct {
	Func symbols.SymbolID
	Gens symbols.GensID
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	Table *symbols.Table
	// Exprs has an entry for every expression that was evaluated; failed ones hold ERROR.
	Exprs map[ast.ExprID]AnalysisResult
	Calls map[ast.ExprID]CallInfo
	// Startups lists system functions marked with the startup attribute.
	Startups []symbols.SymbolID
	// Errors maps failed nodes to their first error code. SemaBypass marks
	// nodes poisoned by an error reported elsewhere.
	Errors map[ast.NodeID]diag.Code
	// Bodies holds the evaluated body type of every checked function.
	Bodies map[ast.DeclID]AnalysisResult
	// Namespace is the top-level namespace of the file.
	Namespace symbols.NamespaceID
	// Value is the type of the file's last top-level expression.
	Value AnalysisResult
	// Defaulted counts type variables no value ever flowed into.
	Defaulted int
}

// TypeOf returns the recorded type of an expression.
func (r *Result) TypeOf(id ast.ExprID) (symbols.Sym, bool) {
	res, ok := r.Exprs[id]
	return res.Type, ok
}

// Check performs semantic analysis of one file: name collection, type
// computation, inference and validation. Diagnostics go to opts.Reporter.
func Check(builder *ast.Builder, strings *source.Interner, fileID ast.FileID, opts Options) Result {
	table := opts.Table
	if table == nil {
		table = symbols.NewTable(opts.Hints, strings)
	}
	res := Result{
		Table:  table,
		Exprs:  make(map[ast.ExprID]AnalysisResult),
		Calls:  make(map[ast.ExprID]CallInfo),
		Errors: make(map[ast.NodeID]diag.Code),
		Bodies: make(map[ast.DeclID]AnalysisResult),
	}
	if builder == nil || fileID == ast.NoFileID {
		return res
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	checker := typeChecker{
		builder:  builder,
		fileID:   fileID,
		table:    table,
		reporter: opts.Reporter,
		tracer:   opts.Tracer,
		result:   &res,
		maxDepth: maxDepth,
	}
	checker.run()
	return res
}

type typeChecker struct {
	builder  *ast.Builder
	fileID   ast.FileID
	table    *symbols.Table
	reporter diag.Reporter
	tracer   trace.Tracer // трассировщик для отладки
	result   *Result

	// phase открывает span фазы; вне run это no-op
	phase func(name string) func()

	maxDepth      int
	exprDepth     int
	blockDepth    int
	depthReported bool
}

func (tc *typeChecker) run() {
	file := tc.builder.Files.Get(tc.fileID)
	if file == nil {
		return
	}

	var rootSpan *trace.Span
	if tc.tracer != nil && tc.tracer.Enabled() {
		rootSpan = trace.Begin(tc.tracer, trace.ScopePass, "sema_check", 0)
		defer rootSpan.End("")
	}

	// Helper для создания phase spans; вложенные блоки фаз не открывают
	tc.phase = func(name string) func() {
		if tc.blockDepth > 1 || tc.tracer == nil || !tc.tracer.Level().ShouldEmit(trace.ScopePass) {
			return func() {}
		}
		var parentID uint64
		if rootSpan != nil {
			parentID = rootSpan.ID()
		}
		span := trace.Begin(tc.tracer, trace.ScopePass, name, parentID)
		return func() { span.End("") }
	}
	defer func() { tc.phase = nil }()

	tc.result.Value = tc.block(source.NoStringID, tc.table.Root, file.Body)

	done := tc.phase("finalize")
	tc.result.Defaulted = tc.table.Finalize()
	done()

	if rootSpan != nil {
		rootSpan.WithExtra("exprs", strconv.Itoa(len(tc.result.Exprs)))
		rootSpan.WithExtra("errors", strconv.Itoa(len(tc.result.Errors)))
	}
}

func (tc *typeChecker) beginPhase(name string) func() {
	if tc.phase == nil {
		return func() {}
	}
	return tc.phase(name)
}

// error records code for node and reports d unless it is a bypass marker.
func (tc *typeChecker) error(node ast.NodeID, d *diag.Diagnostic) {
	if d == nil {
		return
	}
	if prev, seen := tc.result.Errors[node]; !seen || prev == diag.SemaBypass {
		tc.result.Errors[node] = d.Code
	}
	if d.Code == diag.SemaBypass || tc.reporter == nil {
		return
	}
	tc.reporter.Report(*d)
}

func (tc *typeChecker) strings() *source.Interner {
	return tc.table.Strings
}

func (tc *typeChecker) exprSpan(id ast.ExprID) source.Span {
	if e := tc.builder.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}

func (tc *typeChecker) typeSpan(id ast.TypeID) source.Span {
	if t := tc.builder.Types.Get(id); t != nil {
		return t.Span
	}
	return source.Span{}
}

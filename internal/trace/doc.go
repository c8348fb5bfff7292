// Package trace provides a tracing subsystem for the margarine checker.
//
// Tracing follows the analysis of snapshot files through the driver and the
// semantic passes. It is the operational log of the tool.
//
// # Usage
//
//	margarine check --trace=- --trace-level=phase main.mtree
//
// # Tracers
//
//   - Nop: no-op tracer used when tracing is disabled
//   - StreamTracer: writes events to a file or stderr as they happen
//   - RingTracer: keeps the last events in memory and dumps them on a crash
//   - MultiTracer: fans events out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits driver and pass boundaries, LevelDetail adds per-file
// events and LevelDebug adds every evaluated expression.
//
//	span := trace.Begin(t, trace.ScopePass, "collect_names", parentID)
//	defer span.End("")
package trace

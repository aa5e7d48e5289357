// Package trace is the event log of swiftcore.
//
// Property runs, individual properties and the copy-on-write machinery of
// the swift package report what they do through a Tracer. Nothing is
// recorded unless a tracer is installed and its level admits the event's
// scope.
//
// # Usage
//
//	swiftcore check --trace=- --trace-level=debug --property slice-divergence
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for dumps after a failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Levels admit progressively finer scopes:
//
//   - LevelRun: whole check runs (ScopeRun)
//   - LevelProperty: each property (ScopeProperty)
//   - LevelCase: each generated case (ScopeCase)
//   - LevelDebug: storage forks, slices and write-backs (ScopeStorage)
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeProperty, "set-algebra", parentID)
//	defer span.End("")
package trace

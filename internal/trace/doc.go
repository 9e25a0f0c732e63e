// Package trace provides span tracing for lint runs.
//
// Tracing tracks discovery, scanning and rule phases to help diagnose slow
// files and hangs.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	saslint lint --trace=- --trace-level=phase src/
//
// # Architecture
//
//   - Nop: no-op tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumped on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only ring dumps on failure
//   - LevelPhase: driver and phase boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything including per-rule events
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "scan", parentID)
//	defer span.End("")
package trace

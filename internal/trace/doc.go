// Package trace records spans for the stages of a build so slow compilers,
// hung programs and cache behaviour can be diagnosed after the fact.
//
// # Usage
//
//	ec --trace=- --trace-level=detail solution.cpp
//	ec headers --trace=headers.ndjson --trace-level=debug *.cpp
//
// # Tracers
//
//   - Nop: disabled tracing, zero work per event
//   - StreamTracer: writes each event as it happens
//   - RingTracer: keeps the last N events for a dump on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A level admits every scope up to a ceiling:
//
//   - LevelPhase: ScopeCommand and ScopeStage (read, headers, compile, run...)
//   - LevelDetail: adds ScopeFile, one span per source file
//   - LevelDebug: adds ScopeProcess, child process lifecycles
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeStage, "compile", trace.CurrentSpan(ctx).SpanID)
//	defer span.End("")
package trace

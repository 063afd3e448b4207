// Package observability provides monitoring and debugging capabilities for
// the View engine through metrics and distributed tracing, plus the
// AgentEvent stream that feeds the dev inspector.
//
// # Overview
//
// The observability package covers two of the three pillars directly:
//
//  1. Metrics - Quantitative measurements using Prometheus (ViewMetrics)
//  2. Tracing - Distributed request tracing with OpenTelemetry (Tracer)
//
// Logging is left to log/slog directly (see cmd/viewctl/main.go), the same
// way it is at the call sites of every other package in this module -
// there is no wrapper type here to configure or redact through.
//
// It also defines EventEmitter/EventSink, the plumbing that turns a
// build/condense run into a stream of models.AgentEvent for the dev
// inspector (internal/view/inspector) to broadcast.
//
// # Metrics
//
// ViewMetrics tracks:
//   - Build outcomes and durations (view.BuildView)
//   - Raw vs. validated sequence length
//   - Manipulation index cache hit/miss counts
//   - Condenser decisions, forgotten-event counts, and durations
//   - Dev inspector connected-client and dropped-event counts
//
// Example usage:
//
//	metrics := observability.NewViewMetrics()
//	start := time.Now()
//	v, err := view.BuildView(raw)
//	metrics.RecordBuild(outcomeFor(err), len(raw), len(v.Validated), time.Since(start).Seconds())
//
// # Tracing
//
// Distributed tracing uses OpenTelemetry to track builds and condense runs:
//
//	tracer, shutdown := observability.NewTracer(observability.TraceConfig{
//	    ServiceName: "viewengine",
//	    Endpoint:    os.Getenv("OTEL_ENDPOINT"),
//	})
//	defer shutdown(context.Background())
//
//	ctx, span := tracer.TraceBuild(ctx, runID, len(raw))
//	defer span.End()
//
// # Event stream
//
// EventEmitter generates models.AgentEvent for a run's build/condense
// lifecycle and dispatches them through an EventSink. BackpressureSink
// feeds the dev inspector's WebSocket clients without letting a slow
// client block the run; ChanSink, MultiSink, CallbackSink, and NopSink
// cover the remaining ways a caller might want to consume the stream.
//
//	sink, events := observability.NewBackpressureSink(observability.DefaultBackpressureConfig())
//	emitter := observability.NewEventEmitter(runID, sink)
//	emitter.BuildStarted(ctx, len(raw))
//	go func() {
//	    for e := range events {
//	        inspectorServer.Emit(ctx, e)
//	    }
//	}()
//
// # Testing
//
// All components provide testable interfaces:
//   - Metrics can be verified using prometheus/testutil
//   - Tracing works with no-op exporters in tests
package observability

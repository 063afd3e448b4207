package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ViewMetrics provides a centralized interface for collecting Prometheus
// metrics about the View engine: how many builds run and how they turn
// out, how much a raw sequence shrinks on its way to a validated View, how
// often the manipulation-index cache pays off, and how the condenser
// behaves.
//
// Usage:
//
//	metrics := observability.NewViewMetrics()
//	metrics.RecordBuild(outcome, len(raw), len(v.Validated), time.Since(start).Seconds())
type ViewMetrics struct {
	// BuildCounter counts view.BuildView invocations by outcome.
	// Labels: outcome (caller-supplied; viewctl records ok or error)
	BuildCounter *prometheus.CounterVec

	// BuildDurationSeconds measures view.BuildView wall time.
	// Labels: outcome
	// Buckets: 1ms, 5ms, 10ms, 50ms, 100ms, 500ms, 1s, 5s
	BuildDurationSeconds *prometheus.HistogramVec

	// RawSequenceLength observes the length of the raw event sequence
	// passed into a build.
	RawSequenceLength prometheus.Histogram

	// ValidatedSequenceLength observes the length of the resulting
	// validated sequence, so raw-vs-validated shrinkage is visible as
	// two overlaid histograms.
	ValidatedSequenceLength prometheus.Histogram

	// ManipulationIndexCacheCounter counts whether a Builder's lazily
	// computed ManipulationIndexCalculator was reused (hit) or built
	// fresh (miss) for a given call.
	// Labels: result (hit|miss)
	ManipulationIndexCacheCounter *prometheus.CounterVec

	// CondenseCounter counts condenser decisions by outcome.
	// Labels: strategy (force|llm_summarizing), outcome (applied|failed|skipped)
	CondenseCounter *prometheus.CounterVec

	// CondenseForgottenEvents observes how many events one condensation
	// forgets.
	// Labels: strategy
	CondenseForgottenEvents *prometheus.HistogramVec

	// CondenseDurationSeconds measures condenser wall time, dominated by
	// the summarizer round trip.
	// Labels: strategy
	CondenseDurationSeconds *prometheus.HistogramVec

	// InspectorConnectedClients is a gauge of currently connected dev
	// inspector WebSocket clients.
	InspectorConnectedClients prometheus.Gauge

	// InspectorDroppedEvents counts events dropped because a client's
	// send buffer was full.
	InspectorDroppedEvents prometheus.Counter
}

// NewViewMetrics creates and registers all View engine Prometheus metrics
// with the default registry. Call once at process startup.
func NewViewMetrics() *ViewMetrics {
	return &ViewMetrics{
		BuildCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viewengine_builds_total",
				Help: "Total number of view.BuildView invocations by outcome",
			},
			[]string{"outcome"},
		),

		BuildDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "viewengine_build_duration_seconds",
				Help:    "Duration of view.BuildView calls in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"outcome"},
		),

		RawSequenceLength: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "viewengine_raw_sequence_length",
				Help:    "Length of the raw event sequence passed into a build",
				Buckets: prometheus.ExponentialBuckets(4, 2, 12),
			},
		),

		ValidatedSequenceLength: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "viewengine_validated_sequence_length",
				Help:    "Length of the validated event sequence produced by a build",
				Buckets: prometheus.ExponentialBuckets(4, 2, 12),
			},
		),

		ManipulationIndexCacheCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viewengine_manipulation_index_cache_total",
				Help: "Builder.Indices/NextIndex calls by whether the calculator was cached",
			},
			[]string{"result"},
		),

		CondenseCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viewengine_condense_total",
				Help: "Total number of condenser decisions by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),

		CondenseForgottenEvents: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "viewengine_condense_forgotten_events",
				Help:    "Number of events forgotten by one condensation",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"strategy"},
		),

		CondenseDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "viewengine_condense_duration_seconds",
				Help:    "Duration of condenser Condense calls in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
			[]string{"strategy"},
		),

		InspectorConnectedClients: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "viewengine_inspector_connected_clients",
				Help: "Current number of connected dev inspector WebSocket clients",
			},
		),

		InspectorDroppedEvents: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "viewengine_inspector_dropped_events_total",
				Help: "Total number of events dropped due to a full inspector client send buffer",
			},
		),
	}
}

// RecordBuild records the outcome and shrinkage of one view.BuildView call.
//
// Example:
//
//	start := time.Now()
//	v, err := view.BuildView(raw)
//	metrics.RecordBuild(outcomeFor(err), len(raw), len(v.Validated), time.Since(start).Seconds())
func (m *ViewMetrics) RecordBuild(outcome string, rawLen, validatedLen int, durationSeconds float64) {
	m.BuildCounter.WithLabelValues(outcome).Inc()
	m.BuildDurationSeconds.WithLabelValues(outcome).Observe(durationSeconds)
	m.RawSequenceLength.Observe(float64(rawLen))
	if outcome == "ok" {
		m.ValidatedSequenceLength.Observe(float64(validatedLen))
	}
}

// RecordManipulationIndexCache records whether a Builder reused its cached
// ManipulationIndexCalculator (hit) or built one fresh (miss).
func (m *ViewMetrics) RecordManipulationIndexCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ManipulationIndexCacheCounter.WithLabelValues(result).Inc()
}

// RecordCondense records the outcome of one condenser decision.
//
// Example:
//
//	start := time.Now()
//	c, err := condenser.Condense(ctx, v, raw)
//	metrics.RecordCondense("force", outcomeFor(err), len(c.ForgottenIDs), time.Since(start).Seconds())
func (m *ViewMetrics) RecordCondense(strategy, outcome string, forgottenCount int, durationSeconds float64) {
	m.CondenseCounter.WithLabelValues(strategy, outcome).Inc()
	m.CondenseDurationSeconds.WithLabelValues(strategy).Observe(durationSeconds)
	if outcome == "applied" {
		m.CondenseForgottenEvents.WithLabelValues(strategy).Observe(float64(forgottenCount))
	}
}

// InspectorClientConnected increments the connected-clients gauge.
func (m *ViewMetrics) InspectorClientConnected() {
	m.InspectorConnectedClients.Inc()
}

// InspectorClientDisconnected decrements the connected-clients gauge.
func (m *ViewMetrics) InspectorClientDisconnected() {
	m.InspectorConnectedClients.Dec()
}

// InspectorEventDropped increments the dropped-events counter.
func (m *ViewMetrics) InspectorEventDropped() {
	m.InspectorDroppedEvents.Inc()
}

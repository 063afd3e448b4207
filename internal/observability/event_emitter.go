package observability

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/haasonsaas/viewengine/pkg/models"
)

// EventEmitter generates AgentEvents describing the lifecycle of a build or
// condense run, with monotonic sequencing, and dispatches them to a sink.
type EventEmitter struct {
	runID    string
	sequence uint64

	sink EventSink
}

// NewEventEmitter creates a new event emitter. sink may be nil, in which
// case events are generated but not dispatched anywhere (useful for tests
// that only check the returned event).
func NewEventEmitter(runID string, sink EventSink) *EventEmitter {
	return &EventEmitter{runID: runID, sink: sink}
}

// nextSeq returns the next sequence number (atomic, monotonic).
func (e *EventEmitter) nextSeq() uint64 {
	return atomic.AddUint64(&e.sequence, 1)
}

func (e *EventEmitter) base(eventType models.AgentEventType) models.AgentEvent {
	return models.AgentEvent{
		Version:  1,
		Type:     eventType,
		Time:     time.Now(),
		Sequence: e.nextSeq(),
		RunID:    e.runID,
	}
}

func (e *EventEmitter) emit(ctx context.Context, event models.AgentEvent) {
	if e.sink != nil {
		e.sink.Emit(ctx, event)
	}
}

// BuildStarted emits a view.build.started event.
func (e *EventEmitter) BuildStarted(ctx context.Context, rawCount int) models.AgentEvent {
	event := e.base(models.AgentEventBuildStarted)
	event.View = &models.ViewEventPayload{RawCount: rawCount}
	e.emit(ctx, event)
	return event
}

// BuildValidated emits a view.build.validated event once the projected
// sequence has been computed.
func (e *EventEmitter) BuildValidated(ctx context.Context, rawCount, validatedCount, forgottenCount int, unhandled bool) models.AgentEvent {
	event := e.base(models.AgentEventBuildValidated)
	event.View = &models.ViewEventPayload{
		RawCount:                     rawCount,
		ValidatedCount:               validatedCount,
		ForgottenCount:               forgottenCount,
		UnhandledCondensationRequest: unhandled,
	}
	e.emit(ctx, event)
	return event
}

// BuildIndicesComputed emits a view.build.indices_computed event.
func (e *EventEmitter) BuildIndicesComputed(ctx context.Context, rawCount, indexCount int) models.AgentEvent {
	event := e.base(models.AgentEventBuildIndicesComputed)
	event.View = &models.ViewEventPayload{RawCount: rawCount, IndexCount: indexCount}
	e.emit(ctx, event)
	return event
}

// BuildFinished emits a view.build.finished event with stats.
func (e *EventEmitter) BuildFinished(ctx context.Context, stats *models.RunStats) models.AgentEvent {
	event := e.base(models.AgentEventBuildFinished)
	if stats != nil {
		event.Stats = &models.StatsEventPayload{Run: stats}
	}
	e.emit(ctx, event)
	return event
}

// BuildError emits a view.build.error event.
func (e *EventEmitter) BuildError(ctx context.Context, err error, retriable bool) models.AgentEvent {
	event := e.base(models.AgentEventBuildError)
	event.Error = &models.ErrorEventPayload{
		Message:   err.Error(),
		Retriable: retriable,
		Err:       err,
	}
	e.emit(ctx, event)
	return event
}

// CondenseTriggered emits a condense.triggered event.
func (e *EventEmitter) CondenseTriggered(ctx context.Context, strategy string, cutIndex int) models.AgentEvent {
	event := e.base(models.AgentEventCondenseTriggered)
	event.Condense = &models.CondenseEventPayload{Strategy: strategy, CutIndex: cutIndex}
	e.emit(ctx, event)
	return event
}

// CondenseApplied emits a condense.applied event.
func (e *EventEmitter) CondenseApplied(ctx context.Context, strategy string, forgottenIDs, summaryChars int) models.AgentEvent {
	event := e.base(models.AgentEventCondenseApplied)
	event.Condense = &models.CondenseEventPayload{
		Strategy:     strategy,
		ForgottenIDs: forgottenIDs,
		SummaryChars: summaryChars,
	}
	e.emit(ctx, event)
	return event
}

// CondenseFailed emits a condense.failed event.
func (e *EventEmitter) CondenseFailed(ctx context.Context, strategy string, err error) models.AgentEvent {
	event := e.base(models.AgentEventCondenseFailed)
	event.Condense = &models.CondenseEventPayload{Strategy: strategy}
	event.Error = &models.ErrorEventPayload{Message: err.Error(), Err: err}
	e.emit(ctx, event)
	return event
}

// ToolReplayed emits a view.build.tool_replayed event describing one raw
// ActionEvent or one raw ObservationEvent as a build is replayed for the
// inspector.
func (e *EventEmitter) ToolReplayed(ctx context.Context, tool models.ToolEvent) models.AgentEvent {
	event := e.base(models.AgentEventToolReplayed)
	event.Tool = &tool
	e.emit(ctx, event)
	return event
}

// StatsCollector accumulates statistics from an event stream.
type StatsCollector struct {
	stats models.RunStats
}

// NewStatsCollector creates a new stats collector.
func NewStatsCollector(runID string) *StatsCollector {
	return &StatsCollector{
		stats: models.RunStats{RunID: runID, StartedAt: time.Now()},
	}
}

// OnEvent processes an event and updates stats. Implements the CallbackSink
// function signature so it can be wired directly into an EventEmitter's sink.
func (c *StatsCollector) OnEvent(ctx context.Context, e models.AgentEvent) {
	switch e.Type {
	case models.AgentEventBuildFinished:
		c.stats.Builds++
		if e.View != nil {
			c.stats.TotalForgotten += e.View.ForgottenCount
		}
	case models.AgentEventCondenseApplied:
		c.stats.CondenseRounds++
		if e.Condense != nil {
			c.stats.TotalForgotten += e.Condense.ForgottenIDs
		}
	case models.AgentEventBuildError, models.AgentEventCondenseFailed:
		c.stats.Errors++
	}
}

// Stats returns the accumulated statistics.
func (c *StatsCollector) Stats() *models.RunStats {
	stats := c.stats
	if stats.FinishedAt.IsZero() {
		stats.FinishedAt = time.Now()
		stats.WallTime = stats.FinishedAt.Sub(stats.StartedAt)
	}
	return &stats
}

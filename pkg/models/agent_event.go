// Package models provides shared domain types used by the View engine and
// the tooling built around it (condenser, recorder, dev inspector).
package models

import (
	"time"
)

// AgentEvent is the unified event model used to stream View-engine build
// activity to the dev inspector and to any other observer.
//
// Design principles carried over from the teacher's agent runtime:
//   - Versioned and forward-compatible (add fields, don't rename/remove)
//   - Single Type discriminator with optional payload pointers
//   - Monotonic Sequence for ordering guarantees across goroutines
//
// This is distinct from the View engine's own Event type (package view):
// AgentEvent describes what the *tooling around* the engine is doing
// (starting a build, computing indices, applying a condensation); the
// engine's Event describes the conversation being projected.
type AgentEvent struct {
	// Version for forward compatibility. Current version: 1.
	Version int `json:"version"`

	// Type identifies the kind of event.
	Type AgentEventType `json:"type"`

	// Time is when the event occurred.
	Time time.Time `json:"time"`

	// Sequence is monotonic within a run for ordering guarantees.
	Sequence uint64 `json:"seq"`

	// RunID identifies the build/condense run this event belongs to.
	RunID string `json:"run_id,omitempty"`

	// Exactly one payload should be non-nil for a given Type.
	Text     *TextEventPayload     `json:"text,omitempty"`
	View     *ViewEventPayload     `json:"view,omitempty"`
	Condense *CondenseEventPayload `json:"condense,omitempty"`
	Error    *ErrorEventPayload    `json:"error,omitempty"`
	Stats    *StatsEventPayload    `json:"stats,omitempty"`
	Tool     *ToolEvent            `json:"tool,omitempty"`
}

// AgentEventType identifies the kind of event.
type AgentEventType string

const (
	// Build lifecycle
	AgentEventBuildStarted          AgentEventType = "view.build.started"
	AgentEventBuildValidated        AgentEventType = "view.build.validated"
	AgentEventBuildIndicesComputed  AgentEventType = "view.build.indices_computed"
	AgentEventBuildFinished         AgentEventType = "view.build.finished"
	AgentEventBuildError            AgentEventType = "view.build.error"

	// Condenser lifecycle
	AgentEventCondenseTriggered AgentEventType = "condense.triggered"
	AgentEventCondenseApplied   AgentEventType = "condense.applied"
	AgentEventCondenseFailed    AgentEventType = "condense.failed"

	// Tool replay, one per raw ActionEvent and one per raw ObservationEvent
	AgentEventToolReplayed AgentEventType = "view.build.tool_replayed"
)

// TextEventPayload is generic human-readable text (logs, status messages).
type TextEventPayload struct {
	Text string `json:"text"`
}

// ViewEventPayload describes the outcome of a build_view/manipulation_indices call.
type ViewEventPayload struct {
	RawCount        int  `json:"raw_count"`
	ValidatedCount  int  `json:"validated_count"`
	ForgottenCount  int  `json:"forgotten_count,omitempty"`
	IndexCount      int  `json:"index_count,omitempty"`
	UnhandledCondensationRequest bool `json:"unhandled_condensation_request,omitempty"`
}

// CondenseEventPayload describes a condenser decision.
type CondenseEventPayload struct {
	Strategy      string `json:"strategy"`
	CutIndex      int    `json:"cut_index"`
	ForgottenIDs  int    `json:"forgotten_ids"`
	SummaryChars  int    `json:"summary_chars,omitempty"`
}

// ErrorEventPayload standardizes errors for streaming.
type ErrorEventPayload struct {
	// Message is the error description (required).
	Message string `json:"message"`

	// Retriable indicates if the operation can be retried.
	Retriable bool `json:"retriable,omitempty"`

	// Err is the original error (runtime only, not serialized).
	// Used to preserve error types for errors.Is/errors.As.
	Err error `json:"-"`
}

// StatsEventPayload carries run statistics as an event.
type StatsEventPayload struct {
	Run *RunStats `json:"run,omitempty"`
}

// RunStats is an aggregated summary of a build/condense run, derived from
// the event stream for observability.
type RunStats struct {
	RunID string `json:"run_id,omitempty"`

	StartedAt  time.Time     `json:"started_at,omitempty"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
	WallTime   time.Duration `json:"wall_time,omitempty"`

	Builds          int `json:"builds,omitempty"`
	CondenseRounds  int `json:"condense_rounds,omitempty"`
	TotalForgotten  int `json:"total_forgotten,omitempty"`
	DroppedEvents   int `json:"dropped_events,omitempty"`

	Errors int `json:"errors,omitempty"`
}

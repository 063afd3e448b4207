// Package view projects a raw, append-only event log of an agent-LLM
// conversation into a well-formed sequence suitable for submission to an
// LLM API, and computes safe manipulation indices where that sequence may
// be shortened or extended without violating LLM-API structural
// invariants.
//
// The package is a pure function library: nothing here performs I/O,
// retries, logging, or scheduling. Every exported function takes an input
// event sequence and returns a fresh value; inputs are never mutated.
package view

// EventId is an opaque, unique identifier for one event. Callers mint ids;
// the engine only ever compares them for equality.
type EventId string

// LlmResponseId is stamped on every ActionEvent produced by a single LLM
// response. All actions sharing one id form an atomic batch.
type LlmResponseId string

// ToolCallId correlates one ActionEvent to its ObservationEvent.
type ToolCallId string

// MessageSource distinguishes a MessageEvent's author.
type MessageSource string

const (
	SourceUser      MessageSource = "user"
	SourceAssistant MessageSource = "assistant"
)

// ObservationKind distinguishes the three equivalent-for-engine-purposes
// flavors of ObservationEvent.
type ObservationKind string

const (
	ObservationNormal       ObservationKind = "normal"
	ObservationUserRejected ObservationKind = "user_rejected"
	ObservationAgentError   ObservationKind = "agent_error"
)

// Event is a tagged value: exactly one of the six variant types below.
// The unexported marker method closes the set so no external package can
// introduce a seventh variant; see DESIGN.md for why this repository uses
// an interface with a private method here instead of a Kind-discriminated
// struct — the six variants carry genuinely different fields, and a single
// struct would need every field optional.
type Event interface {
	eventID() EventId
	isEvent()
}

// SystemEvent carries initial system prompt material. Always retained by
// every property; its ordering relative to other events is unconstrained.
type SystemEvent struct {
	ID      EventId
	Content string
}

func (e SystemEvent) eventID() EventId { return e.ID }
func (SystemEvent) isEvent()           {}

// MessageEvent is a user or assistant text message.
type MessageEvent struct {
	ID      EventId
	Source  MessageSource
	Content string
}

func (e MessageEvent) eventID() EventId { return e.ID }
func (MessageEvent) isEvent()           {}

// ThinkingBlock is an opaque reasoning payload attached to an ActionEvent.
// The engine never inspects its contents, only whether the slice is empty.
type ThinkingBlock struct {
	Content string
}

// ActionEvent is an LLM-issued tool call.
type ActionEvent struct {
	ID             EventId
	LlmResponseID  LlmResponseId
	ToolCallID     ToolCallId
	ThinkingBlocks []ThinkingBlock
	ToolName       string
	Input          []byte
}

func (e ActionEvent) eventID() EventId { return e.ID }
func (ActionEvent) isEvent()           {}

// HasThinking reports whether this action carries non-empty thinking
// blocks, which is what marks the start of a tool loop (§4.4).
func (e ActionEvent) HasThinking() bool {
	return len(e.ThinkingBlocks) > 0
}

// ObservationEvent is the result of a tool call.
type ObservationEvent struct {
	ID         EventId
	ToolCallID ToolCallId
	Kind       ObservationKind
	Content    string
}

func (e ObservationEvent) eventID() EventId { return e.ID }
func (ObservationEvent) isEvent()           {}

// CondensationRequest marks that the condenser has been asked to shrink
// the context. It is a meta-event: it never appears in a validated View.
type CondensationRequest struct {
	ID EventId
}

func (e CondensationRequest) eventID() EventId { return e.ID }
func (CondensationRequest) isEvent()           {}

// Condensation is a commit by the condenser. It is a meta-event: it never
// appears in a validated View.
type Condensation struct {
	ID            EventId
	ForgottenIDs  map[EventId]struct{}
	Summary       string
	SummaryOffset int
}

func (e Condensation) eventID() EventId { return e.ID }
func (Condensation) isEvent()           {}

// isMetaEvent reports whether an event is one of the two meta-event
// variants that never appear in a validated sequence.
func isMetaEvent(e Event) bool {
	switch e.(type) {
	case CondensationRequest, Condensation:
		return true
	default:
		return false
	}
}

// ID returns e's identifier. It is the exported counterpart to the
// interface's private eventID method, for callers outside this package
// that hold an Event and need to compare or index by identity.
func ID(e Event) EventId {
	return e.eventID()
}

// asAction reports whether e is an ActionEvent, returning it and true if so.
func asAction(e Event) (ActionEvent, bool) {
	a, ok := e.(ActionEvent)
	return a, ok
}

// asObservation reports whether e is an ObservationEvent, returning it and
// true if so.
func asObservation(e Event) (ObservationEvent, bool) {
	o, ok := e.(ObservationEvent)
	return o, ok
}

package viewtape

import (
	"encoding/json"
	"time"

	"github.com/haasonsaas/viewengine/internal/view"
)

// Tape records one run's raw event sequence and, once computed, its built
// View and manipulation indices — enough to replay view.BuildView against
// a golden fixture in a test without regenerating the trace.
type Tape struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	RunID     string    `json:"run_id,omitempty"`

	Raw []wireEvent `json:"raw"`

	Validated                    []wireEvent `json:"validated,omitempty"`
	UnhandledCondensationRequest bool        `json:"unhandled_condensation_request,omitempty"`
	MostRecentSummary            *string     `json:"most_recent_summary,omitempty"`

	ManipulationIndices []int `json:"manipulation_indices,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// New creates an empty tape for runID.
func New(runID string, createdAt time.Time) *Tape {
	return &Tape{
		Version:   "1.0",
		CreatedAt: createdAt,
		RunID:     runID,
		Metadata:  make(map[string]any),
	}
}

// RecordRaw sets the tape's raw event sequence.
func (t *Tape) RecordRaw(events []view.Event) error {
	wire, err := encodeEvents(events)
	if err != nil {
		return err
	}
	t.Raw = wire
	return nil
}

// RecordView sets the tape's built View and manipulation indices.
func (t *Tape) RecordView(v view.View, indices []int) error {
	wire, err := encodeEvents(v.Validated)
	if err != nil {
		return err
	}
	t.Validated = wire
	t.UnhandledCondensationRequest = v.UnhandledCondensationRequest
	t.MostRecentSummary = v.MostRecentSummary
	t.ManipulationIndices = append([]int(nil), indices...)
	return nil
}

// RawEvents decodes the tape's recorded raw sequence.
func (t *Tape) RawEvents() ([]view.Event, error) {
	return decodeEvents(t.Raw)
}

// ValidatedEvents decodes the tape's recorded validated sequence.
func (t *Tape) ValidatedEvents() ([]view.Event, error) {
	return decodeEvents(t.Validated)
}

// Marshal serializes the tape to indented JSON.
func (t *Tape) Marshal() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// Unmarshal deserializes a tape from JSON.
func Unmarshal(data []byte) (*Tape, error) {
	var tape Tape
	if err := json.Unmarshal(data, &tape); err != nil {
		return nil, err
	}
	return &tape, nil
}

// Clone returns a deep copy of the tape via a marshal/unmarshal round trip.
func (t *Tape) Clone() (*Tape, error) {
	data, err := t.Marshal()
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Summary is a brief overview of a tape's contents, useful for a CLI
// listing many fixtures at once.
type Summary struct {
	Version        string    `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	RunID          string    `json:"run_id,omitempty"`
	RawCount       int       `json:"raw_count"`
	ValidatedCount int       `json:"validated_count"`
	IndexCount     int       `json:"index_count"`
}

// Summarize returns t's Summary.
func (t *Tape) Summarize() Summary {
	return Summary{
		Version:        t.Version,
		CreatedAt:      t.CreatedAt,
		RunID:          t.RunID,
		RawCount:       len(t.Raw),
		ValidatedCount: len(t.Validated),
		IndexCount:     len(t.ManipulationIndices),
	}
}

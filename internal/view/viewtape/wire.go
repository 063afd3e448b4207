// Package viewtape records raw event sequences and their built View
// results to JSON fixtures, so a golden trace can be replayed in a test
// without re-running whatever agent loop produced it. Adapted from the
// teacher's internal/agent/tape package: same Tape/Marshal/Unmarshal/Clone
// shape, repurposed around view.Event sequences instead of LLM turns.
package viewtape

import (
	"encoding/json"
	"fmt"

	"github.com/haasonsaas/viewengine/internal/view"
)

// wireEvent is the on-disk envelope for one view.Event: a type tag plus
// exactly one populated variant field.
type wireEvent struct {
	Type                string                  `json:"type"`
	System              *view.SystemEvent       `json:"system,omitempty"`
	Message             *view.MessageEvent      `json:"message,omitempty"`
	Action              *view.ActionEvent       `json:"action,omitempty"`
	Observation         *view.ObservationEvent  `json:"observation,omitempty"`
	CondensationRequest *view.CondensationRequest `json:"condensation_request,omitempty"`
	Condensation        *view.Condensation      `json:"condensation,omitempty"`
}

func encodeEvent(e view.Event) (wireEvent, error) {
	switch v := e.(type) {
	case view.SystemEvent:
		return wireEvent{Type: "system", System: &v}, nil
	case view.MessageEvent:
		return wireEvent{Type: "message", Message: &v}, nil
	case view.ActionEvent:
		return wireEvent{Type: "action", Action: &v}, nil
	case view.ObservationEvent:
		return wireEvent{Type: "observation", Observation: &v}, nil
	case view.CondensationRequest:
		return wireEvent{Type: "condensation_request", CondensationRequest: &v}, nil
	case view.Condensation:
		return wireEvent{Type: "condensation", Condensation: &v}, nil
	default:
		return wireEvent{}, fmt.Errorf("viewtape: unrecognized event type %T", e)
	}
}

func decodeEvent(w wireEvent) (view.Event, error) {
	switch w.Type {
	case "system":
		if w.System == nil {
			return nil, fmt.Errorf("viewtape: type=system with no system payload")
		}
		return *w.System, nil
	case "message":
		if w.Message == nil {
			return nil, fmt.Errorf("viewtape: type=message with no message payload")
		}
		return *w.Message, nil
	case "action":
		if w.Action == nil {
			return nil, fmt.Errorf("viewtape: type=action with no action payload")
		}
		return *w.Action, nil
	case "observation":
		if w.Observation == nil {
			return nil, fmt.Errorf("viewtape: type=observation with no observation payload")
		}
		return *w.Observation, nil
	case "condensation_request":
		if w.CondensationRequest == nil {
			return nil, fmt.Errorf("viewtape: type=condensation_request with no payload")
		}
		return *w.CondensationRequest, nil
	case "condensation":
		if w.Condensation == nil {
			return nil, fmt.Errorf("viewtape: type=condensation with no payload")
		}
		return *w.Condensation, nil
	default:
		return nil, fmt.Errorf("viewtape: unrecognized wire type %q", w.Type)
	}
}

func encodeEvents(events []view.Event) ([]wireEvent, error) {
	out := make([]wireEvent, len(events))
	for i, e := range events {
		w, err := encodeEvent(e)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		out[i] = w
	}
	return out, nil
}

func decodeEvents(wire []wireEvent) ([]view.Event, error) {
	out := make([]view.Event, len(wire))
	for i, w := range wire {
		e, err := decodeEvent(w)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}

// marshalEvents encodes events to their JSON wire form without building a
// whole Tape. It is unexported and nothing outside this file calls it.
func marshalEvents(events []view.Event) ([]byte, error) {
	wire, err := encodeEvents(events)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

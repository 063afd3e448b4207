package condense

import (
	"context"
	"fmt"
	"sync"

	"github.com/haasonsaas/viewengine/internal/observability"
	"github.com/haasonsaas/viewengine/internal/view"
)

// TriggerState tracks one run's progress through a condensation cycle,
// adapted from the teacher's CompactionManager session state machine.
type TriggerState string

const (
	TriggerIdle        TriggerState = "idle"
	TriggerPending     TriggerState = "pending"
	TriggerSummarizing TriggerState = "summarizing"
	TriggerApplied     TriggerState = "applied"
)

// Trigger watches a run's built views and decides when to ask its
// Condenser to shrink history, emitting AgentEvents for each phase so an
// observer (viewtape, the dev inspector) can follow along.
type Trigger struct {
	mu        sync.Mutex
	condenser Condenser
	emitter   *observability.EventEmitter
	states    map[string]TriggerState
}

// NewTrigger returns a Trigger that drives condenser and reports through
// emitter. emitter may be nil, in which case no events are emitted.
func NewTrigger(condenser Condenser, emitter *observability.EventEmitter) *Trigger {
	return &Trigger{
		condenser: condenser,
		emitter:   emitter,
		states:    make(map[string]TriggerState),
	}
}

// State returns runID's current trigger state, TriggerIdle if unknown.
func (t *Trigger) State(runID string) TriggerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.states[runID]; ok {
		return s
	}
	return TriggerIdle
}

func (t *Trigger) setState(runID string, s TriggerState) {
	t.mu.Lock()
	t.states[runID] = s
	t.mu.Unlock()
}

// Check evaluates v against the condenser's trigger condition, and if it
// fires, runs Condense and returns the resulting Condensation event ready
// to be appended to raw. It returns (nil, nil) when no condensation is
// needed.
func (t *Trigger) Check(ctx context.Context, runID string, v view.View, raw []view.Event) (*view.Condensation, error) {
	if !t.condenser.ShouldCondense(v, raw) {
		t.setState(runID, TriggerIdle)
		return nil, nil
	}

	t.setState(runID, TriggerPending)
	strategy := fmt.Sprintf("%T", t.condenser)
	cutIndex := len(raw)
	if t.emitter != nil {
		t.emitter.CondenseTriggered(ctx, strategy, cutIndex)
	}

	t.setState(runID, TriggerSummarizing)
	condensation, err := t.condenser.Condense(ctx, v, raw)
	if err != nil {
		t.setState(runID, TriggerIdle)
		if t.emitter != nil {
			t.emitter.CondenseFailed(ctx, strategy, err)
		}
		return nil, err
	}

	t.setState(runID, TriggerApplied)
	if t.emitter != nil {
		t.emitter.CondenseApplied(ctx, strategy, len(condensation.ForgottenIDs), len(condensation.Summary))
	}
	return &condensation, nil
}

// Reset clears runID's tracked state, e.g. once a run finishes.
func (t *Trigger) Reset(runID string) {
	t.mu.Lock()
	delete(t.states, runID)
	t.mu.Unlock()
}

// Package condense decides when a view's event history has grown too large
// and produces the view.Condensation that shrinks it, following the
// force/LLM-summarizing split of openhands-sdk's condenser package.
package condense

import (
	"context"

	"github.com/google/uuid"

	"github.com/haasonsaas/viewengine/internal/view"
)

// Summarizer generates prose summarizing a run of forgotten events, folding
// in whatever the previous summary already said.
type Summarizer interface {
	Summarize(ctx context.Context, previousSummary string, forgotten []view.Event) (string, error)
}

// Condenser decides whether a view needs condensing and, if so, produces
// the Condensation event that applies it.
type Condenser interface {
	ShouldCondense(v view.View, raw []view.Event) bool
	Condense(ctx context.Context, v view.View, raw []view.Event) (view.Condensation, error)
}

// newCondensationID mints an opaque event id for a freshly produced
// Condensation. Callers of internal/view mint their own ids for everything
// else; the condenser is the one component in this repository that
// originates new events, so it is the one place uuid is used for event
// identity.
func newCondensationID() view.EventId {
	return view.EventId(uuid.NewString())
}

// forgottenIDSet converts a slice of events into the set shape
// view.Condensation.ForgottenIDs expects.
func forgottenIDSet(events []view.Event) map[view.EventId]struct{} {
	set := make(map[view.EventId]struct{}, len(events))
	for _, e := range events {
		set[view.ID(e)] = struct{}{}
	}
	return set
}

package condense

import (
	"context"

	"github.com/haasonsaas/viewengine/internal/view"
)

// ForceCondenser wraps an LLMSummarizingCondenser and always condenses,
// bypassing the normal size/request trigger. It exists for manual
// condensation requests — a user or operator explicitly asking to shrink
// history right now, regardless of whether it has actually grown large
// enough to need it. Grounded on openhands-sdk's ForceCondenser, which
// subclasses LLMSummarizingCondenser purely to override should_condense.
type ForceCondenser struct {
	*LLMSummarizingCondenser
}

// NewForceCondenser wraps summarizer in a Condenser that always fires.
func NewForceCondenser(summarizer Summarizer, keepFirst, maxSize int) *ForceCondenser {
	return &ForceCondenser{
		LLMSummarizingCondenser: &LLMSummarizingCondenser{
			Summarizer: summarizer,
			MaxSize:    maxSize,
			KeepFirst:  keepFirst,
		},
	}
}

// ShouldCondense always returns true.
func (*ForceCondenser) ShouldCondense(view.View, []view.Event) bool {
	return true
}

// Condense treats every call as an explicit condensation request, so the
// retained tail is sized from len(raw) rather than MaxSize.
func (c *ForceCondenser) Condense(ctx context.Context, v view.View, raw []view.Event) (view.Condensation, error) {
	v.UnhandledCondensationRequest = true
	return c.LLMSummarizingCondenser.Condense(ctx, v, raw)
}

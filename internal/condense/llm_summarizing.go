package condense

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"

	"github.com/haasonsaas/viewengine/internal/view"
)

// LLMSummarizingCondenser drops the middle of a raw event sequence,
// replacing it with a prose summary produced by Summarizer. It always
// keeps the first KeepFirst events and the most recent tail; how large
// that tail is depends on whether condensation was requested explicitly
// or triggered by size, mirroring openhands-sdk's
// LLMSummarizingCondenser._get_forgotten_events.
type LLMSummarizingCondenser struct {
	Summarizer Summarizer

	// MaxSize is the event count above which ShouldCondense fires.
	MaxSize int
	// KeepFirst is the number of leading events (typically the system
	// prompt and initial user turn) that are never forgotten.
	KeepFirst int

	// NewBackOff builds a fresh retry policy for one Condense call. If
	// nil, Condense uses backoff.NewExponentialBackOff(). Under either
	// policy MaxRetries caps the retries after the first attempt; zero
	// means 4 retries (5 attempts in all).
	NewBackOff func() backoff.BackOff
	MaxRetries uint64
}

// ShouldCondense fires when the view has an unhandled condensation
// request, or the raw sequence has grown past MaxSize.
func (c *LLMSummarizingCondenser) ShouldCondense(v view.View, raw []view.Event) bool {
	if v.UnhandledCondensationRequest {
		return true
	}
	return len(raw) > c.MaxSize
}

func (c *LLMSummarizingCondenser) forgottenEvents(v view.View, raw []view.Event) []view.Event {
	keepFirst := c.KeepFirst
	if keepFirst > len(raw) {
		keepFirst = len(raw)
	}
	head := raw[:keepFirst]

	targetSize := c.MaxSize / 2
	if v.UnhandledCondensationRequest {
		targetSize = len(raw) / 2
	}

	eventsFromTail := targetSize - len(head) - 1
	if eventsFromTail < 1 {
		eventsFromTail = 1
	}
	tailStart := len(raw) - eventsFromTail
	if tailStart < keepFirst {
		tailStart = keepFirst
	}
	if tailStart > len(raw) {
		tailStart = len(raw)
	}

	return raw[keepFirst:tailStart]
}

// Condense summarizes the forgotten span and returns the resulting
// Condensation. Summarizer errors are retried under backoff; a summary
// that still fails after retries is returned as an error, leaving the
// caller's history untouched.
func (c *LLMSummarizingCondenser) Condense(ctx context.Context, v view.View, raw []view.Event) (view.Condensation, error) {
	forgotten := c.forgottenEvents(v, raw)
	if len(forgotten) == 0 {
		return view.Condensation{}, fmt.Errorf("condense: nothing to forget in a sequence of %d events", len(raw))
	}

	previousSummary := ""
	if v.MostRecentSummary != nil {
		previousSummary = *v.MostRecentSummary
	}

	var summary string
	op := func() error {
		s, err := c.Summarizer.Summarize(ctx, previousSummary, forgotten)
		if err != nil {
			return err
		}
		summary = s
		return nil
	}

	bo := c.newBackOff(ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return view.Condensation{}, fmt.Errorf("condense: summarizing %d events: %w", len(forgotten), err)
	}

	return view.Condensation{
		ID:            newCondensationID(),
		ForgottenIDs:  forgottenIDSet(forgotten),
		Summary:       summary,
		SummaryOffset: c.KeepFirst,
	}, nil
}

func (c *LLMSummarizingCondenser) newBackOff(ctx context.Context) backoff.BackOff {
	var base backoff.BackOff
	if c.NewBackOff != nil {
		base = c.NewBackOff()
	} else {
		base = backoff.NewExponentialBackOff()
	}
	maxRetries := c.MaxRetries
	if maxRetries == 0 {
		maxRetries = 4
	}
	return backoff.WithContext(backoff.WithMaxRetries(base, maxRetries), ctx)
}

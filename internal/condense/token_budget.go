package condense

import (
	"strings"

	cw "github.com/haasonsaas/viewengine/internal/contextwindow"
	"github.com/haasonsaas/viewengine/internal/view"
)

// TokenBudgetCondenser wraps another Condenser and adds a token-budget
// trigger on top of its own ShouldCondense: it fires whenever raw's
// estimated token count no longer fits the wrapped context window, even
// if the inner condenser's event-count trigger hasn't. Grounded on
// clawdbot's context window tracking (internal/contextwindow) layered
// over openhands-sdk's force/LLM-summarizing condenser split.
type TokenBudgetCondenser struct {
	Condenser

	// Window tracks the token budget raw's textual content is measured
	// against. A nil Window disables the token-budget trigger, leaving
	// the wrapped condenser's own ShouldCondense as the only signal.
	Window *cw.Window
}

// NewTokenBudgetCondenser wraps inner so ShouldCondense also fires once
// raw's estimated size stops fitting window.
func NewTokenBudgetCondenser(inner Condenser, window *cw.Window) *TokenBudgetCondenser {
	return &TokenBudgetCondenser{Condenser: inner, Window: window}
}

// ShouldCondense fires if the wrapped condenser's own trigger fires, or
// the token estimate of raw's text content no longer fits Window.
func (c *TokenBudgetCondenser) ShouldCondense(v view.View, raw []view.Event) bool {
	if c.Condenser.ShouldCondense(v, raw) {
		return true
	}
	if c.Window == nil {
		return false
	}
	return !c.Window.CanFitText(rawText(raw))
}

// rawText concatenates the textual payload of raw for token estimation.
// Binary tool input is excluded; it does not carry the conversational
// weight that drives an LLM provider's context-window accounting.
func rawText(raw []view.Event) string {
	var sb strings.Builder
	for _, e := range raw {
		switch ev := e.(type) {
		case view.SystemEvent:
			sb.WriteString(ev.Content)
		case view.MessageEvent:
			sb.WriteString(ev.Content)
		case view.ActionEvent:
			for _, tb := range ev.ThinkingBlocks {
				sb.WriteString(tb.Content)
			}
		case view.ObservationEvent:
			sb.WriteString(ev.Content)
		case view.Condensation:
			sb.WriteString(ev.Summary)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

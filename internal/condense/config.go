package condense

import (
	"github.com/cenkalti/backoff/v4"

	"github.com/haasonsaas/viewengine/internal/config"
	cw "github.com/haasonsaas/viewengine/internal/contextwindow"
)

// NewFromConfig builds the Condenser cfg selects (force or
// llm_summarizing), retrying a failed summarize call under the backoff
// policy cfg describes. When cfg.MaxChars is positive, the result is
// wrapped in a TokenBudgetCondenser so a long-running conversation also
// triggers condensation once its estimated token budget is exhausted,
// not just once its raw event count crosses MaxEvents.
func NewFromConfig(cfg config.CondenserConfig, summarizer Summarizer) Condenser {
	base := &LLMSummarizingCondenser{
		Summarizer: summarizer,
		MaxSize:    cfg.MaxEvents,
		KeepFirst:  cfg.KeepFirst,
		MaxRetries: uint64(cfg.RetryMaxAttempts),
		NewBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			if cfg.RetryInitial > 0 {
				b.InitialInterval = cfg.RetryInitial
			}
			if cfg.RetryMax > 0 {
				b.MaxInterval = cfg.RetryMax
			}
			return b
		},
	}

	var inner Condenser = base
	if cfg.Strategy == "force" {
		inner = &ForceCondenser{LLMSummarizingCondenser: base}
	}

	if cfg.MaxChars <= 0 {
		return inner
	}
	// MaxChars is a character budget; approximate it in tokens using the
	// same conservative ratio internal/contextwindow uses for estimation.
	window := cw.NewWindow(int(float64(cfg.MaxChars)*cw.TokensPerChar), "config")
	return NewTokenBudgetCondenser(inner, window)
}

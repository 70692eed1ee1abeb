// Package policy decides per-call timeout bounds and retry behavior, derived
// from prompt size and static configuration.
package policy

import (
	"time"

	"github.com/triadlabs/triad/pkg/arena/config"
)

// RetryPlan is a fixed number of attempts with a fixed inter-attempt delay.
// Attempts counts the first try, so Attempts == 1 means no retries. The plan
// applies only to transient failures (timeouts and transport errors), never
// to provider-reported application errors.
type RetryPlan struct {
	Attempts int
	Delay    time.Duration
}

// Policy selects timeout bounds and the retry plan for calls.
// TimeoutFor is a pure function of prompt length; the policy carries no
// hidden state.
type Policy struct {
	tiers config.Tiers
	retry RetryPlan
}

// New builds a policy from configuration
func New(cfg config.Config) Policy {
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	tiers := cfg.Tiers
	if tiers == (config.Tiers{}) {
		tiers = config.DefaultTiers()
	}

	return Policy{
		tiers: tiers,
		retry: RetryPlan{Attempts: attempts, Delay: cfg.RetryDelay},
	}
}

// TimeoutFor returns the timeout bound for a prompt of the given length.
// Lengths that cannot be classified fall back to the default bound.
func (p Policy) TimeoutFor(promptLength int) time.Duration {
	switch {
	case promptLength <= 0:
		return p.tiers.Default
	case promptLength < p.tiers.QuickThreshold:
		return p.tiers.Quick
	case promptLength < p.tiers.StandardThreshold:
		return p.tiers.Standard
	default:
		return p.tiers.Extended
	}
}

// Retry returns the retry plan applied to transient failures
func (p Policy) Retry() RetryPlan {
	return p.retry
}

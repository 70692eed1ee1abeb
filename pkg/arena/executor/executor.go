// Package executor performs one prompt-to-model request against one provider,
// measuring latency and classifying the outcome.
package executor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/triadlabs/triad/pkg/arena/compare"
	"github.com/triadlabs/triad/pkg/arena/config"
	aerrors "github.com/triadlabs/triad/pkg/arena/errors"
	"github.com/triadlabs/triad/pkg/arena/provider"
)

// Executor issues single network calls. It never retries; retries are the
// execution policy's responsibility, applied by the caller.
type Executor struct {
	maxTokens   int
	temperature float64
	log         zerolog.Logger
}

// New builds an executor with the request defaults from configuration
func New(cfg config.Config, log zerolog.Logger) *Executor {
	return &Executor{
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		log:         log,
	}
}

// Execute performs one call under the given timeout bound and converts every
// result, including failures, into an outcome value. The raw failure message
// is always preserved, never swallowed.
func (e *Executor) Execute(ctx context.Context, prompt compare.Prompt, model compare.ModelID, handle provider.Handle, bound time.Duration) compare.Outcome {
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, bound)
	defer cancel()

	resp, err := handle.Transport().Complete(callCtx, handle, provider.Request{
		Prompt:      prompt.Text(),
		Model:       model.RequestName(),
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	elapsed := time.Since(start).Milliseconds()

	outcome := e.classify(ctx, model, handle, bound, resp, err, elapsed)

	e.log.Debug().
		Str("model", model.String()).
		Str("provider", handle.Name()).
		Str("status", string(outcome.Status)).
		Int64("latency_ms", outcome.LatencyMs).
		Msg("call finished")

	return outcome
}

func (e *Executor) classify(parent context.Context, model compare.ModelID, handle provider.Handle, bound time.Duration, resp provider.Response, err error, elapsed int64) compare.Outcome {
	if err != nil {
		switch {
		// The bound fired, not the parent context.
		case errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil:
			return compare.TimedOut(model, handle.Name(), bound.Milliseconds())
		case errors.Is(err, aerrors.ErrApplication), errors.Is(err, aerrors.ErrEmptyResponse):
			return compare.Failure(model, handle.Name(), err.Error(), compare.ErrorKindApplication, elapsed)
		default:
			return compare.Failure(model, handle.Name(), err.Error(), compare.ErrorKindTransport, elapsed)
		}
	}

	if strings.TrimSpace(resp.Content) == "" {
		return compare.Failure(model, handle.Name(), aerrors.ErrEmptyResponse.Error(),
			compare.ErrorKindApplication, elapsed)
	}

	tokens := 0
	if resp.Usage != nil {
		tokens = resp.Usage.TotalTokens
	}

	return compare.Success(model, handle.Name(), resp.Content, elapsed, tokens)
}

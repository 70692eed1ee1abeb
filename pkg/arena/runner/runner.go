// Package runner executes N single calls under either a bounded-parallel or
// strictly-sequential discipline, propagating cancellation and applying the
// execution policy's retry plan per call.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/triadlabs/triad/pkg/arena/compare"
	"github.com/triadlabs/triad/pkg/arena/executor"
	"github.com/triadlabs/triad/pkg/arena/policy"
	"github.com/triadlabs/triad/pkg/arena/provider"
)

// Mode selects the execution discipline
type Mode string

const (
	// ModeSequential runs calls one at a time in input order
	ModeSequential Mode = "sequential"

	// ModeParallel dispatches all calls concurrently under the in-flight cap
	ModeParallel Mode = "parallel"
)

// ParseMode converts a string to a Mode, defaulting to parallel
func ParseMode(s string) Mode {
	if s == string(ModeSequential) {
		return ModeSequential
	}
	return ModeParallel
}

// CallSpec pairs a model with its resolved provider handle
type CallSpec struct {
	Model  compare.ModelID
	Handle provider.Handle
}

// Runner drives the executor across call specs
type Runner struct {
	exec           *executor.Executor
	pol            policy.Policy
	maxConcurrency int64
	log            zerolog.Logger
}

// New builds a runner. maxConcurrency below 1 is treated as 1.
func New(exec *executor.Executor, pol policy.Policy, maxConcurrency int, log zerolog.Logger) *Runner {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Runner{
		exec:           exec,
		pol:            pol,
		maxConcurrency: int64(maxConcurrency),
		log:            log,
	}
}

// Run executes every call spec and returns their outcomes. Sequential mode
// preserves input order; parallel mode returns outcomes in completion order.
// Every dispatched call yields exactly one outcome; calls abandoned on
// cancellation before dispatch are simply absent.
func (r *Runner) Run(ctx context.Context, prompt compare.Prompt, specs []CallSpec, mode Mode) []compare.Outcome {
	if mode == ModeSequential {
		return r.runSequential(ctx, prompt, specs)
	}
	return r.runParallel(ctx, prompt, specs)
}

func (r *Runner) runSequential(ctx context.Context, prompt compare.Prompt, specs []CallSpec) []compare.Outcome {
	outcomes := make([]compare.Outcome, 0, len(specs))

	for _, spec := range specs {
		// Stop dispatching on cancellation but keep what was collected.
		if ctx.Err() != nil {
			break
		}
		outcomes = append(outcomes, r.attempt(ctx, prompt, spec))
	}

	return outcomes
}

func (r *Runner) runParallel(ctx context.Context, prompt compare.Prompt, specs []CallSpec) []compare.Outcome {
	sem := semaphore.NewWeighted(r.maxConcurrency)
	results := make(chan compare.Outcome, len(specs))

	var wg sync.WaitGroup
	for _, spec := range specs {
		wg.Add(1)
		go func(spec CallSpec) {
			defer wg.Done()

			// Acquire before dispatch; a cancelled acquire means the call
			// never started and is abandoned without an outcome.
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)

			results <- r.attempt(ctx, prompt, spec)
		}(spec)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make([]compare.Outcome, 0, len(specs))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// attempt runs one call to a terminal outcome, honoring the retry plan for
// transient failures. Each retry re-measures latency from its own start.
// A panic inside a call is converted to an error outcome so one failure can
// never abort the remaining models.
func (r *Runner) attempt(ctx context.Context, prompt compare.Prompt, spec CallSpec) (out compare.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			out = compare.Failure(spec.Model, spec.Handle.Name(),
				fmt.Sprintf("panic during call: %v", rec), compare.ErrorKindTransport, 0)
		}
	}()

	plan := r.pol.Retry()
	bound := r.pol.TimeoutFor(prompt.Len())

	for attempt := 1; ; attempt++ {
		out = r.exec.Execute(ctx, prompt, spec.Model, spec.Handle, bound)

		if !out.Retryable() || attempt >= plan.Attempts || ctx.Err() != nil {
			return out
		}

		r.log.Debug().
			Str("model", spec.Model.String()).
			Int("attempt", attempt).
			Msg("retrying transient failure")

		if !sleep(ctx, plan.Delay) {
			return out
		}
	}
}

// sleep waits for the delay unless the context is cancelled first
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

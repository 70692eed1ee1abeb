// Package arena is the public entry point of the comparison engine. The
// Orchestrator validates input, resolves providers through the registry,
// drives the concurrency controller, aggregates outcomes, and persists the
// final result.
package arena

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/triadlabs/triad/pkg/arena/compare"
	"github.com/triadlabs/triad/pkg/arena/config"
	"github.com/triadlabs/triad/pkg/arena/provider"
	"github.com/triadlabs/triad/pkg/arena/runner"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/triadlabs/triad/pkg/arena Store

// Store is the persistence collaborator. Save is invoked exactly once per
// orchestrated request, after aggregation, never before.
type Store interface {
	Save(ctx context.Context, aggregate *compare.Aggregate) (*compare.Aggregate, error)
}

// State tracks the orchestrator's progress through one request
type State int

const (
	// StateValidating checks the prompt and model list
	StateValidating State = iota

	// StateResolving maps every model to a provider handle
	StateResolving

	// StateExecuting runs the calls through the concurrency controller
	StateExecuting

	// StateAggregating assembles and persists the aggregate
	StateAggregating

	// StateDone returns the aggregate to the caller
	StateDone

	// StateFailed is terminal, reachable from validating or resolving
	StateFailed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateResolving:
		return "resolving"
	case StateExecuting:
		return "executing"
	case StateAggregating:
		return "aggregating"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Orchestrator coordinates one comparison request end to end
type Orchestrator struct {
	registry  *provider.Registry
	runner    *runner.Runner
	store     Store
	maxModels int
	partial   bool
	log       zerolog.Logger
}

// Option configures the orchestrator
type Option func(*Orchestrator)

// WithPartialResults makes cancellation return the outcomes collected so far
// (still never persisted) instead of discarding them.
func WithPartialResults(enabled bool) Option {
	return func(o *Orchestrator) {
		o.partial = enabled
	}
}

// WithLogger sets the orchestrator's logger
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// New builds an orchestrator over its collaborators
func New(registry *provider.Registry, run *runner.Runner, store Store, cfg config.Config, opts ...Option) *Orchestrator {
	maxModels := cfg.MaxModels
	if maxModels < 1 {
		maxModels = 3
	}

	o := &Orchestrator{
		registry:  registry,
		runner:    run,
		store:     store,
		maxModels: maxModels,
		log:       zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// ExecuteComparison runs one prompt against the requested models and returns
// the persisted aggregate. Per-model failures are recovered into outcome
// values; only whole-request failures (validation, cancellation, persistence)
// are returned as errors.
func (o *Orchestrator) ExecuteComparison(ctx context.Context, promptText string, modelIDs []string, mode runner.Mode) (*compare.Aggregate, error) {
	o.transition(StateValidating)

	prompt, models, verrs := o.validate(promptText, modelIDs)

	o.transition(StateResolving)

	specs := make([]runner.CallSpec, 0, len(models))
	for _, model := range models {
		handle, err := o.registry.Resolve(model)
		if err != nil {
			// An unresolved model fails the whole request before any network
			// activity; unlike runtime call failures it is never tolerated.
			verrs = append(verrs, ValidationError{
				Field:   "models",
				Message: fmt.Sprintf("no configured provider serves %q", model.String()),
			})
			continue
		}
		specs = append(specs, runner.CallSpec{Model: model, Handle: handle})
	}

	if len(verrs) > 0 {
		o.transition(StateFailed)
		return nil, verrs
	}

	if err := ctx.Err(); err != nil {
		o.transition(StateFailed)
		return nil, errors.Wrap(err, "comparison cancelled before execution")
	}

	o.transition(StateExecuting)

	outcomes := o.runner.Run(ctx, prompt, specs, mode)

	if err := ctx.Err(); err != nil {
		o.transition(StateFailed)
		if o.partial {
			return compare.NewAggregate(prompt, outcomes), errors.Wrap(err, "comparison cancelled")
		}
		return nil, errors.Wrap(err, "comparison cancelled")
	}

	o.transition(StateAggregating)

	aggregate := compare.NewAggregate(prompt, outcomes)

	saved, err := o.store.Save(ctx, aggregate)
	if err != nil {
		o.transition(StateFailed)
		return nil, errors.Wrap(err, "failed to persist comparison")
	}

	o.transition(StateDone)

	o.log.Info().
		Str("id", saved.ID).
		Int("models", saved.TotalModels()).
		Int("succeeded", saved.SuccessfulModels()).
		Msg("comparison complete")

	return saved, nil
}

// validate collects every validation failure before reporting
func (o *Orchestrator) validate(promptText string, modelIDs []string) (compare.Prompt, []compare.ModelID, ValidationErrors) {
	var verrs ValidationErrors

	prompt, err := compare.NewPrompt(promptText)
	if err != nil {
		verrs = append(verrs, ValidationError{Field: "prompt", Message: err.Error()})
	}

	if len(modelIDs) == 0 {
		verrs = append(verrs, ValidationError{Field: "models", Message: "at least one model is required"})
	}
	if len(modelIDs) > o.maxModels {
		verrs = append(verrs, ValidationError{
			Field:   "models",
			Message: fmt.Sprintf("at most %d models per comparison, got %d", o.maxModels, len(modelIDs)),
		})
	}

	models := make([]compare.ModelID, 0, len(modelIDs))
	for _, raw := range modelIDs {
		model, err := compare.ParseModelID(raw)
		if err != nil {
			verrs = append(verrs, ValidationError{Field: "models", Message: err.Error()})
			continue
		}
		models = append(models, model)
	}

	return prompt, models, verrs
}

func (o *Orchestrator) transition(s State) {
	o.log.Debug().Str("state", s.String()).Msg("orchestrator state")
}

// IsValidationError reports whether err is a whole-request validation failure
func IsValidationError(err error) bool {
	var verrs ValidationErrors
	if stderrors.As(err, &verrs) {
		return true
	}
	var verr ValidationError
	return stderrors.As(err, &verr)
}

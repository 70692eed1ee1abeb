package runner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/triadlabs/triad/pkg/arena/compare"
	"github.com/triadlabs/triad/pkg/arena/config"
	aerrors "github.com/triadlabs/triad/pkg/arena/errors"
	"github.com/triadlabs/triad/pkg/arena/executor"
	"github.com/triadlabs/triad/pkg/arena/policy"
	"github.com/triadlabs/triad/pkg/arena/provider"
)

// scriptedTransport routes each call to a per-model behavior and instruments
// in-flight concurrency.
type scriptedTransport struct {
	mu        sync.Mutex
	behaviors map[string]func(call int) (provider.Response, error)
	calls     map[string]int

	inFlight    int32
	maxInFlight int32
	delay       time.Duration
}

func newScriptedTransport() *scriptedTransport {
	return &scriptedTransport{
		behaviors: make(map[string]func(call int) (provider.Response, error)),
		calls:     make(map[string]int),
	}
}

func (s *scriptedTransport) on(model string, behavior func(call int) (provider.Response, error)) {
	s.behaviors[model] = behavior
}

func (s *scriptedTransport) callCount(model string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[model]
}

func (s *scriptedTransport) Complete(ctx context.Context, handle provider.Handle, req provider.Request) (provider.Response, error) {
	current := atomic.AddInt32(&s.inFlight, 1)
	for {
		max := atomic.LoadInt32(&s.maxInFlight)
		if current <= max || atomic.CompareAndSwapInt32(&s.maxInFlight, max, current) {
			break
		}
	}
	defer atomic.AddInt32(&s.inFlight, -1)

	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return provider.Response{}, ctx.Err()
		case <-time.After(s.delay):
		}
	}

	s.mu.Lock()
	s.calls[req.Model]++
	call := s.calls[req.Model]
	behavior := s.behaviors[req.Model]
	s.mu.Unlock()

	if behavior != nil {
		return behavior(call)
	}
	return provider.Response{Content: "response from " + req.Model}, nil
}

func mustPrompt(t *testing.T, text string) compare.Prompt {
	t.Helper()
	p, err := compare.NewPrompt(text)
	if err != nil {
		t.Fatalf("NewPrompt failed: %v", err)
	}
	return p
}

func specsFor(t *testing.T, transport provider.Transport, models ...string) []CallSpec {
	t.Helper()
	specs := make([]CallSpec, 0, len(models))
	for _, m := range models {
		id, err := compare.ParseModelID(m)
		if err != nil {
			t.Fatalf("ParseModelID(%q) failed: %v", m, err)
		}
		specs = append(specs, CallSpec{
			Model:  id,
			Handle: provider.NewHandle("providerA", "http://a.example", "k", models, transport),
		})
	}
	return specs
}

func newRunner(cfg config.Config, maxConcurrency int) *Runner {
	exec := executor.New(cfg, zerolog.Nop())
	return New(exec, policy.New(cfg), maxConcurrency, zerolog.Nop())
}

func TestSequentialPreservesInputOrder(t *testing.T) {
	transport := newScriptedTransport()
	models := []string{"model-c", "model-a", "model-b"}
	specs := specsFor(t, transport, models...)

	outcomes := newRunner(config.New(), 3).Run(context.Background(), mustPrompt(t, "Ping"), specs, ModeSequential)

	if len(outcomes) != len(models) {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), len(models))
	}
	for i, want := range models {
		if outcomes[i].Model != want {
			t.Errorf("outcomes[%d].Model = %q, want %q", i, outcomes[i].Model, want)
		}
	}
}

func TestParallelRespectsConcurrencyLimit(t *testing.T) {
	transport := newScriptedTransport()
	transport.delay = 30 * time.Millisecond
	specs := specsFor(t, transport, "m1", "m2", "m3", "m4", "m5", "m6")

	outcomes := newRunner(config.New(), 2).Run(context.Background(), mustPrompt(t, "Ping"), specs, ModeParallel)

	if len(outcomes) != 6 {
		t.Fatalf("got %d outcomes, want 6", len(outcomes))
	}
	if max := atomic.LoadInt32(&transport.maxInFlight); max > 2 {
		t.Errorf("observed %d concurrent calls, limit is 2", max)
	}
}

func TestParallelEveryCallYieldsOneOutcome(t *testing.T) {
	transport := newScriptedTransport()
	transport.on("bad-model", func(int) (provider.Response, error) {
		return provider.Response{}, aerrors.New("providerA", "complete",
			fmt.Errorf("%w: status 500: boom", aerrors.ErrApplication))
	})
	specs := specsFor(t, transport, "good-model", "bad-model")

	outcomes := newRunner(config.New(), 3).Run(context.Background(), mustPrompt(t, "Ping"), specs, ModeParallel)

	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}

	byModel := make(map[string]compare.Outcome)
	for _, o := range outcomes {
		byModel[o.Model] = o
	}
	if byModel["good-model"].Status != compare.StatusSuccess {
		t.Errorf("good-model status = %s, want success", byModel["good-model"].Status)
	}
	if byModel["bad-model"].Status != compare.StatusError {
		t.Errorf("bad-model status = %s, want error", byModel["bad-model"].Status)
	}
}

func TestRetriesTransientFailures(t *testing.T) {
	transport := newScriptedTransport()
	transport.on("flaky-model", func(call int) (provider.Response, error) {
		if call < 3 {
			return provider.Response{}, aerrors.New("providerA", "complete",
				fmt.Errorf("%w: connection reset", aerrors.ErrTransport))
		}
		return provider.Response{Content: "finally"}, nil
	})
	specs := specsFor(t, transport, "flaky-model")

	cfg := config.New(config.WithRetry(3, time.Millisecond))
	outcomes := newRunner(cfg, 1).Run(context.Background(), mustPrompt(t, "Ping"), specs, ModeSequential)

	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(outcomes))
	}
	if outcomes[0].Status != compare.StatusSuccess {
		t.Errorf("status = %s, want success after retries", outcomes[0].Status)
	}
	if got := transport.callCount("flaky-model"); got != 3 {
		t.Errorf("call count = %d, want 3", got)
	}
}

func TestApplicationErrorsAreNotRetried(t *testing.T) {
	transport := newScriptedTransport()
	transport.on("broken-model", func(int) (provider.Response, error) {
		return provider.Response{}, aerrors.New("providerA", "complete",
			fmt.Errorf("%w: status 400: invalid request", aerrors.ErrApplication))
	})
	specs := specsFor(t, transport, "broken-model")

	cfg := config.New(config.WithRetry(5, time.Millisecond))
	outcomes := newRunner(cfg, 1).Run(context.Background(), mustPrompt(t, "Ping"), specs, ModeSequential)

	if len(outcomes) != 1 || outcomes[0].Status != compare.StatusError {
		t.Fatalf("outcomes = %+v, want one error", outcomes)
	}
	if got := transport.callCount("broken-model"); got != 1 {
		t.Errorf("call count = %d, want 1 (no retries)", got)
	}
}

func TestRetriesExhaustToTerminalOutcome(t *testing.T) {
	transport := newScriptedTransport()
	transport.on("dead-model", func(int) (provider.Response, error) {
		return provider.Response{}, aerrors.New("providerA", "complete",
			fmt.Errorf("%w: connection refused", aerrors.ErrTransport))
	})
	specs := specsFor(t, transport, "dead-model")

	cfg := config.New(config.WithRetry(2, time.Millisecond))
	outcomes := newRunner(cfg, 1).Run(context.Background(), mustPrompt(t, "Ping"), specs, ModeSequential)

	if len(outcomes) != 1 || outcomes[0].Status != compare.StatusError {
		t.Fatalf("outcomes = %+v, want one terminal error", outcomes)
	}
	if got := transport.callCount("dead-model"); got != 2 {
		t.Errorf("call count = %d, want 2", got)
	}
}

func TestSequentialStopsDispatchingOnCancellation(t *testing.T) {
	transport := newScriptedTransport()
	ctx, cancel := context.WithCancel(context.Background())
	transport.on("m1", func(int) (provider.Response, error) {
		cancel()
		return provider.Response{Content: "done before cancel"}, nil
	})
	specs := specsFor(t, transport, "m1", "m2", "m3")

	outcomes := newRunner(config.New(), 1).Run(ctx, mustPrompt(t, "Ping"), specs, ModeSequential)

	// The first call completed; nothing further was dispatched, but the
	// collected outcome is kept.
	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(outcomes))
	}
	if outcomes[0].Model != "m1" {
		t.Errorf("kept outcome is %q, want m1", outcomes[0].Model)
	}
	if transport.callCount("m2")+transport.callCount("m3") != 0 {
		t.Error("calls were dispatched after cancellation")
	}
}

func TestParallelAbandonsUnstartedCallsOnCancellation(t *testing.T) {
	transport := newScriptedTransport()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	specs := specsFor(t, transport, "m1", "m2", "m3")

	outcomes := newRunner(config.New(), 2).Run(ctx, mustPrompt(t, "Ping"), specs, ModeParallel)

	if len(outcomes) != 0 {
		t.Errorf("got %d outcomes, want 0 (all calls abandoned before dispatch)", len(outcomes))
	}
}

func TestPanicBecomesErrorOutcome(t *testing.T) {
	transport := newScriptedTransport()
	transport.on("panicky-model", func(int) (provider.Response, error) {
		panic("transport exploded")
	})
	specs := specsFor(t, transport, "panicky-model", "good-model")

	outcomes := newRunner(config.New(), 1).Run(context.Background(), mustPrompt(t, "Ping"), specs, ModeSequential)

	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2 (panic must not abort remaining models)", len(outcomes))
	}
	if outcomes[0].Status != compare.StatusError {
		t.Errorf("panicked call status = %s, want error", outcomes[0].Status)
	}
	if outcomes[1].Status != compare.StatusSuccess {
		t.Errorf("following call status = %s, want success", outcomes[1].Status)
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("sequential") != ModeSequential {
		t.Error("expected sequential")
	}
	if ParseMode("parallel") != ModeParallel {
		t.Error("expected parallel")
	}
	if ParseMode("") != ModeParallel {
		t.Error("expected parallel as the default")
	}
}

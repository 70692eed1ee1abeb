package policy

import (
	"testing"
	"time"

	"github.com/triadlabs/triad/pkg/arena/config"
)

func TestTimeoutTiers(t *testing.T) {
	pol := New(config.New())

	tests := []struct {
		name         string
		promptLength int
		want         time.Duration
	}{
		{"short prompt is quick", 4, 15 * time.Second},
		{"just below quick threshold", 1999, 15 * time.Second},
		{"at quick threshold", 2000, 30 * time.Second},
		{"mid-size prompt is standard", 5000, 30 * time.Second},
		{"at standard threshold", 10000, 90 * time.Second},
		{"long prompt is extended", 12000, 90 * time.Second},
		{"zero length falls back to default", 0, 30 * time.Second},
		{"negative length falls back to default", -1, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pol.TimeoutFor(tt.promptLength); got != tt.want {
				t.Errorf("TimeoutFor(%d) = %v, want %v", tt.promptLength, got, tt.want)
			}
		})
	}
}

func TestTimeoutForIsPure(t *testing.T) {
	pol := New(config.New())

	first := pol.TimeoutFor(12000)
	for i := 0; i < 5; i++ {
		if got := pol.TimeoutFor(12000); got != first {
			t.Fatalf("TimeoutFor changed between calls: %v then %v", first, got)
		}
	}
}

func TestRetryPlan(t *testing.T) {
	pol := New(config.New(config.WithRetry(3, 250*time.Millisecond)))

	plan := pol.Retry()
	if plan.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", plan.Attempts)
	}
	if plan.Delay != 250*time.Millisecond {
		t.Errorf("Delay = %v, want 250ms", plan.Delay)
	}
}

func TestRetryPlanFloorsAtOneAttempt(t *testing.T) {
	pol := New(config.New(config.WithRetry(0, 0)))

	if got := pol.Retry().Attempts; got != 1 {
		t.Errorf("Attempts = %d, want 1", got)
	}
}

func TestCustomTiers(t *testing.T) {
	tiers := config.Tiers{
		Quick:             time.Second,
		Standard:          2 * time.Second,
		Extended:          3 * time.Second,
		Default:           4 * time.Second,
		QuickThreshold:    10,
		StandardThreshold: 20,
	}
	pol := New(config.New(config.WithTiers(tiers)))

	if got := pol.TimeoutFor(5); got != time.Second {
		t.Errorf("TimeoutFor(5) = %v, want 1s", got)
	}
	if got := pol.TimeoutFor(15); got != 2*time.Second {
		t.Errorf("TimeoutFor(15) = %v, want 2s", got)
	}
	if got := pol.TimeoutFor(25); got != 3*time.Second {
		t.Errorf("TimeoutFor(25) = %v, want 3s", got)
	}
}

package compare

import (
	"time"

	"github.com/google/uuid"
)

// Aggregate bundles the original prompt with every per-model outcome of one
// comparison. Statistics are derived on read, never stored.
type Aggregate struct {
	// ID uniquely identifies the comparison
	ID string `json:"id"`

	// Prompt is the original prompt text
	Prompt string `json:"prompt"`

	// Outcomes holds one entry per dispatched call. Sequential runs preserve
	// request order; parallel runs are in completion order.
	Outcomes []Outcome `json:"outcomes"`

	// CreatedAt is the aggregate creation timestamp
	CreatedAt time.Time `json:"created_at"`
}

// NewAggregate builds an aggregate from the outcomes the controller produced.
// It never calls outward.
func NewAggregate(prompt Prompt, outcomes []Outcome) *Aggregate {
	copied := make([]Outcome, len(outcomes))
	copy(copied, outcomes)

	return &Aggregate{
		ID:        uuid.NewString(),
		Prompt:    prompt.Text(),
		Outcomes:  copied,
		CreatedAt: time.Now().UTC(),
	}
}

// TotalModels returns the number of outcomes collected
func (a *Aggregate) TotalModels() int {
	return len(a.Outcomes)
}

// SuccessfulModels counts successful outcomes
func (a *Aggregate) SuccessfulModels() int {
	n := 0
	for _, o := range a.Outcomes {
		if o.Status == StatusSuccess {
			n++
		}
	}
	return n
}

// FailedModels counts error and timeout outcomes
func (a *Aggregate) FailedModels() int {
	return a.TotalModels() - a.SuccessfulModels()
}

// AverageResponseTime returns the mean latency in milliseconds over
// successful outcomes only. It is 0 when nothing succeeded.
func (a *Aggregate) AverageResponseTime() float64 {
	var sum int64
	n := 0
	for _, o := range a.Outcomes {
		if o.Status == StatusSuccess {
			sum += o.LatencyMs
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// TotalTokens sums provider-reported token counts, treating missing counts
// as zero.
func (a *Aggregate) TotalTokens() int {
	total := 0
	for _, o := range a.Outcomes {
		total += o.TokenCount
	}
	return total
}

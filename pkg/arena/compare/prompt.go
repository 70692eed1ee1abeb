// Package compare holds the domain model for multi-provider prompt comparisons:
// prompts, model identifiers, per-call outcomes, and the comparison aggregate.
package compare

import (
	"errors"
	"fmt"
	"strings"
)

// MaxPromptLength is the upper bound on prompt size in characters
const MaxPromptLength = 50000

// Prompt is an immutable, validated prompt text
type Prompt struct {
	text string
}

// NewPrompt validates text and returns a Prompt.
// The text must be 1-50,000 characters and not whitespace-only.
func NewPrompt(text string) (Prompt, error) {
	if strings.TrimSpace(text) == "" {
		return Prompt{}, errors.New("prompt must not be empty")
	}
	if len(text) > MaxPromptLength {
		return Prompt{}, fmt.Errorf("prompt exceeds %d characters", MaxPromptLength)
	}
	return Prompt{text: text}, nil
}

// Text returns the prompt text
func (p Prompt) Text() string {
	return p.text
}

// Len returns the prompt length in characters
func (p Prompt) Len() int {
	return len(p.text)
}

// EstimatedTokens returns a rough token count, ceil(length/4)
func (p Prompt) EstimatedTokens() int {
	return (len(p.text) + 3) / 4
}

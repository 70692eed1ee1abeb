// Package provider defines provider handles, the model-to-provider registry,
// and the transports that perform the actual network calls.
package provider

import (
	"context"
	"strings"

	"github.com/triadlabs/triad/pkg/arena/compare"
)

// Request contains the parameters for one generation call
type Request struct {
	// Prompt is the text prompt
	Prompt string

	// Model is the wire-level model name sent to the backend
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls randomness (0.0-1.0)
	Temperature float64
}

// Response contains the output of one generation call
type Response struct {
	// Content is the text response
	Content string

	// Usage contains token usage information when the backend reports it
	Usage *UsageInfo
}

// UsageInfo contains token usage statistics
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Transport performs the outbound network call for a provider. Errors wrap
// arena/errors.ErrTransport when no response arrived and
// arena/errors.ErrApplication when the backend answered with an error body.
type Transport interface {
	Complete(ctx context.Context, handle Handle, req Request) (Response, error)
}

// Handle is a resolved, immutable view of one configured backend: its name,
// endpoint, credential, and the model identifiers it serves.
type Handle struct {
	name      string
	baseURL   string
	apiKey    string
	models    []string
	transport Transport
}

// NewHandle builds a provider handle
func NewHandle(name, baseURL, apiKey string, models []string, transport Transport) Handle {
	copied := make([]string, len(models))
	copy(copied, models)

	return Handle{
		name:      name,
		baseURL:   baseURL,
		apiKey:    apiKey,
		models:    copied,
		transport: transport,
	}
}

// Name returns the provider name
func (h Handle) Name() string {
	return h.name
}

// BaseURL returns the configured endpoint
func (h Handle) BaseURL() string {
	return h.baseURL
}

// Credential returns the API key for the transport
func (h Handle) Credential() string {
	return h.apiKey
}

// Models returns a copy of the model identifiers this backend serves
func (h Handle) Models() []string {
	copied := make([]string, len(h.models))
	copy(copied, h.models)
	return copied
}

// Transport returns the transport that executes calls against this backend
func (h Handle) Transport() Transport {
	return h.transport
}

// IsZero reports whether the handle is unset
func (h Handle) IsZero() bool {
	return h.name == ""
}

// Serves reports whether this backend's model list contains the identifier,
// case-insensitively. An identifier carrying this provider's name as prefix
// also matches against the bare model name.
func (h Handle) Serves(id compare.ModelID) bool {
	for _, m := range h.models {
		if strings.EqualFold(m, id.String()) {
			return true
		}
		if strings.EqualFold(id.Provider(), h.name) && strings.EqualFold(m, id.Name()) {
			return true
		}
	}
	return false
}

package compare

// Status is the terminal classification of one model call
type Status string

const (
	// StatusSuccess means the provider returned usable response text
	StatusSuccess Status = "success"

	// StatusError means the call failed with a transport or provider error
	StatusError Status = "error"

	// StatusTimeout means the call exceeded its timeout bound
	StatusTimeout Status = "timeout"
)

// ErrorKind subdivides StatusError for retry classification
type ErrorKind string

const (
	// ErrorKindTransport marks failures where no provider response arrived.
	// Transport failures are transient and eligible for retry.
	ErrorKindTransport ErrorKind = "transport"

	// ErrorKindApplication marks provider-reported errors (structured error
	// body). These are never retried.
	ErrorKindApplication ErrorKind = "application"
)

// Outcome records the terminal result of one prompt->model call.
// Every call the engine dispatches produces exactly one Outcome; failures are
// values here, never errors crossing the controller boundary.
type Outcome struct {
	// Model is the identifier the call was made for
	Model string `json:"model"`

	// Provider names the backend that served (or failed) the call
	Provider string `json:"provider"`

	// Status classifies the result
	Status Status `json:"status"`

	// Response is the model's text, set only on success
	Response string `json:"response,omitempty"`

	// ErrorMessage carries the human-readable cause on error
	ErrorMessage string `json:"error_message,omitempty"`

	// ErrorKind classifies errors for retry purposes
	ErrorKind ErrorKind `json:"error_kind,omitempty"`

	// LatencyMs is the elapsed time of the final attempt. For timeouts it is
	// the bound itself.
	LatencyMs int64 `json:"latency_ms"`

	// TokenCount is the provider-reported token usage, 0 when unreported
	TokenCount int `json:"token_count,omitempty"`
}

// Success builds a successful outcome
func Success(model ModelID, provider, response string, latencyMs int64, tokenCount int) Outcome {
	return Outcome{
		Model:      model.String(),
		Provider:   provider,
		Status:     StatusSuccess,
		Response:   response,
		LatencyMs:  clampLatency(latencyMs),
		TokenCount: tokenCount,
	}
}

// Failure builds an error outcome with the raw failure message
func Failure(model ModelID, provider, message string, kind ErrorKind, latencyMs int64) Outcome {
	return Outcome{
		Model:        model.String(),
		Provider:     provider,
		Status:       StatusError,
		ErrorMessage: message,
		ErrorKind:    kind,
		LatencyMs:    clampLatency(latencyMs),
	}
}

// TimedOut builds a timeout outcome; latency is the bound that was exceeded
func TimedOut(model ModelID, provider string, boundMs int64) Outcome {
	return Outcome{
		Model:     model.String(),
		Provider:  provider,
		Status:    StatusTimeout,
		LatencyMs: clampLatency(boundMs),
	}
}

// Retryable reports whether the outcome is a transient failure that the
// execution policy may retry: timeouts and transport errors, never
// provider-reported application errors.
func (o Outcome) Retryable() bool {
	switch o.Status {
	case StatusTimeout:
		return true
	case StatusError:
		return o.ErrorKind == ErrorKindTransport
	}
	return false
}

func clampLatency(ms int64) int64 {
	if ms < 0 {
		return 0
	}
	return ms
}

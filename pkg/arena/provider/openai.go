package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	aerrors "github.com/triadlabs/triad/pkg/arena/errors"
	"github.com/triadlabs/triad/pkg/httputil"
)

// HTTPTransport speaks the OpenAI chat-completions wire shape, which most
// hosted and self-hosted backends accept (OpenAI, OpenRouter, llama.cpp
// servers, vLLM).
type HTTPTransport struct{}

// NewHTTPTransport returns a chat-completions transport
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{}
}

// chatRequest is the chat-completions request payload
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the chat-completions response payload
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete performs one chat-completions call against the handle's endpoint
func (t *HTTPTransport) Complete(ctx context.Context, handle Handle, req Request) (Response, error) {
	payload := chatRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages: []chatMessage{
			{Role: "user", Content: req.Prompt},
		},
	}

	result, err := httputil.SendRequest(ctx, httputil.RequestDetails{
		URL:         handle.BaseURL(),
		APIKey:      handle.Credential(),
		RequestBody: payload,
	})
	if err != nil {
		// Context errors pass through undecorated so the executor can
		// distinguish timeouts from transport failures.
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		return Response{}, aerrors.New(handle.Name(), "complete",
			fmt.Errorf("%w: %v", aerrors.ErrTransport, err))
	}

	var parsed chatResponse
	if unmarshalErr := json.Unmarshal(result.Body, &parsed); unmarshalErr != nil && result.StatusCode < 300 {
		return Response{}, aerrors.New(handle.Name(), "complete",
			fmt.Errorf("%w: malformed response body: %v", aerrors.ErrApplication, unmarshalErr))
	}

	if result.StatusCode >= 300 {
		message := strings.TrimSpace(string(result.Body))
		if parsed.Error != nil && parsed.Error.Message != "" {
			message = parsed.Error.Message
		}
		return Response{}, aerrors.New(handle.Name(), "complete",
			fmt.Errorf("%w: status %d: %s", aerrors.ErrApplication, result.StatusCode, message))
	}

	if len(parsed.Choices) == 0 {
		return Response{}, aerrors.New(handle.Name(), "complete", aerrors.ErrEmptyResponse)
	}

	resp := Response{Content: parsed.Choices[0].Message.Content}
	if parsed.Usage != nil {
		resp.Usage = &UsageInfo{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		}
	}

	return resp, nil
}

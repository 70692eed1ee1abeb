package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	aerrors "github.com/triadlabs/triad/pkg/arena/errors"
)

// GeminiTransport performs calls through the official Gemini SDK instead of
// the chat-completions wire shape.
type GeminiTransport struct {
	client *genai.Client
}

// NewGeminiTransport creates a Gemini transport with the given credential
func NewGeminiTransport(apiKey string) (*GeminiTransport, error) {
	if apiKey == "" {
		return nil, aerrors.New("gemini", "create", aerrors.ErrInvalidConfig)
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, aerrors.New("gemini", "create",
			fmt.Errorf("failed to create client: %w", err))
	}

	return &GeminiTransport{client: client}, nil
}

// Complete performs one generation call through the SDK
func (t *GeminiTransport) Complete(ctx context.Context, handle Handle, req Request) (Response, error) {
	model := t.client.GenerativeModel(req.Model)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.Temperature > 0 {
		model.SetTemperature(float32(req.Temperature))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		// A response with an HTTP status means the backend spoke; anything
		// else never reached it.
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return Response{}, aerrors.New(handle.Name(), "complete",
				fmt.Errorf("%w: status %d: %s", aerrors.ErrApplication, apiErr.Code, apiErr.Message))
		}
		return Response{}, aerrors.New(handle.Name(), "complete",
			fmt.Errorf("%w: %v", aerrors.ErrTransport, err))
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			builder.WriteString(fmt.Sprintf("%v", part))
		}
	}

	content := strings.TrimSpace(builder.String())
	if content == "" {
		return Response{}, aerrors.New(handle.Name(), "complete", aerrors.ErrEmptyResponse)
	}

	out := Response{Content: content}
	if resp.UsageMetadata != nil {
		out.Usage = &UsageInfo{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return out, nil
}

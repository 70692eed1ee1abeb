// Package httputil provides the shared HTTP plumbing for provider transports.
// It performs exactly one attempt per call; retry policy belongs to the
// caller.
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// RequestDetails holds the details for an HTTP request
type RequestDetails struct {
	URL               string
	APIKey            string
	RequestBody       interface{}
	AdditionalHeaders map[string]string
}

// Result carries the raw response for the caller to classify
type Result struct {
	StatusCode int
	Body       []byte
}

var (
	httpClient *http.Client
	clientOnce sync.Once
)

// initClient initializes the shared HTTP client. Deadlines come from the
// request context, so the client itself carries no timeout.
func initClient() {
	httpClient = &http.Client{}
}

func drainAndCloseBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

func createRequest(ctx context.Context, details RequestDetails) (*http.Request, error) {
	jsonBody, err := json.Marshal(details.RequestBody)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, details.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request for URL %s: %w", details.URL, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if details.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+details.APIKey)
	}

	for key, value := range details.AdditionalHeaders {
		req.Header.Set(key, value)
	}

	return req, nil
}

// SendRequest performs a single POST and returns the status code and body.
// A non-nil error means no response arrived (transport failure); a non-2xx
// status with a body is returned to the caller intact for classification.
func SendRequest(ctx context.Context, details RequestDetails) (Result, error) {
	clientOnce.Do(initClient)

	req, err := createRequest(ctx, details)
	if err != nil {
		return Result{}, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("error sending request to %s: %w", details.URL, err)
	}
	defer drainAndCloseBody(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("error reading response from %s: %w", details.URL, err)
	}

	return Result{StatusCode: resp.StatusCode, Body: body}, nil
}

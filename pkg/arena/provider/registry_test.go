package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/triadlabs/triad/pkg/arena/compare"
	"github.com/triadlabs/triad/pkg/arena/config"
	aerrors "github.com/triadlabs/triad/pkg/arena/errors"
)

// stubTransport is a test transport that never performs network calls
type stubTransport struct {
	response Response
	err      error
}

func (s *stubTransport) Complete(ctx context.Context, handle Handle, req Request) (Response, error) {
	return s.response, s.err
}

func mustModelID(t *testing.T, raw string) compare.ModelID {
	t.Helper()
	id, err := compare.ParseModelID(raw)
	if err != nil {
		t.Fatalf("ParseModelID(%q) failed: %v", raw, err)
	}
	return id
}

func testRegistry() *Registry {
	transport := &stubTransport{}
	return NewRegistry(
		NewHandle("providerA", "http://a.example/v1", "key-a", []string{"modelX", "shared-model"}, transport),
		NewHandle("providerB", "http://b.example/v1", "key-b", []string{"modelY", "shared-model"}, transport),
	)
}

func TestRegistryResolve(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		name         string
		modelID      string
		wantProvider string
		wantErr      bool
	}{
		{name: "exact match", modelID: "modelX", wantProvider: "providerA"},
		{name: "case-insensitive match", modelID: "MODELX", wantProvider: "providerA"},
		{name: "second provider", modelID: "modelY", wantProvider: "providerB"},
		{name: "first provider wins for shared models", modelID: "shared-model", wantProvider: "providerA"},
		{name: "provider-prefixed id matches bare listed name", modelID: "providerA/modelX", wantProvider: "providerA"},
		{name: "unknown model", modelID: "nonexistent/model", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handle, err := reg.Resolve(mustModelID(t, tt.modelID))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Resolve(%q) expected error, got provider %s", tt.modelID, handle.Name())
				}
				if !errors.Is(err, aerrors.ErrModelNotFound) {
					t.Errorf("Resolve(%q) error = %v, want ErrModelNotFound", tt.modelID, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.modelID, err)
			}
			if handle.Name() != tt.wantProvider {
				t.Errorf("Resolve(%q) = %s, want %s", tt.modelID, handle.Name(), tt.wantProvider)
			}
		})
	}
}

func TestRegistryResolveIsIdempotent(t *testing.T) {
	reg := testRegistry()
	id := mustModelID(t, "shared-model")

	first, err := reg.Resolve(id)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	second, err := reg.Resolve(id)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if first.Name() != second.Name() || first.BaseURL() != second.BaseURL() {
		t.Errorf("resolving twice yielded different handles: %s vs %s", first.Name(), second.Name())
	}
}

func TestRegistryIsAvailable(t *testing.T) {
	reg := testRegistry()

	if !reg.IsAvailable(mustModelID(t, "modelX")) {
		t.Error("expected modelX to be available")
	}
	if reg.IsAvailable(mustModelID(t, "nonexistent/model")) {
		t.Error("expected nonexistent/model to be unavailable")
	}
}

func TestRegistryListAll(t *testing.T) {
	reg := testRegistry()

	handles := reg.ListAll()
	if len(handles) != 2 {
		t.Fatalf("ListAll() returned %d handles, want 2", len(handles))
	}
	if handles[0].Name() != "providerA" || handles[1].Name() != "providerB" {
		t.Errorf("ListAll() order = %s, %s; want providerA, providerB", handles[0].Name(), handles[1].Name())
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.New(
		config.WithProvider(config.ProviderConfig{
			Name:    "local",
			BaseURL: "http://localhost:8080/v1/chat/completions",
			Models:  []string{"llama-3"},
		}),
	)

	reg, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}
	if !reg.IsAvailable(mustModelID(t, "llama-3")) {
		t.Error("expected configured model to resolve")
	}
}

func TestFromConfigRejectsBadProviders(t *testing.T) {
	tests := []struct {
		name string
		pc   config.ProviderConfig
	}{
		{name: "missing name", pc: config.ProviderConfig{BaseURL: "http://x", Models: []string{"m1"}}},
		{name: "unknown type", pc: config.ProviderConfig{Name: "x", Type: "carrier-pigeon", Models: []string{"m1"}}},
		{name: "gemini without key", pc: config.ProviderConfig{Name: "g", Type: "gemini", Models: []string{"m1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromConfig(config.New(config.WithProvider(tt.pc)))
			if err == nil {
				t.Error("expected configuration error")
			}
		})
	}
}

func TestHandleModelsReturnsCopy(t *testing.T) {
	h := NewHandle("p", "http://x", "k", []string{"m1"}, &stubTransport{})

	models := h.Models()
	models[0] = "mutated"

	if h.Models()[0] != "m1" {
		t.Error("Models() must return a copy")
	}
}

package provider

import (
	"fmt"

	"github.com/triadlabs/triad/pkg/arena/compare"
	"github.com/triadlabs/triad/pkg/arena/config"
	aerrors "github.com/triadlabs/triad/pkg/arena/errors"
)

// Registry holds the configured backends and the authoritative
// model-to-provider mapping. It is built once from configuration and is
// immutable afterwards, so lookups need no locking.
type Registry struct {
	handles []Handle
}

// NewRegistry creates a registry over the given handles. Resolution honors
// the slice order: the first backend whose model list contains an identifier
// serves it.
func NewRegistry(handles ...Handle) *Registry {
	copied := make([]Handle, len(handles))
	copy(copied, handles)
	return &Registry{handles: copied}
}

// FromConfig builds a registry from provider configuration, constructing one
// transport per backend.
func FromConfig(cfg config.Config) (*Registry, error) {
	handles := make([]Handle, 0, len(cfg.Providers))

	for _, pc := range cfg.Providers {
		if pc.Name == "" {
			return nil, aerrors.New("registry", "from_config",
				fmt.Errorf("%w: provider name cannot be empty", aerrors.ErrInvalidConfig))
		}

		var transport Transport
		switch pc.Type {
		case "gemini":
			t, err := NewGeminiTransport(pc.APIKey)
			if err != nil {
				return nil, aerrors.Wrap(err, pc.Name, "from_config")
			}
			transport = t
		case "", "openai":
			transport = NewHTTPTransport()
		default:
			return nil, aerrors.New(pc.Name, "from_config",
				fmt.Errorf("%w: unknown provider type %q", aerrors.ErrInvalidConfig, pc.Type))
		}

		handles = append(handles, NewHandle(pc.Name, pc.BaseURL, pc.APIKey, pc.Models, transport))
	}

	return NewRegistry(handles...), nil
}

// Resolve returns the first configured backend serving the model.
// Resolution is deterministic, so resolving the same identifier twice yields
// the same handle.
func (r *Registry) Resolve(id compare.ModelID) (Handle, error) {
	for _, h := range r.handles {
		if h.Serves(id) {
			return h, nil
		}
	}
	return Handle{}, aerrors.New("registry", "resolve",
		fmt.Errorf("%w: %s", aerrors.ErrModelNotFound, id.String()))
}

// ListAll returns the configured backends in resolution order
func (r *Registry) ListAll() []Handle {
	copied := make([]Handle, len(r.handles))
	copy(copied, r.handles)
	return copied
}

// IsAvailable reports whether any configured backend serves the model
func (r *Registry) IsAvailable(id compare.ModelID) bool {
	_, err := r.Resolve(id)
	return err == nil
}

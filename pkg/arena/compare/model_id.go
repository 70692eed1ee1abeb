package compare

import (
	"fmt"
	"regexp"
	"strings"
)

// FreeTierSuffix marks a model as served on a provider's free tier
const FreeTierSuffix = ":free"

// modelIDPattern restricts identifiers to a safe token character set
var modelIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:/-]*$`)

// ModelID is an opaque model identifier, optionally carrying a provider
// prefix ("provider/name" or "provider:name") and an optional free-tier
// marker suffix. Equality is case-insensitive.
type ModelID struct {
	raw      string
	provider string
	name     string
	freeTier bool
}

// ParseModelID validates and decomposes a raw model identifier
func ParseModelID(raw string) (ModelID, error) {
	if len(raw) < 2 || len(raw) > 200 {
		return ModelID{}, fmt.Errorf("model id %q must be 2-200 characters", raw)
	}
	if !modelIDPattern.MatchString(raw) {
		return ModelID{}, fmt.Errorf("model id %q contains invalid characters", raw)
	}

	id := ModelID{raw: raw}

	rest := raw
	if strings.HasSuffix(strings.ToLower(rest), FreeTierSuffix) {
		id.freeTier = true
		rest = rest[:len(rest)-len(FreeTierSuffix)]
	}

	// A provider prefix is everything before the first separator. The
	// free-tier marker has already been stripped, so a remaining ':' or '/'
	// splits provider from name.
	if i := strings.IndexAny(rest, "/:"); i > 0 && i < len(rest)-1 {
		id.provider = rest[:i]
		id.name = rest[i+1:]
	} else {
		id.name = rest
	}

	if id.name == "" {
		return ModelID{}, fmt.Errorf("model id %q has no model name", raw)
	}

	return id, nil
}

// String returns the identifier as given
func (m ModelID) String() string {
	return m.raw
}

// Provider returns the provider prefix, or "" when none was given
func (m ModelID) Provider() string {
	return m.provider
}

// Name returns the model name without any provider prefix or free-tier marker
func (m ModelID) Name() string {
	return m.name
}

// RequestName returns the name as sent on the wire: the provider prefix is
// dropped but the free-tier marker is preserved, since backends that use it
// treat it as part of the model name.
func (m ModelID) RequestName() string {
	if m.freeTier {
		return m.name + FreeTierSuffix
	}
	return m.name
}

// FreeTier reports whether the identifier carried the free-tier marker
func (m ModelID) FreeTier() bool {
	return m.freeTier
}

// IsZero reports whether the identifier is unset
func (m ModelID) IsZero() bool {
	return m.raw == ""
}

// Equal compares identifiers case-insensitively
func (m ModelID) Equal(other ModelID) bool {
	return strings.EqualFold(m.raw, other.raw)
}

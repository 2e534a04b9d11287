package ops

import (
	"strings"

	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/profile"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Address represents a validated chart address.
type Address struct {
	ByID  bool
	ID    string
	Owner string // normalized, defaulted to "default" for name-mode
	Name  string // normalized
}

// ValidateAddress validates addressing parameters and returns a normalized Address.
// Rules:
// - Must specify exactly one addressing mode: id OR (owner + name)
// - If id provided with name or owner → ErrAmbiguousAddressing
// - If neither id nor name provided → ErrInvalidRequest
func ValidateAddress(id, owner, name string) (*Address, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	owner = strings.TrimSpace(owner)

	hasID := id != ""
	hasName := name != ""
	hasOwner := owner != ""

	if hasID && (hasName || hasOwner) {
		return nil, errors.NewAmbiguousAddressing()
	}

	if !hasID && !hasName {
		return nil, errors.NewInvalidRequest("must specify either id or name")
	}

	if hasID {
		return &Address{
			ByID: true,
			ID:   id,
		}, nil
	}

	ownerNorm := normalizeOwner(owner)
	nameNorm := profile.Normalize(name)
	if nameNorm == "" {
		return nil, errors.NewInvalidRequest("name must not be empty")
	}

	return &Address{
		ByID:  false,
		Owner: ownerNorm,
		Name:  nameNorm,
	}, nil
}

// Ref points back at a stored chart.
// Either (Name + Owner) or ID is populated.
type Ref struct {
	Name  string `json:"name,omitempty"`
	Owner string `json:"owner,omitempty"`
	ID    string `json:"id,omitempty"`
}

// BuildRef creates a Ref for the given chart identifiers.
// If name present: {name, owner}
// If unnamed: {id}
func BuildRef(owner, name, id string) Ref {
	if name != "" {
		return Ref{
			Name:  name,
			Owner: owner,
		}
	}
	return Ref{
		ID: id,
	}
}

func normalizeOwner(owner string) string {
	norm := profile.Normalize(owner)
	if norm == "" {
		return profile.DefaultOwner
	}
	return norm
}

// cleanOptionalString trims s and returns nil when nothing is left.
func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Package profile defines the stored chart record and its addressing rules.
package profile

import (
	"github.com/hpungsan/lagna/internal/birth"
	"github.com/hpungsan/lagna/internal/chart"
)

// DefaultOwner is used when no owner is given.
const DefaultOwner = "default"

// Profile is a computed chart persisted for a named person.
type Profile struct {
	// ID is a ULID.
	ID string

	// OwnerRaw is the owner as provided; OwnerNorm is its normalized form.
	OwnerRaw  string
	OwnerNorm string

	// NameRaw and NameNorm are nil for unnamed profiles.
	NameRaw  *string
	NameNorm *string

	Label *string

	Birth     birth.Record
	Ayanamsa  string
	NodeModel chart.NodeModel

	// Chart is the full computed chart, stored as JSON.
	Chart *chart.Chart

	CreatedAt int64
	UpdatedAt int64
	DeletedAt *int64
}

// DisplayName returns the profile name, the label, or a shortened ID.
func (p *Profile) DisplayName() string {
	if p.NameRaw != nil && *p.NameRaw != "" {
		return *p.NameRaw
	}
	if p.Label != nil && *p.Label != "" {
		return *p.Label
	}
	if len(p.ID) > 10 {
		return p.ID[:10] + "..."
	}
	return p.ID
}

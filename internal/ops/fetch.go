package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/lagna/internal/birth"
	"github.com/hpungsan/lagna/internal/chart"
	"github.com/hpungsan/lagna/internal/db"
	"github.com/hpungsan/lagna/internal/profile"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string
	Owner          string
	Name           string
	IncludeDeleted bool
	IncludeChart   *bool // default: true (nil means default)
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	profile.Summary
	Birth     birth.Record    `json:"birth"`
	NodeModel chart.NodeModel `json:"node_model"`
	Chart     *chart.Chart    `json:"chart,omitempty"`
	Ref       Ref             `json:"ref"`
}

// DisplayName returns the chart's name, label, or shortened ID.
func (o *FetchOutput) DisplayName() string {
	p := profile.Profile{ID: o.ID, NameRaw: o.Name, Label: o.Label}
	return p.DisplayName()
}

// Fetch retrieves a stored chart by ID or name.
func Fetch(ctx context.Context, database *sql.DB, input FetchInput) (*FetchOutput, error) {
	p, err := load(ctx, database, input.ID, input.Owner, input.Name, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	output := &FetchOutput{
		Summary:   p.ToSummary(),
		Birth:     p.Birth,
		NodeModel: p.NodeModel,
		Chart:     p.Chart,
	}

	if input.IncludeChart != nil && !*input.IncludeChart {
		output.Chart = nil
	}

	name := ""
	if p.NameRaw != nil {
		name = *p.NameRaw
	}
	output.Ref = BuildRef(p.OwnerRaw, name, p.ID)

	return output, nil
}

// load resolves an address to a stored profile.
func load(ctx context.Context, database *sql.DB, id, owner, name string, includeDeleted bool) (*profile.Profile, error) {
	addr, err := ValidateAddress(id, owner, name)
	if err != nil {
		return nil, err
	}
	if addr.ByID {
		return db.GetByID(ctx, database, addr.ID, includeDeleted)
	}
	return db.GetByName(ctx, database, addr.Owner, addr.Name, includeDeleted)
}

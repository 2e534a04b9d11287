package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/lagna/internal/chart"
)

// VargaInput contains parameters for the Varga operation.
type VargaInput struct {
	Subject
	Kind string // d1, d9, d10 or moon; default d1
}

// VargaOutput contains the result of the Varga operation.
type VargaOutput struct {
	Label string `json:"label,omitempty"`
	chart.Division
}

// Varga derives a divisional chart for the subject.
func Varga(ctx context.Context, database *sql.DB, engine *Engine, input VargaInput) (*VargaOutput, error) {
	kind, err := chart.ParseVargaKind(input.Kind)
	if err != nil {
		return nil, err
	}
	c, label, err := resolve(ctx, database, engine, input.Subject)
	if err != nil {
		return nil, err
	}
	d, err := chart.Varga(c, kind)
	if err != nil {
		return nil, err
	}
	return &VargaOutput{Label: label, Division: *d}, nil
}

package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/lagna/internal/db"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID    string
	Owner string
	Name  string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete soft-deletes a stored chart.
func Delete(ctx context.Context, database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	// Resolve active chart first so name addressing yields an ID
	p, err := load(ctx, database, input.ID, input.Owner, input.Name, false)
	if err != nil {
		return nil, err
	}

	if err := db.SoftDelete(ctx, database, p.ID); err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted: true,
		ID:      p.ID,
	}, nil
}

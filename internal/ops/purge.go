package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hpungsan/lagna/internal/db"
	"github.com/hpungsan/lagna/internal/errors"
)

// PurgeInput contains parameters for the Purge operation.
type PurgeInput struct {
	Owner         *string // optional filter by owner
	OlderThanDays *int    // optional, only purge if deleted_at <= (now - N days)
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Purged  int    `json:"purged"`
	Message string `json:"message"`
}

// Purge permanently deletes soft-deleted charts.
func Purge(ctx context.Context, database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	if input.OlderThanDays != nil && *input.OlderThanDays < 0 {
		return nil, errors.NewInvalidRequest("older_than_days must be non-negative")
	}

	var ownerNorm *string
	if input.Owner != nil {
		norm := normalizeOwner(*input.Owner)
		ownerNorm = &norm
	}

	count, err := db.PurgeDeleted(ctx, database, ownerNorm, input.OlderThanDays)
	if err != nil {
		return nil, err
	}

	return &PurgeOutput{
		Purged:  count,
		Message: formatPurgeMessage(count, input.Owner, input.OlderThanDays),
	}, nil
}

// formatPurgeMessage creates a human-readable message for the purge result.
func formatPurgeMessage(count int, owner *string, olderThanDays *int) string {
	if count == 0 {
		return "No deleted charts to purge"
	}

	word := "chart"
	if count > 1 {
		word = "charts"
	}

	msg := fmt.Sprintf("Permanently deleted %d %s", count, word)

	if owner != nil {
		msg += fmt.Sprintf(" for owner %q", *owner)
	}

	if olderThanDays != nil {
		msg += fmt.Sprintf(" (deleted at least %d days ago)", *olderThanDays)
	}

	return msg
}

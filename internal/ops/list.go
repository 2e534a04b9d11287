package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/lagna/internal/db"
	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/profile"
	"github.com/hpungsan/lagna/internal/zodiac"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Owner          string // defaults to "default"
	AllOwners      bool   // ignore Owner and list every owner
	MoonNakshatra  string // optional filter, e.g. "rohini"
	Limit          int    // default: 20, max: 100
	Offset         int    // default: 0
	IncludeDeleted bool
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []profile.Summary `json:"items"`
	Pagination Pagination        `json:"pagination"`
	Sort       string            `json:"sort"`
}

// List retrieves chart summaries with pagination.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	var filter db.ListFilter
	if !input.AllOwners {
		owner := normalizeOwner(input.Owner)
		filter.OwnerNorm = &owner
	}
	if s := strings.TrimSpace(input.MoonNakshatra); s != "" {
		n, err := zodiac.ParseNakshatra(s)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
		filter.MoonNakshatra = &n
	}

	// Apply limit defaults and bounds
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	// Ensure offset is non-negative
	offset := max(input.Offset, 0)

	summaries, total, err := db.List(ctx, database, filter, limit, offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if summaries == nil {
		summaries = []profile.Summary{}
	}

	hasMore := offset+len(summaries) < total

	return &ListOutput{
		Items: summaries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
			Total:   total,
		},
		Sort: "updated_at_desc",
	}, nil
}

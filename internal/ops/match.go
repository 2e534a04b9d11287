package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hpungsan/lagna/internal/match"
)

// MatchInput contains parameters for the Match operation.
type MatchInput struct {
	Boy  Subject
	Girl Subject
}

// MatchOutput contains the result of the Match operation.
type MatchOutput struct {
	Boy  string `json:"boy,omitempty"`
	Girl string `json:"girl,omitempty"`
	match.Result
}

// Match scores Guna Milan compatibility between two subjects.
func Match(ctx context.Context, database *sql.DB, engine *Engine, input MatchInput) (*MatchOutput, error) {
	boy, boyLabel, err := resolve(ctx, database, engine, input.Boy)
	if err != nil {
		return nil, fmt.Errorf("boy: %w", err)
	}
	girl, girlLabel, err := resolve(ctx, database, engine, input.Girl)
	if err != nil {
		return nil, fmt.Errorf("girl: %w", err)
	}

	r, err := match.Compute(boy, girl)
	if err != nil {
		return nil, err
	}
	return &MatchOutput{Boy: boyLabel, Girl: girlLabel, Result: *r}, nil
}

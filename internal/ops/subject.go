package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/lagna/internal/birth"
	"github.com/hpungsan/lagna/internal/chart"
	"github.com/hpungsan/lagna/internal/errors"
)

// Subject names the chart an analysis runs on: either a stored chart
// (ID, or Owner + Name) or an inline birth record computed on the fly.
type Subject struct {
	ID        string        `json:"id,omitempty"`
	Owner     string        `json:"owner,omitempty"`
	Name      string        `json:"name,omitempty"`
	Birth     *birth.Record `json:"birth,omitempty"`
	Ayanamsa  string        `json:"ayanamsa,omitempty"`
	NodeModel string        `json:"node_model,omitempty"`
}

// resolve returns the subject's chart and a display label. database may be
// nil when the subject carries a birth record.
func resolve(ctx context.Context, database *sql.DB, engine *Engine, s Subject) (*chart.Chart, string, error) {
	stored := strings.TrimSpace(s.ID) != "" || strings.TrimSpace(s.Name) != ""
	if s.Birth != nil {
		if stored {
			return nil, "", errors.NewAmbiguousAddressing()
		}
		c, err := engine.Compute(*s.Birth, s.Ayanamsa, s.NodeModel)
		if err != nil {
			return nil, "", err
		}
		return c, "", nil
	}
	if !stored {
		return nil, "", errors.NewInvalidRequest("must specify a birth record, id, or name")
	}
	if database == nil {
		return nil, "", errors.NewInvalidRequest("stored charts require a database")
	}

	p, err := load(ctx, database, s.ID, s.Owner, s.Name, false)
	if err != nil {
		return nil, "", err
	}
	if p.Chart == nil {
		return nil, "", errors.NewInternal(nil)
	}
	return p.Chart, p.DisplayName(), nil
}

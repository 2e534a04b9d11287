package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/hpungsan/lagna/internal/dasha"
	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/zodiac"
)

// DashaInput contains parameters for the Dasha operation.
type DashaInput struct {
	Subject
	Count int        // mahadashas to return; default 9, max 27
	At    *time.Time // reference instant for Current; default now
}

// Running names the periods in effect at the reference instant.
type Running struct {
	At         time.Time    `json:"at"`
	Mahadasha  zodiac.Body  `json:"mahadasha"`
	Antardasha *zodiac.Body `json:"antardasha,omitempty"`
}

// DashaOutput contains the result of the Dasha operation.
type DashaOutput struct {
	Label    string          `json:"label,omitempty"`
	Timeline *dasha.Timeline `json:"timeline"`
	Current  *Running        `json:"current,omitempty"`
}

// Dasha computes the Vimshottari timeline from the subject's Moon.
func Dasha(ctx context.Context, database *sql.DB, engine *Engine, input DashaInput) (*DashaOutput, error) {
	c, label, err := resolve(ctx, database, engine, input.Subject)
	if err != nil {
		return nil, err
	}
	moon := c.Planet(zodiac.Moon)
	if moon == nil {
		return nil, errors.NewInvalidRequest("chart has no Moon")
	}

	tl, err := dasha.Vimshottari(moon.Sidereal, c.UTC.Time(), input.Count)
	if err != nil {
		return nil, err
	}

	at := time.Now().UTC()
	if input.At != nil {
		at = input.At.UTC()
	}

	out := &DashaOutput{Label: label, Timeline: tl}
	if maha, antar, ok := tl.At(at); ok {
		out.Current = &Running{At: at, Mahadasha: maha.Lord}
		if antar != nil {
			lord := antar.Lord
			out.Current.Antardasha = &lord
		}
	}
	return out, nil
}

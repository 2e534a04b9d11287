package profile

import "github.com/hpungsan/lagna/internal/zodiac"

// Summary is a profile without its chart body, used by list operations.
type Summary struct {
	ID            string           `json:"id"`
	Owner         string           `json:"owner"`
	OwnerNorm     string           `json:"owner_norm"`
	Name          *string          `json:"name,omitempty"`
	NameNorm      *string          `json:"name_norm,omitempty"`
	Label         *string          `json:"label,omitempty"`
	Ayanamsa      string           `json:"ayanamsa"`
	Lagna         zodiac.Sign      `json:"lagna"`
	MoonSign      zodiac.Sign      `json:"moon_sign"`
	MoonNakshatra zodiac.Nakshatra `json:"moon_nakshatra"`
	Degraded      bool             `json:"degraded"`
	CreatedAt     int64            `json:"created_at"`
	UpdatedAt     int64            `json:"updated_at"`
	DeletedAt     *int64           `json:"deleted_at,omitempty"`
}

// ToSummary strips the chart body, keeping its headline placements.
func (p *Profile) ToSummary() Summary {
	s := Summary{
		ID:        p.ID,
		Owner:     p.OwnerRaw,
		OwnerNorm: p.OwnerNorm,
		Name:      p.NameRaw,
		NameNorm:  p.NameNorm,
		Label:     p.Label,
		Ayanamsa:  p.Ayanamsa,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		DeletedAt: p.DeletedAt,
	}
	if c := p.Chart; c != nil {
		s.Lagna = c.Ascendant.Placement.Sign
		s.Degraded = c.Degraded
		if moon := c.Planet(zodiac.Moon); moon != nil {
			s.MoonSign = moon.Placement.Sign
			s.MoonNakshatra = moon.Placement.Nakshatra
		}
	}
	return s
}

package chart

import (
	"fmt"
	"strings"

	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/zodiac"
)

// VargaKind names a divisional chart.
type VargaKind string

const (
	VargaRasi     VargaKind = "d1"
	VargaNavamsa  VargaKind = "d9"
	VargaDashamsa VargaKind = "d10"
	VargaChandra  VargaKind = "moon"
)

// VargaKinds lists the supported divisional charts.
func VargaKinds() []VargaKind {
	return []VargaKind{VargaRasi, VargaNavamsa, VargaDashamsa, VargaChandra}
}

// ParseVargaKind resolves a divisional chart name such as "D9" or "navamsa".
func ParseVargaKind(s string) (VargaKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "d1", "rasi":
		return VargaRasi, nil
	case "d9", "navamsa":
		return VargaNavamsa, nil
	case "d10", "dashamsa":
		return VargaDashamsa, nil
	case "moon", "chandra":
		return VargaChandra, nil
	}
	return "", errors.NewInvalidRequest(fmt.Sprintf("unknown varga %q (known: d1, d9, d10, moon)", s))
}

// VargaPlacement is a body's sign and house in a divisional chart.
type VargaPlacement struct {
	Body  zodiac.Body `json:"body"`
	Sign  zodiac.Sign `json:"sign"`
	House int         `json:"house"`
}

// Division is a divisional chart with whole-sign houses from its own lagna.
type Division struct {
	Kind       VargaKind        `json:"kind"`
	Lagna      zodiac.Sign      `json:"lagna"`
	Placements []VargaPlacement `json:"placements"`
	Houses     []House          `json:"houses"`
}

// Varga derives a divisional chart from a computed chart.
func Varga(c *Chart, kind VargaKind) (*Division, error) {
	if c == nil || len(c.Planets) == 0 {
		return nil, errors.NewInvalidRequest("chart has no planets")
	}

	var signOf func(sidereal float64, rasi zodiac.Sign) zodiac.Sign
	lagna := c.Ascendant.Placement.Sign
	switch kind {
	case VargaRasi:
		signOf = func(_ float64, rasi zodiac.Sign) zodiac.Sign { return rasi }
	case VargaNavamsa:
		signOf = func(l float64, _ zodiac.Sign) zodiac.Sign { return zodiac.NavamsaSign(l) }
		lagna = zodiac.NavamsaSign(c.Ascendant.Placement.Longitude)
	case VargaDashamsa:
		signOf = func(l float64, _ zodiac.Sign) zodiac.Sign { return zodiac.DashamsaSign(l) }
		lagna = zodiac.DashamsaSign(c.Ascendant.Placement.Longitude)
	case VargaChandra:
		moon := c.Planet(zodiac.Moon)
		if moon == nil {
			return nil, errors.NewInvalidRequest("chart has no Moon")
		}
		signOf = func(_ float64, rasi zodiac.Sign) zodiac.Sign { return rasi }
		lagna = moon.Placement.Sign
	default:
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown varga %q", kind))
	}

	d := &Division{
		Kind:       kind,
		Lagna:      lagna,
		Placements: make([]VargaPlacement, len(c.Planets)),
	}
	bodies := make([]zodiac.Body, len(c.Planets))
	signs := make([]zodiac.Sign, len(c.Planets))
	for i, p := range c.Planets {
		s := signOf(p.Sidereal, p.Placement.Sign)
		bodies[i] = p.Body
		signs[i] = s
		d.Placements[i] = VargaPlacement{Body: p.Body, Sign: s, House: HouseOf(lagna, s)}
	}
	d.Houses = WholeSignHouses(lagna, bodies, signs)
	return d, nil
}

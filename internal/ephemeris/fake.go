package ephemeris

import (
	"fmt"
	"math"

	"github.com/hpungsan/lagna/internal/zodiac"
)

// Linear is a deterministic provider for tests: every body moves at a
// constant rate from a base longitude at J2000. Sidereal time follows the
// linear GMST formula.
type Linear struct {
	Base [zodiac.NumBodies]float64 // degrees at J2000
	Rate [zodiac.NumBodies]float64 // degrees per day
	// MoonLatitude is the Moon's latitude amplitude; the latitude is
	// MoonLatitude·sin(Moon longitude - MoonNode).
	MoonLatitude float64
	MoonNode     float64

	Fail         map[zodiac.Body]bool
	Panic        map[zodiac.Body]bool
	FailSidereal bool
	NaNSidereal  bool
}

// NewLinear returns a Linear provider seeded with rough J2000 longitudes
// and mean daily motions, all prograde.
func NewLinear() *Linear {
	return &Linear{
		Base: [zodiac.NumBodies]float64{
			zodiac.Sun:     280.46,
			zodiac.Moon:    218.32,
			zodiac.Mercury: 271.89,
			zodiac.Venus:   241.57,
			zodiac.Mars:    327.96,
			zodiac.Jupiter: 25.25,
			zodiac.Saturn:  40.40,
		},
		Rate: [zodiac.NumBodies]float64{
			zodiac.Sun:     0.9856,
			zodiac.Moon:    13.1764,
			zodiac.Mercury: 1.3833,
			zodiac.Venus:   1.2,
			zodiac.Mars:    0.524,
			zodiac.Jupiter: 0.0831,
			zodiac.Saturn:  0.0335,
		},
		MoonLatitude: 5.145,
		MoonNode:     125.04,
	}
}

// Name implements Provider.
func (l *Linear) Name() string { return "linear" }

// Position implements Provider.
func (l *Linear) Position(body zodiac.Body, jd float64) (Ecliptic, error) {
	if l.Panic[body] {
		panic(fmt.Sprintf("linear: forced panic for %s", body))
	}
	if l.Fail[body] {
		return Ecliptic{}, fmt.Errorf("linear: forced failure for %s", body)
	}
	if body.IsNode() {
		return Ecliptic{}, ErrUnsupportedBody
	}
	if !body.Valid() {
		return Ecliptic{}, fmt.Errorf("unknown body %d", int(body))
	}
	lon := zodiac.Wrap360(l.Base[body] + l.Rate[body]*(jd-J2000))
	e := Ecliptic{Longitude: lon, Distance: 1}
	if body == zodiac.Moon {
		e.Latitude = l.MoonLatitude * math.Sin(rad(lon-l.MoonNode))
		e.Distance = 0.00257
	}
	return e, nil
}

// SiderealTime implements Provider.
func (l *Linear) SiderealTime(jd float64) (float64, error) {
	if l.FailSidereal {
		return 0, fmt.Errorf("linear: forced sidereal failure")
	}
	if l.NaNSidereal {
		return math.NaN(), nil
	}
	h := math.Mod(18.697374558+24.06570982441908*(jd-J2000), 24)
	if h < 0 {
		h += 24
	}
	return h, nil
}

package ephemeris

import (
	"fmt"
	"math"
	"sync"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/moonposition"
	pp "github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/hpungsan/lagna/internal/zodiac"
)

const kmPerAU = 149597870.7

// Meeus computes positions from the algorithms in Meeus, Astronomical
// Algorithms. The Sun and Moon are analytic. Planets come from the VSOP87B
// files under dir when one is configured, loaded on first use, and from
// mean orbital elements otherwise.
type Meeus struct {
	dir string

	once    sync.Once
	planets map[zodiac.Body]*pp.V87Planet
	earth   *pp.V87Planet
	loadErr error
}

// NewMeeus returns a provider reading VSOP87 files from dir. An empty dir
// selects the element-based planet path, which needs no data files.
func NewMeeus(dir string) *Meeus {
	return &Meeus{dir: dir}
}

// Name implements Provider.
func (m *Meeus) Name() string { return "meeus" }

var vsopIndex = map[zodiac.Body]int{
	zodiac.Mercury: pp.Mercury,
	zodiac.Venus:   pp.Venus,
	zodiac.Mars:    pp.Mars,
	zodiac.Jupiter: pp.Jupiter,
	zodiac.Saturn:  pp.Saturn,
}

func (m *Meeus) load() {
	earth, err := pp.LoadPlanetPath(pp.Earth, m.dir)
	if err != nil {
		m.loadErr = fmt.Errorf("load VSOP87 earth: %w", err)
		return
	}
	planets := make(map[zodiac.Body]*pp.V87Planet, len(vsopIndex))
	for body, idx := range vsopIndex {
		p, err := pp.LoadPlanetPath(idx, m.dir)
		if err != nil {
			m.loadErr = fmt.Errorf("load VSOP87 %s: %w", body, err)
			return
		}
		planets[body] = p
	}
	m.earth = earth
	m.planets = planets
}

// Position implements Provider.
func (m *Meeus) Position(body zodiac.Body, jd float64) (Ecliptic, error) {
	switch body {
	case zodiac.Sun:
		T := base.J2000Century(jd)
		return Ecliptic{
			Longitude: zodiac.Wrap360(solar.ApparentLongitude(T).Deg()),
			Distance:  solar.Radius(T),
		}, nil
	case zodiac.Moon:
		lon, lat, dist := moonposition.Position(jd)
		return Ecliptic{
			Longitude: zodiac.Wrap360(lon.Deg()),
			Latitude:  lat.Deg(),
			Distance:  dist / kmPerAU,
		}, nil
	case zodiac.Mercury, zodiac.Venus, zodiac.Mars, zodiac.Jupiter, zodiac.Saturn:
		if m.dir == "" {
			return Keplerian(body, jd)
		}
		m.once.Do(m.load)
		if m.loadErr != nil {
			return Ecliptic{}, m.loadErr
		}
		return geocentric(m.planets[body], m.earth, jd), nil
	case zodiac.Rahu, zodiac.Ketu:
		return Ecliptic{}, ErrUnsupportedBody
	}
	return Ecliptic{}, fmt.Errorf("unknown body %d", int(body))
}

// SiderealTime implements Provider.
func (m *Meeus) SiderealTime(jd float64) (float64, error) {
	secs := float64(sidereal.Mean(jd))
	h := math.Mod(secs/3600, 24)
	if h < 0 {
		h += 24
	}
	return h, nil
}

// geocentric subtracts Earth's heliocentric vector from the planet's.
// Light-time and aberration are ignored; both are under 0.01° for these bodies.
func geocentric(planet, earth *pp.V87Planet, jd float64) Ecliptic {
	pl, pb, pr := planet.Position(jd)
	el, eb, er := earth.Position(jd)

	px, py, pz := rect(pl, pb, pr)
	ex, ey, ez := rect(el, eb, er)
	return fromRect(px-ex, py-ey, pz-ez)
}

func rect(l, b unit.Angle, r float64) (x, y, z float64) {
	sl, cl := math.Sincos(l.Rad())
	sb, cb := math.Sincos(b.Rad())
	return r * cb * cl, r * cb * sl, r * sb
}

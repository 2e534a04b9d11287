package ephemeris

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/kepler"
	pe "github.com/soniakeys/meeus/v3/planetelements"
	"github.com/soniakeys/unit"

	"github.com/hpungsan/lagna/internal/zodiac"
)

var elementIndex = map[zodiac.Body]int{
	zodiac.Mercury: pe.Mercury,
	zodiac.Venus:   pe.Venus,
	zodiac.Mars:    pe.Mars,
	zodiac.Jupiter: pe.Jupiter,
	zodiac.Saturn:  pe.Saturn,
}

// Keplerian returns a planet's geometric geocentric position from the mean
// orbital elements of date (Meeus table 31.A), solving Kepler's equation
// for both the planet and Earth. Periodic perturbations are ignored, which
// keeps Jupiter and Saturn within about a degree and the inner planets
// within a fraction of one.
func Keplerian(body zodiac.Body, jd float64) (Ecliptic, error) {
	idx, ok := elementIndex[body]
	if !ok {
		if body.IsNode() {
			return Ecliptic{}, ErrUnsupportedBody
		}
		return Ecliptic{}, fmt.Errorf("no orbital elements for %s", body)
	}
	px, py, pz := heliocentric(idx, jd)
	ex, ey, ez := heliocentric(pe.Earth, jd)
	return fromRect(px-ex, py-ey, pz-ez), nil
}

// keplerianSun is the geocentric Sun as the reflection of Earth's orbit.
func keplerianSun(jd float64) Ecliptic {
	x, y, z := heliocentric(pe.Earth, jd)
	return fromRect(-x, -y, -z)
}

// heliocentric returns rectangular ecliptic coordinates in AU, mean
// equinox of date.
func heliocentric(planet int, jd float64) (x, y, z float64) {
	var el pe.Elements
	pe.Mean(planet, jd, &el)

	M := unit.Angle(math.Mod(float64(el.Lon-el.Peri), 2*math.Pi))
	if M < 0 {
		M += 2 * math.Pi
	}
	E := kepler.Kepler3(el.Ecc, M)
	nu := kepler.True(E, el.Ecc)
	r := kepler.Radius(E, el.Ecc, el.Axis)

	// Argument of latitude, measured from the ascending node.
	u := nu + el.Peri - el.Node
	su, cu := math.Sincos(u.Rad())
	sn, cn := math.Sincos(el.Node.Rad())
	si, ci := math.Sincos(el.Inc.Rad())
	return r * (cn*cu - sn*su*ci), r * (sn*cu + cn*su*ci), r * su * si
}

func fromRect(x, y, z float64) Ecliptic {
	return Ecliptic{
		Longitude: zodiac.Wrap360(math.Atan2(y, x) * 180 / math.Pi),
		Latitude:  math.Atan2(z, math.Hypot(x, y)) * 180 / math.Pi,
		Distance:  math.Sqrt(x*x + y*y + z*z),
	}
}

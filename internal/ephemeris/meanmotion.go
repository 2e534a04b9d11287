package ephemeris

import (
	"fmt"
	"math"

	"github.com/hpungsan/lagna/internal/zodiac"
)

// MeanMotionSource labels positions produced by the fallback.
const MeanMotionSource = "mean-motion"

// MeanMotion is the low-precision fallback used when the provider fails.
// The Sun and planets come from mean orbital elements (see Keplerian). The
// Moon uses its mean motion plus the largest periodic term, independent of
// the full lunar theory the provider runs, and is good to a few degrees.
func MeanMotion(body zodiac.Body, jd float64) (Ecliptic, error) {
	switch body {
	case zodiac.Sun:
		return keplerianSun(jd), nil
	case zodiac.Moon:
		d := jd - J2000
		L := 218.316 + 13.176396*d
		M := rad(134.963 + 13.064993*d)
		F := rad(93.272 + 13.229350*d)
		return Ecliptic{
			Longitude: zodiac.Wrap360(L + 6.289*math.Sin(M)),
			Latitude:  5.128 * math.Sin(F),
			Distance:  (385001 - 20905*math.Cos(M)) / kmPerAU,
		}, nil
	case zodiac.Mercury, zodiac.Venus, zodiac.Mars, zodiac.Jupiter, zodiac.Saturn:
		return Keplerian(body, jd)
	case zodiac.Rahu, zodiac.Ketu:
		return Ecliptic{}, ErrUnsupportedBody
	}
	return Ecliptic{}, fmt.Errorf("unknown body %d", int(body))
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Package ephemeris obtains tropical geocentric positions for the seven
// visible grahas and wraps a provider with a mean-motion fallback.
package ephemeris

import (
	stderrors "errors"

	"github.com/hpungsan/lagna/internal/zodiac"
)

// J2000 is the Julian Day of the J2000.0 epoch.
const J2000 = 2451545.0

// ErrUnsupportedBody is returned by providers for bodies they do not model
// (the lunar nodes).
var ErrUnsupportedBody = stderrors.New("body not supported by provider")

// Ecliptic is a geocentric ecliptic position of date.
// Longitude and Latitude are in degrees, Distance in AU.
type Ecliptic struct {
	Longitude float64
	Latitude  float64
	Distance  float64
}

// Provider resolves raw positions. Implementations must be safe for
// concurrent use.
type Provider interface {
	Name() string
	Position(body zodiac.Body, jd float64) (Ecliptic, error)
	// SiderealTime returns Greenwich sidereal time in hours, 0 <= h < 24.
	SiderealTime(jd float64) (float64, error)
}

// BodyPosition is a tropical position with a day-over-day speed estimate.
type BodyPosition struct {
	Longitude     float64 `json:"longitude"`
	Latitude      float64 `json:"latitude"`
	Distance      float64 `json:"distance"`
	Speed         float64 `json:"speed"` // degrees per day, negative when retrograde
	LatitudeSpeed float64 `json:"latitude_speed"`
	Retrograde    bool    `json:"retrograde"`
	Source        string  `json:"source"`
	Degraded      bool    `json:"degraded,omitempty"`
}

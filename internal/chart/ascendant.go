package chart

import (
	"math"

	"github.com/hpungsan/lagna/internal/zodiac"
)

// Obliquity is the mean obliquity of the ecliptic in degrees. It drifts
// by about 0.0001° a year, so a constant is used.
const Obliquity = 23.4397

// Angles are the tropical ascendant and midheaven in degrees.
type Angles struct {
	Ascendant float64
	Midheaven float64
	RAMC      float64
}

// ComputeAngles returns the ascendant and midheaven for Greenwich sidereal
// time gst (hours) at the given latitude and east longitude. Latitudes at
// the poles return a finite but low-accuracy angle; ok is false only when
// the result is not finite.
func ComputeAngles(gst, latitude, longitude float64) (a Angles, ok bool) {
	lst := gst + longitude/15
	ramc := zodiac.Wrap360(lst * 15)

	sinR, cosR := math.Sincos(rad(ramc))
	sinE, cosE := math.Sincos(rad(Obliquity))

	asc := math.Atan2(cosR, -sinE*math.Tan(rad(latitude))-cosE*sinR)
	if asc < 0 {
		asc += 2 * math.Pi
	}
	mc := math.Atan2(sinR, cosR*cosE)

	a = Angles{
		Ascendant: zodiac.Wrap360(deg(asc)),
		Midheaven: zodiac.Wrap360(deg(mc)),
		RAMC:      ramc,
	}
	if math.IsNaN(a.Ascendant) || math.IsNaN(a.Midheaven) {
		return Angles{}, false
	}
	return a, true
}

// FallbackAngles is the coarse approximation used when sidereal time is
// unavailable: the ascendant sits about 90° ahead of the UT hour angle.
func FallbackAngles(utHour, longitude float64) Angles {
	mc := zodiac.Wrap360(utHour*15 + longitude)
	return Angles{
		Ascendant: zodiac.Wrap360(mc + 90),
		Midheaven: mc,
		RAMC:      mc,
	}
}

package zodiac

import (
	"fmt"
	"math"
)

// Placement classifies a sidereal longitude into sign, nakshatra and pada.
type Placement struct {
	Longitude     float64   `json:"longitude"`
	Sign          Sign      `json:"sign"`
	SignDegree    float64   `json:"sign_degree"`
	Nakshatra     Nakshatra `json:"nakshatra"`
	Pada          int       `json:"pada"`
	NakshatraLord Body      `json:"nakshatra_lord"`
}

// Wrap360 normalizes an angle in degrees to [0, 360).
func Wrap360(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	// -1e-17 + 360 rounds to 360.
	if m >= 360 {
		return 0
	}
	return m
}

// Delta returns the signed shortest angular difference to - from, in (-180, 180].
func Delta(from, to float64) float64 {
	d := Wrap360(to - from)
	if d > 180 {
		d -= 360
	}
	return d
}

// SignAt returns the sign containing longitude lon (wrapped first).
func SignAt(lon float64) Sign {
	return SignOf(padaIndex(Wrap360(lon)) / 9)
}

// padaIndex returns the 3°20' division containing l, 0..107. Sign (9 per
// sign), nakshatra (4 per nakshatra) and pada all derive from it, so they
// cannot disagree at a shared boundary. Quotients within 1e-9 below an
// integer are taken as that integer, which absorbs the rounding in
// boundary longitudes like 160°.
func padaIndex(l float64) int {
	i := int(math.Floor(l/PadaSpan + 1e-9))
	if i < 0 {
		return 0
	}
	if i >= NumNakshatras*4 {
		return NumNakshatras*4 - 1
	}
	return i
}

// Classify maps a longitude to its placement. Finite values are wrapped,
// never rejected; NaN and infinities return an error.
func Classify(lon float64) (Placement, error) {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Placement{}, fmt.Errorf("longitude must be finite, got %v", lon)
	}
	l := Wrap360(lon)

	i := padaIndex(l)
	sign := SignOf(i / 9)
	nak := NakshatraOf(i / 4)

	return Placement{
		Longitude:     l,
		Sign:          sign,
		SignDegree:    max(l-float64(sign)*SignSpan, 0),
		Nakshatra:     nak,
		Pada:          i%4 + 1,
		NakshatraLord: nak.Lord(),
	}, nil
}

// NavamsaSign returns the D9 sign for a sidereal longitude.
// Each sign splits into nine 3°20' parts counted continuously from Aries,
// so the navamsa is the pada index taken mod 12.
func NavamsaSign(lon float64) Sign {
	return SignOf(padaIndex(Wrap360(lon)))
}

// DashamsaSign returns the D10 sign for a sidereal longitude.
// Counting starts from the sign itself for movable signs, the 9th for fixed
// signs and the 5th for dual signs, then advances one sign per 3° part.
func DashamsaSign(lon float64) Sign {
	l := Wrap360(lon)
	sign := SignAt(l)
	part := clampPart(int(math.Floor((l-float64(sign)*SignSpan)/3)), 9)

	var start Sign
	switch sign.Modality() {
	case Movable:
		start = sign
	case Fixed:
		start = sign.Add(8)
	case Dual:
		start = sign.Add(4)
	}
	return start.Add(part)
}

func clampPart(p, hi int) int {
	if p < 0 {
		return 0
	}
	if p > hi {
		return hi
	}
	return p
}

// FormatDMS renders a longitude as degrees, minutes and seconds, e.g. 15°30'07".
func FormatDMS(deg float64) string {
	total := int64(math.Round(Wrap360(deg) * 3600))
	if total >= 360*3600 {
		total = 0
	}
	d := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d°%02d'%02d\"", d, m, s)
}

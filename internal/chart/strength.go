package chart

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/hpungsan/lagna/internal/zodiac"
)

// Status is the dignity label derived from a strength score.
type Status string

const (
	StatusExalted     Status = "Exalted"
	StatusStrong      Status = "Strong"
	StatusAverage     Status = "Average"
	StatusWeak        Status = "Weak"
	StatusDebilitated Status = "Debilitated"
)

// Strength scoring constants.
const (
	BaseScore        = 50
	ExaltedScore     = 95
	DebilitatedScore = 25
	RetrogradeScore  = -10
	KendraBonus      = 15
	TrikonaBonus     = 10

	// JitterSpan bounds the cosmetic magnitude jitter to [0, JitterSpan).
	JitterSpan = 200
)

// Strength is a simplified shadbala-style rating.
type Strength struct {
	Score     int    `json:"score"`
	Status    Status `json:"status"`
	Magnitude int    `json:"magnitude"`
	Benefic   bool   `json:"benefic"`
}

// Jitter supplies the cosmetic offset added to Magnitude.
type Jitter interface {
	Jitter(body zodiac.Body, jd float64) float64
}

// HashJitter derives a reproducible offset in [0, JitterSpan) from an FNV
// hash of the Julian Day and body.
type HashJitter struct{}

// Jitter implements Jitter.
func (HashJitter) Jitter(body zodiac.Body, jd float64) float64 {
	h := fnv.New64a()
	var buf [9]byte
	binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(jd))
	buf[8] = byte(body)
	h.Write(buf[:])
	return float64(h.Sum64()%(JitterSpan*1000)) / 1000
}

// NoJitter always returns zero.
type NoJitter struct{}

// Jitter implements Jitter.
func (NoJitter) Jitter(zodiac.Body, float64) float64 { return 0 }

// Exaltation returns the sign in which b is exalted. ok is false for the nodes.
func Exaltation(b zodiac.Body) (s zodiac.Sign, ok bool) {
	switch b {
	case zodiac.Sun:
		return zodiac.Aries, true
	case zodiac.Moon:
		return zodiac.Taurus, true
	case zodiac.Mercury:
		return zodiac.Virgo, true
	case zodiac.Venus:
		return zodiac.Pisces, true
	case zodiac.Mars:
		return zodiac.Capricorn, true
	case zodiac.Jupiter:
		return zodiac.Cancer, true
	case zodiac.Saturn:
		return zodiac.Libra, true
	case zodiac.Rahu, zodiac.Ketu:
		return 0, false
	}
	return 0, false
}

// Debilitation returns the sign in which b is debilitated, opposite its
// exaltation. ok is false for the nodes.
func Debilitation(b zodiac.Body) (zodiac.Sign, bool) {
	ex, ok := Exaltation(b)
	if !ok {
		return 0, false
	}
	return ex.Add(6), true
}

// ScoreStrength rates body b in sign s and house h.
func ScoreStrength(b zodiac.Body, s zodiac.Sign, h int, retrograde bool, jd float64, j Jitter) Strength {
	score := BaseScore
	if ex, ok := Exaltation(b); ok && ex == s {
		score = ExaltedScore
	} else if deb, ok := Debilitation(b); ok && deb == s {
		score = DebilitatedScore
	}
	if retrograde {
		score += RetrogradeScore
	}
	if IsKendra(h) {
		score += KendraBonus
	}
	if IsTrikona(h) {
		score += TrikonaBonus
	}

	if j == nil {
		j = NoJitter{}
	}
	return Strength{
		Score:     score,
		Status:    StatusFor(score),
		Magnitude: int(math.Round(float64(score)/100*1000 + j.Jitter(b, jd))),
		Benefic:   b.Benefic(),
	}
}

// StatusFor maps a score to its label.
func StatusFor(score int) Status {
	switch {
	case score > 75:
		return StatusExalted
	case score > 60:
		return StatusStrong
	case score > 40:
		return StatusAverage
	case score < 30:
		return StatusDebilitated
	default:
		return StatusWeak
	}
}

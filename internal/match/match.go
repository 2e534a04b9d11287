// Package match scores Ashtakoot (Guna Milan) compatibility between two charts.
package match

import (
	"math"

	"github.com/hpungsan/lagna/internal/chart"
	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/zodiac"
)

// MaxScore is the total of all eight factor maxima.
const MaxScore = 36

// Factor names.
const (
	FactorVarna       = "Varna"
	FactorVashya      = "Vashya"
	FactorTara        = "Tara"
	FactorYoni        = "Yoni"
	FactorGrahaMaitri = "Graha Maitri"
	FactorGana        = "Gana"
	FactorBhakoot     = "Bhakoot"
	FactorNadi        = "Nadi"
)

// Factor is one scored koota.
type Factor struct {
	Name       string  `json:"name"`
	Boy        string  `json:"boy"`
	Girl       string  `json:"girl"`
	Score      float64 `json:"score"`
	Max        float64 `json:"max"`
	AreaOfLife string  `json:"area_of_life"`
}

// Tier buckets the total score.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierVeryGood  Tier = "very_good"
	TierGood      Tier = "good"
	TierAverage   Tier = "average"
)

// TierFor maps a total score to its tier.
func TierFor(total float64) Tier {
	switch {
	case total >= 28:
		return TierExcellent
	case total >= 24:
		return TierVeryGood
	case total >= 18:
		return TierGood
	default:
		return TierAverage
	}
}

var recommendations = map[Tier]string{
	TierExcellent: "Excellent match. The union is highly auspicious and the couple is likely to have a harmonious and prosperous married life.",
	TierVeryGood:  "Very good compatibility. The match shows strong potential for a happy marriage; minor differences can be resolved with understanding.",
	TierGood:      "Good compatibility. The match is favorable for marriage; weaker factors may call for remedies.",
	TierAverage:   "Average compatibility. Marriage is possible but needs effort and understanding; a detailed analysis is recommended.",
}

// Recommendation returns the advisory text for a tier.
func (t Tier) Recommendation() string { return recommendations[t] }

// MangalLevel grades Mars affliction by house.
type MangalLevel string

const (
	MangalHigh MangalLevel = "high"
	MangalLow  MangalLevel = "low"
	MangalNone MangalLevel = "none"
)

// Mangal is one party's Mars placement assessment.
type Mangal struct {
	House int         `json:"house"`
	Level MangalLevel `json:"level"`
	Dosha bool        `json:"dosha"`
}

// MangalFor assesses Mars in house h.
func MangalFor(h int) Mangal {
	switch h {
	case 1, 4, 7, 8, 12:
		return Mangal{House: h, Level: MangalHigh, Dosha: true}
	case 2:
		return Mangal{House: h, Level: MangalLow}
	}
	return Mangal{House: h, Level: MangalNone}
}

// Doshas lists the afflictions found in a match.
type Doshas struct {
	MangalBoy        Mangal `json:"mangal_boy"`
	MangalGirl       Mangal `json:"mangal_girl"`
	Mangal           bool   `json:"mangal"`
	MangalCompatible bool   `json:"mangal_compatible"`
	Nadi             bool   `json:"nadi"`
	Bhakoot          bool   `json:"bhakoot"`
}

// Result is a complete compatibility assessment.
type Result struct {
	Factors        []Factor `json:"factors"`
	Total          float64  `json:"total"`
	Max            float64  `json:"max"`
	Percentage     float64  `json:"percentage"`
	Tier           Tier     `json:"tier"`
	Recommendation string   `json:"recommendation"`
	Doshas         Doshas   `json:"doshas"`
}

// Factor returns the named factor, or nil.
func (r *Result) Factor(name string) *Factor {
	for i := range r.Factors {
		if r.Factors[i].Name == name {
			return &r.Factors[i]
		}
	}
	return nil
}

// profile is the Moon-derived data a match needs from one chart.
type profile struct {
	sign      zodiac.Sign
	degree    float64
	nakshatra zodiac.Nakshatra
	marsHouse int
}

func profileOf(c *chart.Chart, who string) (profile, error) {
	if c == nil {
		return profile{}, errors.NewInvalidRequest(who + " chart is required")
	}
	moon, mars := c.Planet(zodiac.Moon), c.Planet(zodiac.Mars)
	if moon == nil || mars == nil {
		return profile{}, errors.NewInvalidRequest(who + " chart lacks Moon or Mars")
	}
	return profile{
		sign:      moon.Placement.Sign,
		degree:    moon.Placement.SignDegree,
		nakshatra: moon.Placement.Nakshatra,
		marsHouse: mars.House,
	}, nil
}

// Compute scores the eight kootas between boy's and girl's charts from
// their Moon placements, and reports Mangal, Nadi and Bhakoot doshas.
func Compute(boy, girl *chart.Chart) (*Result, error) {
	b, err := profileOf(boy, "boy")
	if err != nil {
		return nil, err
	}
	g, err := profileOf(girl, "girl")
	if err != nil {
		return nil, err
	}
	return score(b, g), nil
}

func score(b, g profile) *Result {
	r := &Result{Max: MaxScore}
	add := func(name, area string, boy, girl string, s, limit float64) {
		r.Factors = append(r.Factors, Factor{Name: name, Boy: boy, Girl: girl, Score: s, Max: limit, AreaOfLife: area})
		r.Total += s
	}

	// Varna
	bv, gv := VarnaOf(b.sign), VarnaOf(g.sign)
	varna := 0.0
	if bv >= gv {
		varna = 1
	}
	add(FactorVarna, "work", bv.String(), gv.String(), varna, 1)

	// Vashya
	bva, gva := VashyaOf(b.sign, b.degree), VashyaOf(g.sign, g.degree)
	add(FactorVashya, "dominance", bva.String(), gva.String(), vashyaScore[bva][gva], 2)

	// Tara, counted both ways.
	bt, gt := TaraOf(g.nakshatra, b.nakshatra), TaraOf(b.nakshatra, g.nakshatra)
	tara := 0.0
	if bt.Good() {
		tara += 1.5
	}
	if gt.Good() {
		tara += 1.5
	}
	add(FactorTara, "destiny", bt.String(), gt.String(), tara, 3)

	// Yoni
	by, gy := YoniOf(b.nakshatra), YoniOf(g.nakshatra)
	add(FactorYoni, "intimacy", by.String(), gy.String(), yoniScore[by][gy], 4)

	// Graha Maitri between the Moon sign lords.
	bl, gl := b.sign.Lord(), g.sign.Lord()
	add(FactorGrahaMaitri, "friendship", bl.String(), gl.String(),
		maitriScore[RelationOf(bl, gl)][RelationOf(gl, bl)], 5)

	// Gana
	bg, gg := GanaOf(b.nakshatra), GanaOf(g.nakshatra)
	add(FactorGana, "temperament", bg.String(), gg.String(), ganaScore[bg][gg], 6)

	// Bhakoot: 2/12, 5/9 and 6/8 sign relationships are inauspicious.
	bhakoot := 7.0
	switch g.sign.Distance(b.sign) + 1 {
	case 2, 12, 5, 9, 6, 8:
		bhakoot = 0
		r.Doshas.Bhakoot = true
	}
	add(FactorBhakoot, "love", b.sign.String(), g.sign.String(), bhakoot, 7)

	// Nadi
	bn, gn := NadiOf(b.nakshatra), NadiOf(g.nakshatra)
	nadi := 8.0
	if bn == gn {
		nadi = 0
		r.Doshas.Nadi = true
	}
	add(FactorNadi, "health", bn.String(), gn.String(), nadi, 8)

	r.Doshas.MangalBoy = MangalFor(b.marsHouse)
	r.Doshas.MangalGirl = MangalFor(g.marsHouse)
	r.Doshas.Mangal = r.Doshas.MangalBoy.Dosha || r.Doshas.MangalGirl.Dosha
	r.Doshas.MangalCompatible = r.Doshas.MangalBoy.Level == r.Doshas.MangalGirl.Level

	r.Percentage = math.Round(r.Total/MaxScore*1000) / 10
	r.Tier = TierFor(r.Total)
	r.Recommendation = r.Tier.Recommendation()
	return r
}

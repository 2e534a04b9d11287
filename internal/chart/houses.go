package chart

import (
	"github.com/hpungsan/lagna/internal/zodiac"
)

// NumHouses is the number of whole-sign houses.
const NumHouses = 12

// House is one whole-sign house and the bodies it holds, in body order.
type House struct {
	Number int           `json:"number"`
	Sign   zodiac.Sign   `json:"sign"`
	Bodies []zodiac.Body `json:"bodies"`
}

// HouseOf returns the whole-sign house (1..12) of a body in sign s when the
// first house is sign lagna.
func HouseOf(lagna, s zodiac.Sign) int {
	return 1 + lagna.Distance(s)
}

// WholeSignHouses builds all twelve houses from lagna. signs gives each
// body's sign; bodies are listed in the order given.
func WholeSignHouses(lagna zodiac.Sign, bodies []zodiac.Body, signs []zodiac.Sign) []House {
	houses := make([]House, NumHouses)
	for i := range houses {
		houses[i] = House{
			Number: i + 1,
			Sign:   lagna.Add(i),
			Bodies: []zodiac.Body{},
		}
	}
	for i, b := range bodies {
		h := HouseOf(lagna, signs[i])
		houses[h-1].Bodies = append(houses[h-1].Bodies, b)
	}
	return houses
}

// IsKendra reports whether h is an angular house (1, 4, 7, 10).
func IsKendra(h int) bool {
	switch h {
	case 1, 4, 7, 10:
		return true
	}
	return false
}

// IsTrikona reports whether h is a trine house counted for strength (5, 9).
func IsTrikona(h int) bool {
	return h == 5 || h == 9
}

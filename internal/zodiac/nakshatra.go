package zodiac

import (
	"fmt"
	"strings"
)

// Nakshatra is one of the 27 lunar mansions, zero-indexed from Ashwini.
type Nakshatra int

const (
	Ashwini Nakshatra = iota
	Bharani
	Krittika
	Rohini
	Mrigashira
	Ardra
	Punarvasu
	Pushya
	Ashlesha
	Magha
	PurvaPhalguni
	UttaraPhalguni
	Hasta
	Chitra
	Swati
	Vishakha
	Anuradha
	Jyeshtha
	Mula
	PurvaAshadha
	UttaraAshadha
	Shravana
	Dhanishta
	Shatabhisha
	PurvaBhadrapada
	UttaraBhadrapada
	Revati
)

const (
	// NumNakshatras is the number of lunar mansions.
	NumNakshatras = 27

	// NakshatraSpan is 13°20'.
	NakshatraSpan = 360.0 / NumNakshatras

	// PadaSpan is 3°20'.
	PadaSpan = NakshatraSpan / 4
)

var nakshatraNames = [NumNakshatras]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni",
	"Uttara Phalguni", "Hasta", "Chitra", "Swati", "Vishakha", "Anuradha",
	"Jyeshtha", "Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana",
	"Dhanishta", "Shatabhisha", "Purva Bhadrapada", "Uttara Bhadrapada",
	"Revati",
}

// lordCycle is the Vimshottari order; nakshatra i is ruled by lordCycle[i%9].
var lordCycle = [9]Body{Ketu, Venus, Sun, Moon, Mars, Rahu, Jupiter, Saturn, Mercury}

// LordCycle returns the nine-lord Vimshottari sequence starting from Ketu.
func LordCycle() [9]Body {
	return lordCycle
}

// NakshatraOf returns the nakshatra for a zero-based index, wrapping any integer.
func NakshatraOf(index int) Nakshatra {
	return Nakshatra(((index % NumNakshatras) + NumNakshatras) % NumNakshatras)
}

// Valid reports whether n is a known nakshatra.
func (n Nakshatra) Valid() bool {
	return n >= Ashwini && n <= Revati
}

func (n Nakshatra) String() string {
	if !n.Valid() {
		return fmt.Sprintf("Nakshatra(%d)", int(n))
	}
	return nakshatraNames[n]
}

// Lord returns the ruling planet of the nakshatra.
func (n Nakshatra) Lord() Body {
	return lordCycle[int(n)%len(lordCycle)]
}

// Start returns the sidereal longitude at which the nakshatra begins.
func (n Nakshatra) Start() float64 {
	return float64(n) * NakshatraSpan
}

// ParseNakshatra resolves a nakshatra name case-insensitively.
// Spaces are optional, so "PurvaPhalguni" and "purva phalguni" both match.
func ParseNakshatra(s string) (Nakshatra, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for i, name := range nakshatraNames {
		if strings.ToLower(strings.ReplaceAll(name, " ", "")) == key {
			return Nakshatra(i), nil
		}
	}
	return 0, fmt.Errorf("unknown nakshatra %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (n Nakshatra) MarshalText() ([]byte, error) {
	if !n.Valid() {
		return nil, fmt.Errorf("invalid nakshatra %d", int(n))
	}
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Nakshatra) UnmarshalText(text []byte) error {
	v, err := ParseNakshatra(string(text))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

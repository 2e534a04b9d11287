package zodiac

import (
	"fmt"
	"strings"
)

// Sign is one of the twelve 30° rasis, zero-indexed from Aries.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// NumSigns is the number of zodiac signs.
const NumSigns = 12

// SignSpan is the width of a sign in degrees.
const SignSpan = 30.0

var signNames = [NumSigns]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// Modality is the movable/fixed/dual quality of a sign.
type Modality int

const (
	Movable Modality = iota
	Fixed
	Dual
)

func (m Modality) String() string {
	switch m {
	case Movable:
		return "movable"
	case Fixed:
		return "fixed"
	case Dual:
		return "dual"
	}
	return fmt.Sprintf("Modality(%d)", int(m))
}

// Signs returns all signs in zodiac order.
func Signs() []Sign {
	out := make([]Sign, NumSigns)
	for i := range out {
		out[i] = Sign(i)
	}
	return out
}

// SignOf returns the sign for a zero-based index, wrapping any integer.
func SignOf(index int) Sign {
	return Sign(((index % NumSigns) + NumSigns) % NumSigns)
}

// Valid reports whether s is a known sign.
func (s Sign) Valid() bool {
	return s >= Aries && s <= Pisces
}

func (s Sign) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Sign(%d)", int(s))
	}
	return signNames[s]
}

// Add advances s by n signs around the wheel.
func (s Sign) Add(n int) Sign {
	return SignOf(int(s) + n)
}

// Distance returns (to - s) mod 12, in 0..11.
func (s Sign) Distance(to Sign) int {
	return ((int(to)-int(s))%NumSigns + NumSigns) % NumSigns
}

// Lord returns the sign's ruling planet.
func (s Sign) Lord() Body {
	switch s {
	case Aries, Scorpio:
		return Mars
	case Taurus, Libra:
		return Venus
	case Gemini, Virgo:
		return Mercury
	case Cancer:
		return Moon
	case Leo:
		return Sun
	case Sagittarius, Pisces:
		return Jupiter
	case Capricorn, Aquarius:
		return Saturn
	}
	panic(fmt.Sprintf("zodiac: no lord for %v", s))
}

// Modality returns the sign's quality: movable (cardinal), fixed, or dual (mutable).
func (s Sign) Modality() Modality {
	switch s {
	case Aries, Cancer, Libra, Capricorn:
		return Movable
	case Taurus, Leo, Scorpio, Aquarius:
		return Fixed
	case Gemini, Virgo, Sagittarius, Pisces:
		return Dual
	}
	panic(fmt.Sprintf("zodiac: no modality for %v", s))
}

// ParseSign resolves a sign name case-insensitively.
func ParseSign(str string) (Sign, error) {
	key := strings.ToLower(strings.TrimSpace(str))
	for i, name := range signNames {
		if strings.ToLower(name) == key {
			return Sign(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sign %q", str)
}

// MarshalText implements encoding.TextMarshaler.
func (s Sign) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid sign %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sign) UnmarshalText(text []byte) error {
	v, err := ParseSign(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

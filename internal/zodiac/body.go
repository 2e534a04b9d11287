package zodiac

import (
	"fmt"
	"strings"
)

// Body identifies one of the nine grahas used in a chart.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Rahu
	Ketu
)

// NumBodies is the number of bodies in a chart.
const NumBodies = 9

// Bodies returns all bodies in chart order.
func Bodies() []Body {
	return []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Rahu, Ketu}
}

// String returns the body's display name.
func (b Body) String() string {
	switch b {
	case Sun:
		return "Sun"
	case Moon:
		return "Moon"
	case Mercury:
		return "Mercury"
	case Venus:
		return "Venus"
	case Mars:
		return "Mars"
	case Jupiter:
		return "Jupiter"
	case Saturn:
		return "Saturn"
	case Rahu:
		return "Rahu"
	case Ketu:
		return "Ketu"
	}
	return fmt.Sprintf("Body(%d)", int(b))
}

// Valid reports whether b is one of the nine known bodies.
func (b Body) Valid() bool {
	return b >= Sun && b <= Ketu
}

// IsNode reports whether b is a lunar node.
func (b Body) IsNode() bool {
	return b == Rahu || b == Ketu
}

// Benefic reports the fixed natural benefic classification.
func (b Body) Benefic() bool {
	switch b {
	case Jupiter, Venus, Mercury, Moon:
		return true
	case Sun, Mars, Saturn, Rahu, Ketu:
		return false
	}
	return false
}

// ParseBody resolves a body name case-insensitively.
func ParseBody(s string) (Body, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, b := range Bodies() {
		if strings.ToLower(b.String()) == key {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown body %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (b Body) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid body %d", int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Body) UnmarshalText(text []byte) error {
	v, err := ParseBody(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

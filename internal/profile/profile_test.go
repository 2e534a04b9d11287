package profile

import (
	"testing"

	"github.com/hpungsan/lagna/internal/chart"
	"github.com/hpungsan/lagna/internal/zodiac"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple lowercase", "Asha Rao", "asha rao"},
		{"trim whitespace", "  asha  ", "asha"},
		{"collapse internal whitespace", "asha    rao", "asha rao"},
		{"tabs and newlines", "asha\t\n  rao", "asha rao"},
		{"empty string", "", ""},
		{"only whitespace", "   \t\n   ", ""},
		{"unicode", "  ÉLODIE   Ünal  ", "élodie ünal"},
		{"devanagari", " आशा ", "आशा"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCountChars(t *testing.T) {
	for in, want := range map[string]int{"": 0, "asha": 4, "café": 4, "आशा": 3} {
		if got := CountChars(in); got != want {
			t.Errorf("CountChars(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	name, label := "Asha", "Asha's chart"
	tests := []struct {
		p    Profile
		want string
	}{
		{Profile{ID: "01ARZ3NDEKTSV4RRFFQ69G5FAV", NameRaw: &name}, "Asha"},
		{Profile{ID: "01ARZ3NDEKTSV4RRFFQ69G5FAV", Label: &label}, "Asha's chart"},
		{Profile{ID: "01ARZ3NDEKTSV4RRFFQ69G5FAV"}, "01ARZ3NDEK..."},
		{Profile{ID: "short"}, "short"},
	}
	for _, tt := range tests {
		if got := tt.p.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestToSummary(t *testing.T) {
	c := &chart.Chart{
		Ascendant: chart.Angle{Placement: zodiac.Placement{Sign: zodiac.Leo}},
		Planets: []chart.Planet{
			{Body: zodiac.Sun},
			{Body: zodiac.Moon, Placement: zodiac.Placement{Sign: zodiac.Taurus, Nakshatra: zodiac.Rohini}},
		},
		Degraded: true,
	}
	name := "Asha"
	p := &Profile{ID: "id1", OwnerRaw: "Family", OwnerNorm: "family", NameRaw: &name, Ayanamsa: "lahiri", Chart: c, CreatedAt: 10, UpdatedAt: 20}

	s := p.ToSummary()
	if s.Lagna != zodiac.Leo || s.MoonSign != zodiac.Taurus || s.MoonNakshatra != zodiac.Rohini {
		t.Errorf("summary placements = %v %v %v", s.Lagna, s.MoonSign, s.MoonNakshatra)
	}
	if !s.Degraded || s.Owner != "Family" || *s.Name != "Asha" || s.UpdatedAt != 20 {
		t.Errorf("summary = %+v", s)
	}

	empty := (&Profile{ID: "id2"}).ToSummary()
	if empty.Lagna != zodiac.Aries || empty.Degraded {
		t.Errorf("summary without chart = %+v", empty)
	}
}

// Package dasha computes the Vimshottari planetary period timeline.
package dasha

import (
	"fmt"
	"time"

	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/zodiac"
)

const (
	// YearDays is the length of a dasha year.
	YearDays = 365.2425
	// CycleYears is the length of one full cycle of nine lords.
	CycleYears = 120.0

	// DefaultCount is the number of mahadashas returned when none is requested.
	DefaultCount = 9
	// MaxCount caps the timeline so it stays within time.Time arithmetic.
	MaxCount = 27
)

var years = map[zodiac.Body]float64{
	zodiac.Ketu:    7,
	zodiac.Venus:   20,
	zodiac.Sun:     6,
	zodiac.Moon:    10,
	zodiac.Mars:    7,
	zodiac.Rahu:    18,
	zodiac.Jupiter: 16,
	zodiac.Saturn:  19,
	zodiac.Mercury: 17,
}

// Years returns the mahadasha length of lord b.
func Years(b zodiac.Body) float64 { return years[b] }

// Period is one mahadasha or antardasha. Start and End are clipped to the
// birth instant; Years is the length of the clipped span.
type Period struct {
	Lord        zodiac.Body `json:"lord"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Years       float64     `json:"years"`
	Antardashas []Period    `json:"antardashas,omitempty"`
}

// Contains reports whether t falls in [Start, End).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Timeline is the sequence of mahadashas from birth.
type Timeline struct {
	Birth      time.Time        `json:"birth"`
	Nakshatra  zodiac.Nakshatra `json:"nakshatra"`
	Balance    float64          `json:"balance_years"`
	Mahadashas []Period         `json:"mahadashas"`
}

// At returns the mahadasha and antardasha running at t. ok is false when t
// is before birth or past the end of the timeline.
func (tl *Timeline) At(t time.Time) (maha, antar *Period, ok bool) {
	for i := range tl.Mahadashas {
		m := &tl.Mahadashas[i]
		if !m.Contains(t) {
			continue
		}
		for j := range m.Antardashas {
			if m.Antardashas[j].Contains(t) {
				return m, &m.Antardashas[j], true
			}
		}
		return m, nil, true
	}
	return nil, nil, false
}

// End returns the instant the last mahadasha ends.
func (tl *Timeline) End() time.Time {
	if len(tl.Mahadashas) == 0 {
		return tl.Birth
	}
	return tl.Mahadashas[len(tl.Mahadashas)-1].End
}

// Vimshottari builds count mahadashas (DefaultCount when count <= 0) for a
// native whose Moon sits at sidereal longitude moon at birth. The first
// period is the unexpired balance of the birth nakshatra lord.
func Vimshottari(moon float64, birth time.Time, count int) (*Timeline, error) {
	if count <= 0 {
		count = DefaultCount
	}
	if count > MaxCount {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("count must be at most %d", MaxCount))
	}
	p, err := zodiac.Classify(moon)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	cycle := zodiac.LordCycle()
	first := indexOf(cycle, p.NakshatraLord)
	elapsed := (p.Longitude - p.Nakshatra.Start()) / zodiac.NakshatraSpan
	if elapsed < 0 {
		elapsed = 0
	} else if elapsed > 1 {
		elapsed = 1
	}

	birth = birth.UTC()
	full := Years(p.NakshatraLord)
	tl := &Timeline{
		Birth:      birth,
		Nakshatra:  p.Nakshatra,
		Balance:    full * (1 - elapsed),
		Mahadashas: make([]Period, 0, count),
	}

	// The first mahadasha began before birth; periods are laid out from
	// that virtual start and clipped.
	start := birth.Add(-duration(full * elapsed))
	for i := 0; i < count; i++ {
		lord := cycle[(first+i)%len(cycle)]
		end := start.Add(duration(Years(lord)))
		m := clip(Period{Lord: lord, Start: start, End: end}, birth)
		m.Antardashas = antardashas(cycle, lord, start, end, birth)
		tl.Mahadashas = append(tl.Mahadashas, m)
		start = end
	}
	return tl, nil
}

// antardashas lays out the nine sub-periods of lord's mahadasha over
// [start, end), dropping those that end at or before birth.
func antardashas(cycle [9]zodiac.Body, lord zodiac.Body, start, end, birth time.Time) []Period {
	k := indexOf(cycle, lord)
	subs := make([]Period, 0, len(cycle))
	for j := 0; j < len(cycle); j++ {
		sub := cycle[(k+j)%len(cycle)]
		subEnd := start.Add(duration(Years(lord) * Years(sub) / CycleYears))
		if j == len(cycle)-1 {
			subEnd = end
		}
		if subEnd.After(birth) {
			subs = append(subs, clip(Period{Lord: sub, Start: start, End: subEnd}, birth))
		}
		start = subEnd
	}
	return subs
}

func clip(p Period, birth time.Time) Period {
	if p.Start.Before(birth) {
		p.Start = birth
	}
	p.Years = YearsBetween(p.Start, p.End)
	return p
}

// YearsBetween converts the span between two instants to dasha years.
func YearsBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24 / YearDays
}

func duration(y float64) time.Duration {
	return time.Duration(y * YearDays * 24 * float64(time.Hour))
}

func indexOf(cycle [9]zodiac.Body, b zodiac.Body) int {
	for i, c := range cycle {
		if c == b {
			return i
		}
	}
	return 0
}

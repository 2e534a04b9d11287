package birth

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hpungsan/lagna/internal/errors"
)

var offsetPattern = regexp.MustCompile(`^([+-]?)(\d{1,2})(?::?(\d{2}))?$`)

// ParseOffset parses a UTC offset such as "+05:30", "-0800", "5" or "5.5".
func ParseOffset(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.NewInvalidBirthRecord("utc_offset", "must not be empty")
	}

	var hours float64
	if m := offsetPattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[2])
		mins := 0
		if m[3] != "" {
			mins, _ = strconv.Atoi(m[3])
			if mins >= 60 {
				return 0, errors.NewInvalidBirthRecord("utc_offset", fmt.Sprintf("minutes out of range in %q", s))
			}
		}
		hours = float64(h) + float64(mins)/60
		if m[1] == "-" {
			hours = -hours
		}
	} else {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || !finite(f) {
			return 0, errors.NewInvalidBirthRecord("utc_offset", fmt.Sprintf("cannot parse %q", s))
		}
		hours = f
	}

	if math.Abs(hours) > MaxOffset {
		return 0, errors.NewInvalidBirthRecord("utc_offset", "must be within ±14 hours")
	}
	return hours, nil
}

// FormatOffset renders hours as ±HH:MM.
func FormatOffset(hours float64) string {
	sign := "+"
	if hours < 0 {
		sign = "-"
	}
	total := int(math.Round(math.Abs(hours) * 60))
	return fmt.Sprintf("%s%02d:%02d", sign, total/60, total%60)
}

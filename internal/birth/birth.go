// Package birth normalizes a civil birth record to UTC and Julian Day.
package birth

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/hpungsan/lagna/internal/errors"
)

const (
	secondsPerDay = 86400

	// MaxOffset bounds the absolute UTC offset in hours.
	MaxOffset = 14.0

	// Year bounds keep every ayanamsa preset positive.
	MinYear = 1000
	MaxYear = 3000
)

// Record is a civil birth date, time and place with a fixed numeric UTC offset.
type Record struct {
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	Day       int     `json:"day"`
	Hour      int     `json:"hour"`
	Minute    int     `json:"minute"`
	Second    int     `json:"second"`
	UTCOffset float64 `json:"utc_offset"` // hours east of Greenwich
	Latitude  float64 `json:"latitude"`   // -90..90, north positive
	Longitude float64 `json:"longitude"`  // -180..180, east positive
}

// UTC holds normalized UTC calendar fields.
type UTC struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// Validate checks every field of r is finite and in range.
func (r Record) Validate() error {
	if r.Year < MinYear || r.Year > MaxYear {
		return errors.NewInvalidBirthRecord("year", "must be between 1000 and 3000")
	}
	if r.Month < 1 || r.Month > 12 {
		return errors.NewInvalidBirthRecord("month", "must be between 1 and 12")
	}
	if r.Day < 1 || r.Day > DaysIn(r.Year, r.Month) {
		return errors.NewInvalidBirthRecord("day", "out of range for month")
	}
	if r.Hour < 0 || r.Hour > 23 {
		return errors.NewInvalidBirthRecord("hour", "must be between 0 and 23")
	}
	if r.Minute < 0 || r.Minute > 59 {
		return errors.NewInvalidBirthRecord("minute", "must be between 0 and 59")
	}
	if r.Second < 0 || r.Second > 59 {
		return errors.NewInvalidBirthRecord("second", "must be between 0 and 59")
	}
	if !finite(r.UTCOffset) || math.Abs(r.UTCOffset) > MaxOffset {
		return errors.NewInvalidBirthRecord("utc_offset", "must be a finite number of hours within ±14")
	}
	if !finite(r.Latitude) || r.Latitude < -90 || r.Latitude > 90 {
		return errors.NewInvalidBirthRecord("latitude", "must be between -90 and 90")
	}
	if !finite(r.Longitude) || r.Longitude < -180 || r.Longitude > 180 {
		return errors.NewInvalidBirthRecord("longitude", "must be between -180 and 180")
	}
	return nil
}

// ToUTC shifts the civil time by the offset and rolls any day overflow or
// underflow into month and year.
func (r Record) ToUTC() (UTC, error) {
	if err := r.Validate(); err != nil {
		return UTC{}, err
	}

	local := r.Hour*3600 + r.Minute*60 + r.Second
	offset := int(math.Round(r.UTCOffset * 3600))
	utcSec := local - offset

	days := floorDiv(utcSec, secondsPerDay)
	rem := utcSec - days*secondsPerDay

	y, m, d := addDays(r.Year, r.Month, r.Day, days)
	u := UTC{
		Year:   y,
		Month:  m,
		Day:    d,
		Hour:   rem / 3600,
		Minute: (rem % 3600) / 60,
		Second: rem % 60,
	}
	if u.Month < 1 || u.Month > 12 || u.Day < 1 || u.Day > DaysIn(u.Year, u.Month) {
		return UTC{}, errors.NewInvalidBirthRecord("month", "calendar rollover produced an invalid date")
	}
	return u, nil
}

// JulianDay converts the UTC calendar fields to a Julian Day number.
func (u UTC) JulianDay() float64 {
	return julian.CalendarGregorianToJD(u.Year, u.Month, float64(u.Day)+u.HourOfDay()/24)
}

// HourOfDay returns the UTC time as fractional hours, 0 <= h < 24.
func (u UTC) HourOfDay() float64 {
	return float64(u.Hour) + float64(u.Minute)/60 + float64(u.Second)/3600
}

// Time returns u as a time.Time in the UTC location.
func (u UTC) Time() time.Time {
	return time.Date(u.Year, time.Month(u.Month), u.Day, u.Hour, u.Minute, u.Second, 0, time.UTC)
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in the month, or 0 for an invalid month.
func DaysIn(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeap(year) {
			return 29
		}
		return 28
	}
	return 0
}

func addDays(y, m, d, n int) (int, int, int) {
	d += n
	for d < 1 {
		m--
		if m < 1 {
			m = 12
			y--
		}
		d += DaysIn(y, m)
	}
	for d > DaysIn(y, m) {
		d -= DaysIn(y, m)
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return y, m, d
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

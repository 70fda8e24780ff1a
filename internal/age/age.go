package age

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Mean Gregorian month and year lengths in days
const (
	daysPerMonth = 30.44
	daysPerYear  = 365.25
)

// Lengths in milliseconds. The products must round as float64, not as
// exact constants, or fixtures drift at unit boundaries.
var (
	msPerHour  float64 = 1000 * 60 * 60
	msPerDay           = msPerHour * 24
	msPerMonth         = msPerDay * daysPerMonth
	msPerYear          = msPerDay * daysPerYear
)

// ErrInvalidDate is returned when a birth date cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// Duration is an elapsed time broken down most-significant-first
type Duration struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
	Hours  int `json:"hours"`
}

// String renders the duration the way the document expects it
func (d Duration) String() string {
	return fmt.Sprintf("%d years, %d months, %d days, %d hours", d.Years, d.Months, d.Days, d.Hours)
}

// IsZero reports whether every unit is zero
func (d Duration) IsZero() bool {
	return d == Duration{}
}

// Calculate returns the elapsed time between birth and now.
// A birth after now yields the zero Duration.
func Calculate(birth, now time.Time) Duration {
	elapsed := float64(now.UnixMilli() - birth.UnixMilli())
	if elapsed <= 0 {
		return Duration{}
	}

	years := math.Floor(elapsed / msPerYear)
	rem := math.Mod(elapsed, msPerYear)

	months := math.Floor(rem / msPerMonth)
	rem = math.Mod(rem, msPerMonth)

	days := math.Floor(rem / msPerDay)
	hours := math.Floor(math.Mod(rem, msPerDay) / msPerHour)

	return Duration{
		Years:  int(years),
		Months: int(months),
		Days:   int(days),
		Hours:  int(hours),
	}
}

// Layouts interpreted in the caller's location
var localLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006/01/02",
}

// Layouts that carry their own offset
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// ParseBirthDate parses a stored birth date. Dates without an offset are
// taken as wall-clock time in loc (midnight for a bare date).
func ParseBirthDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}


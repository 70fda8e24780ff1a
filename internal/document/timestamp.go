package document

import (
	"time"
	_ "time/tzdata"
)

const (
	DefaultZone  = "Asia/Makassar"
	DefaultLabel = "Denpasar, WITA Time (UTC+8)"

	timestampLayout = "January 2, 2006, 3:04:05 PM"
)

// LoadLocation resolves a zone name, DefaultZone when empty. The zone
// database is embedded so hosts without tzdata behave the same.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	return time.LoadLocation(name)
}

// FormatTimestamp renders now in loc as "October 14, 2026, 3:04:05 PM"
// followed by the parenthesised label.
func FormatTimestamp(now time.Time, loc *time.Location, label string) string {
	if loc == nil {
		loc = time.UTC
	}
	s := now.In(loc).Format(timestampLayout)
	if label != "" {
		s += " (" + label + ")"
	}
	return s
}

package age

import (
	"errors"
	"testing"
	"time"
)

func TestCalculate(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name  string
		birth time.Time
		want  Duration
	}{
		{"same instant", now, Duration{}},
		{"under an hour", now.Add(-59 * time.Minute), Duration{}},
		{"400 days", now.Add(-400 * day), Duration{Years: 1, Months: 1, Days: 4, Hours: 7}},
		{"four calendar years", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Duration{Years: 4}},
		{"60 days 5 hours", now.Add(-60*day - 5*time.Hour), Duration{Months: 1, Days: 29, Hours: 18}},
		{"two average years and 30 hours", now.Add(-2*time.Duration(365.25*float64(day)) - 30*time.Hour), Duration{Years: 2, Days: 1, Hours: 6}},
		{"mid year birth", time.Date(2019, 6, 15, 0, 0, 0, 0, time.UTC), Duration{Years: 4, Months: 6, Days: 17, Hours: 8}},
		{"future birth", now.Add(48 * time.Hour), Duration{}},
		{"beyond time.Duration range", time.Date(1700, 1, 1, 0, 0, 0, 0, time.UTC), Duration{Years: 323, Months: 11, Days: 27, Hours: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.birth, now)
			if got != tt.want {
				t.Errorf("Calculate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDurationString(t *testing.T) {
	d := Duration{Years: 4, Months: 6, Days: 17, Hours: 8}
	if got := d.String(); got != "4 years, 6 months, 17 days, 8 hours" {
		t.Errorf("unexpected string %q", got)
	}
	if got := (Duration{}).String(); got != "0 years, 0 months, 0 days, 0 hours" {
		t.Errorf("unexpected zero string %q", got)
	}
}

func TestParseBirthDate(t *testing.T) {
	wita := time.FixedZone("WITA", 8*60*60)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2020-01-01", time.Date(2020, 1, 1, 0, 0, 0, 0, wita)},
		{" 2020-01-01 ", time.Date(2020, 1, 1, 0, 0, 0, 0, wita)},
		{"2020-01-01T10:30:00", time.Date(2020, 1, 1, 10, 30, 0, 0, wita)},
		{"2020-01-01 10:30", time.Date(2020, 1, 1, 10, 30, 0, 0, wita)},
		{"2020-01-01T10:30:00Z", time.Date(2020, 1, 1, 10, 30, 0, 0, time.UTC)},
		{"2020-01-01T10:30:00+02:00", time.Date(2020, 1, 1, 8, 30, 0, 0, time.UTC)},
		{"March 5, 2021", time.Date(2021, 3, 5, 0, 0, 0, 0, wita)},
		{"Mar 5, 2021", time.Date(2021, 3, 5, 0, 0, 0, 0, wita)},
		{"2021/03/05", time.Date(2021, 3, 5, 0, 0, 0, 0, wita)},
	}

	for _, tt := range tests {
		got, err := ParseBirthDate(tt.input, wita)
		if err != nil {
			t.Errorf("ParseBirthDate(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseBirthDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseBirthDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "not a date", "2020-13-01", "2020-02-30", "01/02/2020"} {
		_, err := ParseBirthDate(input, time.UTC)
		if err == nil {
			t.Errorf("ParseBirthDate(%q): expected error", input)
			continue
		}
		if !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseBirthDate(%q): expected ErrInvalidDate, got %v", input, err)
		}
	}
}

func TestParseBirthDate_NilLocationUsesLocal(t *testing.T) {
	got, err := ParseBirthDate("2020-01-01", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Location() != time.Local {
		t.Errorf("expected local location, got %v", got.Location())
	}
}

func TestDurationIsZero(t *testing.T) {
	if !(Duration{}).IsZero() {
		t.Error("expected zero duration")
	}
	if (Duration{Hours: 1}).IsZero() {
		t.Error("expected non-zero duration")
	}
}

package core

import (
	"testing"
	"time"
)

func TestParseDateLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"15 Jan 2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"15/01/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"Jan 15, 2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"15-Jan-2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15T00:00:00Z", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		d := ParseDate(tc.in, 2024)
		if !d.Parsed {
			t.Fatalf("%q: expected parse to succeed", tc.in)
		}
		if !d.Time.Equal(tc.want) {
			t.Fatalf("%q: expected %v, got %v", tc.in, tc.want, d.Time)
		}
	}
}

func TestParseDateYearlessRewrite(t *testing.T) {
	// Year-less dates land on a placeholder year, which must be replaced
	// with the injected current year.
	d := ParseDate("15 Jan", 2024)
	if !d.Parsed {
		t.Fatal("expected parse to succeed")
	}
	if d.Year() != 2024 || d.Month() != time.January || d.Day() != 15 {
		t.Fatalf("unexpected date: %v", d.Time)
	}

	// A pre-cutoff year is indistinguishable from a placeholder and is
	// rewritten too.
	d = ParseDate("15 Jan 2001", 2024)
	if d.Year() != 2024 {
		t.Fatalf("expected year rewrite, got %d", d.Year())
	}

	// Post-cutoff years are trusted.
	d = ParseDate("15 Jan 2015", 2024)
	if d.Year() != 2015 {
		t.Fatalf("expected year kept, got %d", d.Year())
	}

	// The rewrite shifts only the year: a full timestamp keeps its
	// time-of-day.
	d = ParseDate("2001-05-01T13:30:00Z", 2024)
	if d.Year() != 2024 {
		t.Fatalf("expected year rewrite, got %d", d.Year())
	}
	if d.Month() != time.May || d.Day() != 1 || d.Hour() != 13 || d.Minute() != 30 {
		t.Fatalf("timestamp not preserved through rewrite: %v", d.Time)
	}
}

func TestParseDateFailurePassesRawThrough(t *testing.T) {
	d := ParseDate("sometime last week", 2024)
	if d.Parsed {
		t.Fatal("expected parse to fail")
	}
	if d.Display() != "sometime last week" {
		t.Fatalf("expected raw text preserved, got %q", d.Display())
	}
	if !d.Time.IsZero() {
		t.Fatalf("unparseable date must sort at the beginning of time, got %v", d.Time)
	}
}

func TestDateDisplayIsLocaleStable(t *testing.T) {
	d := ParseDate("2024-03-05", 2024)
	if got := d.Display(); got != "05 Mar 2024" {
		t.Fatalf("expected fixed-format display, got %q", got)
	}
	if got := d.MonthKey(); got != "Mar 24" {
		t.Fatalf("expected month key, got %q", got)
	}
}

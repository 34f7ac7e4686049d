package core

import (
	"strings"
	"time"
)

// placeholderYearCutoff: the source spreadsheet emits year-less dates
// that generic parsers fill with a placeholder year (0, 1900, 2001,
// depending on the tool). Any parsed year before the cutoff is treated
// as evidence the year was omitted and rewritten to the current year.
const placeholderYearCutoff = 2010

// dateLayouts are tried in order. Year-less layouts sit last so a fully
// specified date never loses its year to them.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"2-Jan-2006",
	"02/01/2006",
	"2/1/2006",
	"2 Jan",
	"Jan 2",
	"2 January",
}

// ParseDate canonicalizes a free-form date-like string. Three outcomes:
//
//   - parse succeeds, year >= cutoff: kept as parsed;
//   - parse succeeds, year < cutoff: year rewritten to currentYear;
//   - parse fails: original text passes through unchanged (Parsed false)
//     so the consumer sees the raw value instead of losing the row.
func ParseDate(raw string, currentYear int) Date {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Date{Raw: s}
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() < placeholderYearCutoff {
			// Shift only the year so time-of-day and zone survive on
			// fully specified timestamps.
			t = t.AddDate(currentYear-t.Year(), 0, 0)
		}
		return Date{Time: t, Raw: s, Parsed: true}
	}
	return Date{Raw: s}
}

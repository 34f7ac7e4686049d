// Package core implements the normalization and derivation engine that
// maps loosely-typed spreadsheet rows into canonical vehicle expense
// records and derives fuel efficiency from successive odometer readings.
package core

import (
	"math"
	"strconv"
	"strings"
)

// currencyGlyphs are stripped from numeric-looking strings before
// coercion, together with thousands separators.
const currencyGlyphs = "₹$€£"

// cleanNumeric strips thousands separators, currency glyphs and interior
// whitespace from a numeric-looking string. The data source formats
// amounts like "1,234.50" or "₹1,000"; commas are always separators,
// never decimal marks.
func cleanNumeric(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == ',' || r == ' ' || r == ' ':
			return -1
		case strings.ContainsRune(currencyGlyphs, r):
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// ParseAmountCents coerces an amount string to cents. Missing or
// malformed amounts degrade to 0 rather than failing: no single field
// defect is allowed to abort a load.
//
//	ParseAmountCents("1,234.50") -> 123450
//	ParseAmountCents("₹1,000")   -> 100000
//	ParseAmountCents("junk")     -> 0
func ParseAmountCents(s string) int64 {
	f, ok := parseLooseFloat(s)
	if !ok {
		return 0
	}
	return int64(math.Round(f * 100))
}

// ParseOptionalFloat coerces odometer, volume and rate fields. Unlike
// amounts these default to absent, not zero: a missing odometer reading
// must not look like a reading of zero to the efficiency derivation.
func ParseOptionalFloat(s string) *float64 {
	f, ok := parseLooseFloat(s)
	if !ok {
		return nil
	}
	return &f
}

func parseLooseFloat(s string) (float64, bool) {
	s = cleanNumeric(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

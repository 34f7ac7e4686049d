package core

import (
	"sort"
	"strings"
)

// Normalize maps raw snapshot rows to canonical expenses. Fully empty
// rows are dropped; every surviving row yields exactly one Expense. The
// result is sorted for display (newest first, unparseable dates last);
// fuel efficiency has already been derived in chronological order.
//
// The function is pure: calling it twice with the same rows and options
// yields the same records, regardless of input order.
func Normalize(rows []RawRecord, opts Options) []Expense {
	out := make([]Expense, 0, len(rows))
	for _, r := range rows {
		if len(r) == 0 || r.IsEmpty() {
			continue
		}
		out = append(out, reconcile(r, opts))
	}
	SortForDerivation(out)
	DeriveEfficiency(out)
	SortForDisplay(out)
	return out
}

// reconcile resolves one row against the per-concept candidate key
// lists. No field is individually fatal; missing or malformed values
// degrade to the documented defaults.
func reconcile(r RawRecord, opts Options) Expense {
	rawDate, _ := r.First(dateKeys)
	rawCategory, categorySupplied := r.First(categoryKeys)
	rawAmount, _ := r.First(amountKeys)
	rawOdometer, _ := r.First(odometerKeys)
	rawVolume, _ := r.First(volumeKeys)
	rawRate, _ := r.First(rateKeys)

	category := resolveCategory(rawCategory, categorySupplied, opts)

	return Expense{
		Date:        ParseDate(rawDate, opts.Year),
		Category:    category,
		Description: resolveDescription(rawCategory, category),
		Amount:      Money{Cents: ParseAmountCents(rawAmount)},
		Odometer:    ParseOptionalFloat(rawOdometer),
		Volume:      ParseOptionalFloat(rawVolume),
		Rate:        ParseOptionalFloat(rawRate),
	}
}

// resolveCategory applies the two fuel rules: any label containing
// "fuel" canonicalizes to the literal Fuel, and, when the policy flag is
// on, a row that supplied no comment/category key at all is assumed to
// be a fuel purchase.
func resolveCategory(raw string, supplied bool, opts Options) string {
	category := strings.TrimSpace(raw)
	if category == "" {
		category = DefaultCategory
	}
	if strings.Contains(strings.ToLower(category), "fuel") {
		return FuelCategory
	}
	if opts.BlankCommentMeansFuel && !supplied && category == DefaultCategory {
		return FuelCategory
	}
	return category
}

// resolveDescription prefers the explicit comment text, then falls back
// to the resolved category label.
func resolveDescription(rawCategory, category string) string {
	if s := strings.TrimSpace(rawCategory); s != "" {
		return s
	}
	return category
}

// SortForDisplay orders newest first. Unparseable dates carry the zero
// time, sorting them as if dated at the epoch, which places them last.
func SortForDisplay(entries []Expense) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Time.After(entries[j].Date.Time)
	})
}

// SortForDerivation orders oldest first for the efficiency scan. Same-day
// fuel entries are tie-broken by ascending odometer reading (absent
// treated as 0) so they are processed in physically plausible order.
func SortForDerivation(entries []Expense) {
	sort.SliceStable(entries, func(i, j int) bool {
		ti, tj := entries[i].Date.Time, entries[j].Date.Time
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return odometerOrZero(entries[i]) < odometerOrZero(entries[j])
	})
}

func odometerOrZero(e Expense) float64 {
	if e.Odometer == nil {
		return 0
	}
	return *e.Odometer
}

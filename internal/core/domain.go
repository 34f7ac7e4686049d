package core

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultCategory is assigned when a row carries no usable category text.
	DefaultCategory = "Other"

	// FuelCategory is the canonical label for fuel purchases.
	FuelCategory = "Fuel"
)

type (
	// RawRecord is one spreadsheet row as it arrives from the snapshot:
	// arbitrary string keys, inconsistent casing, values that may be
	// strings, numbers or missing. No schema is guaranteed.
	RawRecord map[string]any

	// Date is a best-effort parsed calendar date. When parsing fails the
	// raw text is kept so downstream consumers never lose data.
	Date struct {
		time.Time
		Raw    string
		Parsed bool
	}

	Money struct {
		Cents int64
	}

	// Expense is the canonical record produced by Normalize. Odometer,
	// Volume, Rate and Efficiency are nil when the source row did not
	// carry them; zero is a valid reading and is distinct from absent.
	Expense struct {
		Date        Date
		Category    string
		Description string
		Amount      Money
		Odometer    *float64
		Volume      *float64
		Rate        *float64
		Efficiency  *float64
	}

	// Options are the environmental inputs of the engine, injected so the
	// pipeline stays a pure function of its arguments.
	Options struct {
		// Year replaces placeholder years on dates whose source omitted
		// the year (see ParseDate).
		Year int
		// BlankCommentMeansFuel forces the category to Fuel when the row
		// supplied no comment/category field at all. The historical data
		// source left the comment blank for fuel purchases.
		BlankCommentMeansFuel bool
	}
)

// ErrBadShape is returned when the top-level snapshot input is not a list
// of row objects. It is the only fatal condition in the engine's contract;
// every field-level defect degrades to a documented default instead.
var ErrBadShape = errors.New("raw snapshot is not a list of row objects")

// Candidate source keys per concept, in priority order. The first key
// present with a non-empty value wins.
var (
	dateKeys     = []string{"date", "Date", "Timestamp", "timestamp"}
	categoryKeys = []string{"comment", "type", "Category", "category"}
	amountKeys   = []string{"Price", "Amount", "price", "amount"}
	odometerKeys = []string{"odometer reading", "Odometer", "odometer"}
	volumeKeys   = []string{"volume in ltr", "Volume", "volume"}
	rateKeys     = []string{"rate", "Rate"}
)

// First returns the value of the first candidate key holding non-empty
// text, and whether any candidate key was present in the row at all
// (even with an empty value).
func (r RawRecord) First(keys []string) (value string, keyPresent bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok {
			continue
		}
		keyPresent = true
		if s := stringify(v); s != "" {
			return s, true
		}
	}
	return "", keyPresent
}

// IsEmpty reports whether every value in the row is absent or blank.
// Fully empty rows are dropped before normalization.
func (r RawRecord) IsEmpty() bool {
	for _, v := range r {
		if stringify(v) != "" {
			return false
		}
	}
	return true
}

// stringify renders a loosely-typed cell value as trimmed text. Floats
// use the shortest exact representation so "1200" does not come back as
// "1200.000000".
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// Display renders the date for tables and sort keys: fixed day,
// abbreviated month, 4-digit year. Locale-default formatting would make
// rendering environment-dependent, so the layout is pinned. Unparseable
// dates render their original text.
func (d Date) Display() string {
	if !d.Parsed {
		return d.Raw
	}
	return d.Format("02 Jan 2006")
}

// MonthKey buckets the date as short month plus 2-digit year ("Jan 24").
// Empty for unparseable dates.
func (d Date) MonthKey() string {
	if !d.Parsed {
		return ""
	}
	return d.Format("Jan 06")
}

// Units returns the amount as a decimal number for display and API
// responses. Cents stay the unit for arithmetic.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

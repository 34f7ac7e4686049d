package core

import (
	"sort"
	"time"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthAmount represents an amount bucketed by calendar month. Key is
// the locale-independent "Jan 24" form from Date.MonthKey.
type MonthAmount struct {
	Key    string
	Amount Money
}

// Summary holds the derived aggregates the dashboard renders.
type Summary struct {
	Count          int
	Total          Money
	ByCategory     []CategoryAmount
	ByMonth        []MonthAmount
	AvgEfficiency  *float64
	LatestOdometer *float64
}

// Summarize computes aggregates over a display-ordered record list (the
// order Normalize returns). The latest odometer reading is the first
// present value in that order.
func Summarize(entries []Expense) Summary {
	s := Summary{Count: len(entries)}

	byCat := map[string]int64{}
	byMonth := map[string]int64{}
	monthStart := map[string]time.Time{}
	var effSum float64
	var effCount int

	for _, e := range entries {
		s.Total.Cents += e.Amount.Cents
		byCat[e.Category] += e.Amount.Cents
		if key := e.Date.MonthKey(); key != "" {
			byMonth[key] += e.Amount.Cents
			if _, ok := monthStart[key]; !ok {
				y, m, _ := e.Date.Date()
				monthStart[key] = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
			}
		}
		if e.Efficiency != nil {
			effSum += *e.Efficiency
			effCount++
		}
		if s.LatestOdometer == nil && e.Odometer != nil {
			s.LatestOdometer = e.Odometer
		}
	}

	if effCount > 0 {
		avg := effSum / float64(effCount)
		s.AvgEfficiency = &avg
	}

	for name, cents := range byCat {
		s.ByCategory = append(s.ByCategory, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		a, b := s.ByCategory[i], s.ByCategory[j]
		if a.Amount.Cents != b.Amount.Cents {
			return a.Amount.Cents > b.Amount.Cents
		}
		return a.Name < b.Name
	})

	for key, cents := range byMonth {
		s.ByMonth = append(s.ByMonth, MonthAmount{Key: key, Amount: Money{Cents: cents}})
	}
	sort.Slice(s.ByMonth, func(i, j int) bool {
		return monthStart[s.ByMonth[i].Key].Before(monthStart[s.ByMonth[j].Key])
	})

	return s
}

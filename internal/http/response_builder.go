package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"autospese/internal/core"
)

// recordView is the wire form of one canonical expense. Optional fields
// are omitted rather than zeroed so consumers can tell "absent" from
// "zero reading".
type recordView struct {
	Date        string   `json:"date"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Odometer    *float64 `json:"odometer,omitempty"`
	Volume      *float64 `json:"volume,omitempty"`
	Rate        *float64 `json:"rate,omitempty"`
	Efficiency  *float64 `json:"efficiency,omitempty"`
}

type recordsResponse struct {
	UpdatedAt string       `json:"updated_at,omitempty"`
	Count     int          `json:"count"`
	Records   []recordView `json:"records"`
}

type bucketView struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type summaryResponse struct {
	UpdatedAt      string       `json:"updated_at,omitempty"`
	Count          int          `json:"count"`
	Total          float64      `json:"total"`
	ByCategory     []bucketView `json:"by_category"`
	ByMonth        []bucketView `json:"by_month"`
	AvgEfficiency  *float64     `json:"avg_efficiency,omitempty"`
	LatestOdometer *float64     `json:"latest_odometer,omitempty"`
}

func buildRecordsResponse(entries []core.Expense, updatedAt time.Time) recordsResponse {
	resp := recordsResponse{
		Count:   len(entries),
		Records: make([]recordView, 0, len(entries)),
	}
	if !updatedAt.IsZero() {
		resp.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	}
	for _, e := range entries {
		resp.Records = append(resp.Records, recordView{
			Date:        e.Date.Display(),
			Category:    e.Category,
			Description: e.Description,
			Amount:      e.Amount.Units(),
			Odometer:    e.Odometer,
			Volume:      e.Volume,
			Rate:        e.Rate,
			Efficiency:  e.Efficiency,
		})
	}
	return resp
}

func buildSummaryResponse(s core.Summary, updatedAt time.Time) summaryResponse {
	resp := summaryResponse{
		Count:          s.Count,
		Total:          s.Total.Units(),
		ByCategory:     make([]bucketView, 0, len(s.ByCategory)),
		ByMonth:        make([]bucketView, 0, len(s.ByMonth)),
		AvgEfficiency:  s.AvgEfficiency,
		LatestOdometer: s.LatestOdometer,
	}
	if !updatedAt.IsZero() {
		resp.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	}
	for _, c := range s.ByCategory {
		resp.ByCategory = append(resp.ByCategory, bucketView{Name: c.Name, Amount: c.Amount.Units()})
	}
	for _, m := range s.ByMonth {
		resp.ByMonth = append(resp.ByMonth, bucketView{Name: m.Key, Amount: m.Amount.Units()})
	}
	return resp
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(r.Context(), "Failed encoding response", "error", err, "url", r.URL.Path)
	}
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

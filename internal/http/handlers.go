package http

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"autospese/internal/core"
)

// handleRecords returns the normalized record list, newest first.
// Optional ?category= filters by exact canonical category,
// case-insensitively.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	entries, _, updatedAt, err := s.load(r.Context())
	if err != nil {
		s.writeLoadError(w, r, err)
		return
	}

	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		filtered := make([]core.Expense, 0, len(entries))
		for _, e := range entries {
			if strings.EqualFold(e.Category, category) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	writeJSON(w, r, http.StatusOK, buildRecordsResponse(entries, updatedAt))
}

// handleSummary returns the derived aggregates.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	_, summary, updatedAt, err := s.load(r.Context())
	if err != nil {
		s.writeLoadError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, buildSummaryResponse(summary, updatedAt))
}

func (s *Server) writeLoadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrBadShape):
		slog.ErrorContext(r.Context(), "Snapshot has invalid shape", "error", err, "path", s.snapshotPath)
		writeJSONError(w, r, http.StatusUnprocessableEntity, "snapshot is not a list of row objects")
	case errors.Is(err, os.ErrNotExist):
		slog.WarnContext(r.Context(), "Snapshot not found", "path", s.snapshotPath)
		writeJSONError(w, r, http.StatusServiceUnavailable, "snapshot not generated yet")
	default:
		slog.ErrorContext(r.Context(), "Snapshot load failed", "error", err, "path", s.snapshotPath)
		writeJSONError(w, r, http.StatusInternalServerError, "failed to load snapshot")
	}
}

// handleIndex renders the dashboard page server-side.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	entries, summary, updatedAt, err := s.load(r.Context())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.ErrorContext(r.Context(), "Snapshot load failed", "error", err)
	}

	type row struct {
		Date        string
		Category    string
		Description string
		Amount      string
		Odometer    string
		Volume      string
		Efficiency  string
	}
	data := struct {
		UpdatedAt      string
		Count          int
		Total          string
		AvgEfficiency  string
		LatestOdometer string
		Categories     []struct{ Name, Amount string }
		Rows           []row
	}{
		Count: summary.Count,
		Total: formatAmount(summary.Total.Cents),
	}
	if !updatedAt.IsZero() {
		data.UpdatedAt = updatedAt.Format("02 Jan 2006 15:04")
	}
	if summary.AvgEfficiency != nil {
		data.AvgEfficiency = formatFloat(*summary.AvgEfficiency)
	}
	if summary.LatestOdometer != nil {
		data.LatestOdometer = formatFloat(*summary.LatestOdometer)
	}
	for _, c := range summary.ByCategory {
		data.Categories = append(data.Categories, struct{ Name, Amount string }{c.Name, formatAmount(c.Amount.Cents)})
	}
	for _, e := range entries {
		data.Rows = append(data.Rows, row{
			Date:        e.Date.Display(),
			Category:    e.Category,
			Description: e.Description,
			Amount:      formatAmount(e.Amount.Cents),
			Odometer:    formatOptional(e.Odometer),
			Volume:      formatOptional(e.Volume),
			Efficiency:  formatOptional(e.Efficiency),
		})
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"autospese/internal/core"
)

const sampleSnapshot = `{
  "updated_at": "2024-06-02T10:00:00Z",
  "records": [
    {"date": "01 Mar 2024", "comment": "fuel", "Price": "1000", "odometer reading": "10000", "volume in ltr": "20"},
    {"date": "15 Mar 2024", "comment": "fuel", "Price": "1050", "odometer reading": "10500", "volume in ltr": "20"},
    {"date": "20 Mar 2024", "comment": "service", "Price": "2500"}
  ]
}`

func writeSnapshot(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func newTestServer(t *testing.T, body string) *Server {
	t.Helper()
	return NewServer(":0", writeSnapshot(t, body), core.Options{Year: 2024, BlankCommentMeansFuel: true})
}

func TestIndexAndHealth(t *testing.T) {
	srv := newTestServer(t, sampleSnapshot)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Vehicle Expenses") {
		t.Fatalf("index body missing heading")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestReadyzWithoutSnapshot(t *testing.T) {
	srv := NewServer(":0", filepath.Join(t.TempDir(), "missing.json"), core.Options{Year: 2024})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestRecordsEndpoint(t *testing.T) {
	srv := newTestServer(t, sampleSnapshot)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("records status=%d, body=%s", rr.Code, rr.Body.String())
	}

	var resp recordsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 3 {
		t.Fatalf("count=%d, want 3", resp.Count)
	}
	if resp.UpdatedAt != "2024-06-02T10:00:00Z" {
		t.Fatalf("updated_at=%q", resp.UpdatedAt)
	}
	// Newest first.
	if resp.Records[0].Date != "20 Mar 2024" {
		t.Fatalf("first record date=%q", resp.Records[0].Date)
	}
	// Efficiency derived on the second fill-up: 500 km / 20 l.
	var found bool
	for _, rec := range resp.Records {
		if rec.Date == "15 Mar 2024" {
			found = true
			if rec.Efficiency == nil || *rec.Efficiency != 25.0 {
				t.Fatalf("efficiency=%v, want 25.0", rec.Efficiency)
			}
		}
	}
	if !found {
		t.Fatalf("second fill-up missing from response")
	}
}

func TestRecordsCategoryFilter(t *testing.T) {
	srv := newTestServer(t, sampleSnapshot)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/records?category=Fuel", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}

	var resp recordsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("filtered count=%d, want 2", resp.Count)
	}
	for _, rec := range resp.Records {
		if rec.Category != "Fuel" {
			t.Fatalf("unexpected category %q after filter", rec.Category)
		}
	}
}

func TestRecordsMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, sampleSnapshot)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/records", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t, sampleSnapshot)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("summary status=%d, body=%s", rr.Code, rr.Body.String())
	}

	var resp summaryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 3 {
		t.Fatalf("count=%d, want 3", resp.Count)
	}
	if resp.Total != 4550.0 {
		t.Fatalf("total=%v, want 4550", resp.Total)
	}
	if len(resp.ByCategory) != 2 {
		t.Fatalf("by_category len=%d, want 2", len(resp.ByCategory))
	}
	if resp.AvgEfficiency == nil || *resp.AvgEfficiency != 25.0 {
		t.Fatalf("avg_efficiency=%v, want 25.0", resp.AvgEfficiency)
	}
	if resp.LatestOdometer == nil || *resp.LatestOdometer != 10500 {
		t.Fatalf("latest_odometer=%v, want 10500", resp.LatestOdometer)
	}
}

func TestBadSnapshotShape(t *testing.T) {
	srv := newTestServer(t, `{"records": "not a list"}`)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "error") {
		t.Fatalf("expected error body, got %s", rr.Body.String())
	}
}

func TestMissingSnapshot(t *testing.T) {
	srv := NewServer(":0", filepath.Join(t.TempDir(), "missing.json"), core.Options{Year: 2024})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestBareArraySnapshotAccepted(t *testing.T) {
	srv := newTestServer(t, `[{"date": "01 Mar 2024", "comment": "service", "Price": "500"}]`)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("status=%d, body=%s", rr.Code, rr.Body.String())
	}

	var resp recordsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("count=%d, want 1", resp.Count)
	}
	if resp.UpdatedAt != "" {
		t.Fatalf("bare array should have no updated_at, got %q", resp.UpdatedAt)
	}
}

func TestSnapshotCacheReload(t *testing.T) {
	path := writeSnapshot(t, sampleSnapshot)
	srv := NewServer(":0", path, core.Options{Year: 2024, BlankCommentMeansFuel: true})

	get := func() recordsResponse {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("status=%d", rr.Code)
		}
		var resp recordsResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return resp
	}

	if got := get().Count; got != 3 {
		t.Fatalf("initial count=%d, want 3", got)
	}

	updated := `[{"date": "01 Apr 2024", "comment": "service", "Price": "100"}]`
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatalf("rewrite snapshot: %v", err)
	}
	// Force a distinct mtime in case the filesystem timestamp is coarse.
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if got := get().Count; got != 1 {
		t.Fatalf("count after rewrite=%d, want 1", got)
	}
}

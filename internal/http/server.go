// Package http serves the vehicle expense dashboard: an HTML index plus
// JSON endpoints returning the normalized record list and its
// aggregates. All data comes from the snapshot file; the server holds
// no state beyond a cache keyed on the file's modification time.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"autospese/internal/core"
	"autospese/internal/snapshot"
	appweb "autospese/web"
)

type Server struct {
	http.Server
	templates    *template.Template
	snapshotPath string
	opts         core.Options
	cache        snapshotCache

	shutdownOnce sync.Once
}

// snapshotCache avoids re-normalizing on every request. The snapshot
// file only changes when the exporter rewrites it, so the modification
// time is a sufficient cache key.
type snapshotCache struct {
	mu        sync.Mutex
	modTime   time.Time
	updatedAt time.Time
	entries   []core.Expense
	summary   core.Summary
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. opts.Year zero means "use the current year at load time".
func NewServer(addr, snapshotPath string, opts core.Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		snapshotPath: snapshotPath,
		opts:         opts,
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withRequestLogging(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/records", s.withRequestLogging(s.handleRecords))
	mux.HandleFunc("/api/summary", s.withRequestLogging(s.handleSummary))

	return s
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withRequestLogging adds security headers and request logging.
func (s *Server) withRequestLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready only when a loadable snapshot exists.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, _, _, err := s.load(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("no snapshot"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// load returns the normalized records and aggregates for the current
// snapshot file, re-reading only when the file changed on disk.
func (s *Server) load(ctx context.Context) ([]core.Expense, core.Summary, time.Time, error) {
	info, err := os.Stat(s.snapshotPath)
	if err != nil {
		return nil, core.Summary{}, time.Time{}, fmt.Errorf("stat snapshot: %w", err)
	}

	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()

	if !s.cache.modTime.IsZero() && s.cache.modTime.Equal(info.ModTime()) {
		return s.cache.entries, s.cache.summary, s.cache.updatedAt, nil
	}

	snap, err := snapshot.Load(s.snapshotPath)
	if err != nil {
		return nil, core.Summary{}, time.Time{}, err
	}

	opts := s.opts
	if opts.Year == 0 {
		opts.Year = time.Now().Year()
	}
	entries := core.Normalize(snap.Records, opts)
	summary := core.Summarize(entries)

	s.cache.modTime = info.ModTime()
	s.cache.updatedAt = snap.UpdatedAt
	s.cache.entries = entries
	s.cache.summary = summary

	slog.DebugContext(ctx, "Snapshot reloaded",
		"path", s.snapshotPath,
		"records", len(entries))
	return entries, summary, snap.UpdatedAt, nil
}

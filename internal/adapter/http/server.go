// Package http exposes the latest snapshot over a JSON API, plus the
// operational health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andeanclimate/tmin-zonal/internal/adapter/export"
	"github.com/andeanclimate/tmin-zonal/internal/domain"
)

// SnapshotProvider gives handlers access to the latest pipeline output.
type SnapshotProvider interface {
	Snapshot() *domain.Snapshot
	Locate(x, y float64) (domain.District, bool)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the snapshot API together with /healthz, /readyz, and
// /metrics.
type Server struct {
	httpServer  *http.Server
	provider    SnapshotProvider
	rankingSize int
	logger      *slog.Logger
}

// NewServer creates the API server. rankingSize is the default limit for
// the ranking endpoints; callers can override it per request with ?limit=.
func NewServer(addr string, provider SnapshotProvider, rankingSize int, logger *slog.Logger) *Server {
	router := httprouter.New()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		provider:    provider,
		rankingSize: rankingSize,
		logger:      logger,
	}

	router.HandlerFunc(http.MethodGet, "/healthz", s.handleHealth)
	router.HandlerFunc(http.MethodGet, "/readyz", s.handleReady)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	router.GET("/api/districts", s.handleDistricts)
	router.GET("/api/districts/:id", s.handleDistrict)
	router.GET("/api/no-data", s.handleNoData)
	router.GET("/api/rankings/coldest", s.handleRanking(false))
	router.GET("/api/rankings/warmest", s.handleRanking(true))
	router.GET("/api/departments", s.handleDepartments)
	router.GET("/api/summary", s.handleSummary)
	router.GET("/api/locate", s.handleLocate)
	router.GET("/api/export/districts.csv", s.handleExport)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.provider.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// currentSnapshot fetches the latest snapshot or answers 503 when the first
// run has not finished yet.
func (s *Server) currentSnapshot(w http.ResponseWriter) (*domain.Snapshot, bool) {
	snap := s.provider.Snapshot()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "no snapshot available yet",
		})
		return nil, false
	}
	return snap, true
}

func (s *Server) handleDistricts(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	snap, ok := s.currentSnapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":       snap.RunID,
		"generated_at": snap.GeneratedAt,
		"districts":    snap.Ranking.Ranked,
	})
}

func (s *Server) handleDistrict(w http.ResponseWriter, _ *http.Request, p httprouter.Params) {
	snap, ok := s.currentSnapshot(w)
	if !ok {
		return
	}
	id := p.ByName("id")
	d, found := snap.Ranking.Find(id)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "unknown district " + id,
		})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleNoData(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	snap, ok := s.currentSnapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"districts": snap.Ranking.NoData,
	})
}

func (s *Server) handleRanking(warmest bool) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		snap, ok := s.currentSnapshot(w)
		if !ok {
			return
		}
		limit := s.rankingSize
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeJSON(w, http.StatusBadRequest, map[string]string{
					"error": "limit must be a positive integer",
				})
				return
			}
			limit = n
		}
		ranked := snap.Ranking.Coldest(limit)
		if warmest {
			ranked = snap.Ranking.Warmest(limit)
		}
		writeJSON(w, http.StatusOK, map[string]any{"districts": ranked})
	}
}

func (s *Server) handleDepartments(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	snap, ok := s.currentSnapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"departments": snap.Departments})
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	snap, ok := s.currentSnapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Summary)
}

// handleLocate resolves a point in the raster CRS to its containing
// district and returns that district's classified result.
func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap, ok := s.currentSnapshot(w)
	if !ok {
		return
	}
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "x and y must be numeric query parameters",
		})
		return
	}
	d, found := s.provider.Locate(x, y)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no district contains the given point",
		})
		return
	}
	res, _ := snap.Ranking.Find(d.ID)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	snap, ok := s.currentSnapshot(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="districts.csv"`)
	if err := export.WriteDistrictTable(w, *snap); err != nil {
		s.logger.Error("csv download failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

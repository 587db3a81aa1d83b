package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ctessum/geom"
	"github.com/google/uuid"

	"github.com/andeanclimate/tmin-zonal/internal/domain"
	"github.com/andeanclimate/tmin-zonal/internal/observability"
)

// DistrictSource loads district polygons reprojected into the raster CRS.
type DistrictSource interface {
	LoadDistricts(ctx context.Context, rasterProj string) ([]domain.District, error)
}

// RasterSource loads the Tmin grid.
type RasterSource interface {
	LoadRaster(ctx context.Context) (*domain.RasterGrid, error)
}

// SnapshotSink delivers a finished snapshot to a destination.
type SnapshotSink interface {
	Name() string
	Publish(ctx context.Context, snap domain.Snapshot) error
}

// Pipeline runs the batch computation: load both sources, aggregate every
// district, classify and rank, then publish the snapshot to each sink.
// The finished snapshot is kept for the HTTP API; inputs are read-only
// after load and the snapshot is immutable, so no locking is needed
// beyond the atomic pointers.
type Pipeline struct {
	districts DistrictSource
	raster    RasterSource
	sinks     []SnapshotSink

	policy     domain.InclusionPolicy
	thresholds *domain.Thresholds

	logger  *slog.Logger
	metrics *observability.Metrics

	snapshot atomic.Pointer[domain.Snapshot]
	index    atomic.Pointer[domain.DistrictIndex]
}

// New creates a Pipeline with the given sources, sinks, and observability.
func New(districts DistrictSource, raster RasterSource, sinks []SnapshotSink,
	policy domain.InclusionPolicy, thresholds *domain.Thresholds,
	logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		districts:  districts,
		raster:     raster,
		sinks:      sinks,
		policy:     policy,
		thresholds: thresholds,
		logger:     logger,
		metrics:    metrics,
	}
}

// Snapshot returns the result of the last completed run, or nil before the
// first run finishes.
func (p *Pipeline) Snapshot() *domain.Snapshot {
	return p.snapshot.Load()
}

// Locate returns the district containing the point, once districts are loaded.
func (p *Pipeline) Locate(x, y float64) (domain.District, bool) {
	ix := p.index.Load()
	if ix == nil {
		return domain.District{}, false
	}
	return ix.Locate(geom.Point{X: x, Y: y})
}

// CheckReadiness returns nil once a snapshot is available to serve.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.snapshot.Load() == nil {
		return errors.New("no snapshot computed yet")
	}
	return nil
}

// Run executes one batch computation. It fails fast on unavailable or
// inconsistent sources; no partial snapshot is ever published.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	start := time.Now()

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	grid, err := p.raster.LoadRaster(ctx)
	if err != nil {
		return fmt.Errorf("load raster: %w", err)
	}
	logger.Info("raster loaded",
		"width", grid.Width, "height", grid.Height,
		"nodata", grid.Nodata, "proj", grid.Proj)

	districts, err := p.districts.LoadDistricts(ctx, grid.Proj)
	if err != nil {
		return fmt.Errorf("load districts: %w", err)
	}
	logger.Info("districts loaded", "count", len(districts))

	results := make([]domain.ZonalResult, 0, len(districts))
	for _, d := range districts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("aggregation cancelled: %w", err)
		}
		aggStart := time.Now()
		res := domain.Aggregate(d, grid, p.policy)
		p.metrics.AggregateDuration.Observe(time.Since(aggStart).Seconds())
		p.metrics.DistrictsProcessed.Inc()
		if res.HasData() {
			p.metrics.CellsIncluded.Add(float64(res.ValidCells))
		} else {
			p.metrics.NoDataDistricts.Inc()
			logger.Debug("district has no valid cells", "district_id", d.ID, "district", d.Name)
		}
		results = append(results, res)
	}

	snap := domain.BuildSnapshot(runID, results, p.thresholds)
	p.index.Store(domain.NewDistrictIndex(districts))
	p.snapshot.Store(&snap)
	p.metrics.SnapshotDistricts.Set(float64(len(snap.Ranking.Ranked)))

	logger.Info("snapshot built",
		"ranked", len(snap.Ranking.Ranked),
		"no_data", len(snap.Ranking.NoData),
		"departments", len(snap.Departments))

	var sinkErrs []error
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, snap); err != nil {
			logger.Error("sink publish failed", "sink", sink.Name(), "error", err)
			sinkErrs = append(sinkErrs, fmt.Errorf("publish to %s: %w", sink.Name(), err))
			continue
		}
		p.metrics.ResultsPublished.WithLabelValues(sink.Name()).Add(float64(len(snap.Ranking.Ranked)))
	}

	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	logger.Info("run complete", "duration", time.Since(start))
	return errors.Join(sinkErrs...)
}

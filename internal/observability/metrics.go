package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// zonal statistics pipeline.
type Metrics struct {
	DistrictsProcessed prometheus.Counter
	NoDataDistricts    prometheus.Counter
	CellsIncluded      prometheus.Counter
	ResultsPublished   *prometheus.CounterVec // label: sink={csv,kafka}

	AggregateDuration prometheus.Histogram
	RunDuration       prometheus.Histogram
	PipelineRunning   prometheus.Gauge
	SnapshotDistricts prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DistrictsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tmin_zonal",
			Name:      "districts_processed_total",
			Help:      "Total districts aggregated against the raster.",
		}),
		NoDataDistricts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tmin_zonal",
			Name:      "no_data_districts_total",
			Help:      "Districts that overlapped zero valid raster cells.",
		}),
		CellsIncluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tmin_zonal",
			Name:      "cells_included_total",
			Help:      "Valid raster cells included across all districts.",
		}),
		ResultsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tmin_zonal",
			Name:      "results_published_total",
			Help:      "Classified results delivered to each sink.",
		}, []string{"sink"}),
		AggregateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tmin_zonal",
			Name:      "aggregate_duration_seconds",
			Help:      "Per-district zonal aggregation duration.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tmin_zonal",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete load-aggregate-publish run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tmin_zonal",
			Name:      "pipeline_running",
			Help:      "1 while a batch run is in progress, 0 otherwise.",
		}),
		SnapshotDistricts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tmin_zonal",
			Name:      "snapshot_districts",
			Help:      "Districts in the currently served snapshot.",
		}),
	}

	prometheus.MustRegister(
		m.DistrictsProcessed,
		m.NoDataDistricts,
		m.CellsIncluded,
		m.ResultsPublished,
		m.AggregateDuration,
		m.RunDuration,
		m.PipelineRunning,
		m.SnapshotDistricts,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DistrictsProcessed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tmin_zonal", Name: "districts_processed_total"}),
		NoDataDistricts:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tmin_zonal", Name: "no_data_districts_total"}),
		CellsIncluded:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tmin_zonal", Name: "cells_included_total"}),
		ResultsPublished:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "tmin_zonal", Name: "results_published_total"}, []string{"sink"}),
		AggregateDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "tmin_zonal", Name: "aggregate_duration_seconds"}),
		RunDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "tmin_zonal", Name: "run_duration_seconds"}),
		PipelineRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "tmin_zonal", Name: "pipeline_running"}),
		SnapshotDistricts:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "tmin_zonal", Name: "snapshot_districts"}),
	}
}

// Package export writes snapshot tables as CSV files for the dashboard
// and for offline analysis.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/andeanclimate/tmin-zonal/internal/domain"
)

// File names within the export directory.
const (
	DistrictsFile = "districts.csv"
	ColdestFile   = "ranking_coldest.csv"
	WarmestFile   = "ranking_warmest.csv"
)

var header = []string{"ubigeo", "district", "department", "tmin_min", "tmin_mean", "valid_cells", "risk_category"}

// CSVExporter writes the full district table plus the coldest and warmest
// rankings. It implements pipeline.SnapshotSink.
type CSVExporter struct {
	dir         string
	rankingSize int
	logger      *slog.Logger
}

// NewCSVExporter creates an exporter writing into dir.
func NewCSVExporter(dir string, rankingSize int, logger *slog.Logger) *CSVExporter {
	return &CSVExporter{dir: dir, rankingSize: rankingSize, logger: logger}
}

func (e *CSVExporter) Name() string { return "csv" }

// Publish writes the three CSV files. No-data districts appear at the end
// of the full table with empty statistics and category "no_data"; they are
// never listed in the rankings.
func (e *CSVExporter) Publish(_ context.Context, snap domain.Snapshot) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(e.dir, DistrictsFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteDistrictTable(f, snap); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", DistrictsFile, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	coldest := make([][]string, 0, e.rankingSize)
	for _, d := range snap.Ranking.Coldest(e.rankingSize) {
		coldest = append(coldest, rankedRow(d))
	}
	if err := e.writeFile(ColdestFile, coldest); err != nil {
		return err
	}

	warmest := make([][]string, 0, e.rankingSize)
	for _, d := range snap.Ranking.Warmest(e.rankingSize) {
		warmest = append(warmest, rankedRow(d))
	}
	if err := e.writeFile(WarmestFile, warmest); err != nil {
		return err
	}

	e.logger.Info("csv export written", "dir", e.dir,
		"districts", len(snap.Ranking.Ranked)+len(snap.Ranking.NoData),
		"ranking_size", e.rankingSize)
	return nil
}

// WriteDistrictTable writes the full district table to w: ranked districts
// coldest first, then no-data districts with empty statistics. The HTTP
// download endpoint and the file exporter share this layout.
func WriteDistrictTable(w io.Writer, snap domain.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, d := range snap.Ranking.Ranked {
		if err := cw.Write(rankedRow(d)); err != nil {
			return err
		}
	}
	for _, d := range snap.Ranking.NoData {
		if err := cw.Write(noDataRow(d)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (e *CSVExporter) writeFile(name string, rows [][]string) error {
	path := filepath.Join(e.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s header: %w", name, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s rows: %w", name, err)
	}
	return f.Close()
}

func rankedRow(d domain.RankedDistrict) []string {
	return []string{
		d.DistrictID,
		d.DistrictName,
		d.Department,
		formatFloat(*d.Min),
		formatFloat(*d.Mean),
		strconv.Itoa(d.ValidCells),
		d.Category,
	}
}

func noDataRow(d domain.ZonalResult) []string {
	return []string{d.DistrictID, d.DistrictName, d.Department, "", "", "0", "no_data"}
}

// formatFloat uses the shortest representation that round-trips, so
// exported values compare exactly against a recomputation.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

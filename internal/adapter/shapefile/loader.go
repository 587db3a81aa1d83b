// Package shapefile loads district boundary polygons from an ESRI
// shapefile and reprojects them into the raster's coordinate reference
// system.
package shapefile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"

	"github.com/andeanclimate/tmin-zonal/internal/config"
	"github.com/andeanclimate/tmin-zonal/internal/domain"
)

// Columns names the shapefile attributes carrying district metadata.
type Columns struct {
	ID         string
	Name       string
	Department string
}

// Loader reads districts from a shapefile path. It implements
// pipeline.DistrictSource.
type Loader struct {
	path    string
	columns Columns
	logger  *slog.Logger
}

// NewLoader creates a district loader for the configured shapefile.
func NewLoader(cfg *config.Config, logger *slog.Logger) *Loader {
	return &Loader{
		path: cfg.DistrictsPath,
		columns: Columns{
			ID:         cfg.DistrictIDColumn,
			Name:       cfg.DistrictNameColumn,
			Department: cfg.DepartmentColumn,
		},
		logger: logger,
	}
}

// LoadDistricts decodes every feature, reprojects it into rasterProj, and
// returns the districts sorted by identifier. Duplicate identifiers and
// non-polygonal geometries are load-time errors; a missing reprojection
// path is reported as a coordinate system mismatch.
func (l *Loader) LoadDistricts(ctx context.Context, rasterProj string) ([]domain.District, error) {
	dec, err := shp.NewDecoder(l.path)
	if err != nil {
		return nil, fmt.Errorf("district source unavailable: %w", err)
	}
	defer dec.Close()

	srcSR, err := dec.SR()
	if err != nil {
		return nil, fmt.Errorf("read district CRS: %w", err)
	}
	targetSR, err := proj.Parse(rasterProj)
	if err != nil {
		return nil, fmt.Errorf("coordinate system mismatch: parse raster CRS %q: %w", rasterProj, err)
	}
	trans, err := srcSR.NewTransform(targetSR)
	if err != nil {
		return nil, fmt.Errorf("coordinate system mismatch: no transform from district CRS to raster CRS: %w", err)
	}

	var districts []domain.District
	seen := make(map[string]bool)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g, fields, more := dec.DecodeRowFields(l.columns.ID, l.columns.Name, l.columns.Department)
		if !more {
			break
		}
		gg, err := g.Transform(trans)
		if err != nil {
			return nil, fmt.Errorf("reproject district geometry: %w", err)
		}
		d, err := districtFromRow(gg, fields, l.columns)
		if err != nil {
			return nil, err
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("duplicate district identifier %q", d.ID)
		}
		seen[d.ID] = true
		districts = append(districts, d)
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("decode district shapefile: %w", err)
	}

	sort.Slice(districts, func(i, j int) bool { return districts[i].ID < districts[j].ID })
	l.logger.Debug("district shapefile decoded", "path", l.path, "features", len(districts))
	return districts, nil
}

// districtFromRow builds a District from one decoded feature row.
func districtFromRow(g geom.Geom, fields map[string]string, cols Columns) (domain.District, error) {
	poly, ok := g.(geom.Polygonal)
	if !ok {
		return domain.District{}, fmt.Errorf("district geometry must be polygonal, got %T", g)
	}

	id, err := attribute(fields, cols.ID)
	if err != nil {
		return domain.District{}, err
	}
	if id == "" {
		return domain.District{}, fmt.Errorf("district with empty %s attribute", cols.ID)
	}
	name, err := attribute(fields, cols.Name)
	if err != nil {
		return domain.District{}, err
	}
	department, err := attribute(fields, cols.Department)
	if err != nil {
		return domain.District{}, err
	}

	return domain.District{
		ID:         id,
		Name:       name,
		Department: department,
		Polygon:    poly,
	}, nil
}

// attribute fetches a DBF field, stripping the null padding some writers emit.
func attribute(fields map[string]string, name string) (string, error) {
	v, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("missing attribute column %s", name)
	}
	return strings.Trim(v, "\x00* "), nil
}

// Package netcdf reads and writes the Tmin grid as a COARDS-style NetCDF
// file. Georeferencing travels in global attributes: x0, y0, dx, dy for
// the affine transform, nodata for the sentinel, and proj4 for the CRS.
package netcdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ctessum/cdf"

	"github.com/andeanclimate/tmin-zonal/internal/config"
	"github.com/andeanclimate/tmin-zonal/internal/domain"
)

// Loader reads the raster from a NetCDF path. It implements
// pipeline.RasterSource.
type Loader struct {
	path     string
	variable string
	logger   *slog.Logger
}

// NewLoader creates a raster loader for the configured NetCDF file.
func NewLoader(cfg *config.Config, logger *slog.Logger) *Loader {
	return &Loader{path: cfg.RasterPath, variable: cfg.RasterVariable, logger: logger}
}

// LoadRaster reads the grid variable and its georeferencing attributes.
// Values are stored row-major with row 0 as the southernmost row, matching
// the domain.RasterGrid convention.
func (l *Loader) LoadRaster(_ context.Context) (*domain.RasterGrid, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("raster source unavailable: %w", err)
	}
	defer f.Close()

	cf, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("open NetCDF %s: %w", l.path, err)
	}

	x0, err := floatAttr(cf, "x0")
	if err != nil {
		return nil, err
	}
	y0, err := floatAttr(cf, "y0")
	if err != nil {
		return nil, err
	}
	dx, err := floatAttr(cf, "dx")
	if err != nil {
		return nil, err
	}
	dy, err := floatAttr(cf, "dy")
	if err != nil {
		return nil, err
	}
	nodata, err := floatAttr(cf, "nodata")
	if err != nil {
		return nil, err
	}
	proj4, err := stringAttr(cf, "proj4")
	if err != nil {
		return nil, err
	}

	dims := cf.Header.Lengths(l.variable)
	if len(dims) != 2 {
		return nil, fmt.Errorf("raster variable %q must have dims (y, x), got %d dims", l.variable, len(dims))
	}
	height, width := dims[0], dims[1]

	grid, err := domain.NewRasterGrid(width, height, x0, y0, dx, dy, nodata, proj4)
	if err != nil {
		return nil, err
	}

	r := cf.Reader(l.variable, nil, nil)
	tmp := make([]float32, height*width)
	if _, err := r.Read(tmp); err != nil {
		return nil, fmt.Errorf("read raster variable %q: %w", l.variable, err)
	}
	for i, v := range tmp {
		grid.Data.Elements[i] = float64(v)
	}

	l.logger.Debug("raster decoded", "path", l.path, "variable", l.variable,
		"width", width, "height", height)
	return grid, nil
}

// WriteRaster writes a grid to a NetCDF file in the layout LoadRaster
// expects. Used by cmd/genmock and tests.
func WriteRaster(path, variable string, g *domain.RasterGrid) error {
	h := cdf.NewHeader([]string{"y", "x"}, []int{g.Height, g.Width})
	h.AddAttribute("", "x0", []float64{g.X0})
	h.AddAttribute("", "y0", []float64{g.Y0})
	h.AddAttribute("", "dx", []float64{g.DX})
	h.AddAttribute("", "dy", []float64{g.DY})
	h.AddAttribute("", "nodata", []float64{g.Nodata})
	h.AddAttribute("", "proj4", g.Proj)
	h.AddVariable(variable, []string{"y", "x"}, []float32{0})
	h.AddAttribute(variable, "units", "degC")
	h.Define()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create NetCDF %s: %w", path, err)
	}
	defer f.Close()

	cf, err := cdf.Create(f, h)
	if err != nil {
		return fmt.Errorf("write NetCDF header: %w", err)
	}

	data := make([]float32, len(g.Data.Elements))
	for i, v := range g.Data.Elements {
		data[i] = float32(v)
	}
	end := cf.Header.Lengths(variable)
	start := make([]int, len(end))
	if _, err := cf.Writer(variable, start, end).Write(data); err != nil {
		return fmt.Errorf("write raster variable %q: %w", variable, err)
	}
	return cdf.UpdateNumRecs(f)
}

func floatAttr(f *cdf.File, name string) (float64, error) {
	v, ok := f.Header.GetAttribute("", name).([]float64)
	if !ok || len(v) == 0 {
		return 0, fmt.Errorf("raster missing global attribute %q", name)
	}
	return v[0], nil
}

func stringAttr(f *cdf.File, name string) (string, error) {
	v, ok := f.Header.GetAttribute("", name).(string)
	if !ok || v == "" {
		return "", fmt.Errorf("raster missing global attribute %q", name)
	}
	return v, nil
}

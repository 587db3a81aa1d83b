package domain

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
)

// RasterGrid is a single-band grid of float values with an affine transform
// mapping cell indices to coordinates. Immutable after load.
//
// Cell (row, col) spans [X0+col*DX, X0+(col+1)*DX) × [Y0+row*DY, Y0+(row+1)*DY):
// row 0 is the southernmost row and both cell sizes are positive. Loaders
// are responsible for flipping north-up data into this convention.
type RasterGrid struct {
	Width  int
	Height int
	X0, Y0 float64 // minimum corner of the grid
	DX, DY float64 // cell size
	Nodata float64
	Proj   string // PROJ.4 definition of the grid CRS

	Data *sparse.DenseArray // shape (Height, Width)
}

// NewRasterGrid allocates a zero-filled grid. It returns an error for
// non-positive dimensions or cell sizes.
func NewRasterGrid(width, height int, x0, y0, dx, dy, nodata float64, proj string) (*RasterGrid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster grid: invalid dimensions %dx%d", width, height)
	}
	if dx <= 0 || dy <= 0 {
		return nil, fmt.Errorf("raster grid: cell sizes must be positive, got dx=%g dy=%g", dx, dy)
	}
	return &RasterGrid{
		Width:  width,
		Height: height,
		X0:     x0,
		Y0:     y0,
		DX:     dx,
		DY:     dy,
		Nodata: nodata,
		Proj:   proj,
		Data:   sparse.ZerosDense(height, width),
	}, nil
}

// Value returns the cell value at (row, col).
func (g *RasterGrid) Value(row, col int) float64 {
	return g.Data.Get(row, col)
}

// SetValue writes a cell value; used by loaders and fixtures.
func (g *RasterGrid) SetValue(v float64, row, col int) {
	g.Data.Set(v, row, col)
}

// IsNodata reports whether v carries no valid measurement. NaN is treated
// as nodata as well so library NaN semantics can never leak into results.
func (g *RasterGrid) IsNodata(v float64) bool {
	return v == g.Nodata || math.IsNaN(v)
}

// CellCenter returns the coordinate of the center of cell (row, col).
func (g *RasterGrid) CellCenter(row, col int) geom.Point {
	return geom.Point{
		X: g.X0 + (float64(col)+0.5)*g.DX,
		Y: g.Y0 + (float64(row)+0.5)*g.DY,
	}
}

// CellPolygon returns the square covered by cell (row, col), closed and
// wound counter-clockwise.
func (g *RasterGrid) CellPolygon(row, col int) geom.Polygon {
	x0 := g.X0 + float64(col)*g.DX
	y0 := g.Y0 + float64(row)*g.DY
	x1 := x0 + g.DX
	y1 := y0 + g.DY
	return geom.Polygon{{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
		{X: x0, Y: y0},
	}}
}

// Bounds returns the geographic extent of the whole grid.
func (g *RasterGrid) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: g.X0, Y: g.Y0},
		Max: geom.Point{X: g.X0 + float64(g.Width)*g.DX, Y: g.Y0 + float64(g.Height)*g.DY},
	}
}

// indexWindow clips a bounding box to the grid and returns the inclusive
// index range of cells it may touch. ok is false when the box lies
// entirely outside the grid extent.
func (g *RasterGrid) indexWindow(b *geom.Bounds) (rowMin, rowMax, colMin, colMax int, ok bool) {
	ext := g.Bounds()
	if !ext.Overlaps(b) {
		return 0, 0, 0, 0, false
	}
	colMin = int(math.Floor((b.Min.X - g.X0) / g.DX))
	colMax = int(math.Floor((b.Max.X - g.X0) / g.DX))
	rowMin = int(math.Floor((b.Min.Y - g.Y0) / g.DY))
	rowMax = int(math.Floor((b.Max.Y - g.Y0) / g.DY))

	colMin = max(colMin, 0)
	rowMin = max(rowMin, 0)
	colMax = min(colMax, g.Width-1)
	rowMax = min(rowMax, g.Height-1)
	if colMin > colMax || rowMin > rowMax {
		return 0, 0, 0, 0, false
	}
	return rowMin, rowMax, colMin, colMax, true
}

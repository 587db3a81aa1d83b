package domain

import (
	"fmt"

	"github.com/ctessum/geom"
)

// InclusionPolicy selects how raster cells are matched to a polygon.
type InclusionPolicy string

const (
	// PolicyCellCenter includes a cell when its center point lies inside
	// the polygon (or on its edge). Every included cell has weight 1.
	PolicyCellCenter InclusionPolicy = "cell-center"

	// PolicyAreaWeight includes a cell when its square intersects the
	// polygon with positive area. The mean is weighted by the covered
	// fraction of each cell; the minimum is taken over all included cells.
	PolicyAreaWeight InclusionPolicy = "area-weight"
)

// ParseInclusionPolicy validates a policy name from configuration.
func ParseInclusionPolicy(s string) (InclusionPolicy, error) {
	switch InclusionPolicy(s) {
	case PolicyCellCenter, PolicyAreaWeight:
		return InclusionPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown inclusion policy %q (want %q or %q)",
			s, PolicyCellCenter, PolicyAreaWeight)
	}
}

// Aggregate computes the zonal statistics of one district over the grid.
// It is a pure function of its inputs: cells are visited in row-major
// order inside the polygon's clipped index window, so repeated calls with
// identical inputs produce bit-identical results.
//
// Nodata cells are skipped. A district overlapping zero valid cells yields
// ValidCells = 0 with nil Min and Mean.
func Aggregate(d District, g *RasterGrid, policy InclusionPolicy) ZonalResult {
	res := ZonalResult{
		DistrictID:   d.ID,
		DistrictName: d.Name,
		Department:   d.Department,
	}
	if d.Polygon == nil {
		return res
	}

	rowMin, rowMax, colMin, colMax, ok := g.indexWindow(d.Polygon.Bounds())
	if !ok {
		return res
	}

	var (
		minVal    float64
		weighted  float64
		weightSum float64
		count     int
	)
	for row := rowMin; row <= rowMax; row++ {
		for col := colMin; col <= colMax; col++ {
			v := g.Value(row, col)
			if g.IsNodata(v) {
				continue
			}
			w := cellWeight(d.Polygon, g, row, col, policy)
			if w <= 0 {
				continue
			}
			if count == 0 || v < minVal {
				minVal = v
			}
			weighted += v * w
			weightSum += w
			count++
		}
	}

	if count == 0 {
		return res
	}
	mn := minVal
	mean := weighted / weightSum
	res.Min = &mn
	res.Mean = &mean
	res.ValidCells = count
	return res
}

// cellWeight returns the contribution of cell (row, col) to the polygon's
// mean under the given policy, or 0 when the cell is excluded.
func cellWeight(poly geom.Polygonal, g *RasterGrid, row, col int, policy InclusionPolicy) float64 {
	switch policy {
	case PolicyAreaWeight:
		cell := g.CellPolygon(row, col)
		isect := cell.Intersection(poly)
		if isect == nil {
			return 0
		}
		return isect.Area() / (g.DX * g.DY)
	default: // cell-center
		if g.CellCenter(row, col).Within(poly) == geom.Outside {
			return 0
		}
		return 1
	}
}

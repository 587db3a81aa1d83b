package domain

import (
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

// District is one administrative unit with its boundary polygon.
// Immutable after load; the polygon is in the raster's coordinate
// reference system.
type District struct {
	ID         string // ubigeo code, unique across the dataset
	Name       string
	Department string
	Polygon    geom.Polygonal
}

// Bounds returns the bounding box of the district polygon. It satisfies
// the rtree item interface so districts can be indexed spatially.
func (d *District) Bounds() *geom.Bounds {
	return d.Polygon.Bounds()
}

// Len delegates to the district polygon; with Points, Similar and
// Transform it completes the geom.Geom interface required by rtree.Insert.
func (d *District) Len() int {
	return d.Polygon.Len()
}

// Points delegates to the district polygon.
func (d *District) Points() func() geom.Point {
	return d.Polygon.Points()
}

// Similar delegates to the district polygon.
func (d *District) Similar(g geom.Geom, tol float64) bool {
	return d.Polygon.Similar(g, tol)
}

// Transform delegates to the district polygon.
func (d *District) Transform(t proj.Transformer) (geom.Geom, error) {
	return d.Polygon.Transform(t)
}

// DepartmentCode returns the two-digit department prefix of a ubigeo code.
func DepartmentCode(ubigeo string) string {
	if len(ubigeo) < 2 {
		return ubigeo
	}
	return ubigeo[:2]
}

// ZonalResult holds the aggregated statistics for one district.
// Min and Mean are nil when ValidCells is zero; nil is the explicit
// "no data" marker required by the aggregation contract.
type ZonalResult struct {
	DistrictID   string   `json:"district_id"`
	DistrictName string   `json:"district_name"`
	Department   string   `json:"department"`
	Min          *float64 `json:"min,omitempty"`
	Mean         *float64 `json:"mean,omitempty"`
	ValidCells   int      `json:"valid_cells"`
}

// HasData reports whether the result covers at least one valid raster cell.
func (r ZonalResult) HasData() bool { return r.ValidCells > 0 }

// RankedDistrict is a classified result with its position in the
// coldest-first ordering. Rank starts at 1.
type RankedDistrict struct {
	ZonalResult
	Rank     int    `json:"rank"`
	Category string `json:"risk_category"`
}

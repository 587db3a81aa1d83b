package domain

import (
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// DistrictIndex answers point-in-district lookups for the map surface.
// It holds district polygons in an R-tree; candidates from the bounding
// box search are confirmed with an exact point-in-polygon test.
type DistrictIndex struct {
	tree *rtree.Rtree
}

// NewDistrictIndex builds a spatial index over the loaded districts.
func NewDistrictIndex(districts []District) *DistrictIndex {
	tree := rtree.NewTree(25, 50)
	for i := range districts {
		tree.Insert(&districts[i])
	}
	return &DistrictIndex{tree: tree}
}

// Locate returns the district containing the point, if any. Points on a
// shared boundary resolve to the candidate with the lowest bounding box in
// tree order; callers should not rely on which of the adjacent districts
// is reported for exact border points.
func (ix *DistrictIndex) Locate(p geom.Point) (District, bool) {
	for _, item := range ix.tree.SearchIntersect(p.Bounds()) {
		d := item.(*District)
		if p.Within(d.Polygon) != geom.Outside {
			return *d, true
		}
	}
	return District{}, false
}

package domain

import (
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNodata = -9999.0

// testGrid builds a height×width grid with 1-unit cells anchored at the
// origin, filled with a uniform value.
func testGrid(t *testing.T, width, height int, fill float64) *RasterGrid {
	t.Helper()
	g, err := NewRasterGrid(width, height, 0, 0, 1, 1, testNodata, "+proj=longlat +datum=WGS84 +no_defs")
	require.NoError(t, err)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			g.SetValue(fill, row, col)
		}
	}
	return g
}

// square returns an axis-aligned square polygon.
func square(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
		{X: x0, Y: y0},
	}}
}

func TestAggregate_UniformSquare(t *testing.T) {
	// A uniform -5 °C raster and a square district covering exactly the
	// four cells whose centers fall in [1,3)×[1,3).
	g := testGrid(t, 4, 4, -5.0)
	d := District{ID: "080901", Name: "Ccatca", Department: "Cusco", Polygon: square(1, 1, 3, 3)}

	res := Aggregate(d, g, PolicyCellCenter)

	require.True(t, res.HasData())
	assert.Equal(t, 4, res.ValidCells)
	assert.Equal(t, -5.0, *res.Min)
	assert.Equal(t, -5.0, *res.Mean)
	assert.Equal(t, "080901", res.DistrictID)
}

func TestAggregate_OutsideExtent(t *testing.T) {
	g := testGrid(t, 4, 4, -5.0)
	d := District{ID: "150101", Polygon: square(100, 100, 102, 102)}

	res := Aggregate(d, g, PolicyCellCenter)

	assert.False(t, res.HasData())
	assert.Equal(t, 0, res.ValidCells)
	assert.Nil(t, res.Min)
	assert.Nil(t, res.Mean)
}

func TestAggregate_AllNodata(t *testing.T) {
	g := testGrid(t, 4, 4, testNodata)
	d := District{ID: "010101", Polygon: square(0, 0, 4, 4)}

	res := Aggregate(d, g, PolicyCellCenter)

	assert.Equal(t, 0, res.ValidCells)
	assert.Nil(t, res.Min)
	assert.Nil(t, res.Mean)
}

func TestAggregate_SkipsNodataCells(t *testing.T) {
	g := testGrid(t, 4, 4, 2.0)
	g.SetValue(testNodata, 1, 1)
	g.SetValue(-3.0, 1, 2)
	d := District{ID: "010101", Polygon: square(1, 1, 3, 3)}

	res := Aggregate(d, g, PolicyCellCenter)

	require.True(t, res.HasData())
	assert.Equal(t, 3, res.ValidCells)
	assert.Equal(t, -3.0, *res.Min)
	assert.InDelta(t, (-3.0+2.0+2.0)/3.0, *res.Mean, 1e-12)
}

func TestAggregate_MinNeverExceedsMean(t *testing.T) {
	g := testGrid(t, 6, 6, 0)
	v := -12.0
	for row := 0; row < 6; row++ {
		for col := 0; col < 6; col++ {
			g.SetValue(v, row, col)
			v += 0.7
		}
	}
	d := District{ID: "080901", Polygon: square(0.2, 0.2, 5.8, 5.8)}

	for _, policy := range []InclusionPolicy{PolicyCellCenter, PolicyAreaWeight} {
		res := Aggregate(d, g, policy)
		require.True(t, res.HasData(), "policy %s", policy)
		assert.LessOrEqual(t, *res.Min, *res.Mean, "policy %s", policy)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	g := testGrid(t, 8, 8, 0)
	for i := range g.Data.Elements {
		g.Data.Elements[i] = float64(i%13) - 6.5
	}
	d := District{ID: "080901", Polygon: square(0.3, 1.1, 6.7, 7.2)}

	first := Aggregate(d, g, PolicyCellCenter)
	second := Aggregate(d, g, PolicyCellCenter)

	require.True(t, first.HasData())
	assert.Equal(t, first, second)
	assert.Equal(t, *first.Min, *second.Min)
	assert.Equal(t, *first.Mean, *second.Mean)
}

func TestAggregate_AreaWeight(t *testing.T) {
	g := testGrid(t, 2, 1, 0)
	g.SetValue(1.0, 0, 0)
	g.SetValue(3.0, 0, 1)
	// Covers all of cell 0 and half of cell 1.
	d := District{ID: "010101", Polygon: square(0, 0, 1.5, 1)}

	res := Aggregate(d, g, PolicyAreaWeight)

	require.True(t, res.HasData())
	assert.Equal(t, 2, res.ValidCells)
	assert.Equal(t, 1.0, *res.Min)
	assert.InDelta(t, (1.0*1.0+3.0*0.5)/1.5, *res.Mean, 1e-9)
}

func TestAggregate_NilPolygon(t *testing.T) {
	g := testGrid(t, 2, 2, 1)
	res := Aggregate(District{ID: "010101"}, g, PolicyCellCenter)
	assert.Equal(t, 0, res.ValidCells)
}

func TestParseInclusionPolicy(t *testing.T) {
	p, err := ParseInclusionPolicy("cell-center")
	require.NoError(t, err)
	assert.Equal(t, PolicyCellCenter, p)

	p, err = ParseInclusionPolicy("area-weight")
	require.NoError(t, err)
	assert.Equal(t, PolicyAreaWeight, p)

	_, err = ParseInclusionPolicy("nearest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown inclusion policy")
}

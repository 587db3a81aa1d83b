package shapefile

import (
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testColumns = Columns{ID: "UBIGEO", Name: "NOMBDIST", Department: "DEPARTAMEN"}

func testPolygon() geom.Polygon {
	return geom.Polygon{{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0},
	}}
}

func TestDistrictFromRow(t *testing.T) {
	fields := map[string]string{
		"UBIGEO":     "080901",
		"NOMBDIST":   "Ccatca",
		"DEPARTAMEN": "Cusco",
	}

	d, err := districtFromRow(testPolygon(), fields, testColumns)
	require.NoError(t, err)
	assert.Equal(t, "080901", d.ID)
	assert.Equal(t, "Ccatca", d.Name)
	assert.Equal(t, "Cusco", d.Department)
	assert.NotNil(t, d.Polygon)
}

func TestDistrictFromRow_StripsDBFPadding(t *testing.T) {
	fields := map[string]string{
		"UBIGEO":     "080901\x00\x00",
		"NOMBDIST":   " Ccatca ",
		"DEPARTAMEN": "Cusco*",
	}

	d, err := districtFromRow(testPolygon(), fields, testColumns)
	require.NoError(t, err)
	assert.Equal(t, "080901", d.ID)
	assert.Equal(t, "Ccatca", d.Name)
	assert.Equal(t, "Cusco", d.Department)
}

func TestDistrictFromRow_NonPolygonal(t *testing.T) {
	fields := map[string]string{
		"UBIGEO":     "080901",
		"NOMBDIST":   "Ccatca",
		"DEPARTAMEN": "Cusco",
	}

	_, err := districtFromRow(geom.Point{X: 1, Y: 1}, fields, testColumns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be polygonal")
}

func TestDistrictFromRow_MissingColumn(t *testing.T) {
	fields := map[string]string{
		"UBIGEO":   "080901",
		"NOMBDIST": "Ccatca",
	}

	_, err := districtFromRow(testPolygon(), fields, testColumns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEPARTAMEN")
}

func TestDistrictFromRow_EmptyID(t *testing.T) {
	fields := map[string]string{
		"UBIGEO":     "\x00\x00",
		"NOMBDIST":   "Ccatca",
		"DEPARTAMEN": "Cusco",
	}

	_, err := districtFromRow(testPolygon(), fields, testColumns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty UBIGEO")
}

package domain

import (
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistrictIndex_Locate(t *testing.T) {
	districts := []District{
		{ID: "010101", Name: "A", Polygon: square(0, 0, 2, 2)},
		{ID: "010102", Name: "B", Polygon: square(2, 0, 4, 2)},
		{ID: "020101", Name: "C", Polygon: square(0, 2, 4, 4)},
	}
	ix := NewDistrictIndex(districts)

	d, ok := ix.Locate(geom.Point{X: 1, Y: 1})
	require.True(t, ok)
	assert.Equal(t, "010101", d.ID)

	d, ok = ix.Locate(geom.Point{X: 3, Y: 0.5})
	require.True(t, ok)
	assert.Equal(t, "010102", d.ID)

	d, ok = ix.Locate(geom.Point{X: 1, Y: 3})
	require.True(t, ok)
	assert.Equal(t, "020101", d.ID)

	_, ok = ix.Locate(geom.Point{X: 10, Y: 10})
	assert.False(t, ok)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultThresholds(t *testing.T) *Thresholds {
	t.Helper()
	th, err := ParseThresholds("extreme:0,high:4,moderate:10,low")
	require.NoError(t, err)
	return th
}

func TestThresholds_Classify(t *testing.T) {
	th := defaultThresholds(t)

	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"well below zero", -12.5, "extreme"},
		{"boundary is inclusive on the colder band", 0.0, "extreme"},
		{"just above zero", 0.001, "high"},
		{"upper high boundary", 4.0, "high"},
		{"moderate range", 7.3, "moderate"},
		{"upper moderate boundary", 10.0, "moderate"},
		{"above all bounds", 10.001, "low"},
		{"warm coast", 22.0, "low"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, th.Classify(tc.value))
		})
	}
}

// TestThresholds_Partition sweeps the plausible temperature domain and
// checks that every value maps to exactly one category with no gaps:
// adjacent values only ever move forward through the label sequence.
func TestThresholds_Partition(t *testing.T) {
	th := defaultThresholds(t)
	labels := th.Labels()
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	prev := -1
	for v := -60.0; v <= 60.0; v += 0.01 {
		got := th.Classify(v)
		i, ok := index[got]
		require.True(t, ok, "value %g produced unknown label %q", v, got)
		require.GreaterOrEqual(t, i, prev, "labels went backwards at %g", v)
		prev = i
	}
	assert.Equal(t, len(labels)-1, prev, "sweep never reached the terminal label")
}

func TestNewThresholds_Validation(t *testing.T) {
	t.Run("no bands", func(t *testing.T) {
		_, err := NewThresholds(nil, "low")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one band")
	})

	t.Run("missing terminal label", func(t *testing.T) {
		_, err := NewThresholds([]Band{{Label: "extreme", Max: 0}}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "terminal label")
	})

	t.Run("non-increasing bounds", func(t *testing.T) {
		_, err := NewThresholds([]Band{{Label: "extreme", Max: 4}, {Label: "high", Max: 4}}, "low")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "strictly increasing")
	})

	t.Run("duplicate label", func(t *testing.T) {
		_, err := NewThresholds([]Band{{Label: "low", Max: 0}}, "low")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate label")
	})

	t.Run("empty band label", func(t *testing.T) {
		_, err := NewThresholds([]Band{{Label: "", Max: 0}}, "low")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty label")
	})
}

func TestParseThresholds(t *testing.T) {
	t.Run("default table", func(t *testing.T) {
		th, err := ParseThresholds("extreme:0,high:4,moderate:10,low")
		require.NoError(t, err)
		assert.Equal(t, []string{"extreme", "high", "moderate", "low"}, th.Labels())
	})

	t.Run("whitespace tolerated", func(t *testing.T) {
		th, err := ParseThresholds(" extreme : 0 , low ")
		require.NoError(t, err)
		assert.Equal(t, "extreme", th.Classify(-1))
		assert.Equal(t, "low", th.Classify(1))
	})

	t.Run("single entry", func(t *testing.T) {
		_, err := ParseThresholds("low")
		require.Error(t, err)
	})

	t.Run("bad bound", func(t *testing.T) {
		_, err := ParseThresholds("extreme:cold,low")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid bound")
	})

	t.Run("terminal with bound", func(t *testing.T) {
		_, err := ParseThresholds("extreme:0,low:99")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bare terminal label")
	})
}

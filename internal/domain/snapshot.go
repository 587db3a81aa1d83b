package domain

import (
	"sort"
	"time"
)

// Snapshot is the immutable product of one batch run: the classified
// ranking plus the derived department and national views. It is built once
// per run and shared read-only with every sink and the HTTP API.
type Snapshot struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Ranking     Ranking           `json:"ranking"`
	Departments []DepartmentStats `json:"departments"`
	Summary     Summary           `json:"summary"`
}

// BuildSnapshot classifies and ranks a batch of zonal results and derives
// the department and summary views. Input order does not matter; results
// are sorted internally so identical inputs always produce an identical
// snapshot apart from RunID and GeneratedAt.
func BuildSnapshot(runID string, results []ZonalResult, t *Thresholds) Snapshot {
	sorted := append([]ZonalResult(nil), results...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].DistrictID < sorted[j].DistrictID })

	ranking := Rank(sorted, t)
	return Snapshot{
		RunID:       runID,
		GeneratedAt: clock.Now().UTC(),
		Ranking:     ranking,
		Departments: DepartmentBreakdown(ranking.Ranked),
		Summary:     Summarize(ranking, t),
	}
}

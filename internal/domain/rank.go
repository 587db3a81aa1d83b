package domain

import (
	"sort"
)

// Ranking is the classified, ordered view of a batch of zonal results.
// Ranked is coldest-first; NoData holds districts that overlapped zero
// valid cells, which are reported separately and never ranked.
type Ranking struct {
	Ranked []RankedDistrict `json:"ranked"`
	NoData []ZonalResult    `json:"no_data"`
}

// Rank orders results by minimum value ascending (colder is more severe)
// and assigns each district its risk category. Ties on the minimum are
// broken by district identifier ascending so the ordering is reproducible.
func Rank(results []ZonalResult, t *Thresholds) Ranking {
	var r Ranking
	for _, res := range results {
		if !res.HasData() {
			r.NoData = append(r.NoData, res)
			continue
		}
		r.Ranked = append(r.Ranked, RankedDistrict{
			ZonalResult: res,
			Category:    t.Classify(*res.Min),
		})
	}

	sort.Slice(r.Ranked, func(i, j int) bool {
		a, b := r.Ranked[i], r.Ranked[j]
		if *a.Min != *b.Min {
			return *a.Min < *b.Min
		}
		return a.DistrictID < b.DistrictID
	})
	for i := range r.Ranked {
		r.Ranked[i].Rank = i + 1
	}

	sort.Slice(r.NoData, func(i, j int) bool {
		return r.NoData[i].DistrictID < r.NoData[j].DistrictID
	})
	return r
}

// Coldest returns the first n ranked districts.
func (r Ranking) Coldest(n int) []RankedDistrict {
	return r.Ranked[:min(n, len(r.Ranked))]
}

// Warmest returns the last n ranked districts, warmest first.
func (r Ranking) Warmest(n int) []RankedDistrict {
	n = min(n, len(r.Ranked))
	out := make([]RankedDistrict, 0, n)
	for i := len(r.Ranked) - 1; i >= len(r.Ranked)-n; i-- {
		out = append(out, r.Ranked[i])
	}
	return out
}

// Find returns the result for a district id from either list.
func (r Ranking) Find(id string) (RankedDistrict, bool) {
	for _, d := range r.Ranked {
		if d.DistrictID == id {
			return d, true
		}
	}
	for _, d := range r.NoData {
		if d.DistrictID == id {
			return RankedDistrict{ZonalResult: d}, true
		}
	}
	return RankedDistrict{}, false
}

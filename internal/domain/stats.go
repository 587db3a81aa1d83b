package domain

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DepartmentStats aggregates district mean temperatures for one department,
// keyed by the two-digit ubigeo prefix.
type DepartmentStats struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Districts int     `json:"districts"`
	MeanTmin  float64 `json:"mean_tmin"`
	MinTmin   float64 `json:"min_tmin"`
	MaxTmin   float64 `json:"max_tmin"`
	StdDev    float64 `json:"std_dev"`
}

// DepartmentBreakdown groups ranked districts by department and computes
// summary statistics over their mean values. Output is ordered coldest
// department first, ties broken by code.
func DepartmentBreakdown(ranked []RankedDistrict) []DepartmentStats {
	type group struct {
		name  string
		means []float64
	}
	groups := make(map[string]*group)
	for _, d := range ranked {
		code := DepartmentCode(d.DistrictID)
		g, ok := groups[code]
		if !ok {
			g = &group{name: d.Department}
			groups[code] = g
		}
		g.means = append(g.means, *d.Mean)
	}

	out := make([]DepartmentStats, 0, len(groups))
	for code, g := range groups {
		// Sorting fixes the reduction order so repeated runs agree exactly.
		sort.Float64s(g.means)
		s := DepartmentStats{
			Code:      code,
			Name:      g.name,
			Districts: len(g.means),
			MeanTmin:  stat.Mean(g.means, nil),
			MinTmin:   floats.Min(g.means),
			MaxTmin:   floats.Max(g.means),
		}
		if len(g.means) > 1 {
			s.StdDev = stat.StdDev(g.means, nil)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanTmin != out[j].MeanTmin {
			return out[i].MeanTmin < out[j].MeanTmin
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// CategoryCount is the number of districts assigned one risk category.
type CategoryCount struct {
	Category  string `json:"category"`
	Districts int    `json:"districts"`
}

// Summary condenses one batch run for the dashboard's headline figures.
type Summary struct {
	Districts       int             `json:"districts"`
	NoDataDistricts int             `json:"no_data_districts"`
	NationalMean    float64         `json:"national_mean"`
	ColdestDistrict *RankedDistrict `json:"coldest_district,omitempty"`
	WarmestDistrict *RankedDistrict `json:"warmest_district,omitempty"`
	Categories      []CategoryCount `json:"categories"`
}

// Summarize computes national figures over a ranking. Category counts are
// reported coldest label first, including zero-count categories, so the
// dashboard always renders a complete legend.
func Summarize(r Ranking, t *Thresholds) Summary {
	s := Summary{
		Districts:       len(r.Ranked),
		NoDataDistricts: len(r.NoData),
	}

	counts := make(map[string]int)
	means := make([]float64, 0, len(r.Ranked))
	for _, d := range r.Ranked {
		counts[d.Category]++
		means = append(means, *d.Mean)
	}
	if len(r.Ranked) > 0 {
		sort.Float64s(means)
		s.NationalMean = stat.Mean(means, nil)
		coldest := r.Ranked[0]
		warmest := r.Ranked[len(r.Ranked)-1]
		s.ColdestDistrict = &coldest
		s.WarmestDistrict = &warmest
	}
	for _, label := range t.Labels() {
		s.Categories = append(s.Categories, CategoryCount{Category: label, Districts: counts[label]})
	}
	return s
}

// Command validate performs end-to-end data integrity checks on a set of
// exported CSV files: it recomputes the zonal statistics from the raster and
// district shapefile in-process and verifies that the exported district
// table and rankings match the recomputation exactly.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -raster data/tmin.nc \
//	  -districts data/districts.shp \
//	  -export-dir export
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/andeanclimate/tmin-zonal/internal/adapter/export"
	"github.com/andeanclimate/tmin-zonal/internal/adapter/netcdf"
	"github.com/andeanclimate/tmin-zonal/internal/adapter/shapefile"
	"github.com/andeanclimate/tmin-zonal/internal/config"
	"github.com/andeanclimate/tmin-zonal/internal/domain"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	raster := flag.String("raster", "", "path to the Tmin NetCDF file")
	variable := flag.String("variable", "tmin", "raster variable name")
	districts := flag.String("districts", "", "path to the district shapefile")
	exportDir := flag.String("export-dir", "", "directory containing exported CSV files")
	policy := flag.String("policy", string(domain.PolicyCellCenter), "cell inclusion policy")
	bands := flag.String("bands", "extreme:0,high:4,moderate:10,low", "risk band table")
	flag.Parse()

	if *raster == "" || *districts == "" || *exportDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*raster, *variable, *districts, *exportDir, *policy, *bands); code != 0 {
		os.Exit(code)
	}
}

func run(rasterPath, variable, districtsPath, exportDir, policyName, bandSpec string) int {
	fmt.Println("=== Zonal Export Integrity Validation ===")
	fmt.Println()

	snap, err := recompute(rasterPath, variable, districtsPath, policyName, bandSpec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: recompute: %v\n", err)
		return 1
	}

	table, err := loadCSV(filepath.Join(exportDir, export.DistrictsFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load district table: %v\n", err)
		return 1
	}
	coldest, err := loadCSV(filepath.Join(exportDir, export.ColdestFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load coldest ranking: %v\n", err)
		return 1
	}
	warmest, err := loadCSV(filepath.Join(exportDir, export.WarmestFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load warmest ranking: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateTable(table, snap),
		validateRanking("coldest", coldest, snap.Ranking.Coldest(len(coldest))),
		validateRanking("warmest", warmest, snap.Ranking.Warmest(len(warmest))),
		validateConsistency(table),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-44s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Districts: %d ranked, %d without data; %d table rows\n",
		len(snap.Ranking.Ranked), len(snap.Ranking.NoData), len(table))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// recompute runs the same load/aggregate/classify path the service uses.
func recompute(rasterPath, variable, districtsPath, policyName, bandSpec string) (domain.Snapshot, error) {
	policy, err := domain.ParseInclusionPolicy(policyName)
	if err != nil {
		return domain.Snapshot{}, err
	}
	thresholds, err := domain.ParseThresholds(bandSpec)
	if err != nil {
		return domain.Snapshot{}, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		RasterPath:         rasterPath,
		RasterVariable:     variable,
		DistrictsPath:      districtsPath,
		DistrictIDColumn:   "UBIGEO",
		DistrictNameColumn: "NOMBDIST",
		DepartmentColumn:   "DEPARTAMEN",
	}

	ctx := context.Background()
	grid, err := netcdf.NewLoader(cfg, logger).LoadRaster(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	districts, err := shapefile.NewLoader(cfg, logger).LoadDistricts(ctx, grid.Proj)
	if err != nil {
		return domain.Snapshot{}, err
	}

	results := make([]domain.ZonalResult, 0, len(districts))
	for _, d := range districts {
		results = append(results, domain.Aggregate(d, grid, policy))
	}
	return domain.BuildSnapshot("validate", results, thresholds), nil
}

// csvRow is one parsed data row keyed by header name.
type csvRow struct {
	lineNum int
	fields  map[string]string
}

func loadCSV(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) < 1 {
		return nil, fmt.Errorf("empty file %s", path)
	}

	header := all[0]
	rows := make([]csvRow, 0, len(all)-1)
	for i, row := range all[1:] {
		fields := make(map[string]string, len(header))
		for j, h := range header {
			if j < len(row) {
				fields[h] = row[j]
			}
		}
		rows = append(rows, csvRow{lineNum: i + 2, fields: fields})
	}
	return rows, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// validateTable checks every exported row against the recomputed snapshot.
func validateTable(rows []csvRow, snap domain.Snapshot) *phase {
	p := &phase{name: "Phase 1: District Table (values)"}

	expected := len(snap.Ranking.Ranked) + len(snap.Ranking.NoData)
	if len(rows) != expected {
		p.errorf("row count: expected %d, got %d", expected, len(rows))
		return p
	}

	for i, want := range snap.Ranking.Ranked {
		row := rows[i]
		if row.fields["ubigeo"] != want.DistrictID {
			p.errorf("line %d: ubigeo: expected %q, got %q", row.lineNum, want.DistrictID, row.fields["ubigeo"])
			continue
		}
		if got := row.fields["tmin_min"]; got != formatFloat(*want.Min) {
			p.errorf("line %d: tmin_min: expected %s, got %s", row.lineNum, formatFloat(*want.Min), got)
		}
		if got := row.fields["tmin_mean"]; got != formatFloat(*want.Mean) {
			p.errorf("line %d: tmin_mean: expected %s, got %s", row.lineNum, formatFloat(*want.Mean), got)
		}
		if got := row.fields["valid_cells"]; got != strconv.Itoa(want.ValidCells) {
			p.errorf("line %d: valid_cells: expected %d, got %s", row.lineNum, want.ValidCells, got)
		}
		if got := row.fields["risk_category"]; got != want.Category {
			p.errorf("line %d: risk_category: expected %q, got %q", row.lineNum, want.Category, got)
		}
	}

	for i, want := range snap.Ranking.NoData {
		row := rows[len(snap.Ranking.Ranked)+i]
		if row.fields["ubigeo"] != want.DistrictID {
			p.errorf("line %d: no-data ubigeo: expected %q, got %q", row.lineNum, want.DistrictID, row.fields["ubigeo"])
		}
		if row.fields["tmin_min"] != "" || row.fields["tmin_mean"] != "" {
			p.errorf("line %d: no-data district carries statistics", row.lineNum)
		}
		if row.fields["risk_category"] != "no_data" {
			p.errorf("line %d: no-data district category is %q", row.lineNum, row.fields["risk_category"])
		}
	}
	return p
}

// validateRanking checks a ranking file against the recomputed ordering.
func validateRanking(name string, rows []csvRow, want []domain.RankedDistrict) *phase {
	p := &phase{name: fmt.Sprintf("Phase 2: Ranking (%s)", name)}

	if len(rows) != len(want) {
		p.errorf("row count: expected %d, got %d", len(want), len(rows))
		return p
	}
	for i, w := range want {
		row := rows[i]
		if row.fields["ubigeo"] != w.DistrictID {
			p.errorf("line %d: position %d: expected %q, got %q", row.lineNum, i+1, w.DistrictID, row.fields["ubigeo"])
		}
	}
	return p
}

// validateConsistency checks internal invariants of the exported table:
// minimum never exceeds mean, ranked rows are ordered coldest first, and
// no-data rows come last.
func validateConsistency(rows []csvRow) *phase {
	p := &phase{name: "Phase 3: Table Consistency (invariants)"}

	prevMin := 0.0
	havePrev := false
	seenNoData := false
	for _, row := range rows {
		if row.fields["tmin_min"] == "" {
			seenNoData = true
			continue
		}
		if seenNoData {
			p.errorf("line %d: ranked row after no-data rows", row.lineNum)
		}

		tmin, err := strconv.ParseFloat(row.fields["tmin_min"], 64)
		if err != nil {
			p.errorf("line %d: unparseable tmin_min %q", row.lineNum, row.fields["tmin_min"])
			continue
		}
		mean, err := strconv.ParseFloat(row.fields["tmin_mean"], 64)
		if err != nil {
			p.errorf("line %d: unparseable tmin_mean %q", row.lineNum, row.fields["tmin_mean"])
			continue
		}
		if tmin > mean {
			p.errorf("line %d: tmin_min %g exceeds tmin_mean %g", row.lineNum, tmin, mean)
		}
		if havePrev && tmin < prevMin {
			p.errorf("line %d: tmin_min %g out of order (previous %g)", row.lineNum, tmin, prevMin)
		}
		prevMin, havePrev = tmin, true
	}
	return p
}

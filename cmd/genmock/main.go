// Command genmock generates a synthetic Tmin raster and district shapefile
// for local development and for exercising the full pipeline without the
// real SENAMHI and INEI datasets. The raster carries a north-south gradient
// with a cold mountain band and nodata holes; districts tile the grid so
// every feature overlaps a known set of cells.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"

	"github.com/andeanclimate/tmin-zonal/internal/adapter/netcdf"
	"github.com/andeanclimate/tmin-zonal/internal/domain"
)

const proj4 = "+proj=longlat +datum=WGS84 +no_defs"

// wgs84WKT is the .prj content matching proj4 above.
const wgs84WKT = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// Grid extent: roughly the bounding box of Peru at quarter-degree cells.
const (
	gridX0     = -81.5
	gridY0     = -18.5
	cellSize   = 0.25
	gridWidth  = 52
	gridHeight = 74
	nodata     = -9999.0
)

// districtRow is the shapefile archetype: one polygon plus the attribute
// columns the loader expects.
type districtRow struct {
	geom.Polygon
	UBIGEO     string
	NOMBDIST   string
	DEPARTAMEN string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data", "output directory for generated fixtures")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	rasterPath := filepath.Join(*outDir, "tmin.nc")
	grid, err := buildRaster()
	if err != nil {
		return err
	}
	if err := netcdf.WriteRaster(rasterPath, "tmin", grid); err != nil {
		return fmt.Errorf("write raster: %w", err)
	}
	log.Printf("wrote raster: %s (%dx%d cells)", rasterPath, grid.Width, grid.Height)

	shpPath := filepath.Join(*outDir, "districts.shp")
	count, err := writeDistricts(shpPath)
	if err != nil {
		return fmt.Errorf("write districts: %w", err)
	}
	log.Printf("wrote districts: %s (%d features)", shpPath, count)
	return nil
}

// buildRaster synthesizes a plausible July Tmin field: warm in the north,
// freezing in the south, with a cold band along the Andes and nodata over
// the Pacific margin.
func buildRaster() (*domain.RasterGrid, error) {
	grid, err := domain.NewRasterGrid(gridWidth, gridHeight, gridX0, gridY0, cellSize, cellSize, nodata, proj4)
	if err != nil {
		return nil, err
	}

	for row := 0; row < gridHeight; row++ {
		for col := 0; col < gridWidth; col++ {
			c := grid.CellCenter(row, col)

			// The south-west corner approximates open ocean.
			if c.X < -79.5 && c.Y < -6.0 {
				grid.SetValue(nodata, row, col)
				continue
			}

			// Warmer toward the equator, a cold trough along ~73W.
			latitudinal := 24.0 + 1.6*c.Y
			andes := -22.0 * math.Exp(-((c.X+73.0)*(c.X+73.0))/4.5)
			ripple := 1.5 * math.Sin(3.0*c.X) * math.Cos(2.0*c.Y)
			grid.SetValue(latitudinal+andes+ripple, row, col)
		}
	}
	return grid, nil
}

// writeDistricts tiles the grid extent with 2x2 degree square districts,
// five departments of five districts each along the diagonal band that
// stays inside the raster.
func writeDistricts(path string) (int, error) {
	enc, err := shp.NewEncoder(path, districtRow{})
	if err != nil {
		return 0, err
	}

	count := 0
	for dept := 1; dept <= 5; dept++ {
		for dist := 1; dist <= 5; dist++ {
			x0 := gridX0 + 1.0 + 2.0*float64(dist-1)
			y0 := gridY0 + 1.0 + 3.2*float64(dept-1)
			row := districtRow{
				Polygon: geom.Polygon{{
					{X: x0, Y: y0},
					{X: x0 + 2, Y: y0},
					{X: x0 + 2, Y: y0 + 2},
					{X: x0, Y: y0 + 2},
					{X: x0, Y: y0},
				}},
				UBIGEO:     fmt.Sprintf("%02d01%02d", dept, dist),
				NOMBDIST:   fmt.Sprintf("Distrito %02d-%02d", dept, dist),
				DEPARTAMEN: fmt.Sprintf("Departamento %02d", dept),
			}
			if err := enc.Encode(row); err != nil {
				return 0, err
			}
			count++
		}
	}
	enc.Close()

	prjPath := path[:len(path)-len(".shp")] + ".prj"
	if err := os.WriteFile(prjPath, []byte(wgs84WKT), 0o644); err != nil {
		return 0, err
	}
	return count, nil
}

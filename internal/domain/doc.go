// Package domain models minimum-temperature (Tmin) zonal statistics for the
// administrative districts of Peru.
//
// # Data Sources
//
// District boundaries come from the INEI district shapefile. Each feature
// carries a six-digit "ubigeo" code (the INEI geographic identifier), a
// district name, and a department name. Ubigeo structure:
//
//	DDPPII → DD = department, PP = province, II = district.
//	e.g. "080901" = Cusco department, Quispicanchi province, Ccatca district.
//
// The Tmin raster is a single-band COARDS-style NetCDF grid of annual
// minimum temperature in degrees Celsius. Georeferencing is carried in
// global attributes:
//
//	x0, y0   coordinates of the grid's minimum corner
//	dx, dy   cell size (both positive; row index increases with y)
//	nodata   sentinel value for cells with no valid measurement
//	proj4    PROJ.4 string naming the grid's coordinate reference system
//
// # Zonal Aggregation
//
// For each district polygon, [Aggregate] visits the raster cells inside the
// polygon's bounding window in row-major order and reduces the non-nodata
// values to (min, mean, valid cell count). The fixed traversal order makes
// the floating-point reduction reproducible: identical inputs always yield
// a bit-identical [ZonalResult].
//
// A district overlapping zero valid cells is not an error. Its result has
// ValidCells = 0 and nil Min/Mean; nil is the only "undefined" marker, a
// numeric placeholder (0, NaN, nodata) is never substituted.
//
// # Risk Classification
//
// Districts are classified by their minimum value against an ordered band
// table. Bands are inclusive on the colder side: with the default table
// extreme:0, high:4, moderate:10, low this reads
//
//	v ≤ 0        extreme
//	0 < v ≤ 4    high
//	4 < v ≤ 10   moderate
//	v > 10       low
//
// The bounds follow the cold-exposure buckets used in Peru's friaje
// analyses. The table is configuration and is validated once at load time
// by [NewThresholds]; a malformed table can never misclassify silently.
package domain

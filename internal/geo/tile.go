package geo

import (
	"errors"
	"math"
)

var (
	// ErrLatitudeRange marks a record whose latitude is outside [-90, 90].
	ErrLatitudeRange = errors.New("latitude outside [-90, 90]")
	// ErrLongitudeRange marks a record whose longitude is outside [-180, 180].
	ErrLongitudeRange = errors.New("longitude outside [-180, 180]")
)

// TileCoord converts a position to integer slippy-map tile coordinates at the
// given zoom, n = 2^zoom tiles per axis:
//
//	x = floor((lon + 180) / 360 * n)
//	y = floor((1 - asinh(tan(lat)) / pi) / 2 * n)
//
// Out-of-range or non-finite coordinates are rejected rather than bucketed
// into a wrong tile. lon = 180 and the Mercator singularity at the poles land
// one step past the grid edge and are clamped to the last tile.
func TileCoord(lat, lon float64, zoom int) (x, y int, err error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return 0, 0, ErrLatitudeRange
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return 0, 0, ErrLongitudeRange
	}

	n := math.Exp2(float64(zoom))
	latRad := lat * math.Pi / 180

	x = int(math.Floor((lon + 180) / 360 * n))
	y = int(math.Floor((1 - math.Asinh(math.Tan(latRad))/math.Pi) / 2 * n))

	max := int(n) - 1
	if x > max {
		x = max
	}
	if x < 0 {
		x = 0
	}
	if y > max {
		y = max
	}
	if y < 0 {
		y = 0
	}
	return x, y, nil
}

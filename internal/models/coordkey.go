package models

import "fmt"

// CoordinateKey renders a position rounded to 4 decimal places (~11 m at the
// equator) as "lat,lon". It is the sole deduplication and edge-lookup
// boundary: two devices within that radius collapse to the same key and are
// treated as the same record.
func CoordinateKey(lat, lon float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lon)
}

package geo

import (
	"fmt"
	"math"
)

// OtherUS is the fallback label for in-bounds positions matching no state box.
const OtherUS = "Other US"

// US bounding box used to restrict state-level aggregation.
const (
	USLatMin = 24.0
	USLatMax = 49.0
	USLonMin = -125.0
	USLonMax = -66.0
)

type stateBox struct {
	Name                           string
	LatMin, LatMax, LonMin, LonMax float64
}

// Rough per-state bounding boxes, evaluated in this order with first match
// winning. Several boxes overlap (Pennsylvania/Ohio/New York among others),
// so a device near a border can classify into the earlier state. That is a
// known accuracy limitation kept for output stability; do not reorder.
var stateBoxes = []stateBox{
	{"California", 32.5, 42.0, -124.5, -114.1},
	{"Texas", 25.8, 36.5, -106.6, -93.5},
	{"Florida", 24.5, 31.0, -87.6, -80.0},
	{"New York", 40.5, 45.0, -79.8, -71.9},
	{"Pennsylvania", 39.7, 42.3, -80.5, -74.7},
	{"Illinois", 37.0, 42.5, -91.5, -87.5},
	{"Ohio", 38.4, 42.3, -84.8, -80.5},
	{"Georgia", 30.4, 35.0, -85.6, -81.0},
	{"North Carolina", 34.0, 36.6, -84.3, -75.5},
	{"Michigan", 41.7, 48.3, -90.4, -82.4},
}

func (b stateBox) contains(lat, lon float64) bool {
	return b.LatMin <= lat && lat <= b.LatMax && b.LonMin <= lon && lon <= b.LonMax
}

// StateOf returns the approximate US state for a position, or OtherUS when no
// box matches.
func StateOf(lat, lon float64) string {
	for _, box := range stateBoxes {
		if box.contains(lat, lon) {
			return box.Name
		}
	}
	return OtherUS
}

// InUSBounds reports whether a position falls inside the continental-US
// bounding box that gates state-level aggregation.
func InUSBounds(lat, lon float64) bool {
	return USLatMin <= lat && lat <= USLatMax && USLonMin <= lon && lon <= USLonMax
}

// GridCell buckets a position into a 1-degree grid and returns the cell key
// "floor(lat),floor(lon)".
func GridCell(lat, lon float64) string {
	return fmt.Sprintf("%d,%d", int(math.Floor(lat)), int(math.Floor(lon)))
}

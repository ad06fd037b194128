package models

// RegionAggregate accumulates per-region rendering statistics: total device
// count, the count per device category, and running coordinate sums for the
// centroid. Label is a state name or a 1-degree grid cell key.
type RegionAggregate struct {
	Label  string
	Total  int
	Flock  int
	ALPR   int
	Other  int
	LatSum float64
	LonSum float64
}

// Centroid is the arithmetic mean of the contributing coordinates. Only
// defined when Total > 0; zero-count aggregates are never rendered.
func (a *RegionAggregate) Centroid() (lon, lat float64) {
	return a.LonSum / float64(a.Total), a.LatSum / float64(a.Total)
}

// Merge folds another partial aggregate for the same region into a. Counts
// and coordinate sums add, so sharded accumulation commutes with sequential
// accumulation.
func (a *RegionAggregate) Merge(b *RegionAggregate) {
	a.Total += b.Total
	a.Flock += b.Flock
	a.ALPR += b.ALPR
	a.Other += b.Other
	a.LatSum += b.LatSum
	a.LonSum += b.LonSum
}

// RenderFeature renders the aggregate as a GeoJSON point feature at its
// centroid. labelKey is the property name carrying the region label ("state"
// or "grid"); zoomLevel tags which rendering band the aggregate serves.
func (a *RegionAggregate) RenderFeature(labelKey, zoomLevel string) Feature {
	lon, lat := a.Centroid()
	return NewPointFeature(lon, lat, map[string]interface{}{
		labelKey:     a.Label,
		"total":      a.Total,
		"flock":      a.Flock,
		"alpr":       a.ALPR,
		"other":      a.Other,
		"zoom_level": zoomLevel,
	})
}

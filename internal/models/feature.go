package models

// Geometry is a GeoJSON geometry. Only Point geometries carry meaning in this
// pipeline; coordinates are [lon, lat] per the GeoJSON spec.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Feature is a single camera record. Properties are free-form upstream tags
// (manufacturer, brand, surveillance:type, ...) and are passed through
// untouched by every pass.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

func NewFeatureCollection(features []Feature) *FeatureCollection {
	return &FeatureCollection{Type: "FeatureCollection", Features: features}
}

// NewPointFeature builds a point feature at (lon, lat) with the given
// property bag.
func NewPointFeature(lon, lat float64, properties map[string]interface{}) Feature {
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: []float64{lon, lat},
		},
		Properties: properties,
	}
}

// LonLat returns the feature's coordinates. ok is false when the geometry is
// not a well-formed point; callers skip such records and count them.
func (f Feature) LonLat() (lon, lat float64, ok bool) {
	if f.Geometry.Type != "Point" || len(f.Geometry.Coordinates) < 2 {
		return 0, 0, false
	}
	return f.Geometry.Coordinates[0], f.Geometry.Coordinates[1], true
}

// NetworkEdge is an inferred link between two camera locations. Upstream
// attaches arbitrary metadata alongside from/to, so the edge is kept as a raw
// object to round-trip unknown keys exactly.
type NetworkEdge map[string]interface{}

// FromLonLat returns the edge's from endpoint. ok is false when the endpoint
// is missing or malformed.
func (e NetworkEdge) FromLonLat() (lon, lat float64, ok bool) {
	return e.endpoint("from")
}

// ToLonLat returns the edge's to endpoint.
func (e NetworkEdge) ToLonLat() (lon, lat float64, ok bool) {
	return e.endpoint("to")
}

func (e NetworkEdge) endpoint(key string) (lon, lat float64, ok bool) {
	raw, present := e[key]
	if !present {
		return 0, 0, false
	}
	pair, isSlice := raw.([]interface{})
	if !isSlice || len(pair) < 2 {
		// already-typed edges built in code
		if typed, isFloats := raw.([]float64); isFloats && len(typed) >= 2 {
			return typed[0], typed[1], true
		}
		return 0, 0, false
	}
	lon, lonOK := pair[0].(float64)
	lat, latOK := pair[1].(float64)
	if !lonOK || !latOK {
		return 0, 0, false
	}
	return lon, lat, true
}

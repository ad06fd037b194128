package models

import (
	"encoding/json"
	"testing"
)

func TestCoordinateKey(t *testing.T) {
	tests := []struct {
		lat, lon float64
		key      string
	}{
		{40.7128, -74.0060, "40.7128,-74.0060"},
		{40.0, -75.0, "40.0000,-75.0000"},
		{40.00001, -75.00004, "40.0000,-75.0000"},
		{-33.8688, 151.2093, "-33.8688,151.2093"},
		{0, 0, "0.0000,0.0000"},
	}

	for _, tt := range tests {
		if got := CoordinateKey(tt.lat, tt.lon); got != tt.key {
			t.Errorf("CoordinateKey(%v, %v): expected %q, got %q", tt.lat, tt.lon, tt.key, got)
		}
	}
}

func TestCoordinateKeyCollision(t *testing.T) {
	// positions within ~11m collapse to the same key, the dedup boundary
	a := CoordinateKey(40.0000, -75.0000)
	b := CoordinateKey(40.00001, -75.00004)
	if a != b {
		t.Errorf("expected near-identical positions to share a key, got %q vs %q", a, b)
	}

	c := CoordinateKey(40.0001, -75.0000)
	if a == c {
		t.Errorf("expected distinct 4-decimal positions to get distinct keys, both %q", a)
	}
}

func TestFeatureLonLat(t *testing.T) {
	feature := NewPointFeature(-74.0060, 40.7128, nil)
	lon, lat, ok := feature.LonLat()
	if !ok || lon != -74.0060 || lat != 40.7128 {
		t.Errorf("expected (-74.0060, 40.7128, true), got (%v, %v, %v)", lon, lat, ok)
	}

	if _, _, ok := (Feature{}).LonLat(); ok {
		t.Error("expected empty feature to report no coordinates")
	}

	linestring := Feature{Geometry: Geometry{Type: "LineString", Coordinates: []float64{1, 2}}}
	if _, _, ok := linestring.LonLat(); ok {
		t.Error("expected non-point geometry to report no coordinates")
	}
}

func TestNetworkEdgeRoundTripsMetadata(t *testing.T) {
	raw := `{"from":[-74.0060,40.7128],"to":[-73.9900,40.7500],"strength":0.8,"kind":"inferred"}`
	var edge NetworkEdge
	if err := json.Unmarshal([]byte(raw), &edge); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lon, lat, ok := edge.FromLonLat()
	if !ok || lon != -74.0060 || lat != 40.7128 {
		t.Errorf("expected from endpoint (-74.0060, 40.7128), got (%v, %v, %v)", lon, lat, ok)
	}
	lon, lat, ok = edge.ToLonLat()
	if !ok || lon != -73.9900 || lat != 40.7500 {
		t.Errorf("expected to endpoint (-73.9900, 40.7500), got (%v, %v, %v)", lon, lat, ok)
	}

	if edge["kind"] != "inferred" {
		t.Errorf("expected metadata to survive decoding, got %v", edge["kind"])
	}

	out, err := json.Marshal(edge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded["strength"] != 0.8 || decoded["kind"] != "inferred" {
		t.Errorf("expected metadata to round-trip, got %v", decoded)
	}
}

func TestNetworkEdgeMalformedEndpoints(t *testing.T) {
	edges := []NetworkEdge{
		{},
		{"from": "nope"},
		{"from": []interface{}{-74.0}},
		{"from": []interface{}{"a", "b"}},
	}
	for i, edge := range edges {
		if _, _, ok := edge.FromLonLat(); ok {
			t.Errorf("edge %d: expected malformed endpoint to report not ok", i)
		}
	}

	typed := NetworkEdge{"from": []float64{-74.0060, 40.7128}}
	if _, _, ok := typed.FromLonLat(); !ok {
		t.Error("expected in-code typed endpoint to resolve")
	}
}

func TestRegionAggregate(t *testing.T) {
	a := &RegionAggregate{Label: "Texas", Total: 2, Flock: 1, Other: 1, LatSum: 60.0, LonSum: -190.0}
	lon, lat := a.Centroid()
	if lon != -95.0 || lat != 30.0 {
		t.Errorf("expected centroid (-95, 30), got (%v, %v)", lon, lat)
	}

	b := &RegionAggregate{Label: "Texas", Total: 1, ALPR: 1, LatSum: 31.0, LonSum: -96.0}
	a.Merge(b)
	if a.Total != 3 || a.Flock != 1 || a.ALPR != 1 || a.Other != 1 {
		t.Errorf("unexpected merged counts: %+v", a)
	}

	feature := a.RenderFeature("state", "state")
	if feature.Properties["state"] != "Texas" || feature.Properties["total"] != 3 {
		t.Errorf("unexpected rendered properties: %v", feature.Properties)
	}
	if feature.Properties["zoom_level"] != "state" {
		t.Errorf("expected zoom_level state, got %v", feature.Properties["zoom_level"])
	}
}

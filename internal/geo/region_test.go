package geo

import "testing"

func TestStateOfKnownCities(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		state    string
	}{
		{"san francisco", 37.7749, -122.4194, "California"},
		{"houston", 29.7604, -95.3698, "Texas"},
		{"miami", 25.7617, -80.1918, "Florida"},
		{"new york city", 40.7128, -74.0060, "New York"},
		{"chicago", 41.8781, -87.6298, "Illinois"},
		{"atlanta", 33.7490, -84.3880, "Georgia"},
		{"charlotte", 35.2271, -80.8431, "North Carolina"},
		{"detroit", 42.3314, -83.0458, "Michigan"},
		{"denver unmapped", 39.7392, -104.9903, OtherUS},
		{"seattle unmapped", 47.6062, -122.3321, OtherUS},
	}

	for _, tt := range tests {
		if got := StateOf(tt.lat, tt.lon); got != tt.state {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.state, got)
		}
	}
}

func TestStateOfOverlapFirstMatchWins(t *testing.T) {
	// (41.0, -79.0) is inside both the New York and Pennsylvania boxes. New
	// York is listed first and must win; this tie-break is documented
	// behavior, not an accident.
	if got := StateOf(41.0, -79.0); got != "New York" {
		t.Errorf("expected overlapping point to classify as New York, got %q", got)
	}

	// (42.0, -80.5) is on the shared Pennsylvania/Ohio box edge; Pennsylvania
	// is listed first and must win.
	if got := StateOf(42.0, -80.5); got != "Pennsylvania" {
		t.Errorf("expected shared-edge point to classify as Pennsylvania, got %q", got)
	}
}

func TestStateOfBoundaryInclusive(t *testing.T) {
	// box edges are inclusive on both sides
	if got := StateOf(32.5, -114.1); got != "California" {
		t.Errorf("expected inclusive corner to match California, got %q", got)
	}
}

func TestInUSBounds(t *testing.T) {
	if !InUSBounds(40.7128, -74.0060) {
		t.Error("expected New York to be in US bounds")
	}
	if InUSBounds(51.5074, -0.1278) {
		t.Error("expected London to be out of US bounds")
	}
	if InUSBounds(19.8968, -155.5828) {
		t.Error("expected Hawaii to be outside the continental bounding box")
	}
	if !InUSBounds(24.0, -125.0) {
		t.Error("expected bounding box corner to be inclusive")
	}
}

func TestGridCell(t *testing.T) {
	tests := []struct {
		lat, lon float64
		key      string
	}{
		{40.7128, -74.0060, "40,-75"},
		{40.0, -74.0, "40,-74"},
		{-33.8688, 151.2093, "-34,151"},
		{0.5, -0.5, "0,-1"},
		{-0.5, 0.5, "-1,0"},
	}

	for _, tt := range tests {
		if got := GridCell(tt.lat, tt.lon); got != tt.key {
			t.Errorf("GridCell(%v, %v): expected %q, got %q", tt.lat, tt.lon, tt.key, got)
		}
	}
}

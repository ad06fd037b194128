package pipeline

import (
	"testing"

	"github.com/ringmast4r/camtiles/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func nodeAt(lat, lon float64, tags map[string]interface{}) OSMElement {
	return OSMElement{Type: "node", Lat: floatPtr(lat), Lon: floatPtr(lon), Tags: tags}
}

func TestNormalizeOSM(t *testing.T) {
	elements := []OSMElement{
		nodeAt(40.7128, -74.0060, map[string]interface{}{"surveillance:type": "ALPR"}),
		{Type: "way", Tags: map[string]interface{}{}},                // not a point entity
		{Type: "node", Lat: floatPtr(40.0)},                          // missing lon
		{Type: "node", Lon: floatPtr(-74.0)},                         // missing lat
		nodeAt(51.5074, -0.1278, nil),                                // nil tags become empty bag
	}

	features, skipped := NormalizeOSM(elements)
	if len(features) != 2 || skipped != 3 {
		t.Fatalf("expected 2 features and 3 skipped, got %d and %d", len(features), skipped)
	}

	lon, lat, ok := features[0].LonLat()
	if !ok || lon != -74.0060 || lat != 40.7128 {
		t.Errorf("unexpected first feature coordinates: (%v, %v, %v)", lon, lat, ok)
	}
	if features[0].Properties["surveillance:type"] != "ALPR" {
		t.Errorf("expected tags to become properties, got %v", features[0].Properties)
	}
	if features[1].Properties == nil {
		t.Error("expected nil tags to normalize to an empty property bag")
	}
}

func TestMergeDisjointRoundTrip(t *testing.T) {
	canonical := models.NewFeatureCollection([]models.Feature{
		pointAt(40.0, -75.0, map[string]interface{}{"manufacturer": "Flock Safety"}),
		pointAt(41.0, -76.0, nil),
	})
	sources := []OSMSource{{
		Region: "europe",
		Elements: []OSMElement{
			nodeAt(51.5074, -0.1278, nil),
			nodeAt(48.8566, 2.3522, nil),
		},
	}}

	merged, stats := Merge(canonical, sources)

	if len(merged.Features) != 4 {
		t.Fatalf("expected 4 merged features, got %d", len(merged.Features))
	}
	if stats.Existing != 2 || stats.New != 2 || stats.Duplicates != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	// append-only: canonical order preserved, new features follow
	lon, lat, _ := merged.Features[0].LonLat()
	if lat != 40.0 || lon != -75.0 {
		t.Errorf("expected canonical features to stay first, got (%v, %v)", lon, lat)
	}
	lon, _, _ = merged.Features[2].LonLat()
	if lon != -0.1278 {
		t.Errorf("expected accepted features in encounter order, got lon %v", lon)
	}
}

func TestMergeDeduplicatesByCoordinateKey(t *testing.T) {
	canonical := models.NewFeatureCollection([]models.Feature{
		pointAt(40.0000, -75.0000, nil),
	})
	// rounds to the same 4-decimal key as the canonical camera
	sources := []OSMSource{{
		Region:   "us",
		Elements: []OSMElement{nodeAt(40.00001, -75.00004, nil)},
	}}

	merged, stats := Merge(canonical, sources)

	if len(merged.Features) != 1 {
		t.Fatalf("expected the near-duplicate to be dropped, got %d features", len(merged.Features))
	}
	if stats.New != 0 || stats.Duplicates != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestMergeIdempotent(t *testing.T) {
	canonical := models.NewFeatureCollection([]models.Feature{pointAt(40.0, -75.0, nil)})
	sources := []OSMSource{{
		Region: "europe",
		Elements: []OSMElement{
			nodeAt(51.5074, -0.1278, nil),
			nodeAt(48.8566, 2.3522, nil),
			{Type: "way"},
		},
	}}

	first, firstStats := Merge(canonical, sources)
	if firstStats.New != 2 {
		t.Fatalf("expected 2 new features on first merge, got %+v", firstStats)
	}

	second, secondStats := Merge(first, sources)
	if len(second.Features) != len(first.Features) {
		t.Errorf("expected second merge to add nothing, got %d -> %d features",
			len(first.Features), len(second.Features))
	}
	if secondStats.New != 0 {
		t.Errorf("expected no new features on second merge, got %+v", secondStats)
	}
	// duplicateCount equals the full normalizable count of the source
	if secondStats.Duplicates != 2 {
		t.Errorf("expected 2 duplicates on second merge, got %+v", secondStats)
	}
}

func TestMergeKeySetGrowsAcrossSources(t *testing.T) {
	canonical := models.NewFeatureCollection(nil)
	sources := []OSMSource{
		{Region: "first", Elements: []OSMElement{nodeAt(10.0, 20.0, nil)}},
		{Region: "second", Elements: []OSMElement{nodeAt(10.0, 20.0, nil)}},
	}

	merged, stats := Merge(canonical, sources)

	if len(merged.Features) != 1 {
		t.Fatalf("expected 1 merged feature, got %d", len(merged.Features))
	}
	if stats.Sources[0].New != 1 || stats.Sources[0].Duplicates != 0 {
		t.Errorf("unexpected first source stats: %+v", stats.Sources[0])
	}
	// later sources see earlier sources' insertions
	if stats.Sources[1].New != 0 || stats.Sources[1].Duplicates != 1 {
		t.Errorf("unexpected second source stats: %+v", stats.Sources[1])
	}
}

func TestMergeIntraSourceDuplicates(t *testing.T) {
	canonical := models.NewFeatureCollection(nil)
	sources := []OSMSource{{
		Region: "us",
		Elements: []OSMElement{
			nodeAt(40.0, -75.0, nil),
			nodeAt(40.0, -75.0, nil),
		},
	}}

	merged, stats := Merge(canonical, sources)
	if len(merged.Features) != 1 || stats.New != 1 || stats.Duplicates != 1 {
		t.Errorf("expected intra-source duplicate to collapse, got %d features, %+v", len(merged.Features), stats)
	}
}

func TestRegionFromFilename(t *testing.T) {
	tests := []struct {
		path   string
		region string
	}{
		{"data/raw_osm_global/osm_surveillance_europe_west.json", "europe"},
		{"osm_surveillance_asia.json", "asia"},
		{"osm_surveillance_north_america.json", "north"},
	}
	for _, tt := range tests {
		if got := RegionFromFilename(tt.path); got != tt.region {
			t.Errorf("%s: expected %q, got %q", tt.path, tt.region, got)
		}
	}
}

package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadFeatureCollection(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cameras.geojson", `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-74.006, 40.7128]},
			 "properties": {"manufacturer": "Flock Safety"}}
		]
	}`)

	collection, err := LoadFeatureCollection(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(collection.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(collection.Features))
	}
	lon, lat, ok := collection.Features[0].LonLat()
	if !ok || lon != -74.006 || lat != 40.7128 {
		t.Errorf("unexpected coordinates: (%v, %v, %v)", lon, lat, ok)
	}
}

func TestLoadFeatureCollectionErrors(t *testing.T) {
	if _, err := LoadFeatureCollection(filepath.Join(t.TempDir(), "missing.geojson")); err == nil {
		t.Error("expected an error for a missing file")
	}

	path := writeFile(t, t.TempDir(), "broken.geojson", `{"type": "FeatureCollection", "features": [`)
	if _, err := LoadFeatureCollection(path); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestLoadNetworkEdges(t *testing.T) {
	path := writeFile(t, t.TempDir(), "networks.json", `[
		{"from": [-74.006, 40.7128], "to": [-73.99, 40.75], "strength": 0.8}
	]`)

	edges, err := LoadNetworkEdges(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if _, _, ok := edges[0].FromLonLat(); !ok {
		t.Error("expected from endpoint to resolve")
	}
}

func TestLoadOSMSourcesOrderedByFilename(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "osm_surveillance_europe.json", `{"elements": [{"type": "node", "id": 1, "lat": 51.5, "lon": -0.1, "tags": {}}]}`)
	writeFile(t, dir, "osm_surveillance_asia.json", `{"elements": [{"type": "node", "id": 2, "lat": 35.6, "lon": 139.7, "tags": {}}]}`)
	writeFile(t, dir, "unrelated.json", `{}`)

	sources, err := LoadOSMSources(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Region != "asia" || sources[1].Region != "europe" {
		t.Errorf("expected filename order [asia europe], got [%s %s]", sources[0].Region, sources[1].Region)
	}
	if len(sources[0].Elements) != 1 || sources[0].Elements[0].Lat == nil {
		t.Errorf("unexpected elements: %+v", sources[0].Elements)
	}
}

package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ringmast4r/camtiles/internal/models"
)

// LoadFeatureCollection reads the canonical camera dataset. A read or decode
// failure is fatal to the run.
func LoadFeatureCollection(path string) (*models.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read camera dataset %s: %w", path, err)
	}
	var collection models.FeatureCollection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("failed to decode camera dataset %s: %w", path, err)
	}
	return &collection, nil
}

// LoadNetworkEdges reads the inferred camera network list.
func LoadNetworkEdges(path string) ([]models.NetworkEdge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read network data %s: %w", path, err)
	}
	var edges []models.NetworkEdge
	if err := json.Unmarshal(data, &edges); err != nil {
		return nil, fmt.Errorf("failed to decode network data %s: %w", path, err)
	}
	return edges, nil
}

// LoadOSMSources reads every osm_surveillance_*.json extract under dir in
// filename order, so merge statistics attribute deterministically across
// runs.
func LoadOSMSources(dir string) ([]OSMSource, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "osm_surveillance_*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list OSM extracts in %s: %w", dir, err)
	}
	sort.Strings(matches)

	sources := make([]OSMSource, 0, len(matches))
	for _, path := range matches {
		source, err := LoadOSMFile(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, nil
}

// LoadOSMFile reads a single OSM extract, attributing its stats to the region
// derived from the filename.
func LoadOSMFile(path string) (OSMSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return OSMSource{}, fmt.Errorf("failed to read OSM extract %s: %w", path, err)
	}
	var payload struct {
		Elements []OSMElement `json:"elements"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return OSMSource{}, fmt.Errorf("failed to decode OSM extract %s: %w", path, err)
	}
	return OSMSource{
		Region:   RegionFromFilename(path),
		Elements: payload.Elements,
	}, nil
}

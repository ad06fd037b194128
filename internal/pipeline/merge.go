package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/ringmast4r/camtiles/internal/models"
)

// OSMElement is one entry of a raw OSM extract. Lat/Lon are pointers so a
// missing coordinate is distinguishable from zero.
type OSMElement struct {
	Type string                 `json:"type"`
	ID   int64                  `json:"id"`
	Lat  *float64               `json:"lat"`
	Lon  *float64               `json:"lon"`
	Tags map[string]interface{} `json:"tags"`
}

// OSMSource is one regional extract queued for merging.
type OSMSource struct {
	Region   string
	Elements []OSMElement
}

// SourceStats is the per-source merge attribution the report prints.
type SourceStats struct {
	Region     string `json:"region"`
	Raw        int    `json:"raw"`
	New        int    `json:"new"`
	Duplicates int    `json:"duplicates"`
}

// MergeStats reconciles a merge run: Existing + New is the merged size;
// every normalizable element of every source is either New or a Duplicate;
// SkippedElements counts non-node and coordinate-less entries.
type MergeStats struct {
	Existing        int
	New             int
	Duplicates      int
	SkippedElements int
	Sources         []SourceStats
}

// NormalizeOSM converts raw OSM elements to canonical point features. Only
// node elements carrying both coordinates qualify; everything else (ways,
// relations, truncated nodes) is skipped and counted, not an error.
func NormalizeOSM(elements []OSMElement) (features []models.Feature, skipped int) {
	for _, element := range elements {
		if element.Type != "node" || element.Lat == nil || element.Lon == nil {
			skipped++
			continue
		}
		tags := element.Tags
		if tags == nil {
			tags = map[string]interface{}{}
		}
		features = append(features, models.NewPointFeature(*element.Lon, *element.Lat, tags))
	}
	return features, skipped
}

// Merge folds external OSM sources into the canonical dataset, deduplicating
// on CoordinateKey. The key set is seeded from the canonical features and
// grows monotonically, so later sources see earlier sources' insertions.
// Output is append-only: canonical order is preserved and accepted features
// follow in encounter order.
func Merge(canonical *models.FeatureCollection, sources []OSMSource) (*models.FeatureCollection, MergeStats) {
	stats := MergeStats{Existing: len(canonical.Features)}

	seen := make(map[string]struct{}, len(canonical.Features))
	for _, feature := range canonical.Features {
		if lon, lat, ok := feature.LonLat(); ok {
			seen[models.CoordinateKey(lat, lon)] = struct{}{}
		}
	}

	merged := make([]models.Feature, len(canonical.Features), len(canonical.Features)+256)
	copy(merged, canonical.Features)

	for _, source := range sources {
		features, skipped := NormalizeOSM(source.Elements)
		stats.SkippedElements += skipped

		sourceStats := SourceStats{Region: source.Region, Raw: len(features)}
		for _, feature := range features {
			lon, lat, _ := feature.LonLat()
			key := models.CoordinateKey(lat, lon)
			if _, dup := seen[key]; dup {
				sourceStats.Duplicates++
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, feature)
			sourceStats.New++
		}
		stats.New += sourceStats.New
		stats.Duplicates += sourceStats.Duplicates
		stats.Sources = append(stats.Sources, sourceStats)
	}

	return models.NewFeatureCollection(merged), stats
}

// RegionFromFilename derives the stats-attribution region from an OSM extract
// filename, e.g. "osm_surveillance_europe_west.json" -> "europe".
func RegionFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.TrimPrefix(stem, "osm_surveillance_")
	if i := strings.Index(stem, "_"); i >= 0 {
		stem = stem[:i]
	}
	return stem
}

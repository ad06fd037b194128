package pipeline

import (
	"sort"

	"github.com/ringmast4r/camtiles/internal/geo"
	"github.com/ringmast4r/camtiles/internal/models"
)

// AggregateStats reconciles an aggregation run. Considered + OutOfBounds +
// Skipped equals the input feature count; the grid scheme never excludes
// in-range features, so its OutOfBounds is always zero.
type AggregateStats struct {
	Considered  int
	OutOfBounds int
	Skipped     int
}

// AggregateByState accumulates per-state statistics for features inside the
// continental-US bounding box. Features outside the box are excluded from the
// state view entirely; OtherUS only collects in-box features matching no
// state. Zero-count regions are never materialized.
func AggregateByState(features []models.Feature, workers int) (map[string]*models.RegionAggregate, AggregateStats) {
	return aggregate(features, workers, func(lat, lon float64) (string, bool) {
		if !geo.InUSBounds(lat, lon) {
			return "", false
		}
		return geo.StateOf(lat, lon), true
	})
}

// AggregateByGrid accumulates statistics per 1-degree grid cell over the full
// global dataset.
func AggregateByGrid(features []models.Feature, workers int) (map[string]*models.RegionAggregate, AggregateStats) {
	return aggregate(features, workers, func(lat, lon float64) (string, bool) {
		return geo.GridCell(lat, lon), true
	})
}

func aggregate(features []models.Feature, workers int, classify func(lat, lon float64) (string, bool)) (map[string]*models.RegionAggregate, AggregateStats) {
	if workers > len(features) {
		workers = len(features)
	}
	if workers < 1 {
		workers = 1
	}

	type partial struct {
		regions map[string]*models.RegionAggregate
		stats   AggregateStats
	}
	partials := make([]*partial, workers)
	done := make(chan struct{})

	chunk := (len(features) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(features) {
			hi = len(features)
		}
		go func(w, lo, hi int) {
			defer func() { done <- struct{}{} }()
			p := &partial{regions: make(map[string]*models.RegionAggregate)}
			for _, feature := range features[lo:hi] {
				lon, lat, ok := feature.LonLat()
				if !ok {
					p.stats.Skipped++
					continue
				}
				label, ok := classify(lat, lon)
				if !ok {
					p.stats.OutOfBounds++
					continue
				}
				region, ok := p.regions[label]
				if !ok {
					region = &models.RegionAggregate{Label: label}
					p.regions[label] = region
				}
				switch geo.CategoryOf(feature.Properties) {
				case geo.CategoryFlock:
					region.Flock++
				case geo.CategoryALPR:
					region.ALPR++
				default:
					region.Other++
				}
				region.Total++
				region.LatSum += lat
				region.LonSum += lon
				p.stats.Considered++
			}
			partials[w] = p
		}(w, lo, hi)
	}
	for w := 0; w < workers; w++ {
		<-done
	}

	regions := make(map[string]*models.RegionAggregate)
	stats := AggregateStats{}
	for _, p := range partials {
		stats.Considered += p.stats.Considered
		stats.OutOfBounds += p.stats.OutOfBounds
		stats.Skipped += p.stats.Skipped
		for label, region := range p.regions {
			merged, ok := regions[label]
			if !ok {
				regions[label] = region
				continue
			}
			merged.Merge(region)
		}
	}
	return regions, stats
}

// RenderAggregates renders a region map as a GeoJSON FeatureCollection of
// centroid point features, ordered by label for reproducible output.
func RenderAggregates(regions map[string]*models.RegionAggregate, labelKey, zoomLevel string) *models.FeatureCollection {
	labels := make([]string, 0, len(regions))
	for label := range regions {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	features := make([]models.Feature, 0, len(labels))
	for _, label := range labels {
		features = append(features, regions[label].RenderFeature(labelKey, zoomLevel))
	}
	return models.NewFeatureCollection(features)
}

// TopAggregates returns up to n aggregates ordered by descending total, for
// run reports.
func TopAggregates(regions map[string]*models.RegionAggregate, n int) []*models.RegionAggregate {
	ordered := make([]*models.RegionAggregate, 0, len(regions))
	for _, region := range regions {
		ordered = append(ordered, region)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Total != ordered[j].Total {
			return ordered[i].Total > ordered[j].Total
		}
		return ordered[i].Label < ordered[j].Label
	})
	if len(ordered) > n {
		ordered = ordered[:n]
	}
	return ordered
}

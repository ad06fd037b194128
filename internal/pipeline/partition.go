package pipeline

import (
	"fmt"

	"github.com/ringmast4r/camtiles/internal/geo"
	"github.com/ringmast4r/camtiles/internal/models"
)

// PartitionOptions controls a partition pass. PathFor renders the storage
// path recorded in the index for a tile key; Workers > 1 shards the feature
// scan with deterministic shard-order merging.
type PartitionOptions struct {
	Zoom    int
	Workers int
	PathFor func(models.TileKey) string
}

// PartitionStats reconciles a partition run: Placed + Skipped equals the
// input feature count, AttachedEdges + DroppedEdges equals the input edge
// count.
type PartitionStats struct {
	Placed        int
	Skipped       int
	AttachedEdges int
	DroppedEdges  int
}

// partial is one worker's private accumulator. Merging partials in shard
// index order reproduces the sequential feature order inside every tile.
type partial struct {
	tiles   map[models.TileKey]*models.Tile
	owners  map[string]models.TileKey
	skipped int
}

// Partition groups features into slippy-map tiles at opts.Zoom and attaches
// each network edge to the tile owning the feature at the edge's from
// endpoint. Features with malformed or out-of-range coordinates are skipped
// and counted; edges whose from endpoint matches no placed feature are
// dropped and counted, never an error. Every placed feature lands in exactly
// one tile.
func Partition(features []models.Feature, edges []models.NetworkEdge, opts PartitionOptions) (map[models.TileKey]*models.Tile, *models.TileIndex, PartitionStats, error) {
	if opts.Zoom < 0 {
		return nil, nil, PartitionStats{}, fmt.Errorf("partition zoom must be non-negative, got %d", opts.Zoom)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.PathFor == nil {
		opts.PathFor = func(k models.TileKey) string { return k.String() + ".json" }
	}

	partials := shardFeatures(features, opts.Zoom, opts.Workers)

	tiles := make(map[models.TileKey]*models.Tile)
	// CoordinateKey of a placed feature -> owning tile
	owners := make(map[string]models.TileKey)
	stats := PartitionStats{}

	for _, p := range partials {
		stats.Skipped += p.skipped
		for key, shardTile := range p.tiles {
			tile, ok := tiles[key]
			if !ok {
				tiles[key] = shardTile
				continue
			}
			tile.Features = append(tile.Features, shardTile.Features...)
		}
		for coordKey, tileKey := range p.owners {
			if _, taken := owners[coordKey]; !taken {
				owners[coordKey] = tileKey
			}
		}
	}

	for _, edge := range edges {
		lon, lat, ok := edge.FromLonLat()
		if !ok {
			stats.DroppedEdges++
			continue
		}
		tileKey, ok := owners[models.CoordinateKey(lat, lon)]
		if !ok {
			// edge references an endpoint absent from the tiled view
			stats.DroppedEdges++
			continue
		}
		tiles[tileKey].Networks = append(tiles[tileKey].Networks, edge)
		stats.AttachedEdges++
	}

	index := models.NewTileIndex(opts.Zoom)
	for key, tile := range tiles {
		stats.Placed += len(tile.Features)
		index.Tiles[key.String()] = models.TileIndexEntry{
			Cameras:  len(tile.Features),
			Networks: len(tile.Networks),
			Path:     opts.PathFor(key),
		}
	}
	index.TotalCameras = stats.Placed

	return tiles, index, stats, nil
}

func shardFeatures(features []models.Feature, zoom, workers int) []*partial {
	if workers > len(features) {
		workers = len(features)
	}
	if workers < 1 {
		workers = 1
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
			p := &partial{
				tiles:  make(map[models.TileKey]*models.Tile),
				owners: make(map[string]models.TileKey),
			}
			for _, feature := range features[lo:hi] {
				lon, lat, ok := feature.LonLat()
				if !ok {
					p.skipped++
					continue
				}
				x, y, err := geo.TileCoord(lat, lon, zoom)
				if err != nil {
					p.skipped++
					continue
				}
				key := models.TileKey{Zoom: zoom, X: x, Y: y}
				tile, ok := p.tiles[key]
				if !ok {
					tile = models.NewTile()
					p.tiles[key] = tile
				}
				tile.Features = append(tile.Features, feature)
				coordKey := models.CoordinateKey(lat, lon)
				if _, taken := p.owners[coordKey]; !taken {
					p.owners[coordKey] = key
				}
			}
			partials[w] = p
		}(w, lo, hi)
	}
	for w := 0; w < workers; w++ {
		<-done
	}
	return partials
}

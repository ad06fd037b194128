package cmd

import (
	"fmt"
	"log"
	"sort"

	"github.com/ringmast4r/camtiles/internal/models"
	"github.com/ringmast4r/camtiles/internal/pipeline"
	"github.com/ringmast4r/camtiles/internal/tilestore"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var tilesCmd = &cobra.Command{
	Use:   "tiles",
	Short: "Partition the camera dataset into geographic tiles",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatal(err)
		}
		if err := runTiles(cfg); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(tilesCmd)
}

func runTiles(cfg *models.Config) error {
	log.Printf("Loading camera data from %s...", cfg.CamerasPath)
	cameras, err := pipeline.LoadFeatureCollection(cfg.CamerasPath)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d cameras", len(cameras.Features))

	log.Printf("Loading network data from %s...", cfg.NetworksPath)
	edges, err := pipeline.LoadNetworkEdges(cfg.NetworksPath)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d networks", len(edges))

	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	log.Printf("Creating tiles at zoom level %d...", cfg.Zoom)
	tiles, index, stats, err := pipeline.Partition(cameras.Features, edges, pipeline.PartitionOptions{
		Zoom:    cfg.Zoom,
		Workers: cfg.Workers,
		PathFor: func(key models.TileKey) string { return store.TilePath("tiles", key) },
	})
	if err != nil {
		return err
	}

	if err := saveTiles(store, "tiles", tiles, index); err != nil {
		return err
	}

	printTileReport("tiles", tiles, index, stats)
	return nil
}

// saveTiles persists the tiles in sorted key order, then the index, so a
// valid index is never observable before its tiles exist.
func saveTiles(store *tilestore.Store, subdir string, tiles map[models.TileKey]*models.Tile, index *models.TileIndex) error {
	keys := make([]models.TileKey, 0, len(tiles))
	for key := range tiles {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].X != keys[j].X {
			return keys[i].X < keys[j].X
		}
		return keys[i].Y < keys[j].Y
	})

	bar := progressbar.Default(int64(len(keys)), "saving tiles")
	for _, key := range keys {
		if err := store.WriteTile(subdir, key, tiles[key]); err != nil {
			return err
		}
		bar.Add(1)
	}

	return store.WriteIndex(subdir, index)
}

func printTileReport(name string, tiles map[models.TileKey]*models.Tile, index *models.TileIndex, stats pipeline.PartitionStats) {
	maxCameras := 0
	for _, tile := range tiles {
		if len(tile.Features) > maxCameras {
			maxCameras = len(tile.Features)
		}
	}
	avg := 0.0
	if len(tiles) > 0 {
		avg = float64(index.TotalCameras) / float64(len(tiles))
	}

	fmt.Printf("\n%s created: %d\n", name, len(tiles))
	fmt.Printf("Cameras placed: %d (skipped %d)\n", stats.Placed, stats.Skipped)
	fmt.Printf("Networks attached: %d (dropped %d)\n", stats.AttachedEdges, stats.DroppedEdges)
	fmt.Printf("Average cameras per tile: %.1f\n", avg)
	fmt.Printf("Largest tile: %d cameras\n", maxCameras)
}

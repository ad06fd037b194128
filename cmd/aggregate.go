package cmd

import (
	"fmt"
	"log"

	"github.com/ringmast4r/camtiles/internal/models"
	"github.com/ringmast4r/camtiles/internal/pipeline"
	"github.com/spf13/cobra"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Create zoom-level aggregates: state view, grid view, detail tiles",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatal(err)
		}
		if err := runAggregate(cfg); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(cfg *models.Config) error {
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

	// state view, zoom 4-6
	log.Printf("Creating state aggregates...")
	states, stateStats := pipeline.AggregateByState(cameras.Features, cfg.Workers)
	if err := store.WriteAggregate("states", pipeline.RenderAggregates(states, "state", "state")); err != nil {
		return err
	}
	fmt.Printf("\nState aggregates: %d states (%d cameras in bounds, %d outside, %d skipped)\n",
		len(states), stateStats.Considered, stateStats.OutOfBounds, stateStats.Skipped)
	for _, region := range pipeline.TopAggregates(states, 10) {
		fmt.Printf("  %-20s: %6d cameras (%d Flock, %d ALPR)\n", region.Label, region.Total, region.Flock, region.ALPR)
	}

	// grid view, zoom 7-9
	log.Printf("Creating grid aggregates...")
	grid, gridStats := pipeline.AggregateByGrid(cameras.Features, cfg.Workers)
	if err := store.WriteAggregate("grid", pipeline.RenderAggregates(grid, "grid", "grid")); err != nil {
		return err
	}
	fmt.Printf("\nGrid aggregates: %d grid cells (%d skipped)\n", len(grid), gridStats.Skipped)
	fmt.Printf("Largest grid cells:\n")
	for _, region := range pipeline.TopAggregates(grid, 10) {
		fmt.Printf("  Grid %-10s: %6d cameras\n", region.Label, region.Total)
	}

	// detail view, zoom 10+
	log.Printf("Creating detail tiles at zoom level %d...", cfg.DetailZoom)
	tiles, index, stats, err := pipeline.Partition(cameras.Features, edges, pipeline.PartitionOptions{
		Zoom:    cfg.DetailZoom,
		Workers: cfg.Workers,
		PathFor: func(key models.TileKey) string { return store.TilePath("tiles_detail", key) },
	})
	if err != nil {
		return err
	}
	if err := saveTiles(store, "tiles_detail", tiles, index); err != nil {
		return err
	}
	printTileReport("detail tiles", tiles, index, stats)

	return nil
}

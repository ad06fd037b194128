package cmd

import (
	"fmt"
	"os"

	"github.com/ringmast4r/camtiles/internal/cloudwriter"
	"github.com/ringmast4r/camtiles/internal/models"
	"github.com/ringmast4r/camtiles/internal/tilestore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "camtiles",
	Short: "Builds multi-resolution map tiles from the surveillance camera dataset",
	Long: `camtiles transforms the canonical surveillance camera dataset into a
multi-resolution representation for zoom-dependent map rendering: geographic
tiles with attached network edges, state and grid aggregates for low zoom, and
detail tiles for high zoom. It also merges OSM surveillance extracts into the
canonical dataset without introducing duplicates.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./camtiles.json)")

	rootCmd.PersistentFlags().Int("zoom", 6, "Zoom level for production tiles")
	rootCmd.PersistentFlags().Int("detail-zoom", 10, "Zoom level for detail tiles")
	rootCmd.PersistentFlags().Int("workers", 0, "Worker count for partition/aggregation passes (0 = auto)")
	rootCmd.PersistentFlags().String("cameras", "CAMERAS_WITH_NETWORK_DATA.geojson", "Canonical camera dataset path")
	rootCmd.PersistentFlags().String("networks", "camera_networks.json", "Camera network edge list path")
	rootCmd.PersistentFlags().String("osm-dir", "data/raw_osm_global", "Directory holding OSM surveillance extracts")
	rootCmd.PersistentFlags().String("output-root", "data", "Destination directory for tiles and aggregates")
	rootCmd.PersistentFlags().String("compression", "", "Tile compression (zstd or empty)")
	rootCmd.PersistentFlags().String("output-destination", "local", "Where tiles are written (local or s3)")

	bindings := map[string]string{
		"zoom":               "zoom",
		"detail_zoom":        "detail-zoom",
		"workers":            "workers",
		"cameras_path":       "cameras",
		"networks_path":      "networks",
		"osm_dir":            "osm-dir",
		"output_root":        "output-root",
		"compression":        "compression",
		"output_destination": "output-destination",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func loadConfig() (*models.Config, error) {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return cfg, nil
}

// newStore assembles the tile store from config: compression and, for the s3
// destination, the cloud upload mirror.
func newStore(cfg *models.Config) (*tilestore.Store, error) {
	opts := []tilestore.Option{tilestore.WithCompression(cfg.Compression)}
	if cfg.OutputDestination == "s3" {
		if cfg.CloudStorage.Provider != "" && cfg.CloudStorage.Provider != "s3" {
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
		}
		factory, err := cloudwriter.NewS3WriterFactory(cfg.CloudStorage.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		opts = append(opts, tilestore.WithCloud(factory, cfg.CloudStorage.BucketName))
	}
	return tilestore.New(cfg.OutputRoot, opts...), nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

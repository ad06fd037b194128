package cmd

import (
	"log"

	"github.com/ringmast4r/camtiles/internal/factories"
	"github.com/ringmast4r/camtiles/internal/models"
	"github.com/ringmast4r/camtiles/internal/tilestore"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic camera dataset and network list for testing",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatal(err)
		}
		if err := runGenerate(cfg); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	generateCmd.Flags().Int("count", 1000, "Number of cameras to generate")
	generateCmd.Flags().Int("edges", 100, "Number of network edges to generate")
	generateCmd.Flags().Int64("seed", 42, "Random seed")
	viper.BindPFlag("generate_count", generateCmd.Flags().Lookup("count"))
	viper.BindPFlag("generate_edges", generateCmd.Flags().Lookup("edges"))
	viper.BindPFlag("seed", generateCmd.Flags().Lookup("seed"))
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cfg *models.Config) error {
	factory := factories.NewFeatureFactory(cfg.Seed)

	features := make([]models.Feature, 0, cfg.GenerateCount)
	bar := progressbar.Default(int64(cfg.GenerateCount), "generating cameras")
	for i := 0; i < cfg.GenerateCount; i++ {
		features = append(features, factory.CreateCamera())
		bar.Add(1)
	}

	edges := make([]models.NetworkEdge, 0, cfg.GenerateEdges)
	if len(features) > 1 {
		for i := 0; i < cfg.GenerateEdges; i++ {
			from := features[i%len(features)]
			to := features[(i*7+1)%len(features)]
			edges = append(edges, factory.CreateNetworkEdge(from, to))
		}
	}

	if err := tilestore.WriteJSONFileAtomic(cfg.CamerasPath, models.NewFeatureCollection(features), false); err != nil {
		return err
	}
	if err := tilestore.WriteJSONFileAtomic(cfg.NetworksPath, edges, false); err != nil {
		return err
	}

	log.Printf("Generated %d cameras to %s and %d networks to %s",
		len(features), cfg.CamerasPath, len(edges), cfg.NetworksPath)
	return nil
}

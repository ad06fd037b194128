package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/ringmast4r/camtiles/internal/models"
	"github.com/ringmast4r/camtiles/internal/pipeline"
	"github.com/ringmast4r/camtiles/internal/producers"
	"github.com/ringmast4r/camtiles/internal/repositories/postgres"
	"github.com/ringmast4r/camtiles/internal/tilestore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge OSM surveillance extracts into the canonical camera dataset",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatal(err)
		}
		if err := runMerge(cfg); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	mergeCmd.Flags().Bool("postgres", false, "Mirror the merged dataset into Postgres")
	mergeCmd.Flags().Bool("events", false, "Publish a merge report event to Kafka")
	mergeCmd.Flags().StringSlice("osm-paths", nil, "Extra OSM extract files outside osm-dir")
	viper.BindPFlag("postgres_enabled", mergeCmd.Flags().Lookup("postgres"))
	viper.BindPFlag("kafka_enabled", mergeCmd.Flags().Lookup("events"))
	viper.BindPFlag("osm_paths", mergeCmd.Flags().Lookup("osm-paths"))
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cfg *models.Config) error {
	log.Printf("Loading existing cameras from %s...", cfg.CamerasPath)
	canonical, err := pipeline.LoadFeatureCollection(cfg.CamerasPath)
	if err != nil {
		return err
	}
	log.Printf("Current cameras: %d", len(canonical.Features))

	sources, err := pipeline.LoadOSMSources(cfg.OSMDir)
	if err != nil {
		return err
	}
	for _, path := range cfg.OSMPaths {
		source, err := pipeline.LoadOSMFile(path)
		if err != nil {
			return err
		}
		sources = append(sources, source)
	}
	log.Printf("Found %d OSM regional files", len(sources))

	merged, stats := pipeline.Merge(canonical, sources)

	for _, source := range stats.Sources {
		fmt.Printf("\nProcessing %s...\n", source.Region)
		fmt.Printf("  Raw cameras: %d\n", source.Raw)
		fmt.Printf("  New cameras: %d\n", source.New)
		fmt.Printf("  Duplicates: %d\n", source.Duplicates)
	}

	fmt.Printf("\nMERGE SUMMARY\n")
	fmt.Printf("Existing cameras: %d\n", stats.Existing)
	fmt.Printf("New unique cameras: %d\n", stats.New)
	fmt.Printf("Duplicates skipped: %d\n", stats.Duplicates)
	fmt.Printf("Non-point elements skipped: %d\n", stats.SkippedElements)
	fmt.Printf("Total after merge: %d\n", len(merged.Features))

	log.Printf("Saving merged data to %s...", cfg.CamerasPath)
	if err := tilestore.WriteJSONFileAtomic(cfg.CamerasPath, merged, false); err != nil {
		return err
	}

	if cfg.PostgresEnabled {
		if err := mirrorToPostgres(cfg, merged.Features); err != nil {
			return err
		}
	}
	if cfg.KafkaEnabled {
		if err := publishMergeEvent(cfg, stats, len(merged.Features)); err != nil {
			return err
		}
	}
	return nil
}

func mirrorToPostgres(cfg *models.Config, features []models.Feature) error {
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := postgres.NewFeatureRepository(pool)
	if err := repo.BulkCreate(ctx, features); err != nil {
		return fmt.Errorf("failed to mirror features to Postgres: %w", err)
	}
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	log.Printf("Postgres mirror now holds %d cameras", count)
	return nil
}

type mergeEvent struct {
	EventID     string                 `json:"event_id"`
	Timestamp   time.Time              `json:"timestamp"`
	MergedTotal int                    `json:"merged_total"`
	New         int                    `json:"new"`
	Duplicates  int                    `json:"duplicates"`
	Sources     []pipeline.SourceStats `json:"sources"`
}

func publishMergeEvent(cfg *models.Config, stats pipeline.MergeStats, total int) error {
	producer, err := producers.NewSaramaProducer(cfg.KafkaBrokerList)
	if err != nil {
		return err
	}
	defer producer.Close()

	event := mergeEvent{
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		MergedTotal: total,
		New:         stats.New,
		Duplicates:  stats.Duplicates,
		Sources:     stats.Sources,
	}
	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode merge event: %w", err)
	}
	return producer.WriteMessage(cfg.KafkaTopic, msg)
}

package cmd

import (
	"log"
	"os"
	"path/filepath"

	"github.com/ringmast4r/camtiles/internal/export"
	"github.com/ringmast4r/camtiles/internal/models"
	"github.com/ringmast4r/camtiles/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the canonical dataset as a flat Parquet table",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatal(err)
		}
		if err := runExport(cfg); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	exportCmd.Flags().String("out", "", "Parquet output path (default {output_root}/cameras.parquet)")
	viper.BindPFlag("export_path", exportCmd.Flags().Lookup("out"))
	rootCmd.AddCommand(exportCmd)
}

func runExport(cfg *models.Config) error {
	log.Printf("Loading camera data from %s...", cfg.CamerasPath)
	cameras, err := pipeline.LoadFeatureCollection(cfg.CamerasPath)
	if err != nil {
		return err
	}

	path := cfg.ExportPath
	if path == "" {
		path = filepath.Join(cfg.OutputRoot, "cameras.parquet")
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	written, err := export.WriteParquet(path, cameras.Features)
	if err != nil {
		return err
	}
	log.Printf("Exported %d of %d cameras to %s", written, len(cameras.Features), path)
	return nil
}

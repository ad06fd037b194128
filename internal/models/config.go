package models

import (
	"fmt"
	"runtime"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type Config struct {
	Zoom       int `mapstructure:"zoom"`
	DetailZoom int `mapstructure:"detail_zoom"`
	Workers    int `mapstructure:"workers"`

	CamerasPath  string `mapstructure:"cameras_path"`
	NetworksPath string `mapstructure:"networks_path"`
	OSMDir       string `mapstructure:"osm_dir"`
	// extra extracts outside OSMDir; comma-separated when set via flag or env
	OSMPaths   []string `mapstructure:"osm_paths"`
	OutputRoot string   `mapstructure:"output_root"`

	// "" or "zstd"
	Compression       string             `mapstructure:"compression"`
	OutputDestination string             `mapstructure:"output_destination"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`

	PostgresEnabled bool           `mapstructure:"postgres_enabled"`
	Database        DatabaseConfig `mapstructure:"database"`

	KafkaEnabled    bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList string `mapstructure:"kafka_broker_list"`
	KafkaTopic      string `mapstructure:"kafka_topic"`

	// fixture generator
	Seed          int64 `mapstructure:"seed"`
	GenerateCount int   `mapstructure:"generate_count"`
	GenerateEdges int   `mapstructure:"generate_edges"`

	ExportPath string `mapstructure:"export_path"`
}

// LoadConfig initializes and reads the configuration using Viper. Flags bound
// on the cobra commands take precedence over the config file, which takes
// precedence over the defaults here.
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("camtiles")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv()

	viper.SetDefault("zoom", 6)
	viper.SetDefault("detail_zoom", 10)
	viper.SetDefault("workers", defaultWorkers())
	viper.SetDefault("cameras_path", "CAMERAS_WITH_NETWORK_DATA.geojson")
	viper.SetDefault("networks_path", "camera_networks.json")
	viper.SetDefault("osm_dir", "data/raw_osm_global")
	viper.SetDefault("output_root", "data")
	viper.SetDefault("output_destination", "local")
	viper.SetDefault("kafka_broker_list", "localhost:9092")
	viper.SetDefault("kafka_topic", "camera-merge-events")
	viper.SetDefault("seed", 42)
	viper.SetDefault("generate_count", 1000)
	viper.SetDefault("generate_edges", 100)

	if err := viper.ReadInConfig(); err != nil {
		// a config file is optional; only an explicitly named one must exist
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (cfg *Config) Validate() error {
	if cfg.Zoom < 0 {
		return fmt.Errorf("zoom must be non-negative, got %d", cfg.Zoom)
	}
	if cfg.DetailZoom < 0 {
		return fmt.Errorf("detail_zoom must be non-negative, got %d", cfg.DetailZoom)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	switch cfg.Compression {
	case "", "zstd":
	default:
		return fmt.Errorf("unsupported compression: %s", cfg.Compression)
	}
	switch cfg.OutputDestination {
	case "local", "s3":
	default:
		return fmt.Errorf("unsupported output destination: %s", cfg.OutputDestination)
	}
	return nil
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	return n
}

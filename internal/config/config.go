package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/andeanclimate/tmin-zonal/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Input datasets.
	RasterPath     string
	RasterVariable string
	DistrictsPath  string

	// Shapefile attribute columns carrying district metadata.
	DistrictIDColumn   string
	DistrictNameColumn string
	DepartmentColumn   string

	// Aggregation and classification.
	InclusionPolicy domain.InclusionPolicy
	Thresholds      *domain.Thresholds
	RankingSize     int

	// CSV export; empty EXPORT_DIR disables the exporter.
	ExportDir string

	// Optional Kafka publishing of classified results.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored when
// present. All validation happens here so a bad threshold table or policy
// name can never reach the pipeline.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	shutdownTimeout, err := parseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	policy, err := domain.ParseInclusionPolicy(envOrDefault("INCLUSION_POLICY", string(domain.PolicyCellCenter)))
	if err != nil {
		return nil, fmt.Errorf("INCLUSION_POLICY: %w", err)
	}

	thresholds, err := domain.ParseThresholds(envOrDefault("RISK_BANDS", "extreme:0,high:4,moderate:10,low"))
	if err != nil {
		return nil, fmt.Errorf("RISK_BANDS: %w", err)
	}

	rankingSize, err := parseRankingSize()
	if err != nil {
		return nil, err
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RasterPath:     envOrDefault("RASTER_PATH", "data/tmin.nc"),
		RasterVariable: envOrDefault("RASTER_VARIABLE", "tmin"),
		DistrictsPath:  envOrDefault("DISTRICTS_PATH", "data/districts.shp"),

		DistrictIDColumn:   envOrDefault("DISTRICT_ID_COLUMN", "UBIGEO"),
		DistrictNameColumn: envOrDefault("DISTRICT_NAME_COLUMN", "NOMBDIST"),
		DepartmentColumn:   envOrDefault("DEPARTMENT_COLUMN", "DEPARTAMEN"),

		InclusionPolicy: policy,
		Thresholds:      thresholds,
		RankingSize:     rankingSize,

		ExportDir: envOrDefault("EXPORT_DIR", "export"),

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "district-risk"),
	}

	if cfg.RasterPath == "" {
		return nil, errors.New("RASTER_PATH is required")
	}
	if cfg.RasterVariable == "" {
		return nil, errors.New("RASTER_VARIABLE is required")
	}
	if cfg.DistrictsPath == "" {
		return nil, errors.New("DISTRICTS_PATH is required")
	}
	if cfg.DistrictIDColumn == "" || cfg.DistrictNameColumn == "" || cfg.DepartmentColumn == "" {
		return nil, errors.New("district attribute column names must not be empty")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseShutdownTimeout() (time.Duration, error) {
	s := envOrDefault("SHUTDOWN_TIMEOUT", "10s")
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	return d, nil
}

func parseRankingSize() (int, error) {
	s := envOrDefault("RANKING_SIZE", "15")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 1000 {
		return 0, errors.New("RANKING_SIZE must be an integer between 1 and 1000")
	}
	return n, nil
}

func parseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andeanclimate/tmin-zonal/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, "data/tmin.nc", cfg.RasterPath)
	assert.Equal(t, "tmin", cfg.RasterVariable)
	assert.Equal(t, "data/districts.shp", cfg.DistrictsPath)
	assert.Equal(t, "UBIGEO", cfg.DistrictIDColumn)
	assert.Equal(t, "NOMBDIST", cfg.DistrictNameColumn)
	assert.Equal(t, "DEPARTAMEN", cfg.DepartmentColumn)

	assert.Equal(t, domain.PolicyCellCenter, cfg.InclusionPolicy)
	require.NotNil(t, cfg.Thresholds)
	assert.Equal(t, []string{"extreme", "high", "moderate", "low"}, cfg.Thresholds.Labels())
	assert.Equal(t, 15, cfg.RankingSize)

	assert.Equal(t, "export", cfg.ExportDir)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "district-risk", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("RASTER_PATH", "/data/tmin_2024.nc")
	t.Setenv("RASTER_VARIABLE", "tmin_annual")
	t.Setenv("DISTRICTS_PATH", "/data/peru_districts.shp")
	t.Setenv("DISTRICT_ID_COLUMN", "IDDIST")
	t.Setenv("DISTRICT_NAME_COLUMN", "DISTRITO")
	t.Setenv("DEPARTMENT_COLUMN", "DPTO")
	t.Setenv("INCLUSION_POLICY", "area-weight")
	t.Setenv("RISK_BANDS", "critical:-5,cold:5,mild")
	t.Setenv("RANKING_SIZE", "20")
	t.Setenv("EXPORT_DIR", "/tmp/export")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-risk")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/data/tmin_2024.nc", cfg.RasterPath)
	assert.Equal(t, "tmin_annual", cfg.RasterVariable)
	assert.Equal(t, "/data/peru_districts.shp", cfg.DistrictsPath)
	assert.Equal(t, "IDDIST", cfg.DistrictIDColumn)
	assert.Equal(t, "DISTRITO", cfg.DistrictNameColumn)
	assert.Equal(t, "DPTO", cfg.DepartmentColumn)
	assert.Equal(t, domain.PolicyAreaWeight, cfg.InclusionPolicy)
	assert.Equal(t, []string{"critical", "cold", "mild"}, cfg.Thresholds.Labels())
	assert.Equal(t, 20, cfg.RankingSize)
	assert.Equal(t, "/tmp/export", cfg.ExportDir)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-risk", cfg.KafkaTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidInclusionPolicy(t *testing.T) {
	t.Setenv("INCLUSION_POLICY", "nearest")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INCLUSION_POLICY")
}

func TestLoad_InvalidRiskBands(t *testing.T) {
	t.Run("overlapping bounds", func(t *testing.T) {
		t.Setenv("RISK_BANDS", "extreme:4,high:0,low")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RISK_BANDS")
	})

	t.Run("missing terminal label", func(t *testing.T) {
		t.Setenv("RISK_BANDS", "extreme:0")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RISK_BANDS")
	})
}

func TestLoad_InvalidRankingSize(t *testing.T) {
	t.Setenv("RANKING_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RANKING_SIZE")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaDisabledByDefault(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

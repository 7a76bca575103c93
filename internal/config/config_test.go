package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/raw", cfg.DataDir)
	assert.Equal(t, "data/processed", cfg.OutDir)
	assert.Equal(t, "data/forest_rents.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "", cfg.MetricsAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 1997, cfg.StartYear)
	assert.Equal(t, time.Now().Year()-1, cfg.EndYear)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "forest-rents-panel", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/raw")
	t.Setenv("START_YEAR", "2005")
	t.Setenv("END_YEAR", "2023")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/raw", cfg.DataDir)
	assert.Equal(t, 2005, cfg.StartYear)
	assert.Equal(t, 2023, cfg.EndYear)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoadValidation(t *testing.T) {
	t.Run("inverted year window", func(t *testing.T) {
		t.Setenv("START_YEAR", "2024")
		t.Setenv("END_YEAR", "2020")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad year value", func(t *testing.T) {
		t.Setenv("START_YEAR", "nineteen97")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad shutdown timeout", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT", "-5s")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("kafka enabled without brokers", func(t *testing.T) {
		t.Setenv("KAFKA_ENABLED", "true")
		t.Setenv("KAFKA_BROKERS", " ")
		_, err := Load()
		assert.Error(t, err)
	})
}

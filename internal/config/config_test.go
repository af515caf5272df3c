package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORAGE_BACKEND", "KAFKA_BROKERS", "MAP_ZOOM", "AUTH_DISABLED", "HOME_LATITUDE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.Equal(t, BackendSQLite, cfg.StorageBackend)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, 15, cfg.MapZoom)
	require.False(t, cfg.AuthDisabled)
	require.Equal(t, 51.5074, cfg.HomeLatitude)
	require.Equal(t, "workouts", cfg.StorageKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Postgres")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092 ")
	t.Setenv("MAP_ZOOM", "12")
	t.Setenv("AUTH_DISABLED", "true")
	t.Setenv("HOME_LATITUDE", "40.4168")
	t.Setenv("HTTP_TIMEOUT", "750ms")

	cfg := Load()
	require.Equal(t, BackendPostgres, cfg.StorageBackend)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 12, cfg.MapZoom)
	require.True(t, cfg.AuthDisabled)
	require.Equal(t, 40.4168, cfg.HomeLatitude)
	require.Equal(t, 750*time.Millisecond, cfg.HTTPTimeout)
}

func TestLoadIgnoresUnparsableValues(t *testing.T) {
	t.Setenv("MAP_ZOOM", "close")
	t.Setenv("AUTH_DISABLED", "maybe")
	t.Setenv("HTTP_TIMEOUT", "soon")

	cfg := Load()
	require.Equal(t, 15, cfg.MapZoom)
	require.False(t, cfg.AuthDisabled)
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{"PGSQL_URL": "postgres://localhost/db"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "100-M", cfg.RateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 15*time.Second, cfg.HTTPReadTimeout)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestFromViper_ParsesLists(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"STORAGE_DRIVER": "MEMORY",
		"KAFKA_BROKERS":  "kafka-1:9092, kafka-2:9092,",
	}))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestFromViper_InvalidDurationFallsBack(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"STORAGE_DRIVER":     StorageMemory,
		"HTTP_WRITE_TIMEOUT": "soon",
	}))
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.HTTPWriteTimeout)
}

func TestFromViper_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"postgres without url", map[string]any{}},
		{"unknown driver", map[string]any{"STORAGE_DRIVER": "sqlite"}},
		{"memory in production", map[string]any{"STORAGE_DRIVER": StorageMemory, "IS_PRODUCTION": true, "JWT_SECRET": "s"}},
		{"production without secret", map[string]any{"PGSQL_URL": "postgres://x", "IS_PRODUCTION": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromViper(newViper(tt.values))
			assert.Error(t, err)
		})
	}
}

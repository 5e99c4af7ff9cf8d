package config

import (
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("PORT", "")
	t.Setenv("STORE_TIMEOUT_MS", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("AUTO_MIGRATE", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("CATEGORY_REFRESH_SCHEDULE", "")
	os.Unsetenv("CATEGORY_REFRESH_SCHEDULE")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "@every 1h", cfg.RefreshSchedule)
	assert.Equal(t, "memory", cfg.DBDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.False(t, cfg.AutoMigrate)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/catalog.db")
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_TIMEOUT_MS", "250")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, http://localhost:8081 ,")
	t.Setenv("CATEGORY_REFRESH_SCHEDULE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/catalog.db", cfg.DSN())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, logrus.WarnLevel, cfg.LogLevel)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8081"}, cfg.CORSOrigins)
	assert.Equal(t, "", cfg.RefreshSchedule)
}

func TestLoad_RefreshSchedule(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")

	t.Setenv("CATEGORY_REFRESH_SCHEDULE", "  @daily ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "@daily", cfg.RefreshSchedule)

	t.Setenv("CATEGORY_REFRESH_SCHEDULE", "")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.RefreshSchedule, "empty disables the refresher")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without url", map[string]string{"DB_DRIVER": "postgres", "POSTGRES_URL": ""}},
		{"unknown driver", map[string]string{"DB_DRIVER": "oracle"}},
		{"bad timeout", map[string]string{"DB_DRIVER": "memory", "STORE_TIMEOUT_MS": "-1"}},
		{"bad level", map[string]string{"DB_DRIVER": "memory", "LOG_LEVEL": "loud"}},
		{"bad migrate flag", map[string]string{"DB_DRIVER": "memory", "AUTO_MIGRATE": "sometimes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

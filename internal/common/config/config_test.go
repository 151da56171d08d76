package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "TOKEN_TTL_HOURS", "CORS_ORIGINS", "STORE_DRIVER", "SESSION_IDLE_MINUTES"} {
		t.Setenv(key, "")
	}

	cfg := Load("3001")

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.SessionIdle)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("TOKEN_TTL_HOURS", "2")
	t.Setenv("READ_TIMEOUT", "not-a-number")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("CATALOG_CACHE_SECONDS", "30")

	cfg := Load("3001")

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.ReadTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, 30*time.Second, cfg.CatalogTTL)
}

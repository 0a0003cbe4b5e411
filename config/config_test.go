package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := New()
	assert.Equal(t, LogLevelInfo, cfg.Log.Level)
	assert.Equal(t, LogFormatText, cfg.Log.Format)
	assert.Equal(t, uint32(5432), cfg.Database.Port)
	assert.Equal(t, "127.0.0.1:9601", cfg.Admin.Listen)
	assert.Equal(t, 5*time.Second, cfg.Crawler.Quiescence)
	assert.True(t, cfg.Crawler.Headless)
	assert.Equal(t, "PL", cfg.Geocoding.Country)
	assert.Equal(t, 2, cfg.Geocoding.MaxAttempts)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("EVENTLENS_DATABASE_HOST", "db.internal")
	t.Setenv("EVENTLENS_CRAWLER_URL", "https://events.example.com")
	cfg := New()
	assert.NoError(t, Load("", cfg))
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "https://events.example.com", cfg.Crawler.URL)
}

func TestValidate(t *testing.T) {
	cfg := New()
	cfg.Log.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = New()
	cfg.Database.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = New()
	cfg.Geocoding.MaxAttempts = 0
	assert.Error(t, cfg.Validate())
}

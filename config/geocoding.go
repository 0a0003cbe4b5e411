package config

import (
	"fmt"
	"time"
)

type GeocodingConfig struct {
	BaseURL string        `yaml:"base_url" json:"base_url" envconfig:"BASE_URL"`
	APIKey  Password      `yaml:"api_key" json:"api_key" envconfig:"API_KEY"`
	Country string        `yaml:"country" json:"country" envconfig:"COUNTRY" default:"PL"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" envconfig:"TIMEOUT" default:"10s"`
	// MaxAttempts bounds ResolveWithRetries; the street term is dropped after
	// each failed attempt.
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts" envconfig:"MAX_ATTEMPTS" default:"2"`
	// CacheSize and CacheTTL bound the in-memory cache of resolved queries.
	CacheSize int           `yaml:"cache_size" json:"cache_size" envconfig:"CACHE_SIZE" default:"1024"`
	CacheTTL  time.Duration `yaml:"cache_ttl" json:"cache_ttl" envconfig:"CACHE_TTL" default:"24h"`
}

func (cfg GeocodingConfig) Validate() error {
	if cfg.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1")
	}
	if cfg.CacheSize < 1 {
		return fmt.Errorf("cache_size must be at least 1")
	}
	return nil
}

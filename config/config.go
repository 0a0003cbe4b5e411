package config

import (
	"encoding/json"
	"os"

	"github.com/creasty/defaults"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "EVENTLENS"

type Config struct {
	Log        LogConfig        `yaml:"log" envconfig:"LOG"`
	Database   DatabaseConfig   `yaml:"database" envconfig:"DATABASE"`
	Admin      AdminConfig      `yaml:"admin" envconfig:"ADMIN"`
	Crawler    CrawlerConfig    `yaml:"crawler" envconfig:"CRAWLER"`
	Geocoding  GeocodingConfig  `yaml:"geocoding" envconfig:"GEOCODING"`
	Classifier ClassifierConfig `yaml:"classifier" envconfig:"CLASSIFIER"`
}

func New() *Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Load populates cfg from an optional YAML file and the environment, with
// environment variables taking precedence.
func Load(filename string, cfg *Config) error {
	if filename != "" {
		content, err := os.ReadFile(filename)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return err
		}
	}
	return envconfig.Process(envPrefix, cfg)
}

func (cfg Config) String() string {
	bytes, err := json.Marshal(cfg)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func (cfg Config) Validate() error {
	if err := cfg.Log.Validate(); err != nil {
		return err
	}
	if err := cfg.Database.Validate(); err != nil {
		return err
	}
	if err := cfg.Admin.Validate(); err != nil {
		return err
	}
	if err := cfg.Crawler.Validate(); err != nil {
		return err
	}
	if err := cfg.Geocoding.Validate(); err != nil {
		return err
	}
	return cfg.Classifier.Validate()
}

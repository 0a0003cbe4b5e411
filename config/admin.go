package config

import (
	"fmt"
	"net"
)

type AdminConfig struct {
	Listen string `yaml:"listen" json:"listen" default:"127.0.0.1:9601"`
}

func (cfg AdminConfig) Validate() error {
	if cfg.Listen == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Listen); err != nil {
		return fmt.Errorf("invalid listen address: %s", cfg.Listen)
	}
	return nil
}

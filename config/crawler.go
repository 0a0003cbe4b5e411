package config

import (
	"fmt"
	"time"
)

type CrawlerConfig struct {
	// URL is the listing page to crawl.
	URL string `yaml:"url" json:"url" envconfig:"URL"`
	// ListingSelector matches one listing entry; each entry is expected to
	// carry an embedded script[type="application/ld+json"] block.
	ListingSelector  string `yaml:"listing_selector" json:"listing_selector" envconfig:"LISTING_SELECTOR" default:".event-card"`
	OverlaySelector  string `yaml:"overlay_selector" json:"overlay_selector" envconfig:"OVERLAY_SELECTOR" default:"#onetrust-accept-btn-handler"`
	ShowMoreSelector string `yaml:"show_more_selector" json:"show_more_selector" envconfig:"SHOW_MORE_SELECTOR" default:"button.show-more"`
	FooterSelector   string `yaml:"footer_selector" json:"footer_selector" envconfig:"FOOTER_SELECTOR" default:"footer"`
	// Quiescence is how long the document height must stay unchanged before
	// the scroll loop concludes that no more entries are loading.
	Quiescence time.Duration `yaml:"quiescence" json:"quiescence" envconfig:"QUIESCENCE" default:"5s"`
	// Timeout bounds the whole browser session.
	Timeout  time.Duration `yaml:"timeout" json:"timeout" envconfig:"TIMEOUT" default:"5m"`
	Headless bool          `yaml:"headless" json:"headless" envconfig:"HEADLESS" default:"true"`
}

func (cfg CrawlerConfig) Validate() error {
	if cfg.Quiescence <= 0 {
		return fmt.Errorf("quiescence must be positive")
	}
	if cfg.ListingSelector == "" {
		return fmt.Errorf("listing_selector is required")
	}
	return nil
}

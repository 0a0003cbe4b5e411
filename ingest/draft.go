package ingest

import (
	"time"
)

// DraftEvent is an unpersisted, partially-normalized scraped event awaiting
// reference resolution. It is either fully parsed or discarded; the pipeline
// consumes each draft exactly once.
type DraftEvent struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	Category    string         `json:"category"`
	Location    *DraftLocation `json:"location"`
}

// DraftLocation is a denormalized, unresolved location reference.
type DraftLocation struct {
	Name    string        `json:"name"`
	Address *DraftAddress `json:"address"`
}

type DraftAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

package ingest

import (
	"github.com/eventlens-io/eventlens/db/entities"
)

// RejectedDraft pairs a draft that could not be persisted with the reason.
type RejectedDraft struct {
	Draft  *DraftEvent `json:"draft"`
	Reason string      `json:"reason"`
}

// Report summarizes one SaveBatch call. It is returned to the caller and
// never persisted.
type Report struct {
	SavedCount     int               `json:"saved_count"`
	NotSavedCount  int               `json:"not_saved_count"`
	SavedEvents    []*entities.Event `json:"saved_events"`
	NotSavedEvents []*RejectedDraft  `json:"not_saved_events"`
}

func (r *Report) saved(event *entities.Event) {
	r.SavedEvents = append(r.SavedEvents, event)
	r.SavedCount = len(r.SavedEvents)
}

func (r *Report) rejected(draft *DraftEvent, reason string) {
	r.NotSavedEvents = append(r.NotSavedEvents, &RejectedDraft{Draft: draft, Reason: reason})
	r.NotSavedCount = len(r.NotSavedEvents)
}

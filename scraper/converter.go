package scraper

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/eventlens-io/eventlens/ingest"
)

// eventTimeLayout matches the textual format embedded in the listing data,
// e.g. "Wed Jun 12 2024 18:00:00 GMT+0200 (Central European Summer Time)".
// The parenthesized zone name is stripped before parsing.
const eventTimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700"

// CategoryPredictor assigns a category label to free text.
type CategoryPredictor interface {
	Predict(text string) (string, error)
}

// eventPayload is the embedded structured-data schema of one listing entry.
type eventPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Location    struct {
		Name    string `json:"name"`
		Address struct {
			StreetAddress   string `json:"streetAddress"`
			AddressLocality string `json:"addressLocality"`
		} `json:"address"`
	} `json:"location"`
}

// Converter parses raw payloads into draft events.
type Converter struct {
	predictor CategoryPredictor
	log       *zap.SugaredLogger
}

func NewConverter(predictor CategoryPredictor, log *zap.SugaredLogger) *Converter {
	return &Converter{
		predictor: predictor,
		log:       log,
	}
}

// Convert turns raw payloads into draft events. A payload that fails to
// parse is logged and dropped without affecting its siblings; a classifier
// failure is unrecoverable and aborts the batch.
func (c *Converter) Convert(payloads map[string]string) ([]ingest.DraftEvent, error) {
	drafts := make([]ingest.DraftEvent, 0, len(payloads))
	for id, payload := range payloads {
		draft, err := c.convertOne(payload)
		if err != nil {
			if errors.Is(err, errClassifier) {
				return nil, err
			}
			c.log.Warnf("dropping unparseable payload %s: %v", id, err)
			continue
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

var errClassifier = errors.New("category prediction failed")

func (c *Converter) convertOne(payload string) (ingest.DraftEvent, error) {
	var raw eventPayload
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return ingest.DraftEvent{}, errors.Wrap(err, "invalid json")
	}

	startDate, err := parseEventTime(raw.StartDate)
	if err != nil {
		return ingest.DraftEvent{}, errors.Wrapf(err, "invalid start date %q", raw.StartDate)
	}
	endDate, err := parseEventTime(raw.EndDate)
	if err != nil {
		return ingest.DraftEvent{}, errors.Wrapf(err, "invalid end date %q", raw.EndDate)
	}

	category, err := c.predictor.Predict(raw.Name + " " + raw.Description)
	if err != nil {
		return ingest.DraftEvent{}, errors.Wrap(errClassifier, err.Error())
	}

	return ingest.DraftEvent{
		Name:        raw.Name,
		Description: raw.Description,
		Image:       raw.Image,
		StartDate:   startDate,
		EndDate:     endDate,
		Category:    category,
		Location: &ingest.DraftLocation{
			Name: raw.Location.Name,
			Address: &ingest.DraftAddress{
				Street: raw.Location.Address.StreetAddress,
				City:   raw.Location.Address.AddressLocality,
			},
		},
	}, nil
}

// parseEventTime parses the listing date format and normalizes it to a local
// wall-clock timestamp with the zone information discarded.
func parseEventTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if i := strings.Index(value, " ("); i >= 0 {
		value = value[:i]
	}
	t, err := time.Parse(eventTimeLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

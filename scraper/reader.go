package scraper

import (
	"context"

	"go.uber.org/zap"

	"github.com/eventlens-io/eventlens/ingest"
)

// PayloadSource yields raw listing payloads keyed by content hash.
type PayloadSource interface {
	Crawl(ctx context.Context) map[string]string
}

// Reader runs a crawl and converts the harvested payloads into draft events.
type Reader struct {
	source    PayloadSource
	converter *Converter
	log       *zap.SugaredLogger
}

func NewReader(source PayloadSource, converter *Converter, log *zap.SugaredLogger) *Reader {
	return &Reader{
		source:    source,
		converter: converter,
		log:       log,
	}
}

func (r *Reader) Read(ctx context.Context) ([]ingest.DraftEvent, error) {
	payloads := r.source.Crawl(ctx)
	if len(payloads) == 0 {
		r.log.Info("crawl yielded no new payloads")
		return nil, nil
	}
	return r.converter.Convert(payloads)
}

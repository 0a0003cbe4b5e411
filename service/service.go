package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/eventlens-io/eventlens/ingest"
	"github.com/eventlens-io/eventlens/scraper"
	"github.com/eventlens-io/eventlens/scraper/cache"
)

// Service runs one ingestion round end to end: crawl the listing page,
// convert the harvested payloads and persist the resulting drafts.
type Service struct {
	log      *zap.SugaredLogger
	reader   *scraper.Reader
	pipeline *ingest.Pipeline
	cache    *cache.Store
}

type Options struct {
	Reader   *scraper.Reader
	Pipeline *ingest.Pipeline
	Cache    *cache.Store
}

func NewService(opts Options) *Service {
	return &Service{
		log:      zap.S(),
		reader:   opts.Reader,
		pipeline: opts.Pipeline,
		cache:    opts.Cache,
	}
}

func (s *Service) Ingest(ctx context.Context) (*ingest.Report, error) {
	drafts, err := s.reader.Read(ctx)
	if err != nil {
		return nil, err
	}

	batch := make([]*ingest.DraftEvent, len(drafts))
	for i := range drafts {
		batch[i] = &drafts[i]
	}

	report := s.pipeline.SaveBatch(ctx, batch)
	s.log.Infof("ingestion finished: %d saved, %d not saved", report.SavedCount, report.NotSavedCount)
	return report, nil
}

// ClearCache resets the content cache so the next crawl re-submits every
// payload to the pipeline.
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.log.Info("content cache cleared")
}

package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventlens-io/eventlens/utils"
)

type stubSource struct {
	payloads map[string]string
}

func (s *stubSource) Crawl(ctx context.Context) map[string]string {
	return s.payloads
}

func TestReaderRead(t *testing.T) {
	source := &stubSource{payloads: map[string]string{
		utils.Sha256(concertPayload): concertPayload,
	}}
	converter := NewConverter(&stubPredictor{label: "MUSIC"}, zap.NewNop().Sugar())

	drafts, err := NewReader(source, converter, zap.NewNop().Sugar()).Read(context.Background())
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Jazz Evening", drafts[0].Name)
}

func TestReaderReadEmptyCrawl(t *testing.T) {
	source := &stubSource{payloads: map[string]string{}}
	converter := NewConverter(&stubPredictor{label: "MUSIC"}, zap.NewNop().Sugar())

	drafts, err := NewReader(source, converter, zap.NewNop().Sugar()).Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

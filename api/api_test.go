package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkg/errors"

	"github.com/eventlens-io/eventlens/config"
	"github.com/eventlens-io/eventlens/ingest"
)

type fakeIngestor struct {
	report  *ingest.Report
	err     error
	cleared bool
}

func (f *fakeIngestor) Ingest(ctx context.Context) (*ingest.Report, error) {
	return f.report, f.err
}

func (f *fakeIngestor) ClearCache() {
	f.cleared = true
}

func newTestAPI(t *testing.T, ingestor Ingestor) *httptest.Server {
	t.Helper()
	api := NewAPI(Options{Config: config.New(), Ingestor: ingestor})
	server := httptest.NewServer(api.Handler())
	t.Cleanup(server.Close)
	return server
}

func TestIngestEvents(t *testing.T) {
	ingestor := &fakeIngestor{report: &ingest.Report{SavedCount: 3, NotSavedCount: 1}}
	server := newTestAPI(t, ingestor)

	resp, err := http.Post(server.URL+"/events", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var report ingest.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 3, report.SavedCount)
	assert.Equal(t, 1, report.NotSavedCount)
}

func TestIngestEventsFailure(t *testing.T) {
	ingestor := &fakeIngestor{err: errors.New("training corpus not found")}
	server := newTestAPI(t, ingestor)

	resp, err := http.Post(server.URL+"/events", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 500, resp.StatusCode)
}

func TestClearEventCache(t *testing.T) {
	ingestor := &fakeIngestor{}
	server := newTestAPI(t, ingestor)

	req, err := http.NewRequest("DELETE", server.URL+"/events/cache", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 204, resp.StatusCode)
	assert.True(t, ingestor.cleared)
}

func TestNotFound(t *testing.T) {
	server := newTestAPI(t, &fakeIngestor{})

	resp, err := http.Get(server.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)
}

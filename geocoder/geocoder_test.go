package geocoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventlens-io/eventlens/config"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *Geocoder {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := &config.GeocodingConfig{
		BaseURL:     server.URL,
		Country:     "PL",
		MaxAttempts: 2,
	}
	return New(cfg, zap.NewNop().Sugar())
}

func respond(w http.ResponseWriter, candidates ...candidate) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(geocodeResponse{Addresses: candidates})
}

func TestResolveExactMatch(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PL", r.URL.Query().Get("country"))
		respond(w, candidate{City: "Wrocław", Latitude: 51.1, Longitude: 17.03})
	})

	coords, ok := g.Resolve(context.Background(), "Wrocław", "Rynek 1")
	require.True(t, ok)
	assert.Equal(t, 51.1, coords.Latitude)
	assert.Equal(t, 17.03, coords.Longitude)
}

func TestResolveFuzzyMatch(t *testing.T) {
	// "Krakow" is within edit distance 1 of the normalized "Kraków" query.
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, candidate{City: "Krakow", Latitude: 50.06, Longitude: 19.94})
	})

	coords, ok := g.Resolve(context.Background(), "Kraków", "Main St")
	require.True(t, ok)
	assert.Equal(t, 50.06, coords.Latitude)
}

func TestResolveRejectsWrongCity(t *testing.T) {
	var queries []string
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("query"))
		respond(w, candidate{City: "Warszawa", Latitude: 52.23, Longitude: 21.01})
	})

	_, ok := g.Resolve(context.Background(), "Kraków", "Main St")
	assert.False(t, ok)
	// the mismatch triggers one city-only fallback query before giving up
	require.Len(t, queries, 2)
	assert.Equal(t, "Main St, Kraków", queries[0])
	assert.Equal(t, "Kraków", queries[1])
}

func TestResolveFallbackSucceeds(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "Kraków" {
			respond(w, candidate{City: "Kraków", Latitude: 50.06, Longitude: 19.94})
			return
		}
		respond(w) // street query finds nothing
	})

	coords, ok := g.Resolve(context.Background(), "Kraków", "Nonexistent St 1")
	require.True(t, ok)
	assert.Equal(t, 50.06, coords.Latitude)
}

func TestResolveEndpointFailure(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, ok := g.Resolve(context.Background(), "Kraków", "")
	assert.False(t, ok)
}

func TestResolveWithRetriesDegradesQuery(t *testing.T) {
	var queries []string
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("query"))
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, ok := g.ResolveWithRetries(context.Background(), "Kraków", "Main St")
	assert.False(t, ok)
	// attempt 1 street+city, attempt 2 city-only after degradation
	require.Len(t, queries, 2)
	assert.Equal(t, "Main St, Kraków", queries[0])
	assert.Equal(t, "Kraków", queries[1])
}

func TestResolveWithRetriesFirstSuccessWins(t *testing.T) {
	calls := 0
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		respond(w, candidate{City: "Poznań", Latitude: 52.4, Longitude: 16.9})
	})

	coords, ok := g.ResolveWithRetries(context.Background(), "Poznań", "Stary Rynek 2")
	require.True(t, ok)
	assert.Equal(t, 52.4, coords.Latitude)
	assert.Equal(t, 1, calls)
}

func TestResolveCachesSuccess(t *testing.T) {
	calls := 0
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		respond(w, candidate{City: "Gdańsk", Latitude: 54.35, Longitude: 18.65})
	})

	_, ok := g.Resolve(context.Background(), "Gdańsk", "Długa 1")
	require.True(t, ok)
	coords, ok := g.Resolve(context.Background(), "Gdańsk", "Długa 1")
	require.True(t, ok)
	assert.Equal(t, 54.35, coords.Latitude)
	assert.Equal(t, 1, calls)
}

func TestCityMatches(t *testing.T) {
	assert.True(t, cityMatches("Kraków", "Krakow"))
	assert.True(t, cityMatches("Łódź", "Lodz"))
	assert.True(t, cityMatches("Warszawa", "Warszawa-Śródmieście"))
	assert.False(t, cityMatches("Kraków", "Warszawa"))
	assert.False(t, cityMatches("", "Warszawa"))
}

func TestNormalizeCityName(t *testing.T) {
	assert.Equal(t, "krakow", normalizeCityName("Kraków"))
	// Ł has no combining-mark decomposition, so it survives the strip.
	// cityMatches still pairs "Łódź" with "Lodz" through edit distance.
	assert.Equal(t, "łodz", normalizeCityName(" Łódź "))
	assert.Equal(t, "gdansk", normalizeCityName("GDAŃSK"))
}

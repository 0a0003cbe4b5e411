// Package geocoder resolves free-text (city, street) pairs to coordinates
// through an external geocoding service, tolerating the noise of scraped
// address data: diacritics, misspellings and partial names.
package geocoder

import (
	"context"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/eventlens-io/eventlens/config"
)

// editDistanceTolerance allows minor differences like "Cracow" and "Krakow".
const editDistanceTolerance = 2

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type candidate struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type geocodeResponse struct {
	Addresses []candidate `json:"addresses"`
}

type Geocoder struct {
	cfg    *config.GeocodingConfig
	client *resty.Client
	cache  *expirable.LRU[string, Coordinates]
	log    *zap.SugaredLogger
}

func New(cfg *config.GeocodingConfig, log *zap.SugaredLogger) *Geocoder {
	client := resty.New().SetTimeout(cfg.Timeout)
	return &Geocoder{
		cfg:    cfg,
		client: client,
		cache:  expirable.NewLRU[string, Coordinates](cfg.CacheSize, nil, cfg.CacheTTL),
		log:    log,
	}
}

// Resolve maps city and street to coordinates. Absence of a result is the
// sole failure signal; endpoint failures are logged and reported as absence.
// Successful resolutions are cached; failures are not.
func (g *Geocoder) Resolve(ctx context.Context, city, street string) (Coordinates, bool) {
	key := normalizeCityName(city) + "\x00" + normalizeCityName(street)
	if coords, ok := g.cache.Get(key); ok {
		return coords, true
	}
	coords, ok := g.resolve(ctx, city, street, false)
	if ok {
		g.cache.Add(key, coords)
	}
	return coords, ok
}

// ResolveWithRetries calls Resolve up to the configured number of attempts,
// dropping the street term after each failed attempt to degrade the query.
func (g *Geocoder) ResolveWithRetries(ctx context.Context, city, street string) (Coordinates, bool) {
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		coords, ok := g.Resolve(ctx, city, street)
		if ok {
			return coords, true
		}
		g.log.Warnf("geocoding attempt %d/%d failed for city %q street %q",
			attempt, g.cfg.MaxAttempts, city, street)
		street = ""
	}
	return Coordinates{}, false
}

func (g *Geocoder) resolve(ctx context.Context, city, street string, isFallback bool) (Coordinates, bool) {
	query := city
	if strings.TrimSpace(street) != "" {
		query = street + ", " + city
	}

	var result geocodeResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Authorization", string(g.cfg.APIKey)).
		SetQueryParams(map[string]string{
			"query":   query,
			"country": g.cfg.Country,
			"lang":    "en",
		}).
		SetResult(&result).
		Get(g.cfg.BaseURL)
	if err != nil {
		g.log.Errorf("geocoding request failed for query %q: %v", query, err)
		return Coordinates{}, false
	}
	if !resp.IsSuccess() {
		g.log.Errorf("geocoding request for query %q returned status %d: %s",
			query, resp.StatusCode(), resp.String())
		return Coordinates{}, false
	}

	if len(result.Addresses) > 0 {
		top := result.Addresses[0]
		if cityMatches(city, top.City) {
			return Coordinates{Latitude: top.Latitude, Longitude: top.Longitude}, true
		}
	}

	if !isFallback {
		return g.resolve(ctx, city, "", true)
	}

	g.log.Errorf("geocoding failed for city %q and street %q", city, street)
	return Coordinates{}, false
}

// cityMatches accepts a candidate whose normalized name equals the query
// city, is within a small edit distance of it, or contains/is contained by it.
func cityMatches(queryCity, candidateCity string) bool {
	a := normalizeCityName(queryCity)
	b := normalizeCityName(candidateCity)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if levenshtein.ComputeDistance(a, b) <= editDistanceTolerance {
		return true
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeCityName(name string) string {
	normalized, _, err := transform.String(stripDiacritics, name)
	if err != nil {
		normalized = name
	}
	return strings.ToLower(strings.TrimSpace(normalized))
}

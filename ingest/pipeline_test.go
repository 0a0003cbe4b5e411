package ingest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventlens-io/eventlens/db/dao"
	"github.com/eventlens-io/eventlens/db/entities"
	"github.com/eventlens-io/eventlens/geocoder"
	"github.com/eventlens-io/eventlens/pkg/types"
	"github.com/eventlens-io/eventlens/utils"
)

// memDB is an in-memory stand-in for the reference-entity stores, keyed by
// the same natural keys the schema enforces.
type memDB struct {
	cities     map[string]*entities.City
	addresses  map[string]*entities.Address
	locations  map[string]*entities.Location
	categories map[string]*entities.Category
	events     map[string]*entities.Event
}

func newMemDB() *memDB {
	return &memDB{
		cities:     make(map[string]*entities.City),
		addresses:  make(map[string]*entities.Address),
		locations:  make(map[string]*entities.Location),
		categories: make(map[string]*entities.Category),
		events:     make(map[string]*entities.Event),
	}
}

func (d *memDB) stores() Stores {
	return Stores{
		Cities:     cityFake{d},
		Addresses:  addressFake{d},
		Locations:  locationFake{d},
		Categories: categoryFake{d},
		Events:     eventFake{d},
	}
}

func (d *memDB) TX(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type cityFake struct{ db *memDB }

func (f cityFake) FindOrCreate(ctx context.Context, city *entities.City) (*entities.City, error) {
	if existing, ok := f.db.cities[city.Name]; ok {
		return existing, nil
	}
	city.ID = utils.KSUID()
	f.db.cities[city.Name] = city
	return city, nil
}

func (f cityFake) UpdateCoordinates(ctx context.Context, id string, latitude, longitude float64) error {
	for _, city := range f.db.cities {
		if city.ID == id {
			city.Latitude = latitude
			city.Longitude = longitude
			return nil
		}
	}
	return fmt.Errorf("no city with id %s", id)
}

type addressFake struct{ db *memDB }

func (f addressFake) FindOrCreate(ctx context.Context, address *entities.Address) (*entities.Address, error) {
	key := address.Street + "|" + address.CityId
	if existing, ok := f.db.addresses[key]; ok {
		return existing, nil
	}
	address.ID = utils.KSUID()
	f.db.addresses[key] = address
	return address, nil
}

type locationFake struct{ db *memDB }

func (f locationFake) FindOrCreate(ctx context.Context, location *entities.Location) (*entities.Location, error) {
	key := location.Name + "|" + location.AddressId
	if existing, ok := f.db.locations[key]; ok {
		return existing, nil
	}
	location.ID = utils.KSUID()
	f.db.locations[key] = location
	return location, nil
}

func (f locationFake) UpdateCoordinates(ctx context.Context, id string, latitude, longitude float64) error {
	for _, location := range f.db.locations {
		if location.ID == id {
			location.Latitude = latitude
			location.Longitude = longitude
			return nil
		}
	}
	return fmt.Errorf("no location with id %s", id)
}

type categoryFake struct{ db *memDB }

func (f categoryFake) FindOrCreate(ctx context.Context, name string) (*entities.Category, error) {
	if existing, ok := f.db.categories[name]; ok {
		return existing, nil
	}
	category := &entities.Category{Name: name}
	category.ID = utils.KSUID()
	f.db.categories[name] = category
	return category, nil
}

type eventFake struct{ db *memDB }

func eventKey(name, locationId string, startDate, endDate types.Time) string {
	return fmt.Sprintf("%s|%s|%d|%d", name, locationId, startDate.UnixMilli(), endDate.UnixMilli())
}

func (f eventFake) ExistsByNaturalKey(ctx context.Context, name, locationId string, startDate, endDate types.Time) (bool, error) {
	_, ok := f.db.events[eventKey(name, locationId, startDate, endDate)]
	return ok, nil
}

func (f eventFake) Insert(ctx context.Context, event *entities.Event) error {
	key := eventKey(event.Name, event.LocationId, event.StartDate, event.EndDate)
	if _, ok := f.db.events[key]; ok {
		return dao.ErrConstraintViolation
	}
	f.db.events[key] = event
	return nil
}

type fakeResolver struct {
	failCities map[string]bool
	calls      int
}

func (r *fakeResolver) ResolveWithRetries(ctx context.Context, city, street string) (geocoder.Coordinates, bool) {
	r.calls++
	if r.failCities[city] {
		return geocoder.Coordinates{}, false
	}
	return geocoder.Coordinates{Latitude: 50.06, Longitude: 19.94}, true
}

func draft(name, street, city string) *DraftEvent {
	return &DraftEvent{
		Name:        name,
		Description: "an evening to remember",
		Category:    "MUSIC",
		StartDate:   time.Date(2024, 6, 12, 18, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 6, 12, 21, 0, 0, 0, time.UTC),
		Location: &DraftLocation{
			Name:    "Venue " + name,
			Address: &DraftAddress{Street: street, City: city},
		},
	}
}

func newTestPipeline(db *memDB, resolver Resolver) *Pipeline {
	return NewPipeline(db.stores(), db, resolver, zap.NewNop().Sugar())
}

func TestSaveBatchIdempotentReingestion(t *testing.T) {
	db := newMemDB()
	p := newTestPipeline(db, &fakeResolver{})
	batch := []*DraftEvent{draft("Jazz Evening", "Rynek 1", "Kraków")}

	report := p.SaveBatch(context.Background(), batch)
	assert.Equal(t, 1, report.SavedCount)
	assert.Equal(t, 0, report.NotSavedCount)

	report = p.SaveBatch(context.Background(), batch)
	assert.Equal(t, 0, report.SavedCount)
	require.Equal(t, 1, report.NotSavedCount)
	assert.Contains(t, report.NotSavedEvents[0].Reason, "already exists")
	assert.Len(t, db.events, 1)
}

func TestSaveBatchReferenceDedup(t *testing.T) {
	db := newMemDB()
	p := newTestPipeline(db, &fakeResolver{})

	report := p.SaveBatch(context.Background(), []*DraftEvent{
		draft("Jazz Evening", "Rynek 1", "Kraków"),
		draft("Piano Recital", "Rynek 1", "Kraków"),
	})

	assert.Equal(t, 2, report.SavedCount)
	assert.Len(t, db.cities, 1)
	assert.Len(t, db.addresses, 1)
	assert.Len(t, db.events, 2)
}

func TestSaveBatchPartialResilience(t *testing.T) {
	db := newMemDB()
	resolver := &fakeResolver{failCities: map[string]bool{"Atlantis": true}}
	p := newTestPipeline(db, resolver)

	report := p.SaveBatch(context.Background(), []*DraftEvent{
		draft("Jazz Evening", "Rynek 1", "Kraków"),
		draft("Blank Street", "", "Kraków"),
		draft("Blank City", "Rynek 1", ""),
		draft("Sunken Concert", "Deep St 1", "Atlantis"),
		draft("Piano Recital", "Stary Rynek 2", "Poznań"),
	})

	assert.Equal(t, 2, report.SavedCount)
	assert.Equal(t, 3, report.NotSavedCount)
	assert.Len(t, report.SavedEvents, 2)
	assert.Len(t, report.NotSavedEvents, 3)
}

func TestSaveBatchGeocodingExhaustion(t *testing.T) {
	db := newMemDB()
	resolver := &fakeResolver{failCities: map[string]bool{"Atlantis": true}}
	p := newTestPipeline(db, resolver)

	report := p.SaveBatch(context.Background(), []*DraftEvent{
		draft("Sunken Concert", "Deep St 1", "Atlantis"),
	})

	assert.Equal(t, 0, report.SavedCount)
	require.Equal(t, 1, report.NotSavedCount)
	assert.Contains(t, report.NotSavedEvents[0].Reason, "geocoding failed")
	assert.Empty(t, db.events)
}

func TestSaveBatchMissingReferences(t *testing.T) {
	p := newTestPipeline(newMemDB(), &fakeResolver{})

	noLocation := &DraftEvent{Name: "No Location"}
	noAddress := &DraftEvent{Name: "No Address", Location: &DraftLocation{Name: "Venue"}}

	report := p.SaveBatch(context.Background(), []*DraftEvent{noLocation, noAddress})
	assert.Equal(t, 0, report.SavedCount)
	require.Equal(t, 2, report.NotSavedCount)
	assert.Contains(t, report.NotSavedEvents[0].Reason, "location is missing")
	assert.Contains(t, report.NotSavedEvents[1].Reason, "address is missing")
}

func TestSaveBatchDuplicateWithinBatch(t *testing.T) {
	db := newMemDB()
	p := newTestPipeline(db, &fakeResolver{})

	report := p.SaveBatch(context.Background(), []*DraftEvent{
		draft("Jazz Evening", "Rynek 1", "Kraków"),
		draft("Jazz Evening", "Rynek 1", "Kraków"),
	})

	assert.Equal(t, 1, report.SavedCount)
	assert.Equal(t, 1, report.NotSavedCount)
	assert.Len(t, db.events, 1)
}

func TestSaveBatchResolvesCoordinatesOnce(t *testing.T) {
	db := newMemDB()
	resolver := &fakeResolver{}
	p := newTestPipeline(db, resolver)

	p.SaveBatch(context.Background(), []*DraftEvent{draft("Jazz Evening", "Rynek 1", "Kraków")})
	// city and location each resolved once
	assert.Equal(t, 2, resolver.calls)

	// a different event at the same venue reuses both stored coordinates
	second := draft("Jazz Evening", "Rynek 1", "Kraków")
	second.Name = "Piano Recital"
	report := p.SaveBatch(context.Background(), []*DraftEvent{second})
	assert.Equal(t, 1, report.SavedCount)
	assert.Equal(t, 2, resolver.calls)
}

func TestSaveBatchEmpty(t *testing.T) {
	p := newTestPipeline(newMemDB(), &fakeResolver{})
	report := p.SaveBatch(context.Background(), nil)
	assert.Equal(t, 0, report.SavedCount)
	assert.Equal(t, 0, report.NotSavedCount)
}

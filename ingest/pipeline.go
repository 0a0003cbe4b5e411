package ingest

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/eventlens-io/eventlens/db/dao"
	"github.com/eventlens-io/eventlens/db/entities"
	"github.com/eventlens-io/eventlens/geocoder"
	"github.com/eventlens-io/eventlens/pkg/types"
	"github.com/eventlens-io/eventlens/utils"
)

var (
	// ErrDuplicateEvent marks the expected duplicate-suppression outcome: an
	// event with the same natural key already exists.
	ErrDuplicateEvent = errors.New("event already exists")

	errMissingLocation = errors.New("location is missing")
	errMissingAddress  = errors.New("address is missing")
	errBlankStreetCity = errors.New("street or city cannot be empty")
)

// CityStore, AddressStore, LocationStore, CategoryStore and EventStore are
// the narrow persistence contracts the pipeline depends on. Find-or-create
// must be race-tolerant: concurrent duplicate creates resolve to the same
// logical row.
type CityStore interface {
	FindOrCreate(ctx context.Context, city *entities.City) (*entities.City, error)
	UpdateCoordinates(ctx context.Context, id string, latitude, longitude float64) error
}

type AddressStore interface {
	FindOrCreate(ctx context.Context, address *entities.Address) (*entities.Address, error)
}

type LocationStore interface {
	FindOrCreate(ctx context.Context, location *entities.Location) (*entities.Location, error)
	UpdateCoordinates(ctx context.Context, id string, latitude, longitude float64) error
}

type CategoryStore interface {
	FindOrCreate(ctx context.Context, name string) (*entities.Category, error)
}

type EventStore interface {
	ExistsByNaturalKey(ctx context.Context, name, locationId string, startDate, endDate types.Time) (bool, error)
	Insert(ctx context.Context, event *entities.Event) error
}

type Stores struct {
	Cities     CityStore
	Addresses  AddressStore
	Locations  LocationStore
	Categories CategoryStore
	Events     EventStore
}

// Transactor runs fn as one atomic read-then-write unit.
type Transactor interface {
	TX(ctx context.Context, fn func(ctx context.Context) error) error
}

// Resolver maps a (city, street) pair to coordinates, degrading the query on
// retry. Absence of a result is the sole failure signal.
type Resolver interface {
	ResolveWithRetries(ctx context.Context, city, street string) (geocoder.Coordinates, bool)
}

// Pipeline resolves reference entities for scraped drafts and persists them,
// isolating per-draft failures.
type Pipeline struct {
	stores   Stores
	tx       Transactor
	resolver Resolver
	log      *zap.SugaredLogger
}

func NewPipeline(stores Stores, tx Transactor, resolver Resolver, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		stores:   stores,
		tx:       tx,
		resolver: resolver,
		log:      log,
	}
}

// SaveBatch persists every draft it can; one draft's rejection never stops
// the rest. Each saved event is durable independent of sibling failures.
func (p *Pipeline) SaveBatch(ctx context.Context, drafts []*DraftEvent) *Report {
	report := &Report{
		SavedEvents:    make([]*entities.Event, 0, len(drafts)),
		NotSavedEvents: make([]*RejectedDraft, 0),
	}
	if len(drafts) == 0 {
		p.log.Info("no events to save, the batch is empty")
		return report
	}

	p.log.Debugf("saving %d events to the database", len(drafts))
	for _, draft := range drafts {
		event, err := p.saveOne(ctx, draft)
		if err != nil {
			if errors.Is(err, ErrDuplicateEvent) {
				p.log.Infof("event %q not saved, it already exists", draft.Name)
			} else {
				p.log.Warnf("event %q not saved: %v", draft.Name, err)
			}
			report.rejected(draft, err.Error())
			continue
		}
		report.saved(event)
	}
	return report
}

func (p *Pipeline) saveOne(ctx context.Context, draft *DraftEvent) (*entities.Event, error) {
	if draft.Location == nil {
		return nil, errMissingLocation
	}
	if draft.Location.Address == nil {
		return nil, errMissingAddress
	}
	if draft.Location.Address.Street == "" || draft.Location.Address.City == "" {
		return nil, errBlankStreetCity
	}

	var saved *entities.Event
	err := p.tx.TX(ctx, func(ctx context.Context) error {
		event, err := p.resolveAndPersist(ctx, draft)
		if err != nil {
			return err
		}
		saved = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (p *Pipeline) resolveAndPersist(ctx context.Context, draft *DraftEvent) (*entities.Event, error) {
	addr := draft.Location.Address

	city, err := p.stores.Cities.FindOrCreate(ctx, &entities.City{Name: addr.City})
	if err != nil {
		return nil, errors.Wrap(err, "resolving city")
	}
	if !city.Resolved() {
		coords, ok := p.resolver.ResolveWithRetries(ctx, city.Name, "")
		if !ok {
			return nil, errors.Errorf("geocoding failed for city %q", city.Name)
		}
		if err := p.stores.Cities.UpdateCoordinates(ctx, city.ID, coords.Latitude, coords.Longitude); err != nil {
			return nil, errors.Wrap(err, "updating city coordinates")
		}
	}

	address, err := p.stores.Addresses.FindOrCreate(ctx, &entities.Address{
		Street: addr.Street,
		CityId: city.ID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "resolving address")
	}

	location, err := p.stores.Locations.FindOrCreate(ctx, &entities.Location{
		Name:      draft.Location.Name,
		AddressId: address.ID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "resolving location")
	}

	category, err := p.stores.Categories.FindOrCreate(ctx, draft.Category)
	if err != nil {
		return nil, errors.Wrap(err, "resolving category")
	}

	startDate := types.NewTime(draft.StartDate)
	endDate := types.NewTime(draft.EndDate)
	exists, err := p.stores.Events.ExistsByNaturalKey(ctx, draft.Name, location.ID, startDate, endDate)
	if err != nil {
		return nil, errors.Wrap(err, "checking for duplicate event")
	}
	if exists {
		return nil, ErrDuplicateEvent
	}

	if !location.Resolved() {
		coords, ok := p.resolver.ResolveWithRetries(ctx, addr.City, addr.Street)
		if !ok {
			return nil, errors.Errorf("geocoding failed for location %q", draft.Location.Name)
		}
		if err := p.stores.Locations.UpdateCoordinates(ctx, location.ID, coords.Latitude, coords.Longitude); err != nil {
			return nil, errors.Wrap(err, "updating location coordinates")
		}
	}

	event := &entities.Event{
		Name:        draft.Name,
		Description: draft.Description,
		Image:       draft.Image,
		StartDate:   startDate,
		EndDate:     endDate,
		LocationId:  location.ID,
		CategoryId:  category.ID,
	}
	event.ID = utils.KSUID()
	if err := event.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid event")
	}
	if err := p.stores.Events.Insert(ctx, event); err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			// a concurrent run persisted the same natural key first
			return nil, ErrDuplicateEvent
		}
		return nil, errors.Wrap(err, "inserting event")
	}
	return event, nil
}

package dao

import (
	"context"

	"github.com/eventlens-io/eventlens/db/entities"
	"github.com/eventlens-io/eventlens/db/query"
	"github.com/eventlens-io/eventlens/pkg/types"
)

type BaseDAO[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id string) (bool, error)
	Page(ctx context.Context, q query.Queryer) ([]*T, int64, error)
	List(ctx context.Context, q query.Queryer) ([]*T, error)
	Count(ctx context.Context, conditions map[string]interface{}) (int64, error)
}

type CityDAO interface {
	BaseDAO[entities.City]
	FindByName(ctx context.Context, name string) (*entities.City, error)
	FindOrCreate(ctx context.Context, city *entities.City) (*entities.City, error)
	UpdateCoordinates(ctx context.Context, id string, latitude, longitude float64) error
}

type AddressDAO interface {
	BaseDAO[entities.Address]
	FindByStreetAndCity(ctx context.Context, street, cityId string) (*entities.Address, error)
	FindOrCreate(ctx context.Context, address *entities.Address) (*entities.Address, error)
}

type LocationDAO interface {
	BaseDAO[entities.Location]
	FindByNameAndAddress(ctx context.Context, name, addressId string) (*entities.Location, error)
	FindOrCreate(ctx context.Context, location *entities.Location) (*entities.Location, error)
	UpdateCoordinates(ctx context.Context, id string, latitude, longitude float64) error
}

type CategoryDAO interface {
	BaseDAO[entities.Category]
	FindByName(ctx context.Context, name string) (*entities.Category, error)
	FindOrCreate(ctx context.Context, name string) (*entities.Category, error)
}

type EventDAO interface {
	BaseDAO[entities.Event]
	ExistsByNaturalKey(ctx context.Context, name, locationId string, startDate, endDate types.Time) (bool, error)
	PageByFilter(ctx context.Context, filter EventFilter, q *query.Query) ([]*entities.Event, int64, error)
}

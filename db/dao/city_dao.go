package dao

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/eventlens-io/eventlens/db/entities"
	"github.com/eventlens-io/eventlens/utils"
)

type cityDao struct {
	*DAO[entities.City]
}

func NewCityDAO(db *sqlx.DB) CityDAO {
	return &cityDao{
		DAO: NewDAO[entities.City]("cities", db),
	}
}

func (dao *cityDao) FindByName(ctx context.Context, name string) (*entities.City, error) {
	return dao.selectWhere(ctx, sq.Eq{"name": name})
}

func (dao *cityDao) FindOrCreate(ctx context.Context, city *entities.City) (*entities.City, error) {
	existing, err := dao.FindByName(ctx, city.Name)
	if err != nil || existing != nil {
		return existing, err
	}
	city.ID = utils.KSUID()
	inserted, err := dao.insertIgnoreConflict(ctx, city)
	if err != nil {
		return nil, err
	}
	if inserted {
		return city, nil
	}
	// lost a concurrent create, the winner's row is authoritative
	return dao.FindByName(ctx, city.Name)
}

func (dao *cityDao) UpdateCoordinates(ctx context.Context, id string, latitude, longitude float64) error {
	_, err := dao.update(ctx, id, map[string]interface{}{
		"latitude":  latitude,
		"longitude": longitude,
	})
	return err
}

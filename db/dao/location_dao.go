package dao

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/eventlens-io/eventlens/db/entities"
	"github.com/eventlens-io/eventlens/utils"
)

type locationDao struct {
	*DAO[entities.Location]
}

func NewLocationDAO(db *sqlx.DB) LocationDAO {
	return &locationDao{
		DAO: NewDAO[entities.Location]("locations", db),
	}
}

func (dao *locationDao) FindByNameAndAddress(ctx context.Context, name, addressId string) (*entities.Location, error) {
	return dao.selectWhere(ctx, sq.Eq{"name": name, "address_id": addressId})
}

func (dao *locationDao) FindOrCreate(ctx context.Context, location *entities.Location) (*entities.Location, error) {
	existing, err := dao.FindByNameAndAddress(ctx, location.Name, location.AddressId)
	if err != nil || existing != nil {
		return existing, err
	}
	location.ID = utils.KSUID()
	inserted, err := dao.insertIgnoreConflict(ctx, location)
	if err != nil {
		return nil, err
	}
	if inserted {
		return location, nil
	}
	return dao.FindByNameAndAddress(ctx, location.Name, location.AddressId)
}

func (dao *locationDao) UpdateCoordinates(ctx context.Context, id string, latitude, longitude float64) error {
	_, err := dao.update(ctx, id, map[string]interface{}{
		"latitude":  latitude,
		"longitude": longitude,
	})
	return err
}

package dao

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/eventlens-io/eventlens/db/entities"
	"github.com/eventlens-io/eventlens/utils"
)

type addressDao struct {
	*DAO[entities.Address]
}

func NewAddressDAO(db *sqlx.DB) AddressDAO {
	return &addressDao{
		DAO: NewDAO[entities.Address]("addresses", db),
	}
}

func (dao *addressDao) FindByStreetAndCity(ctx context.Context, street, cityId string) (*entities.Address, error) {
	return dao.selectWhere(ctx, sq.Eq{"street": street, "city_id": cityId})
}

func (dao *addressDao) FindOrCreate(ctx context.Context, address *entities.Address) (*entities.Address, error) {
	existing, err := dao.FindByStreetAndCity(ctx, address.Street, address.CityId)
	if err != nil || existing != nil {
		return existing, err
	}
	address.ID = utils.KSUID()
	inserted, err := dao.insertIgnoreConflict(ctx, address)
	if err != nil {
		return nil, err
	}
	if inserted {
		return address, nil
	}
	return dao.FindByStreetAndCity(ctx, address.Street, address.CityId)
}

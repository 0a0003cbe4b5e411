package dao

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/eventlens-io/eventlens/db/entities"
	"github.com/eventlens-io/eventlens/utils"
)

type categoryDao struct {
	*DAO[entities.Category]
}

func NewCategoryDAO(db *sqlx.DB) CategoryDAO {
	return &categoryDao{
		DAO: NewDAO[entities.Category]("categories", db),
	}
}

func (dao *categoryDao) FindByName(ctx context.Context, name string) (*entities.Category, error) {
	return dao.selectWhere(ctx, sq.Eq{"name": name})
}

func (dao *categoryDao) FindOrCreate(ctx context.Context, name string) (*entities.Category, error) {
	existing, err := dao.FindByName(ctx, name)
	if err != nil || existing != nil {
		return existing, err
	}
	category := &entities.Category{Name: name}
	category.ID = utils.KSUID()
	inserted, err := dao.insertIgnoreConflict(ctx, category)
	if err != nil {
		return nil, err
	}
	if inserted {
		return category, nil
	}
	return dao.FindByName(ctx, name)
}

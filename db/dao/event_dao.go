package dao

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/eventlens-io/eventlens/db/entities"
	"github.com/eventlens-io/eventlens/db/query"
	"github.com/eventlens-io/eventlens/pkg/types"
)

type eventDao struct {
	*DAO[entities.Event]
}

func NewEventDAO(db *sqlx.DB) EventDAO {
	return &eventDao{
		DAO: NewDAO[entities.Event]("events", db),
	}
}

func (dao *eventDao) ExistsByNaturalKey(ctx context.Context, name, locationId string, startDate, endDate types.Time) (bool, error) {
	return dao.existsWhere(ctx, sq.Eq{
		"name":        name,
		"location_id": locationId,
		"start_date":  startDate.Time,
		"end_date":    endDate.Time,
	})
}

// EventFilter narrows an event listing by reference-entity attributes.
type EventFilter struct {
	City     string
	Category string
	Search   string
}

func (f EventFilter) apply(builder sq.SelectBuilder) sq.SelectBuilder {
	builder = builder.
		Join("locations ON locations.id = events.location_id").
		Join("addresses ON addresses.id = locations.address_id").
		Join("cities ON cities.id = addresses.city_id").
		Join("categories ON categories.id = events.category_id")
	if f.City != "" {
		builder = builder.Where(sq.Eq{"cities.name": f.City})
	}
	if f.Category != "" {
		builder = builder.Where(sq.Eq{"categories.name": f.Category})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"events.name": pattern},
			sq.ILike{"locations.name": pattern},
			sq.ILike{"cities.name": pattern},
		})
	}
	return builder
}

func (dao *eventDao) PageByFilter(ctx context.Context, filter EventFilter, q *query.Query) (list []*entities.Event, total int64, err error) {
	countBuilder := filter.apply(psql.Select("COUNT(*)").From(dao.table))
	statement, args := countBuilder.MustSql()
	dao.debugSQL(statement, args)
	if err = dao.DB(ctx).GetContext(ctx, &total, statement, args...); err != nil {
		return
	}

	builder := filter.apply(psql.Select("events.*").From(dao.table))
	if q.Limit() != 0 {
		builder = builder.Offset(uint64(q.Offset())).Limit(uint64(q.Limit()))
	}
	for _, order := range q.Orders() {
		builder = builder.OrderBy("events." + order.Column + " " + order.Sort)
	}
	statement, args = builder.MustSql()
	dao.debugSQL(statement, args)
	list = make([]*entities.Event, 0)
	err = dao.UnsafeDB(ctx).SelectContext(ctx, &list, statement, args...)
	return
}

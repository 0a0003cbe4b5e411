package dao

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/eventlens-io/eventlens/db/query"
	"github.com/eventlens-io/eventlens/db/transaction"
	"github.com/eventlens-io/eventlens/pkg/types"
	"github.com/eventlens-io/eventlens/utils"
)

var (
	ErrNoRows              = sql.ErrNoRows
	ErrConstraintViolation = errors.New("constraint violation")
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Queryable is an interface to be used interchangeably for sqlx.DB and sqlx.Tx
type Queryable interface {
	sqlx.ExtContext
	GetContext(context.Context, interface{}, string, ...interface{}) error
	SelectContext(context.Context, interface{}, string, ...interface{}) error
}

type DAO[T any] struct {
	log   *zap.SugaredLogger
	db    *sqlx.DB
	table string
}

func NewDAO[T any](table string, db *sqlx.DB) *DAO[T] {
	return &DAO[T]{
		log:   zap.S(),
		db:    db,
		table: table,
	}
}

func (dao *DAO[T]) debugSQL(sql string, args []interface{}) {
	dao.log.Debugf("[dao] execute: %s %v", sql, args)
}

func (dao *DAO[T]) DB(ctx context.Context) Queryable {
	if ctx == nil {
		ctx = context.TODO()
	}
	if tx, ok := transaction.FromContext(ctx); ok {
		return tx
	}
	return dao.db
}

func (dao *DAO[T]) UnsafeDB(ctx context.Context) Queryable {
	db := dao.DB(ctx)
	if tx, ok := db.(*sqlx.Tx); ok {
		return tx.Unsafe()
	}
	return db.(*sqlx.DB).Unsafe()
}

func (dao *DAO[T]) Get(ctx context.Context, id string) (entity *T, err error) {
	return dao.selectWhere(ctx, sq.Eq{"id": id})
}

func (dao *DAO[T]) selectWhere(ctx context.Context, where sq.Eq) (entity *T, err error) {
	statement, args := psql.Select("*").From(dao.table).Where(where).MustSql()
	dao.debugSQL(statement, args)
	entity = new(T)
	err = dao.UnsafeDB(ctx).GetContext(ctx, entity, statement, args...)
	if errors.Is(err, ErrNoRows) {
		return nil, nil
	}
	return
}

func (dao *DAO[T]) existsWhere(ctx context.Context, where sq.Eq) (exists bool, err error) {
	statement, args := psql.Select("1").From(dao.table).Where(where).Prefix("SELECT EXISTS (").Suffix(")").MustSql()
	dao.debugSQL(statement, args)
	err = dao.DB(ctx).GetContext(ctx, &exists, statement, args...)
	return
}

func (dao *DAO[T]) Count(ctx context.Context, where map[string]interface{}) (total int64, err error) {
	builder := psql.Select("COUNT(*)").From(dao.table)
	if len(where) > 0 {
		builder = builder.Where(where)
	}
	statement, args := builder.MustSql()
	dao.debugSQL(statement, args)
	err = dao.DB(ctx).GetContext(ctx, &total, statement, args...)
	return
}

func (dao *DAO[T]) List(ctx context.Context, q query.Queryer) (list []*T, err error) {
	builder := psql.Select("*").From(dao.table)
	where := q.WhereMap()
	if len(where) > 0 {
		builder = builder.Where(where)
	}
	if q.Limit() != 0 {
		builder = builder.Offset(uint64(q.Offset()))
		builder = builder.Limit(uint64(q.Limit()))
	}
	for _, order := range q.Orders() {
		builder = builder.OrderBy(order.Column + " " + order.Sort)
	}
	statement, args := builder.MustSql()
	dao.debugSQL(statement, args)
	list = make([]*T, 0)
	err = dao.UnsafeDB(ctx).SelectContext(ctx, &list, statement, args...)
	return
}

func (dao *DAO[T]) Page(ctx context.Context, q query.Queryer) (list []*T, total int64, err error) {
	total, err = dao.Count(ctx, q.WhereMap())
	if err != nil {
		return
	}
	list, err = dao.List(ctx, q)
	return
}

func travel(entity interface{}, fn func(field reflect.StructField, value reflect.Value)) {
	t := reflect.TypeOf(entity)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	v := reflect.ValueOf(entity)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		value := v.Field(i)
		if field.Anonymous {
			travel(value.Interface(), fn)
		} else {
			fn(field, value)
		}
	}
}

func columnsOf(entity interface{}) (columns []string, values []interface{}) {
	travel(entity, func(f reflect.StructField, v reflect.Value) {
		column := utils.DefaultIfZero(f.Tag.Get("db"), strings.ToLower(f.Name))
		switch column {
		case "created_at", "updated_at": // maintained by the database
		default:
			columns = append(columns, column)
			values = append(values, v.Interface())
		}
	})
	return
}

func (dao *DAO[T]) Insert(ctx context.Context, entity *T) error {
	columns, values := columnsOf(entity)
	statement, args := psql.Insert(dao.table).Columns(columns...).Values(values...).
		Suffix("RETURNING *").
		MustSql()
	dao.debugSQL(statement, args)
	err := dao.UnsafeDB(ctx).QueryRowxContext(ctx, statement, args...).StructScan(entity)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrConstraintViolation
		}
	}
	return err
}

// insertIgnoreConflict inserts the entity unless a row with the same natural
// key already exists. It reports whether a row was inserted; on false the
// caller lost a find-or-create race and should reselect.
func (dao *DAO[T]) insertIgnoreConflict(ctx context.Context, entity *T) (inserted bool, err error) {
	columns, values := columnsOf(entity)
	statement, args := psql.Insert(dao.table).Columns(columns...).Values(values...).
		Suffix("ON CONFLICT DO NOTHING RETURNING *").
		MustSql()
	dao.debugSQL(statement, args)
	rows, err := dao.UnsafeDB(ctx).QueryxContext(ctx, statement, args...)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.StructScan(entity); err != nil {
			return false, err
		}
		return true, rows.Err()
	}
	return false, rows.Err()
}

func (dao *DAO[T]) update(ctx context.Context, id string, maps map[string]interface{}) (int64, error) {
	maps["updated_at"] = types.NewTime(time.Now())
	builder := psql.Update(dao.table).SetMap(maps).Where(sq.Eq{"id": id})
	statement, args := builder.MustSql()
	dao.debugSQL(statement, args)
	result, err := dao.DB(ctx).ExecContext(ctx, statement, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (dao *DAO[T]) Delete(ctx context.Context, id string) (bool, error) {
	statement, args := psql.Delete(dao.table).Where(sq.Eq{"id": id}).MustSql()
	dao.debugSQL(statement, args)
	result, err := dao.DB(ctx).ExecContext(ctx, statement, args...)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

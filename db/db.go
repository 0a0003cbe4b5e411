package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/eventlens-io/eventlens/config"
	"github.com/eventlens-io/eventlens/db/dao"
	"github.com/eventlens-io/eventlens/db/transaction"
)

type DB struct {
	DB  *sqlx.DB
	log *zap.SugaredLogger

	Cities     dao.CityDAO
	Addresses  dao.AddressDAO
	Locations  dao.LocationDAO
	Categories dao.CategoryDAO
	Events     dao.EventDAO
}

func NewSqlDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.GetDSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(int(cfg.MaxPoolSize))
	db.SetMaxIdleConns(int(cfg.MaxPoolSize))
	db.SetConnMaxLifetime(time.Second * time.Duration(cfg.MaxLifetime))
	return db, nil
}

func NewDB(sqlDB *sql.DB, log *zap.SugaredLogger) *DB {
	sqlxDB := sqlx.NewDb(sqlDB, "pgx")

	return &DB{
		DB:         sqlxDB,
		log:        log,
		Cities:     dao.NewCityDAO(sqlxDB),
		Addresses:  dao.NewAddressDAO(sqlxDB),
		Locations:  dao.NewLocationDAO(sqlxDB),
		Categories: dao.NewCategoryDAO(sqlxDB),
		Events:     dao.NewEventDAO(sqlxDB),
	}
}

func (db *DB) Ping() error {
	return db.DB.Ping()
}

// TX runs fn inside a transaction carried through the context; nested DAO
// calls pick it up via transaction.FromContext.
func (db *DB) TX(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := db.DB.Beginx()
	if err != nil {
		return err
	}

	defer func() {
		if err := recover(); err != nil {
			db.log.Errorf("panic recovered: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				db.log.Errorf("failed to rollback the tx: %v", rbErr)
			}
			panic(err)
		}
	}()

	ctx = transaction.WithTx(ctx, tx)

	err = fn(ctx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrap(err, rbErr.Error())
		}
		return err
	}

	return tx.Commit()
}

func (db *DB) SqlDB() *sql.DB {
	return db.DB.DB
}

func (db *DB) Close() error {
	return db.DB.Close()
}

package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"

	"github.com/eventlens-io/eventlens"
	"github.com/eventlens-io/eventlens/api"
	"github.com/eventlens-io/eventlens/classifier"
	"github.com/eventlens-io/eventlens/config"
	"github.com/eventlens-io/eventlens/db"
	"github.com/eventlens-io/eventlens/db/migrator"
	"github.com/eventlens-io/eventlens/geocoder"
	"github.com/eventlens-io/eventlens/ingest"
	"github.com/eventlens-io/eventlens/pkg/log"
	"github.com/eventlens-io/eventlens/scraper"
	"github.com/eventlens-io/eventlens/scraper/cache"
	"github.com/eventlens-io/eventlens/service"
)

var (
	ErrApplicationStarted = errors.New("already started")
	ErrApplicationStopped = errors.New("already stopped")
)

type Application struct {
	cfg *config.Config

	mux     sync.Mutex
	started bool
	stop    chan struct{}

	log    *zap.SugaredLogger
	db     *db.DB
	srv    *service.Service
	server *api.Server
}

func New(cfg *config.Config) (*Application, error) {
	app := &Application{
		cfg:  cfg,
		stop: make(chan struct{}),
	}

	if err := app.initialize(); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *Application) initialize() error {
	cfg := app.cfg

	logger, err := log.NewZapLogger(&cfg.Log)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger.Desugar())
	app.log = logger

	sqlDB, err := db.NewSqlDB(cfg.Database)
	if err != nil {
		return err
	}
	app.db = db.NewDB(sqlDB, logger)

	store := cache.NewStore()
	crawler := scraper.NewCrawler(&cfg.Crawler, store, logger)
	predictor := classifier.New(&cfg.Classifier, logger)
	converter := scraper.NewConverter(predictor, logger)
	reader := scraper.NewReader(crawler, converter, logger)

	resolver := geocoder.New(&cfg.Geocoding, logger)
	pipeline := ingest.NewPipeline(ingest.Stores{
		Cities:     app.db.Cities,
		Addresses:  app.db.Addresses,
		Locations:  app.db.Locations,
		Categories: app.db.Categories,
		Events:     app.db.Events,
	}, app.db, resolver, logger)

	app.srv = service.NewService(service.Options{
		Reader:   reader,
		Pipeline: pipeline,
		Cache:    store,
	})

	handler := api.NewAPI(api.Options{
		Config:   cfg,
		DB:       app.db,
		Ingestor: app.srv,
	})
	app.server = api.NewServer(cfg.Admin, handler.Handler())

	return nil
}

func (app *Application) DB() *db.DB {
	return app.db
}

func (app *Application) Service() *service.Service {
	return app.srv
}

func (app *Application) Config() *config.Config {
	return app.cfg
}

// Start starts application
func (app *Application) Start() error {
	app.mux.Lock()
	defer app.mux.Unlock()

	if app.started {
		return ErrApplicationStarted
	}

	version, dirty, err := migrator.New(app.db.SqlDB()).Status()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d", version)
	}
	if version == 0 {
		return errors.New("database is not up to date. Run 'eventlens db up' before starting")
	}

	app.log.Infof("starting EventLens %s", eventlens.VERSION)

	app.server.Start()
	app.started = true

	return nil
}

func (app *Application) Wait() {
	<-app.stop
}

// Stop stops application
func (app *Application) Stop() error {
	app.mux.Lock()
	defer app.mux.Unlock()

	if !app.started {
		return ErrApplicationStopped
	}

	app.log.Info("exiting")

	defer func() {
		app.log.Info("exit")
		_ = app.log.Sync()
	}()

	_ = app.server.Stop()
	_ = app.db.Close()

	app.started = false
	app.stop <- struct{}{}

	return nil
}

package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/eventlens-io/eventlens/config"
	"github.com/eventlens-io/eventlens/db"
	"github.com/eventlens-io/eventlens/db/query"
	"github.com/eventlens-io/eventlens/ingest"
	"github.com/eventlens-io/eventlens/pkg/http/middlewares"
	"github.com/eventlens-io/eventlens/pkg/http/response"
)

// Ingestor triggers a full ingestion round and manages the content cache.
type Ingestor interface {
	Ingest(ctx context.Context) (*ingest.Report, error)
	ClearCache()
}

type API struct {
	cfg         *config.Config
	db          *db.DB
	ingestor    Ingestor
	middlewares []mux.MiddlewareFunc
}

type Options struct {
	Config      *config.Config
	DB          *db.DB
	Ingestor    Ingestor
	Middlewares []mux.MiddlewareFunc
}

func NewAPI(opts Options) *API {
	return &API{
		cfg:         opts.Config,
		db:          opts.DB,
		ingestor:    opts.Ingestor,
		middlewares: opts.Middlewares,
	}
}

// param returns the value of an url variable
func (api *API) param(r *http.Request, variable string) string {
	return mux.Vars(r)[variable]
}

// query returns the url query value if it exists.
func (api *API) query(r *http.Request, name string) string {
	return r.URL.Query().Get(name)
}

func (api *API) json(code int, w http.ResponseWriter, data interface{}) {
	response.JSON(w, code, data)
}

func (api *API) bindQuery(r *http.Request, q *query.Query) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page_no"))
	if page <= 0 {
		page = 1
	}

	pagesize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pagesize <= 0 {
		pagesize = 20
	}

	q.Page(uint64(page), uint64(pagesize))
}

func (api *API) error(code int, w http.ResponseWriter, err error) {
	api.json(code, w, ErrorResponse{Message: err.Error()})
}

func (api *API) assert(err error) {
	if err != nil {
		panic(err)
	}
}

// Handler returns a http.Handler
func (api *API) Handler() http.Handler {
	r := mux.NewRouter()

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, 404, ErrorResponse{Message: "not found"})
	})

	for _, m := range api.middlewares {
		r.Use(m)
	}
	r.Use(middlewares.PanicRecovery)

	r.HandleFunc("/", api.Index).Methods("GET")

	r.HandleFunc("/events", api.IngestEvents).Methods("POST")
	r.HandleFunc("/events", api.PageEvent).Methods("GET")
	r.HandleFunc("/events/cache", api.ClearEventCache).Methods("DELETE")
	r.HandleFunc("/events/{id}", api.GetEvent).Methods("GET")

	r.HandleFunc("/cities", api.PageCity).Methods("GET")
	r.HandleFunc("/categories", api.PageCategory).Methods("GET")

	return r
}

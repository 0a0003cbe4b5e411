package api

import (
	"net/http"

	"github.com/eventlens-io/eventlens/db/dao"
	"github.com/eventlens-io/eventlens/db/query"
)

// IngestEvents runs the crawl-convert-persist round and returns the batch
// report. Saved records are durable independent of sibling failures, so the
// response is always a count-based summary, never a rolled-back partial.
func (api *API) IngestEvents(w http.ResponseWriter, r *http.Request) {
	report, err := api.ingestor.Ingest(r.Context())
	api.assert(err)

	api.json(200, w, report)
}

func (api *API) PageEvent(w http.ResponseWriter, r *http.Request) {
	var q query.EventQuery
	q.Order("start_date", query.ASC)
	api.bindQuery(r, &q.Query)

	filter := dao.EventFilter{
		City:     api.query(r, "city"),
		Category: api.query(r, "category"),
		Search:   api.query(r, "search"),
	}
	list, total, err := api.db.Events.PageByFilter(r.Context(), filter, &q.Query)
	api.assert(err)

	api.json(200, w, NewPagination(total, list))
}

func (api *API) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := api.param(r, "id")
	event, err := api.db.Events.Get(r.Context(), id)
	api.assert(err)

	if event == nil {
		api.json(404, w, ErrorResponse{Message: MsgNotFound})
		return
	}

	api.json(200, w, event)
}

func (api *API) ClearEventCache(w http.ResponseWriter, r *http.Request) {
	api.ingestor.ClearCache()
	api.json(204, w, nil)
}

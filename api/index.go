package api

import (
	"net/http"

	"github.com/eventlens-io/eventlens"
)

type IndexResponse struct {
	Version string `json:"version"`
	Message string `json:"message"`
	Events  int64  `json:"events"`
}

func (api *API) Index(w http.ResponseWriter, r *http.Request) {
	total, err := api.db.Events.Count(r.Context(), nil)
	api.assert(err)

	api.json(200, w, IndexResponse{
		Version: eventlens.VERSION,
		Message: "Welcome to EventLens",
		Events:  total,
	})
}

package api

import (
	"net/http"

	"github.com/eventlens-io/eventlens/db/query"
)

func (api *API) PageCity(w http.ResponseWriter, r *http.Request) {
	var q query.CityQuery
	q.Order("name", query.ASC)
	api.bindQuery(r, &q.Query)

	list, total, err := api.db.Cities.Page(r.Context(), &q)
	api.assert(err)

	api.json(200, w, NewPagination(total, list))
}

func (api *API) PageCategory(w http.ResponseWriter, r *http.Request) {
	var q query.CategoryQuery
	q.Order("name", query.ASC)
	api.bindQuery(r, &q.Query)

	list, total, err := api.db.Categories.Page(r.Context(), &q)
	api.assert(err)

	api.json(200, w, NewPagination(total, list))
}

package query

type EventQuery struct {
	Query
}

type CityQuery struct {
	Query
}

type CategoryQuery struct {
	Query
}

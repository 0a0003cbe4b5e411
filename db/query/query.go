package query

// Queryer describes a paged, ordered, optionally filtered listing query.
type Queryer interface {
	Offset() int64
	Limit() int64
	WhereMap() map[string]interface{}
	Orders() []*Order
}

// Query holds the pagination and ordering shared by every listing query.
// Entity-specific queries embed it and override WhereMap for their filters.
type Query struct {
	offset int64
	limit  int64
	orders []*Order
}

// Page sets offset and limit from a 1-based page number.
func (q *Query) Page(pageNo, pageSize uint64) {
	if pageNo < 1 {
		pageNo = 1
	}
	q.offset = int64((pageNo - 1) * pageSize)
	q.limit = int64(pageSize)
}

func (q *Query) Offset() int64 {
	return q.offset
}

func (q *Query) Limit() int64 {
	return q.limit
}

func (q *Query) WhereMap() map[string]interface{} {
	return nil
}

func (q *Query) Orders() []*Order {
	return q.orders
}

// Order appends an ordering clause; repeated calls stack.
func (q *Query) Order(column string, sort Sort) {
	q.orders = append(q.orders, &Order{column, sort})
}

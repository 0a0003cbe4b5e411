package entities

// Address is a reference entity deduplicated by (street, city).
type Address struct {
	Street string `db:"street" json:"street" validate:"required"`
	CityId string `db:"city_id" json:"city_id" validate:"required"`

	BaseModel
}

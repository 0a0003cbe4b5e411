package entities

// Location is a reference entity deduplicated by (name, address).
type Location struct {
	Name      string  `db:"name" json:"name" validate:"required"`
	AddressId string  `db:"address_id" json:"address_id" validate:"required"`
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`

	BaseModel
}

func (m *Location) Resolved() bool {
	return m.Latitude != 0 && m.Longitude != 0
}

package entities

// City is a reference entity deduplicated by name. Coordinates are zero until
// resolved by the geocoder.
type City struct {
	Name      string  `db:"name" json:"name" validate:"required"`
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`

	BaseModel
}

func (m *City) Resolved() bool {
	return m.Latitude != 0 && m.Longitude != 0
}

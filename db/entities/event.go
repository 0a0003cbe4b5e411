package entities

import (
	"github.com/eventlens-io/eventlens/pkg/types"
	"github.com/eventlens-io/eventlens/utils"
)

// Event is unique on (name, location, start_date, end_date).
type Event struct {
	Name        string     `db:"name" json:"name" validate:"required"`
	Description string     `db:"description" json:"description"`
	Image       string     `db:"image" json:"image"`
	StartDate   types.Time `db:"start_date" json:"start_date"`
	EndDate     types.Time `db:"end_date" json:"end_date"`
	LocationId  string     `db:"location_id" json:"location_id" validate:"required"`
	CategoryId  string     `db:"category_id" json:"category_id" validate:"required"`

	BaseModel
}

func (m *Event) Validate() error {
	return utils.Validate(m)
}

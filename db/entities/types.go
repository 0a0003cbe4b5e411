package entities

import (
	"github.com/eventlens-io/eventlens/pkg/types"
)

type BaseModel struct {
	ID        string     `db:"id" json:"id"`
	CreatedAt types.Time `db:"created_at" json:"created_at"`
	UpdatedAt types.Time `db:"updated_at" json:"updated_at"`
}

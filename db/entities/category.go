package entities

type Category struct {
	Name string `db:"name" json:"name" validate:"required"`

	BaseModel
}

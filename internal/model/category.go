package model

type Category struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Icon        *string `db:"icon" json:"icon"` // Nullable
}

package categories

import "time"

// Category tags products for filtering. Sort order is user-adjustable.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CategoryForm struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// ReorderRequest carries the full id list in the desired display order.
type ReorderRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

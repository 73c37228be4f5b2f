package inventory

type AdjustRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	VariantID *int64 `json:"variant_id,omitempty" validate:"omitempty,gt=0"`
	Delta     int    `json:"delta" validate:"required"`
	Reason    string `json:"reason" validate:"required,max=500"`
}

type ListAdjustmentsRequest struct {
	ProductID int64 `json:"product_id" validate:"omitempty,gt=0"`
	Page      int   `json:"page" validate:"omitempty,gte=1"`
	PerPage   int   `json:"per_page" validate:"omitempty,gte=1,lte=100"`
}

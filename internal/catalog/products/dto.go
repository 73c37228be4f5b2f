package products

// Prices in request payloads are major units (e.g. 25.00); they are converted
// to minor units at the service boundary.

type VariantForm struct {
	SKU        string            `json:"sku" validate:"required,max=100"`
	Attributes map[string]string `json:"attributes"`
	Quantity   int               `json:"quantity" validate:"gte=0"`
	Wholesale  *float64          `json:"wholesale,omitempty" validate:"omitempty,gte=0"`
	Retail     *float64          `json:"retail,omitempty" validate:"omitempty,gte=0"`
	Club       *float64          `json:"club,omitempty" validate:"omitempty,gte=0"`
}

type CreateProductRequest struct {
	Article    string        `json:"article" validate:"required,max=100"`
	Title      string        `json:"title" validate:"required,max=300"`
	Brand      string        `json:"brand" validate:"required,max=50"`
	CategoryID *int64        `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Attributes []string      `json:"attributes"`
	Wholesale  float64       `json:"wholesale" validate:"gte=0"`
	Retail     float64       `json:"retail" validate:"gte=0"`
	Club       float64       `json:"club" validate:"gte=0"`
	CostBefore float64       `json:"cost_before" validate:"gte=0"`
	CostAfter  float64       `json:"cost_after" validate:"gte=0"`
	Variants   []VariantForm `json:"variants" validate:"dive"`
}

type UpdateProductRequest struct {
	Title      *string        `json:"title,omitempty" validate:"omitempty,max=300"`
	CategoryID *int64         `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Attributes *[]string      `json:"attributes,omitempty"`
	Wholesale  *float64       `json:"wholesale,omitempty" validate:"omitempty,gte=0"`
	Retail     *float64       `json:"retail,omitempty" validate:"omitempty,gte=0"`
	Club       *float64       `json:"club,omitempty" validate:"omitempty,gte=0"`
	CostBefore *float64       `json:"cost_before,omitempty" validate:"omitempty,gte=0"`
	CostAfter  *float64       `json:"cost_after,omitempty" validate:"omitempty,gte=0"`
	Archived   *bool          `json:"archived,omitempty"`
	Variants   *[]VariantForm `json:"variants,omitempty" validate:"omitempty,dive"`
}

type ListProductsRequest struct {
	Brand      string  `json:"brand"`
	CategoryID *int64  `json:"category_id,omitempty"`
	Search     *string `json:"search,omitempty"`
	Archived   *bool   `json:"archived,omitempty"`
	Limit      int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int     `json:"offset" validate:"gte=0"`
}

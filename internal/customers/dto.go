package customers

type CreateCustomerRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=400"`
	Brand   string  `json:"brand" validate:"required,max=50"`
	Tier    string  `json:"tier" validate:"required,oneof=retail wholesale club"`
	Notes   *string `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=400"`
	Tier    *string `json:"tier,omitempty" validate:"omitempty,oneof=retail wholesale club"`
	Notes   *string `json:"notes,omitempty"`
}

type ListCustomersRequest struct {
	Brand  string  `json:"brand"`
	Tier   *string `json:"tier,omitempty" validate:"omitempty,oneof=retail wholesale club"`
	Search *string `json:"search,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}

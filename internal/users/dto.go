package users

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=200"`
	Brand    string `json:"brand" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type ListUsersRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	Brand  string `json:"brand"`
}

package user

// CreateUserRequest creates a staff account
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,staff_role"`
}

// SetActiveRequest enables or disables a staff account
type SetActiveRequest struct {
	Active bool `json:"active"`
}

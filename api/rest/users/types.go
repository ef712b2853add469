package users

// RegisterRequest carries data for creating a user account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=40"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// RegisterResponse returned after a successful registration
type RegisterResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// UpdateMeRequest carries a partial profile update; absent fields are left
// untouched
type UpdateMeRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=40"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

// UpdateMeResponse reports the applied profile update
type UpdateMeResponse struct {
	Message      string `json:"message"`
	AffectedRows int64  `json:"affectedRows"`
}

package dto

type UserSignupRequestDTO struct {
	Username string `json:"username" validate:"required,min=8,max=64"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type UserSignupResponseDTO struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

// UserResponseDTO is the public view of a user returned by the lookup route.
// The password hash never leaves the service.
type UserResponseDTO struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

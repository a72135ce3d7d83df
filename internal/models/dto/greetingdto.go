package dto

// GreetingResponseDTO is the payload returned by the root route.
type GreetingResponseDTO struct {
	Message string `json:"message"`
}

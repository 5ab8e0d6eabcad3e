package http

// MessageResponse carries a single human-readable confirmation, the shape the
// alert and wishlist mutations reply with.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"email"`
	Message string                 `json:"message,omitempty" example:"Email is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

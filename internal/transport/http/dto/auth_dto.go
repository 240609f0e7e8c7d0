package dto

// MessageResponse is the body of auth route replies. The raw bearer
// token never appears here; it travels only in the session cookie.
type MessageResponse struct {
	Message string `json:"message"`
}

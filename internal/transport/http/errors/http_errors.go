package errors

import (
	"encoding/json"
	"net/http"
)

// APIError is the uniform error body for gateway-originated failures.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ProxyError mirrors the shape the console expects from proxy routes:
// a short message plus the raw upstream body kept for diagnostics.
type ProxyError struct {
	Message         string `json:"message"`
	BackendStatus   int    `json:"backendStatus,omitempty"`
	BackendResponse string `json:"backendResponse,omitempty"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteMessage writes the minimal {"message": ...} body used by the
// proxy routes.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	Write(w, status, ProxyError{Message: message})
}

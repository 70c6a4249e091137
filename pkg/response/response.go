// Package response writes the JSON bodies the dev proxy serves itself, for
// requests it cannot or will not forward. The error shape matches what the
// web dashboards expect from a failed API call.
package response

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the proxy's own error response shape.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Status  int    `json:"status"`
	Path    string `json:"path"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends a structured proxy error for the given request path.
func Error(w http.ResponseWriter, r *http.Request, statusCode int, title, message, details string) {
	JSON(w, statusCode, ErrorBody{
		Error:   title,
		Message: message,
		Details: details,
		Status:  statusCode,
		Path:    r.URL.Path,
	})
}

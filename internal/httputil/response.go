package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// UpstreamErrorResponse is returned when a third-party collaborator fails.
// The upstream message is passed through so clients can surface it.
type UpstreamErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"msg"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondRawJSON writes an already-encoded JSON document.
func RespondRawJSON(w http.ResponseWriter, raw []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(raw); err != nil {
		log.Printf("ERROR: failed to write JSON response: %v", err)
	}
}

// RespondMessage sends {"msg": message}.
func RespondMessage(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, MessageResponse{Message: message}, statusCode)
}

// RespondError sends a JSON error response with the given message and status code.
func RespondError(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, ErrorResponse{Error: message}, statusCode)
}

// RespondErrorWithCode sends a JSON error response with a machine-readable error code.
func RespondErrorWithCode(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, ErrorResponse{Error: message, Code: code}, statusCode)
}

// RespondUpstreamError reports a failed call to an external service with its message attached.
func RespondUpstreamError(w http.ResponseWriter, message string, upstream error) {
	RespondJSON(w, UpstreamErrorResponse{
		Message: message,
		Error:   upstream.Error(),
		Code:    CodeUpstreamError,
	}, http.StatusInternalServerError)
}

package types

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Type categorizes the error. See the ErrorType constants.
	Type string `json:"type"`

	// Message is a human-readable error message.
	Message string `json:"message"`
}

// Error type constants.
const (
	// ErrorTypeInvalidRequest indicates a client-side error (400).
	ErrorTypeInvalidRequest = "invalid_request_error"

	// ErrorTypeNotFound indicates a document or object was not found (404).
	ErrorTypeNotFound = "not_found"

	// ErrorTypeRequestTooLarge indicates the document exceeds the body limit (413).
	ErrorTypeRequestTooLarge = "request_too_large"

	// ErrorTypeTooManyDocuments indicates the document limit is reached (429).
	ErrorTypeTooManyDocuments = "too_many_documents"

	// ErrorTypeServerError indicates an internal server error (500).
	ErrorTypeServerError = "server_error"

	// ErrorTypeServiceUnavailable indicates the server is shutting down (503).
	ErrorTypeServiceUnavailable = "service_unavailable"

	// ErrorTypeTimeout indicates the request deadline passed (504).
	ErrorTypeTimeout = "timeout"
)

// NewErrorResponse creates an error response.
func NewErrorResponse(errorType, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Type:    errorType,
			Message: message,
		},
	}
}

// NewInvalidRequestError creates an error response for invalid requests (400).
func NewInvalidRequestError(message string) *ErrorResponse {
	return NewErrorResponse(ErrorTypeInvalidRequest, message)
}

// NewNotFoundError creates an error response for missing resources (404).
func NewNotFoundError(message string) *ErrorResponse {
	return NewErrorResponse(ErrorTypeNotFound, message)
}

// NewServerError creates an error response for internal server errors (500).
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(ErrorTypeServerError, message)
}

// HTTPStatusCode returns the HTTP status code for the error type.
func (e *ErrorDetail) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrorTypeTooManyDocuments:
		return http.StatusTooManyRequests
	case ErrorTypeServiceUnavailable:
		return http.StatusServiceUnavailable
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes resp with the status code of its type.
func WriteError(w http.ResponseWriter, resp *ErrorResponse) {
	WriteJSON(w, resp.Error.HTTPStatusCode(), resp)
}

// WriteJSON writes v as a JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Encoding errors after the header is written cannot be reported
	_ = json.NewEncoder(w).Encode(v)
}

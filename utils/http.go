package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body of every API error
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps API payloads
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// errorCodes maps status codes to the machine-readable error field
var errorCodes = map[int]string{
	http.StatusBadRequest:          "bad_request",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "not_found",
	http.StatusConflict:            "conflict",
	http.StatusTooManyRequests:     "rate_limit_exceeded",
	http.StatusBadGateway:          "bad_gateway",
	http.StatusServiceUnavailable:  "service_unavailable",
	http.StatusInternalServerError: "internal_error",
}

// defaultMessages fill in an empty message
var defaultMessages = map[int]string{
	http.StatusUnauthorized:        "Authentication required",
	http.StatusForbidden:           "Access forbidden",
	http.StatusNotFound:            "Resource not found",
	http.StatusTooManyRequests:     "Rate limit exceeded",
	http.StatusServiceUnavailable:  "Service unavailable",
	http.StatusInternalServerError: "Internal server error",
}

// ErrorCode returns the error field used for status; unknown codes read as internal_error.
func ErrorCode(status int) string {
	if code, ok := errorCodes[status]; ok {
		return code
	}
	return errorCodes[http.StatusInternalServerError]
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 response wrapping data
func WriteOK(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

// WriteCreated writes a 201 response wrapping data
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

// WriteError writes an ErrorResponse for status
func WriteError(w http.ResponseWriter, status int, message string, details map[string]interface{}) error {
	if message == "" {
		message = defaultMessages[status]
	}
	return WriteJSON(w, status, ErrorResponse{
		Error:   ErrorCode(status),
		Message: message,
		Details: details,
	})
}

// WriteBadRequest writes a 400 with field details
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]interface{}) error {
	return WriteError(w, http.StatusBadRequest, message, details)
}

// WriteUnauthorized writes a 401
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusUnauthorized, message, nil)
}

// WriteForbidden writes a 403
func WriteForbidden(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusForbidden, message, nil)
}

// WriteTooManyRequests writes a 429
func WriteTooManyRequests(w http.ResponseWriter, message string, details map[string]interface{}) error {
	return WriteError(w, http.StatusTooManyRequests, message, details)
}

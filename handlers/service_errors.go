package handlers

import (
	"net/http"

	"github.com/zeno/dashboard/services"
	"github.com/zeno/dashboard/utils"
	"go.uber.org/zap"
)

// errorStatus maps domain error types to HTTP status codes
var errorStatus = map[services.ErrorType]int{
	services.ErrorTypeNotFound:     http.StatusNotFound,
	services.ErrorTypeValidation:   http.StatusBadRequest,
	services.ErrorTypeUnauthorized: http.StatusUnauthorized,
	services.ErrorTypeForbidden:    http.StatusForbidden,
	services.ErrorTypeRateLimit:    http.StatusTooManyRequests,
	services.ErrorTypeConflict:     http.StatusConflict,
	services.ErrorTypeUnavailable:  http.StatusServiceUnavailable,
	services.ErrorTypeExternal:     http.StatusBadGateway,
	services.ErrorTypeInternal:     http.StatusInternalServerError,
}

// StatusForError returns the HTTP status for err; non-domain errors are 500.
func StatusForError(err error) int {
	if status, ok := errorStatus[services.GetErrorType(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// HandleServiceError maps domain errors to HTTP responses.
// 5xx bodies never carry the underlying cause.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	errType := services.GetErrorType(err)
	status := StatusForError(err)
	message := err.Error()
	details := services.GetErrorDetails(err)

	switch {
	case errType == "":
		logger.Error("unhandled error type", zap.Error(err))
		message, details = "An unexpected error occurred", nil
	case status == http.StatusInternalServerError:
		logger.Error("internal server error", zap.Error(err))
		message, details = "An internal error occurred", nil
	case status == http.StatusServiceUnavailable:
		details = nil
	}

	if err := utils.WriteError(w, status, message, details); err != nil {
		logger.Error("failed to write error response", zap.Int("status", status), zap.Error(err))
	}

	logger.Debug("handled service error",
		zap.String("type", string(errType)),
		zap.Int("status", status),
		zap.Any("details", details))
}

// HandleValidationError writes a 400 for request decoding and validation failures
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	message := err.Error()
	var details map[string]interface{}
	if fields := utils.GetValidationFields(err); fields != nil {
		message = "Validation failed"
		details = make(map[string]interface{}, len(fields))
		for k, v := range fields {
			details[k] = v
		}
	}
	if err := utils.WriteBadRequest(w, message, details); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}

// internal/common/errors/handler.go
package errors

import (
	"net/http"
	"time"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler turns any error into a StandardError and logs it once.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle normalizes err, logs it with its category and returns the result.
func (h *ErrorHandler) Handle(operation string, err error) *StandardError {
	stdErr := Normalize(err)
	h.logger.Error("operation failed", map[string]interface{}{
		"operation":     operation,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})
	return stdErr
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Erro inesperado",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// UserMessage returns the message shown to the candidate, preserving the
// upstream detail of network errors verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return Normalize(err).Message
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed:
		return "input"
	case ErrCodeAuthenticationRequired:
		return "auth"
	case ErrCodeNetwork:
		return "remote"
	case ErrCodePersistence, ErrCodeRecordNotFound:
		return "storage"
	case ErrCodeSimulationInProgress, ErrCodeInvalidTransition:
		return "workflow"
	default:
		return "internal"
	}
}

// HTTPStatus maps a code to the status the API responds with.
func HTTPStatus(err error) int {
	switch Normalize(err).Code {
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeAuthenticationRequired:
		return http.StatusUnauthorized
	case ErrCodeNetwork:
		return http.StatusBadGateway
	case ErrCodeRecordNotFound:
		return http.StatusNotFound
	case ErrCodeSimulationInProgress, ErrCodeInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

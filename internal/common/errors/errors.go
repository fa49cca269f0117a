// Package errors provides the standardized error taxonomy of the simulator.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed       ErrorCode = "VALIDATION_FAILED"
	ErrCodeAuthenticationRequired ErrorCode = "AUTHENTICATION_REQUIRED"
	ErrCodeNetwork                ErrorCode = "NETWORK_ERROR"
	ErrCodePersistence            ErrorCode = "PERSISTENCE_ERROR"
	ErrCodeRecordNotFound         ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeSimulationInProgress   ErrorCode = "SIMULATION_IN_PROGRESS"
	ErrCodeInvalidTransition      ErrorCode = "INVALID_TRANSITION"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StandardError represents a structured application error.
type StandardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"statusCode,omitempty"`
	Fields     []FieldError           `json:"fields,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError carrying the same code, so sentinels such as
// ErrRecordNotFound work with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation             = &StandardError{Code: ErrCodeValidationFailed}
	ErrAuthenticationRequired = &StandardError{Code: ErrCodeAuthenticationRequired}
	ErrNetwork                = &StandardError{Code: ErrCodeNetwork}
	ErrPersistence            = &StandardError{Code: ErrCodePersistence}
	ErrRecordNotFound         = &StandardError{Code: ErrCodeRecordNotFound}
	ErrSimulationInProgress   = &StandardError{Code: ErrCodeSimulationInProgress}
	ErrInvalidTransition      = &StandardError{Code: ErrCodeInvalidTransition}
)

// NewValidationError reports bad or missing input with per-field messages.
func NewValidationError(fields []FieldError) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Invalid candidate profile",
		Details:   fmt.Sprintf("%d field(s) failed validation", len(fields)),
		Retryable: false,
		Fields:    fields,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationRequiredError is returned when an owner is required but
// the context carries no identity.
func NewAuthenticationRequiredError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthenticationRequired,
		Message:   "É necessário estar logado para acessar este recurso.",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNetworkError wraps an unreachable backend or a non-2xx response. detail
// is the upstream human-readable message and becomes the user-facing Message.
func NewNetworkError(endpoint string, statusCode int, detail string, cause error) *StandardError {
	msg := detail
	if msg == "" {
		msg = "Erro na requisição"
	}
	return &StandardError{
		Code:       ErrCodeNetwork,
		Message:    msg,
		Details:    fmt.Sprintf("endpoint: %s, status: %d", endpoint, statusCode),
		Retryable:  false,
		StatusCode: statusCode,
		Timestamp:  time.Now().UTC(),
		cause:      cause,
	}
}

// NewPersistenceError wraps a record store read or write failure.
func NewPersistenceError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistence,
		Message:   "Falha ao acessar o histórico de simulações",
		Details:   fmt.Sprintf("operation: %s, error: %v", operation, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewRecordNotFoundError creates a not-found error for the given record id.
func NewRecordNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   "Simulação não encontrada",
		Details:   fmt.Sprintf("recordId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSimulationInProgressError rejects a submission while another is running.
func NewSimulationInProgressError(attempt uint64) *StandardError {
	return &StandardError{
		Code:      ErrCodeSimulationInProgress,
		Message:   "Uma simulação já está em andamento",
		Details:   fmt.Sprintf("attempt: %d", attempt),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTransitionError reports an action not allowed in the current state.
func NewInvalidTransitionError(from, action string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   "Ação não permitida no estado atual",
		Details:   fmt.Sprintf("state: %s, action: %s", from, action),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// As is a thin re-export so callers need a single errors import.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Is is a thin re-export of the standard library helper.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

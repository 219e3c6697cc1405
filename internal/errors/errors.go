package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "validation"
	ErrorTypeNetwork          ErrorType = "network"
	ErrorTypeService          ErrorType = "service"
	ErrorTypeTimeout          ErrorType = "timeout"
	ErrorTypeExtractionEmpty  ErrorType = "extraction_empty"
	ErrorTypeEmptyInput       ErrorType = "empty_input"
	ErrorTypeInsufficientData ErrorType = "insufficient_data"
	ErrorTypeParse            ErrorType = "parse"
	ErrorTypeInvalidState     ErrorType = "invalid_state"
	ErrorTypeSuperseded       ErrorType = "superseded"
	ErrorTypeConfig           ErrorType = "config"
	ErrorTypeNotFound         ErrorType = "not_found"
	ErrorTypeInternal         ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails returns a copy of the error carrying a details string
func (e *AppError) WithDetails(details string) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func newError(t ErrorType, status int, message string, cause error) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		StatusCode: status,
		Cause:      cause,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return newError(ErrorTypeValidation, http.StatusBadRequest, message, cause)
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *AppError {
	return newError(ErrorTypeNetwork, http.StatusBadGateway, message, cause)
}

// NewServiceError reports a remote collaborator that answered with a failure
// or a payload we could not interpret.
func NewServiceError(message string, cause error) *AppError {
	return newError(ErrorTypeService, http.StatusBadGateway, message, cause)
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return newError(ErrorTypeTimeout, http.StatusGatewayTimeout, message, cause)
}

// NewExtractionEmptyError is non-fatal: the request succeeded but produced no numbers.
func NewExtractionEmptyError(message string) *AppError {
	return newError(ErrorTypeExtractionEmpty, http.StatusOK, message, nil)
}

// NewEmptyInputError creates a new empty input error
func NewEmptyInputError(message string, cause error) *AppError {
	return newError(ErrorTypeEmptyInput, http.StatusUnprocessableEntity, message, cause)
}

// NewInsufficientDataError creates a new insufficient data error
func NewInsufficientDataError(message string, cause error) *AppError {
	return newError(ErrorTypeInsufficientData, http.StatusUnprocessableEntity, message, cause)
}

// NewParseError creates a new parse error
func NewParseError(message string, cause error) *AppError {
	return newError(ErrorTypeParse, http.StatusUnprocessableEntity, message, cause)
}

// NewInvalidStateError creates a new invalid state error
func NewInvalidStateError(message string) *AppError {
	return newError(ErrorTypeInvalidState, http.StatusConflict, message, nil)
}

// NewSupersededError creates a new superseded error
func NewSupersededError(message string, cause error) *AppError {
	return newError(ErrorTypeSuperseded, http.StatusConflict, message, cause)
}

// NewConfigError creates a new configuration error
func NewConfigError(message string, cause error) *AppError {
	return newError(ErrorTypeConfig, http.StatusInternalServerError, message, cause)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, message, cause)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, message, cause)
}

// As finds the first AppError in err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := As(err); ok {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

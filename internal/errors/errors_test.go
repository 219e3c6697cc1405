package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		typ    ErrorType
		status int
	}{
		{"validation", NewValidationError("bad", nil), ErrorTypeValidation, http.StatusBadRequest},
		{"network", NewNetworkError("down", nil), ErrorTypeNetwork, http.StatusBadGateway},
		{"service", NewServiceError("bad payload", nil), ErrorTypeService, http.StatusBadGateway},
		{"timeout", NewTimeoutError("slow", nil), ErrorTypeTimeout, http.StatusGatewayTimeout},
		{"extraction empty", NewExtractionEmptyError("none"), ErrorTypeExtractionEmpty, http.StatusOK},
		{"empty input", NewEmptyInputError("empty", nil), ErrorTypeEmptyInput, http.StatusUnprocessableEntity},
		{"insufficient", NewInsufficientDataError("one", nil), ErrorTypeInsufficientData, http.StatusUnprocessableEntity},
		{"parse", NewParseError("abc", nil), ErrorTypeParse, http.StatusUnprocessableEntity},
		{"state", NewInvalidStateError("busy"), ErrorTypeInvalidState, http.StatusConflict},
		{"superseded", NewSupersededError("newer", nil), ErrorTypeSuperseded, http.StatusConflict},
		{"config", NewConfigError("key", nil), ErrorTypeConfig, http.StatusInternalServerError},
		{"not found", NewNotFoundError("chart", nil), ErrorTypeNotFound, http.StatusNotFound},
		{"internal", NewInternalError("boom", nil), ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.status, GetStatusCode(tt.err))
			assert.True(t, IsType(tt.err, tt.typ))
		})
	}
}

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("ocr unreachable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "network: ocr unreachable (caused by: connection refused)", err.Error())

	wrapped := fmt.Errorf("extract: %w", err)
	assert.True(t, IsType(wrapped, ErrorTypeNetwork))
	assert.Equal(t, http.StatusBadGateway, GetStatusCode(wrapped))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Same(t, err, appErr)
}

func TestPlainErrorsDefaultToInternal(t *testing.T) {
	err := errors.New("plain")
	assert.False(t, IsType(err, ErrorTypeValidation))
	assert.Equal(t, http.StatusInternalServerError, GetStatusCode(err))
}

func TestWithDetailsCopies(t *testing.T) {
	base := NewParseError("invalid number", nil)
	detailed := base.WithDetails("token 2: \"abc\"")

	assert.Empty(t, base.Details)
	assert.Equal(t, "token 2: \"abc\"", detailed.Details)
	assert.Equal(t, base.Type, detailed.Type)
}

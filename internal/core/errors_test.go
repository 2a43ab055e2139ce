// AngelaMos | 2026
// errors_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("get product: %w", ErrNotFound), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("video: %w", ErrForbidden), http.StatusForbidden},
		{"invalid", ErrInvalidInput, http.StatusBadRequest},
		{"signature", ErrInvalidSignature, http.StatusBadRequest},
		{"conflict", ErrConflict, http.StatusConflict},
		{"upstream", fmt.Errorf("sign: %w", ErrUpstream), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"app error", ConflictError("already purchased", http.StatusBadRequest), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := StatusFor(tt.err)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestAppErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("checkout: %w", ForbiddenError("purchase required"))
	assert.ErrorIs(t, err, ErrForbidden)

	appErr, ok := IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "purchase required", appErr.Message)
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: relation purchases does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Error)
}

func TestWriteErrorUpstream(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, UpstreamError(errors.New("stripe: api key invalid")))

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Service temporarily unavailable", body.Error)
	assert.NotContains(t, rec.Body.String(), "api key")
}

func TestPasswordStrength(t *testing.T) {
	assert.NoError(t, ValidatePasswordStrength("Abcdefg1"))
	assert.ErrorIs(t, ValidatePasswordStrength("Abc1"), ErrInvalidInput)
	assert.ErrorIs(t, ValidatePasswordStrength("abcdefgh1"), ErrInvalidInput)
	assert.ErrorIs(t, ValidatePasswordStrength("ABCDEFGH1"), ErrInvalidInput)
	assert.ErrorIs(t, ValidatePasswordStrength("Abcdefghi"), ErrInvalidInput)
}

func TestFormatValidationErrorUsesJSONNames(t *testing.T) {
	type req struct {
		ProductID string `json:"productId" validate:"required"`
		Password  string `json:"password"  validate:"required,password"`
	}

	err := NewValidator().Struct(req{Password: "weak"})
	require.Error(t, err)

	msg := FormatValidationError(err)
	assert.Contains(t, msg, "productId is required")
	assert.Contains(t, msg, "password must contain")
}

func TestWriteErrorHidesWrappedSentinelChain(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{fmt.Errorf("get product: %w", ErrNotFound), http.StatusNotFound, "Resource not found"},
		{fmt.Errorf("revoke session: %w", ErrForbidden), http.StatusForbidden, "Access denied"},
		{fmt.Errorf("plan upload: missing uploader: %w", ErrInvalidInput), http.StatusBadRequest, "Invalid request"},
		{fmt.Errorf("create product: %w", InvalidInputError("Unknown category")), http.StatusBadRequest, "Unknown category"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Error)
			assert.NotContains(t, body.Error, ":")
		})
	}
}

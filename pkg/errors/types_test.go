package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeEmailExists, http.StatusConflict},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConfirmationRequired, http.StatusPreconditionRequired},
		{ErrCodeDeviceUnavailable, http.StatusServiceUnavailable},
		{ErrCodeUnavailable, http.StatusServiceUnavailable},
		{ErrCodeStorageQuota, http.StatusInsufficientStorage},
		{ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.code, "x").GetHTTPCode())
		})
	}
}

func TestAppError_Wrapped(t *testing.T) {
	cause := fmt.Errorf("disk full")
	appErr := Wrap(cause, ErrCodeStorageQuota, "saving clips")
	wrapped := fmt.Errorf("create clip: %w", appErr)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeStorageQuota, got.Code)
	assert.Equal(t, http.StatusInsufficientStorage, got.GetHTTPCode())
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, appErr.Error(), "caused by: disk full")
}

func TestConfirmationRequired(t *testing.T) {
	err := ConfirmationRequired("Delete Clip", "Are you sure?")

	require.NotNil(t, err.Details)
	assert.Equal(t, "Delete Clip", err.Details["title"])
	assert.Equal(t, "Are you sure?", err.Details["message"])
	assert.Equal(t, http.StatusPreconditionRequired, err.GetHTTPCode())
}

func TestAs_PlainError(t *testing.T) {
	got, ok := As(fmt.Errorf("boom"))
	assert.False(t, ok)
	assert.Nil(t, got)
}

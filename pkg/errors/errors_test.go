package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthErrors(t *testing.T) {
	tests := []struct {
		reason Reason
		status int
	}{
		{ReasonInvalidCredentials, http.StatusUnauthorized},
		{ReasonSignInRequired, http.StatusUnauthorized},
		{ReasonAlreadyExists, http.StatusConflict},
		{ReasonRateLimited, http.StatusTooManyRequests},
		{ReasonInvalidInput, http.StatusBadRequest},
		{ReasonProvider, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			err := NewAuth(tt.reason, "failed")
			assert.Equal(t, KindAuth, err.Kind)
			assert.Equal(t, tt.status, err.HTTPStatus)
			assert.True(t, err.Retryable)
			assert.True(t, IsAuth(err))
			assert.False(t, IsData(err))
		})
	}
}

func TestDataErrors(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		err := NotFound("prompt")
		assert.Equal(t, "prompt not found", err.Message)
		assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
		assert.False(t, err.Retryable)
		assert.True(t, IsNotFound(err))
	})

	t.Run("Remote failures are retryable", func(t *testing.T) {
		err := NewData(ReasonRemote, "select failed")
		assert.True(t, err.Retryable)
		assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
	})

	t.Run("Forbidden default message", func(t *testing.T) {
		err := Forbidden("")
		assert.Equal(t, "forbidden", err.Message)
		assert.True(t, IsForbidden(err))
	})
}

func TestConfigurationError(t *testing.T) {
	err := NewConfiguration("gateway credentials missing", map[string]bool{
		"SUPABASE_URL":      true,
		"SUPABASE_ANON_KEY": false,
	})

	assert.True(t, IsConfiguration(err))
	assert.Equal(t, true, err.Details["SUPABASE_URL"])
	assert.Equal(t, false, err.Details["SUPABASE_ANON_KEY"])
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus)
}

func TestWrap(t *testing.T) {
	t.Run("Nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("AppError keeps kind and reason", func(t *testing.T) {
		original := NotFound("prompt")
		err := Wrap(original, "load detail")

		appErr := GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, KindData, appErr.Kind)
		assert.Equal(t, ReasonNotFound, appErr.Reason)
		assert.Equal(t, "load detail: prompt not found", appErr.Message)
		assert.Equal(t, "prompt not found", original.Message)
	})

	t.Run("Plain error becomes remote data error", func(t *testing.T) {
		cause := fmt.Errorf("connection reset")
		err := Wrapf(cause, "select %s", "prompts")

		appErr := GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, ReasonRemote, appErr.Reason)
		assert.ErrorIs(t, err, cause)
	})
}

package supabase

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiprompt/internal/gateway"
	apperrors "hiprompt/pkg/errors"
)

func TestMapAuthError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason apperrors.Reason
	}{
		{"bad password", errors.New(`response status code 400: {"error":"invalid_grant","error_description":"Invalid login credentials"}`), apperrors.ReasonInvalidCredentials},
		{"unconfirmed", errors.New(`response status code 400: {"msg":"Email not confirmed"}`), apperrors.ReasonInvalidCredentials},
		{"duplicate", errors.New(`response status code 422: {"code":"user_already_exists","msg":"User already registered"}`), apperrors.ReasonAlreadyExists},
		{"weak password", errors.New(`response status code 422: {"msg":"Password should be at least 6 characters"}`), apperrors.ReasonInvalidInput},
		{"rate limited", errors.New(`response status code 429: {"msg":"Email rate limit exceeded"}`), apperrors.ReasonRateLimited},
		{"server down", errors.New(`response status code 503: upstream connect error`), apperrors.ReasonProvider},
		{"network", errors.New(`dial tcp 127.0.0.1:54321: connect: connection refused`), apperrors.ReasonProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapAuthError(tt.err)
			require.Error(t, err)
			assert.True(t, apperrors.IsAuth(err))
			assert.True(t, apperrors.HasReason(err, tt.reason), "got %v", err)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, mapAuthError(nil))
	})

	t.Run("app errors pass through", func(t *testing.T) {
		in := apperrors.NewAuth(apperrors.ReasonInvalidInput, "email is required")
		assert.Same(t, in, mapAuthError(in))
	})
}

func TestMapDataError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason apperrors.Reason
		code   string
	}{
		{"no rows", errors.New("(PGRST116) JSON object requested, multiple (or no) rows returned"), apperrors.ReasonNotFound, "PGRST116"},
		{"rls", errors.New(`(42501) new row violates row-level security policy for table "prompts"`), apperrors.ReasonForbidden, "42501"},
		{"duplicate like", errors.New(`(23505) duplicate key value violates unique constraint "prompt_likes_pkey"`), apperrors.ReasonConflict, "23505"},
		{"null title", errors.New(`(23502) null value in column "title" violates not-null constraint`), apperrors.ReasonValidation, "23502"},
		{"missing function", errors.New("(PGRST202) Could not find the function public.toggle_prompt_like"), apperrors.ReasonNotFound, "PGRST202"},
		{"unparsed", errors.New("unexpected end of JSON input"), apperrors.ReasonRemote, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapDataError(tt.err, "prompts")
			require.Error(t, err)
			assert.True(t, apperrors.IsData(err))
			assert.True(t, apperrors.HasReason(err, tt.reason), "got %v", err)

			appErr := apperrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "prompts", appErr.Details["table"])
			assert.Equal(t, tt.code, appErr.Details["code"])
		})
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, ok := tokenExpiry(token)
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = tokenExpiry("not-a-jwt")
	assert.False(t, ok)

	_, ok = tokenExpiry("")
	assert.False(t, ok)
}

func TestSearchFilter(t *testing.T) {
	assert.Empty(t, searchFilter(nil))
	assert.Empty(t, searchFilter(&gateway.Search{Columns: []string{"title"}, Term: "   "}))

	got := searchFilter(&gateway.Search{Columns: []string{"title", "description"}, Term: " sql, (joins) "})
	assert.Equal(t, "title.ilike.%sql joins%,description.ilike.%sql joins%", got)
}

func TestIsAuthRejection(t *testing.T) {
	assert.True(t, isAuthRejection(errors.New("response status code 401: expired")))
	assert.True(t, isAuthRejection(errors.New(`response status code 400: {"error":"invalid_grant"}`)))
	assert.False(t, isAuthRejection(errors.New("response status code 500: boom")))
	assert.False(t, isAuthRejection(errors.New("connection reset")))
}

package supabase

import (
	"regexp"
	"strconv"
	"strings"

	apperrors "hiprompt/pkg/errors"
)

var (
	// gotrue-go formats failures as "response status code %d: %s".
	authStatusPattern = regexp.MustCompile(`response status code (\d{3})`)
	// postgrest-go formats failures as "(CODE) message".
	restCodePattern = regexp.MustCompile(`^\(([0-9A-Z]+)\)\s*(.*)$`)
)

// authStatus extracts the HTTP status from a gotrue-go error, or 0.
func authStatus(err error) int {
	m := authStatusPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	code, _ := strconv.Atoi(m[1])
	return code
}

// mapAuthError converts a gotrue-go failure into an auth error.
func mapAuthError(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.GetAppError(err) != nil {
		return err
	}

	msg := strings.ToLower(err.Error())
	status := authStatus(err)

	var reason apperrors.Reason
	var text string
	switch {
	case status == 429 || strings.Contains(msg, "rate limit"):
		reason, text = apperrors.ReasonRateLimited, "too many attempts, wait a moment and try again"
	case strings.Contains(msg, "already registered") || strings.Contains(msg, "user_already_exists") || strings.Contains(msg, "already exists"):
		reason, text = apperrors.ReasonAlreadyExists, "an account with this email already exists"
	case strings.Contains(msg, "invalid login credentials") || strings.Contains(msg, "invalid_credentials") || strings.Contains(msg, "invalid_grant"):
		reason, text = apperrors.ReasonInvalidCredentials, "invalid email or password"
	case strings.Contains(msg, "email not confirmed"):
		reason, text = apperrors.ReasonInvalidCredentials, "email not confirmed, check your inbox"
	case strings.Contains(msg, "password should be") || strings.Contains(msg, "weak_password") || strings.Contains(msg, "validate email"):
		reason, text = apperrors.ReasonInvalidInput, "email or password rejected by the server"
	case status == 400 || status == 401 || status == 403:
		reason, text = apperrors.ReasonInvalidCredentials, "invalid email or password"
	case status == 422:
		reason, text = apperrors.ReasonInvalidInput, "email or password rejected by the server"
	default:
		reason, text = apperrors.ReasonProvider, "authentication service unavailable"
	}
	return apperrors.NewAuth(reason, text).WithCause(err)
}

// mapDataError converts a postgrest-go failure into a data error.
func mapDataError(err error, table string) error {
	if err == nil {
		return nil
	}
	if apperrors.GetAppError(err) != nil {
		return err
	}

	code, message := "", err.Error()
	if m := restCodePattern.FindStringSubmatch(strings.TrimSpace(err.Error())); m != nil {
		code, message = m[1], m[2]
	}

	var reason apperrors.Reason
	switch {
	case code == "PGRST116":
		reason = apperrors.ReasonNotFound
	case code == "42501" || strings.Contains(message, "row-level security"):
		reason = apperrors.ReasonForbidden
	case code == "23505":
		reason = apperrors.ReasonConflict
	case code == "23502" || code == "23503" || code == "22P02" || code == "23514":
		reason = apperrors.ReasonValidation
	case code == "42P01" || code == "PGRST202" || code == "PGRST205":
		reason = apperrors.ReasonNotFound
	default:
		reason = apperrors.ReasonRemote
	}

	if message == "" {
		message = "request failed"
	}
	appErr := apperrors.NewData(reason, message).WithCause(err)
	appErr.Details = map[string]interface{}{"table": table, "code": code}
	return appErr
}

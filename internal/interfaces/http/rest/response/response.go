// Package response writes JSON bodies and the error envelope shared by every
// route.
package response

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	apperrors "hiprompt/pkg/errors"
)

// ErrorBody is the payload of a failed request.
type ErrorBody struct {
	Kind      apperrors.Kind   `json:"kind"`
	Reason    apperrors.Reason `json:"reason"`
	Message   string           `json:"message"`
	Retryable bool             `json:"retryable"`
	RequestID string           `json:"request_id,omitempty"`
}

// ErrorEnvelope wraps ErrorBody as {"error": {...}}.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// JSON writes data with the given status.
func JSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil && logger != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// Error writes err as the error envelope. Errors outside the taxonomy are
// reported as unexpected.
func Error(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		appErr = apperrors.NewUnexpected("something went wrong", err)
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	requestID := chimiddleware.GetReqID(r.Context())
	if logger != nil {
		fields := []zap.Field{
			zap.String("kind", string(appErr.Kind)),
			zap.String("reason", string(appErr.Reason)),
			zap.Int("status", status),
			zap.String("request_id", requestID),
			zap.Error(err),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed", fields...)
		} else {
			logger.Info("Request rejected", fields...)
		}
	}

	JSON(w, logger, status, ErrorEnvelope{Error: ErrorBody{
		Kind:      appErr.Kind,
		Reason:    appErr.Reason,
		Message:   appErr.Message,
		Retryable: appErr.Retryable,
		RequestID: requestID,
	}})
}

package rest

import (
	"net/http"

	"go.uber.org/zap"

	"hiprompt/internal/config"
	"hiprompt/internal/interfaces/http/rest/response"
	apperrors "hiprompt/pkg/errors"
)

// DiagnosticBody is served in place of every route while the gateway is not
// configured.
type DiagnosticBody struct {
	Error        response.ErrorBody `json:"error"`
	Settings     []config.Setting   `json:"settings"`
	Instructions string             `json:"instructions"`
}

// NewDiagnosticHandler answers every request with 503 and setup instructions.
func NewDiagnosticHandler(diag config.Diagnostics, logger *zap.Logger) http.Handler {
	router := newBaseRouter(logger, nil, nil)

	appErr := apperrors.GetAppError(diag.Err())
	if appErr == nil {
		appErr = apperrors.NewConfiguration("gateway credentials are missing", nil)
	}
	instructions := diag.Instructions()

	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, logger, http.StatusServiceUnavailable, DiagnosticBody{
			Error: response.ErrorBody{
				Kind:    appErr.Kind,
				Reason:  appErr.Reason,
				Message: appErr.Message,
			},
			Settings:     diag.Settings,
			Instructions: instructions,
		})
	})
	return router
}

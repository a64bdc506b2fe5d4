package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"hiprompt/internal/domain"
	"hiprompt/internal/interfaces/http/rest/response"
	apperrors "hiprompt/pkg/errors"
)

// SessionController is the part of session.Manager the auth routes drive.
type SessionController interface {
	Current() domain.Session
	SignIn(ctx context.Context, email, password string) (domain.Identity, error)
	SignUp(ctx context.Context, email, password, displayName string) (domain.Identity, error)
	SignOut(ctx context.Context) error
}

// AuthHandler serves /api/auth.
type AuthHandler struct {
	session SessionController
	logger  *zap.Logger
}

func NewAuthHandler(session SessionController, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{session: session, logger: logger}
}

// LoginRequest is the sign-in form.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the join form. The confirmation and display name are
// checked here; password rules are the session manager's.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
	FullName        string `json:"full_name" validate:"required,max=100"`
}

// Validate checks the confirmation and the display name. Every failure is an
// auth invalid_input error, like the session manager's own checks.
func (req RegisterRequest) Validate() error {
	if req.ConfirmPassword != req.Password {
		return apperrors.NewAuth(apperrors.ReasonInvalidInput, "passwords do not match")
	}
	if err := domain.ValidateStruct(req); err != nil {
		msg := err.Error()
		if appErr := apperrors.GetAppError(err); appErr != nil {
			msg = appErr.Message
		}
		return apperrors.NewAuth(apperrors.ReasonInvalidInput, msg).WithCause(err)
	}
	return nil
}

// SessionResponse describes the session after an auth call.
type SessionResponse struct {
	State    domain.SessionState `json:"state"`
	Identity *domain.Identity    `json:"identity,omitempty"`
	// ConfirmationRequired is set after a sign-up that awaits email
	// confirmation.
	ConfirmationRequired bool `json:"confirmation_required,omitempty"`
}

func sessionResponse(s domain.Session) SessionResponse {
	return SessionResponse{State: s.State, Identity: s.Identity}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	if _, err := h.session.SignIn(r.Context(), req.Email, req.Password); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, h.logger, http.StatusOK, sessionResponse(h.session.Current()))
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	identity, err := h.session.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	current := h.session.Current()
	resp := sessionResponse(current)
	if !current.IsAuthenticated() {
		resp.Identity = &identity
		resp.ConfirmationRequired = true
	}
	response.JSON(w, h.logger, http.StatusCreated, resp)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.SignOut(r.Context()); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, h.logger, http.StatusOK, sessionResponse(h.session.Current()))
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, h.logger, http.StatusOK, sessionResponse(h.session.Current()))
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return apperrors.Validation("request body is required")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Validation("invalid request body").WithCause(err)
	}
	return nil
}

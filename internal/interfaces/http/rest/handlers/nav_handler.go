package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"hiprompt/internal/domain"
	"hiprompt/internal/interfaces/http/rest/response"
)

// Top-bar actions.
const (
	ActionDiscover = "discover"
	ActionCreate   = "create"
	ActionProfile  = "profile"
	ActionSignOut  = "sign_out"
	ActionSignIn   = "sign_in"
	ActionJoin     = "join"
	ActionLoading  = "loading"
)

// NavResponse is the navigation bar for the current session.
type NavResponse struct {
	State    domain.SessionState `json:"state"`
	Identity *domain.Identity    `json:"identity,omitempty"`
	Actions  []string            `json:"actions"`
}

// NavActions lists the top-bar actions for a session.
func NavActions(s domain.Session) []string {
	actions := []string{ActionDiscover}
	switch s.State {
	case domain.StateAuthenticated:
		return append(actions, ActionCreate, ActionProfile, ActionSignOut)
	case domain.StateAnonymous:
		return append(actions, ActionSignIn, ActionJoin)
	default:
		return append(actions, ActionLoading)
	}
}

type NavHandler struct {
	session SessionController
	logger  *zap.Logger
}

func NewNavHandler(session SessionController, logger *zap.Logger) *NavHandler {
	return &NavHandler{session: session, logger: logger}
}

// GetNav handles GET /api/nav
func (h *NavHandler) GetNav(w http.ResponseWriter, r *http.Request) {
	current := h.session.Current()
	response.JSON(w, h.logger, http.StatusOK, NavResponse{
		State:    current.State,
		Identity: current.Identity,
		Actions:  NavActions(current),
	})
}

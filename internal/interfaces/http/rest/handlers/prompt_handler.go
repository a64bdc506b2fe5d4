package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hiprompt/internal/domain"
	"hiprompt/internal/interfaces/http/rest/response"
	"hiprompt/internal/prompts"
	apperrors "hiprompt/pkg/errors"
)

// PromptService is the part of prompts.Service the routes use.
type PromptService interface {
	Feed(ctx context.Context, q prompts.FeedQuery) (prompts.Feed, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Detail(ctx context.Context, id string) (prompts.Detail, error)
	Create(ctx context.Context, draft domain.PromptDraft) (domain.Prompt, error)
	Update(ctx context.Context, id string, patch domain.PromptPatch) (domain.Prompt, error)
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, promptID string) (prompts.LikeResult, error)
	Profile(ctx context.Context, q prompts.ProfileQuery) (prompts.ProfileView, error)
}

// PromptHandler serves prompts, categories and the profile page.
// CategoriesResponse lists every category by name.
type CategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

type PromptHandler struct {
	service PromptService
	logger  *zap.Logger
}

func NewPromptHandler(service PromptService, logger *zap.Logger) *PromptHandler {
	return &PromptHandler{service: service, logger: logger}
}

// ListPrompts handles GET /api/prompts?category=&q=
func (h *PromptHandler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	feed, err := h.service.Feed(r.Context(), prompts.FeedQuery{
		CategoryID: query.Get("category"),
		Search:     query.Get("q"),
	})
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, h.logger, http.StatusOK, feed)
}

// GetPrompt handles GET /api/prompts/{id}
func (h *PromptHandler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := h.promptID(w, r)
	if !ok {
		return
	}
	detail, err := h.service.Detail(r.Context(), id)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, h.logger, http.StatusOK, detail)
}

// CreatePrompt handles POST /api/prompts
func (h *PromptHandler) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	var draft domain.PromptDraft
	if err := decodeJSON(r, &draft); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	created, err := h.service.Create(r.Context(), draft)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	w.Header().Set("Location", "/api/prompts/"+created.ID)
	response.JSON(w, h.logger, http.StatusCreated, created)
}

// UpdatePrompt handles PATCH /api/prompts/{id}
func (h *PromptHandler) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := h.promptID(w, r)
	if !ok {
		return
	}
	var patch domain.PromptPatch
	if err := decodeJSON(r, &patch); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	updated, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, h.logger, http.StatusOK, updated)
}

// DeletePrompt handles DELETE /api/prompts/{id}
func (h *PromptHandler) DeletePrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := h.promptID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike handles POST /api/prompts/{id}/like
func (h *PromptHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := h.promptID(w, r)
	if !ok {
		return
	}
	result, err := h.service.ToggleLike(r.Context(), id)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, h.logger, http.StatusOK, result)
}

// ListCategories handles GET /api/categories
func (h *PromptHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, h.logger, http.StatusOK, CategoriesResponse{Categories: categories})
}

// GetProfile handles GET /api/profile?visibility=public|private
func (h *PromptHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Profile(r.Context(), prompts.ProfileQuery{
		Visibility: domain.ParseVisibility(r.URL.Query().Get("visibility")),
	})
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, h.logger, http.StatusOK, view)
}

func (h *PromptHandler) promptID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		response.Error(w, r, h.logger, apperrors.Validation("prompt ID is required"))
		return "", false
	}
	return id, true
}

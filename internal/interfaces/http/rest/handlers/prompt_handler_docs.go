package handlers

// OpenAPI annotations for PromptHandler. Regenerate rest/docs after editing.

// ListPrompts returns the public feed
// @Summary Prompt feed
// @Description Public prompts, newest first, with the most-liked one as featured.
// @Tags prompts
// @Produce json
// @Param category query string false "Category ID"
// @Param q query string false "Case-insensitive search over title and description"
// @Success 200 {object} prompts.Feed "Feed"
// @Failure 503 {object} response.ErrorEnvelope "Gateway unavailable"
// @Router /prompts [get]

// GetPrompt returns one prompt
// @Summary Prompt detail
// @Description Returns a prompt the session may view and records a view. Private prompts of other users answer 404.
// @Tags prompts
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} prompts.Detail "Prompt detail"
// @Failure 404 {object} response.ErrorEnvelope "Prompt not found"
// @Failure 503 {object} response.ErrorEnvelope "Gateway unavailable"
// @Router /prompts/{id} [get]

// CreatePrompt publishes a prompt
// @Summary Create a prompt
// @Tags prompts
// @Accept json
// @Produce json
// @Param request body domain.PromptDraft true "New prompt"
// @Success 201 {object} domain.Prompt "Created prompt"
// @Header 201 {string} Location "URL of the created prompt"
// @Failure 400 {object} response.ErrorEnvelope "Invalid prompt"
// @Failure 401 {object} response.ErrorEnvelope "Sign in required"
// @Router /prompts [post]

// UpdatePrompt edits a prompt
// @Summary Update a prompt
// @Description Only the author may edit. The author never changes.
// @Tags prompts
// @Accept json
// @Produce json
// @Param id path string true "Prompt ID"
// @Param request body domain.PromptPatch true "Fields to change"
// @Success 200 {object} domain.Prompt "Updated prompt"
// @Failure 400 {object} response.ErrorEnvelope "Invalid patch"
// @Failure 401 {object} response.ErrorEnvelope "Sign in required"
// @Failure 403 {object} response.ErrorEnvelope "Not the author"
// @Failure 404 {object} response.ErrorEnvelope "Prompt not found"
// @Router /prompts/{id} [patch]

// DeletePrompt removes a prompt
// @Summary Delete a prompt
// @Tags prompts
// @Param id path string true "Prompt ID"
// @Success 204 "Prompt deleted"
// @Failure 401 {object} response.ErrorEnvelope "Sign in required"
// @Failure 403 {object} response.ErrorEnvelope "Not the author"
// @Failure 404 {object} response.ErrorEnvelope "Prompt not found"
// @Router /prompts/{id} [delete]

// ToggleLike likes or unlikes a prompt
// @Summary Toggle like
// @Description Adds the like when absent, removes it when present. The returned count is approximate.
// @Tags prompts
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} prompts.LikeResult "New like state"
// @Failure 401 {object} response.ErrorEnvelope "Sign in required"
// @Failure 404 {object} response.ErrorEnvelope "Prompt not found"
// @Router /prompts/{id}/like [post]

// ListCategories lists categories
// @Summary Categories
// @Tags categories
// @Produce json
// @Success 200 {object} CategoriesResponse "Categories ordered by name"
// @Router /categories [get]

// GetProfile returns the signed-in user's profile
// @Summary Own profile
// @Description Profile row, totals over all own prompts and the tab listing.
// @Tags profile
// @Produce json
// @Param visibility query string false "Tab" Enums(public, private) default(public)
// @Success 200 {object} prompts.ProfileView "Profile"
// @Failure 401 {object} response.ErrorEnvelope "Sign in required"
// @Router /profile [get]

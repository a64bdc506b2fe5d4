package prompts

import (
	"context"

	"go.uber.org/zap"

	"hiprompt/internal/authz"
	"hiprompt/internal/domain"
	"hiprompt/internal/repository"
	apperrors "hiprompt/pkg/errors"
)

// Create stores a new prompt authored by the signed-in user.
func (s *Service) Create(ctx context.Context, draft domain.PromptDraft) (domain.Prompt, error) {
	_, identity, err := s.requireIdentity()
	if err != nil {
		return domain.Prompt{}, err
	}

	draft, err = draft.Validate()
	if err != nil {
		return domain.Prompt{}, err
	}

	row := repository.NewPrompt{
		Title:       draft.Title,
		Description: optional(draft.Description),
		Content:     draft.Content,
		CategoryID:  optional(draft.CategoryID),
		AuthorID:    identity.ID,
		IsPublic:    draft.IsPublic,
		Tags:        domain.NewTags(draft.Tags...),
	}

	created, err := s.prompts.Create(ctx, row)
	if err != nil {
		return domain.Prompt{}, apperrors.Wrap(err, "failed to create prompt")
	}

	s.metrics.RecordPromptCreated()
	s.logger.Info("Prompt created",
		zap.String("prompt_id", created.ID),
		zap.String("user_id", identity.ID),
		zap.Bool("is_public", created.IsPublic),
	)
	return created, nil
}

// Update patches the caller's own prompt. The author never changes.
func (s *Service) Update(ctx context.Context, id string, patch domain.PromptPatch) (domain.Prompt, error) {
	current, _, err := s.requireIdentity()
	if err != nil {
		return domain.Prompt{}, err
	}

	patch, err = patch.Validate()
	if err != nil {
		return domain.Prompt{}, err
	}

	existing, err := s.mutable(ctx, current, id)
	if err != nil {
		return domain.Prompt{}, err
	}
	if patch.IsEmpty() {
		return existing, nil
	}

	changes := map[string]interface{}{"updated_at": s.now().UTC()}
	if patch.Title != nil {
		changes["title"] = *patch.Title
	}
	if patch.Description != nil {
		changes["description"] = optional(*patch.Description)
	}
	if patch.Content != nil {
		changes["content"] = *patch.Content
	}
	if patch.CategoryID != nil {
		changes["category_id"] = optional(*patch.CategoryID)
	}
	if patch.IsPublic != nil {
		changes["is_public"] = *patch.IsPublic
	}
	if patch.Tags != nil {
		changes["tags"] = domain.NewTags(*patch.Tags...)
	}

	updated, err := s.prompts.Update(ctx, id, changes)
	if err != nil {
		return domain.Prompt{}, apperrors.Wrap(err, "failed to update prompt")
	}
	// The update response carries no joins; keep the ones already loaded.
	if updated.Author == nil {
		updated.Author = existing.Author
	}
	if updated.Category == nil && updated.CategoryID != nil && existing.CategoryID != nil &&
		*updated.CategoryID == *existing.CategoryID {
		updated.Category = existing.Category
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	current, _, err := s.requireIdentity()
	if err != nil {
		return err
	}
	if _, err := s.mutable(ctx, current, id); err != nil {
		return err
	}
	if err := s.prompts.Delete(ctx, id); err != nil {
		return apperrors.Wrap(err, "failed to delete prompt")
	}
	s.logger.Info("Prompt deleted", zap.String("prompt_id", id), zap.String("user_id", current.UserID()))
	return nil
}

// mutable loads the prompt and checks the caller owns it.
func (s *Service) mutable(ctx context.Context, current domain.Session, id string) (domain.Prompt, error) {
	p, err := s.prompts.Get(ctx, id)
	if err != nil {
		return domain.Prompt{}, err
	}
	if !authz.CanView(current, p) {
		return domain.Prompt{}, apperrors.NotFound("prompt")
	}
	if !authz.CanMutate(current, p) {
		return domain.Prompt{}, apperrors.Forbidden("only the author can change this prompt")
	}
	return p, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package prompts

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"hiprompt/internal/authz"
	"hiprompt/internal/domain"
	"hiprompt/internal/repository"
	apperrors "hiprompt/pkg/errors"
)

// FeedQuery filters the home feed.
type FeedQuery struct {
	CategoryID string
	Search     string
}

// Feed is the home page: public prompts newest first plus the featured one.
type Feed struct {
	Prompts  []domain.Prompt `json:"prompts"`
	Featured *domain.Prompt  `json:"featured"`
}

// Detail is one prompt as its page shows it.
type Detail struct {
	Prompt    domain.Prompt `json:"prompt"`
	Liked     bool          `json:"liked"`
	CanMutate bool          `json:"can_mutate"`
}

// ProfileQuery selects the profile tab.
type ProfileQuery struct {
	Visibility domain.Visibility
}

// ProfileStats are totals over all of the user's prompts.
type ProfileStats struct {
	PromptCount  int `json:"prompt_count"`
	PublicCount  int `json:"public_count"`
	PrivateCount int `json:"private_count"`
	TotalLikes   int `json:"total_likes"`
	TotalViews   int `json:"total_views"`
}

// ProfileView is the profile page.
type ProfileView struct {
	Identity   domain.Identity   `json:"identity"`
	Profile    *domain.Profile   `json:"profile"`
	Stats      ProfileStats      `json:"stats"`
	Visibility domain.Visibility `json:"visibility"`
	Prompts    []domain.Prompt   `json:"prompts"`
}

func (s *Service) Feed(ctx context.Context, q FeedQuery) (Feed, error) {
	public := true
	list, err := s.prompts.List(ctx, repository.PromptQuery{
		Public:     &public,
		CategoryID: strings.TrimSpace(q.CategoryID),
		Search:     strings.TrimSpace(q.Search),
	})
	if err != nil {
		return Feed{}, apperrors.Wrap(err, "failed to load prompts")
	}

	visible := authz.FilterVisible(s.session.Current(), list)
	return Feed{Prompts: visible, Featured: featured(visible)}, nil
}

// featured picks the most-liked prompt. On a tie the later prompt wins.
func featured(list []domain.Prompt) *domain.Prompt {
	if len(list) == 0 {
		return nil
	}
	best := list[0]
	for _, p := range list[1:] {
		if !(best.LikesCount > p.LikesCount) {
			best = p
		}
	}
	return &best
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load categories")
	}
	return categories, nil
}

// Detail loads one prompt and records a view in the background. Prompts the
// session may not view are reported as missing.
func (s *Service) Detail(ctx context.Context, id string) (Detail, error) {
	current := s.session.Current()

	p, err := s.prompts.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	if !authz.CanView(current, p) {
		return Detail{}, apperrors.NotFound("prompt")
	}

	d := Detail{Prompt: p, CanMutate: authz.CanMutate(current, p)}
	if current.IsAuthenticated() {
		edges, err := s.likes.Find(ctx, id, current.UserID())
		if err != nil {
			// The page still renders; the like button starts unliked.
			s.logger.Warn("Failed to load like state", zap.String("prompt_id", id), zap.Error(err))
		}
		d.Liked = len(edges) > 0
	}

	s.RecordView(ctx, id)
	return d, nil
}

// Profile requires a signed-in user. A missing profile row is not an error.
func (s *Service) Profile(ctx context.Context, q ProfileQuery) (ProfileView, error) {
	_, identity, err := s.requireIdentity()
	if err != nil {
		return ProfileView{}, err
	}

	profile, err := s.profiles.Get(ctx, identity.ID)
	if err != nil {
		s.logger.Warn("Failed to load profile", zap.String("user_id", identity.ID), zap.Error(err))
		profile = nil
	}

	all, err := s.prompts.List(ctx, repository.PromptQuery{AuthorID: identity.ID})
	if err != nil {
		return ProfileView{}, apperrors.Wrap(err, "failed to load your prompts")
	}

	visibility := q.Visibility
	if visibility != domain.VisibilityPrivate {
		visibility = domain.VisibilityPublic
	}

	view := ProfileView{
		Identity:   *identity,
		Profile:    profile,
		Visibility: visibility,
		Prompts:    []domain.Prompt{},
	}
	for _, p := range all {
		view.Stats.PromptCount++
		view.Stats.TotalLikes += p.LikesCount
		view.Stats.TotalViews += p.ViewsCount
		if p.IsPublic {
			view.Stats.PublicCount++
		} else {
			view.Stats.PrivateCount++
		}
		if p.Visibility() == visibility {
			view.Prompts = append(view.Prompts, p)
		}
	}
	return view, nil
}

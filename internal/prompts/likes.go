package prompts

import (
	"context"

	"go.uber.org/zap"

	"hiprompt/internal/authz"
	"hiprompt/internal/repository"
	apperrors "hiprompt/pkg/errors"
)

// LikeResult is the like state after a toggle.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// ToggleLike likes or unlikes a prompt for the signed-in user.
//
// Without an atomic procedure the edge and the counter are written in two
// separate calls, so concurrent toggles can leave likes_count off from the
// true number of edges.
func (s *Service) ToggleLike(ctx context.Context, promptID string) (LikeResult, error) {
	current, identity, err := s.requireIdentity()
	if err != nil {
		return LikeResult{}, err
	}

	p, err := s.prompts.Get(ctx, promptID)
	if err != nil {
		return LikeResult{}, err
	}
	if !authz.CanView(current, p) {
		return LikeResult{}, apperrors.NotFound("prompt")
	}

	if s.atomicLikesFn != "" {
		liked, count, err := s.likes.Toggle(ctx, s.atomicLikesFn, promptID)
		if err != nil {
			return LikeResult{}, apperrors.Wrap(err, "failed to toggle like")
		}
		s.recordToggle(promptID, identity.ID, liked, count)
		return LikeResult{Liked: liked, LikesCount: count}, nil
	}

	edges, err := s.likes.Find(ctx, promptID, identity.ID)
	if err != nil {
		return LikeResult{}, apperrors.Wrap(err, "failed to load like state")
	}

	fresh := p.LikesCount
	var result LikeResult
	if len(edges) == 0 {
		if _, err := s.likes.Add(ctx, promptID, identity.ID); err != nil {
			return LikeResult{}, apperrors.Wrap(err, "failed to like prompt")
		}
		result = LikeResult{Liked: true, LikesCount: fresh + 1}
	} else {
		if err := s.likes.Remove(ctx, promptID, identity.ID); err != nil {
			return LikeResult{}, apperrors.Wrap(err, "failed to unlike prompt")
		}
		count := fresh - 1
		if count < 0 {
			count = 0
		}
		result = LikeResult{Liked: false, LikesCount: count}
	}

	if err := s.prompts.SetCount(ctx, promptID, repository.ColumnLikesCount, result.LikesCount); err != nil {
		// The edge is written; the counter drifts until the next toggle.
		return result, apperrors.Wrap(err, "like saved but the counter was not updated")
	}

	s.recordToggle(promptID, identity.ID, result.Liked, result.LikesCount)
	return result, nil
}

func (s *Service) recordToggle(promptID, userID string, liked bool, count int) {
	s.metrics.RecordLikeToggle(liked)
	s.logger.Debug("Like toggled",
		zap.String("prompt_id", promptID),
		zap.String("user_id", userID),
		zap.Bool("liked", liked),
		zap.Int("likes_count", count),
	)
}

// RecordView bumps views_count in the background. It re-reads the count just
// before writing; concurrent viewers can still lose increments. Failures are
// logged only.
func (s *Service) RecordView(ctx context.Context, promptID string) {
	s.views.Add(1)
	go func() {
		defer s.views.Done()
		viewCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.viewTimeout)
		defer cancel()

		err := s.recordView(viewCtx, promptID)
		s.metrics.RecordView(err)
		if err != nil {
			s.logger.Warn("Failed to record view", zap.String("prompt_id", promptID), zap.Error(err))
		}
	}()
}

func (s *Service) recordView(ctx context.Context, promptID string) error {
	count, err := s.prompts.Count(ctx, promptID, repository.ColumnViewsCount)
	if err != nil {
		return err
	}
	return s.prompts.SetCount(ctx, promptID, repository.ColumnViewsCount, count+1)
}

package repository

import (
	"context"

	"hiprompt/internal/domain"
	"hiprompt/internal/gateway"
	apperrors "hiprompt/pkg/errors"
)

type LikeStore struct {
	tables gateway.Tables
}

var _ LikeRepository = (*LikeStore)(nil)

func NewLikeStore(tables gateway.Tables) *LikeStore {
	return &LikeStore{tables: tables}
}

// Find returns the edges for (promptID, userID). Normally zero or one.
func (s *LikeStore) Find(ctx context.Context, promptID, userID string) ([]domain.LikeEdge, error) {
	raw, err := s.tables.Select(ctx, gateway.TablePromptLikes, gateway.Query{
		Columns: "*",
		Filters: []gateway.Filter{
			gateway.Eq("prompt_id", promptID),
			gateway.Eq("user_id", userID),
		},
	})
	if err != nil {
		return nil, err
	}
	var edges []domain.LikeEdge
	if err := decode(raw, &edges, "like"); err != nil {
		return nil, err
	}
	return edges, nil
}

func (s *LikeStore) Add(ctx context.Context, promptID, userID string) (domain.LikeEdge, error) {
	raw, err := s.tables.Insert(ctx, gateway.TablePromptLikes, map[string]string{
		"prompt_id": promptID,
		"user_id":   userID,
	})
	if err != nil {
		return domain.LikeEdge{}, err
	}
	var edge domain.LikeEdge
	if err := decode(raw, &edge, "like"); err != nil {
		return domain.LikeEdge{}, err
	}
	return edge, nil
}

// Remove deletes every edge for (promptID, userID).
func (s *LikeStore) Remove(ctx context.Context, promptID, userID string) error {
	return s.tables.Delete(ctx, gateway.TablePromptLikes,
		gateway.Eq("prompt_id", promptID),
		gateway.Eq("user_id", userID),
	)
}

func (s *LikeStore) Toggle(ctx context.Context, fn, promptID string) (bool, int, error) {
	raw, err := s.tables.RPC(ctx, fn, map[string]string{"prompt_id": promptID})
	if err != nil {
		return false, 0, err
	}
	var result struct {
		Liked      *bool `json:"liked"`
		LikesCount int   `json:"likes_count"`
	}
	if err := decode(raw, &result, fn); err != nil {
		return false, 0, err
	}
	if result.Liked == nil {
		return false, 0, apperrors.NewData(apperrors.ReasonRemote, fn+" returned no like state")
	}
	return *result.Liked, result.LikesCount, nil
}

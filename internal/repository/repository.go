// Package repository maps the gateway's generic rows onto domain types.
// Every call goes to the gateway; nothing is cached.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"hiprompt/internal/domain"
	"hiprompt/internal/gateway"
	apperrors "hiprompt/pkg/errors"
)

// PromptColumns selects a prompt with its author and category names joined.
const PromptColumns = "*, author:profiles!author_id(full_name, username), category:categories!category_id(name)"

// Counter columns that any viewer may bump.
const (
	ColumnLikesCount = "likes_count"
	ColumnViewsCount = "views_count"
)

// PromptQuery narrows a prompt listing. Zero values mean no constraint.
type PromptQuery struct {
	AuthorID   string
	CategoryID string
	Search     string
	// Public restricts by visibility when set.
	Public *bool
	Limit  int
}

// NewPrompt is the row written when a prompt is created.
type NewPrompt struct {
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	Content     string      `json:"content"`
	CategoryID  *string     `json:"category_id"`
	AuthorID    string      `json:"author_id"`
	IsPublic    bool        `json:"is_public"`
	Tags        domain.Tags `json:"tags"`
}

// PromptReader reads prompts visible to the gateway's current user.
type PromptReader interface {
	List(ctx context.Context, q PromptQuery) ([]domain.Prompt, error)
	Get(ctx context.Context, id string) (domain.Prompt, error)
	Count(ctx context.Context, id string, column string) (int, error)
}

// PromptWriter changes prompts.
type PromptWriter interface {
	Create(ctx context.Context, p NewPrompt) (domain.Prompt, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) (domain.Prompt, error)
	SetCount(ctx context.Context, id string, column string, value int) error
	Delete(ctx context.Context, id string) error
}

type PromptRepository interface {
	PromptReader
	PromptWriter
}

// LikeRepository manages like edges.
type LikeRepository interface {
	Find(ctx context.Context, promptID, userID string) ([]domain.LikeEdge, error)
	Add(ctx context.Context, promptID, userID string) (domain.LikeEdge, error)
	Remove(ctx context.Context, promptID, userID string) error
	// Toggle runs the gateway's atomic toggle procedure.
	Toggle(ctx context.Context, fn, promptID string) (liked bool, likesCount int, err error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type ProfileRepository interface {
	// Get returns nil without error when the profile row does not exist.
	Get(ctx context.Context, id string) (*domain.Profile, error)
}

// decode unmarshals a gateway response into v.
func decode(raw json.RawMessage, v interface{}, what string) error {
	if len(raw) == 0 {
		raw = json.RawMessage("[]")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return apperrors.NewData(apperrors.ReasonRemote, fmt.Sprintf("malformed %s response", what)).WithCause(err)
	}
	return nil
}

func byID(id string) gateway.Filter {
	return gateway.Eq("id", id)
}

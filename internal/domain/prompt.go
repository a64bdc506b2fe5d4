package domain

import (
	"strings"
	"time"
)

// Visibility selects public or private prompts.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ParseVisibility defaults to public for anything but "private".
func ParseVisibility(v string) Visibility {
	if strings.EqualFold(strings.TrimSpace(v), string(VisibilityPrivate)) {
		return VisibilityPrivate
	}
	return VisibilityPublic
}

// ProfileSummary is the author data joined onto a prompt row.
type ProfileSummary struct {
	FullName *string `json:"full_name"`
	Username *string `json:"username"`
}

// DisplayName prefers the full name, then the username.
func (p *ProfileSummary) DisplayName() string {
	if p == nil {
		return "Anonymous"
	}
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	if p.Username != nil && *p.Username != "" {
		return *p.Username
	}
	return "Anonymous"
}

// CategorySummary is the category data joined onto a prompt row.
type CategorySummary struct {
	Name string `json:"name"`
}

// Prompt is a shared piece of content. AuthorID never changes after creation.
type Prompt struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Content     string    `json:"content"`
	CategoryID  *string   `json:"category_id"`
	AuthorID    string    `json:"author_id"`
	IsPublic    bool      `json:"is_public"`
	Tags        Tags      `json:"tags" swaggertype:"array,string"`
	LikesCount  int       `json:"likes_count"`
	ViewsCount  int       `json:"views_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Author   *ProfileSummary  `json:"author,omitempty"`
	Category *CategorySummary `json:"category,omitempty"`
}

func (p Prompt) Visibility() Visibility {
	if p.IsPublic {
		return VisibilityPublic
	}
	return VisibilityPrivate
}

// LikeEdge records one identity's like of one prompt.
type LikeEdge struct {
	ID        string    `json:"id"`
	PromptID  string    `json:"prompt_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Category classifies prompts.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Profile is the public profile row keyed by the identity id.
type Profile struct {
	ID        string    `json:"id"`
	Username  *string   `json:"username"`
	FullName  *string   `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

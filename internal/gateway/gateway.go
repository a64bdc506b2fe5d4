// Package gateway defines the contract of the remote backend-as-a-service that
// owns authentication and row storage. Implementations live in subpackages.
package gateway

import (
	"context"
	"encoding/json"
	"time"
)

// Table names.
const (
	TableProfiles    = "profiles"
	TableCategories  = "categories"
	TablePrompts     = "prompts"
	TablePromptLikes = "prompt_likes"
)

// AuthEvent names an auth state change pushed by the gateway.
type AuthEvent string

const (
	EventInitialSession AuthEvent = "INITIAL_SESSION"
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
	EventUserUpdated    AuthEvent = "USER_UPDATED"
)

// User is the gateway's view of an identity.
type User struct {
	ID        string                 `json:"id"`
	Email     string                 `json:"email"`
	CreatedAt time.Time              `json:"created_at"`
	Metadata  map[string]interface{} `json:"user_metadata,omitempty"`
}

// FullName returns the full_name metadata entry, if any.
func (u User) FullName() string {
	if v, ok := u.Metadata["full_name"].(string); ok {
		return v
	}
	return ""
}

// AuthSession is a live gateway session.
type AuthSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// SignUpResult carries the created user and, when the gateway confirms
// accounts automatically, a live session.
type SignUpResult struct {
	User    User
	Session *AuthSession
}

// AuthListener receives pushed auth changes. session is nil on sign-out.
type AuthListener func(event AuthEvent, session *AuthSession)

// Auth is the authentication half of the gateway.
type Auth interface {
	// GetSession returns the persisted session, or nil when there is none.
	GetSession(ctx context.Context) (*AuthSession, error)
	// OnAuthStateChange registers fn and returns a function that removes it.
	OnAuthStateChange(fn AuthListener) (unsubscribe func())
	SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*SignUpResult, error)
	SignOut(ctx context.Context) error
}

// Filter is an equality filter on one column.
type Filter struct {
	Column string
	Value  string
}

// Eq builds an equality filter.
func Eq(column, value string) Filter {
	return Filter{Column: column, Value: value}
}

// Search matches Term case-insensitively as a substring of any of Columns.
type Search struct {
	Columns []string
	Term    string
}

// Order sorts by one column.
type Order struct {
	Column    string
	Ascending bool
}

// Query describes a select. Columns may embed related rows using
// `alias:table!fk_column(col, ...)`.
type Query struct {
	Columns string
	Filters []Filter
	Search  *Search
	Order   []Order
	Limit   int
	// Single expects exactly one row; no match is a not-found data error.
	Single bool
}

// Tables is the row storage half of the gateway. Rows are JSON objects.
// Select returns a JSON array, or a JSON object when Query.Single is set.
type Tables interface {
	Select(ctx context.Context, table string, q Query) (json.RawMessage, error)
	Insert(ctx context.Context, table string, row interface{}) (json.RawMessage, error)
	Update(ctx context.Context, table string, patch interface{}, filters ...Filter) (json.RawMessage, error)
	Delete(ctx context.Context, table string, filters ...Filter) error
	RPC(ctx context.Context, fn string, args interface{}) (json.RawMessage, error)
}

// Gateway bundles both halves.
type Gateway interface {
	Auth() Auth
	Tables() Tables
	Close() error
}

package domain

import "time"

// Identity is an authenticated user as known to the gateway.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionState is the client's authentication state.
type SessionState string

const (
	StateUnknown       SessionState = "unknown"
	StateAnonymous     SessionState = "anonymous"
	StateAuthenticated SessionState = "authenticated"
)

// Session is a snapshot of who is using the client right now.
// Identity is non-nil iff State is StateAuthenticated.
type Session struct {
	State    SessionState `json:"state"`
	Identity *Identity    `json:"identity,omitempty"`
}

// UnknownSession is the state before the persisted session has been resolved.
func UnknownSession() Session {
	return Session{State: StateUnknown}
}

// AnonymousSession is a resolved session with no identity.
func AnonymousSession() Session {
	return Session{State: StateAnonymous}
}

// AuthenticatedSession returns a session bound to a copy of id.
func AuthenticatedSession(id Identity) Session {
	return Session{State: StateAuthenticated, Identity: &id}
}

func (s Session) IsAuthenticated() bool {
	return s.State == StateAuthenticated && s.Identity != nil
}

func (s Session) IsResolved() bool {
	return s.State != StateUnknown
}

// UserID returns the identity id, or "" when there is none.
func (s Session) UserID() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.ID
}

// SameIdentity reports whether both sessions carry the same identity payload.
func (s Session) SameIdentity(other Session) bool {
	if s.Identity == nil || other.Identity == nil {
		return s.Identity == nil && other.Identity == nil
	}
	a, b := s.Identity, other.Identity
	return a.ID == b.ID && a.Email == b.Email && a.FullName == b.FullName && a.CreatedAt.Equal(b.CreatedAt)
}

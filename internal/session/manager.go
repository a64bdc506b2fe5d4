// Package session owns the process-wide authentication state. The Manager is
// its only writer; everything else reads snapshots or subscribes.
package session

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"hiprompt/internal/domain"
	"hiprompt/internal/gateway"
	"hiprompt/internal/observability"
	apperrors "hiprompt/pkg/errors"
)

// MinPasswordLength is enforced locally on sign-up.
const MinPasswordLength = 6

// Change describes one transition delivered to subscribers.
type Change struct {
	Event    gateway.AuthEvent
	Previous domain.Session
	Session  domain.Session
}

// Listener receives transitions. It runs on the goroutine that caused the
// transition, after the manager's lock is released.
type Listener func(Change)

// Manager tracks who is signed in.
type Manager struct {
	auth    gateway.Auth
	logger  *zap.Logger
	metrics *observability.Collector

	mu        sync.Mutex
	current   domain.Session
	listeners map[int]Listener
	nextID    int
	ready     chan struct{}
	// pushed counts events received from the gateway.
	pushed uint64

	initOnce sync.Once
	initErr  error

	unsubscribe func()
	closeOnce   sync.Once
}

type Option func(*Manager)

// WithMetrics records transitions on the collector.
func WithMetrics(c *observability.Collector) Option {
	return func(m *Manager) { m.metrics = c }
}

// NewManager creates a manager in the unknown state and starts listening to
// the gateway's pushed auth events.
func NewManager(auth gateway.Auth, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		auth:      auth,
		logger:    logger.Named("session"),
		current:   domain.UnknownSession(),
		listeners: make(map[int]Listener),
		ready:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.unsubscribe = auth.OnAuthStateChange(m.onGatewayEvent)
	return m
}

// Initialize resolves the persisted session once. Later calls return the
// first result. A gateway failure leaves the session anonymous.
func (m *Manager) Initialize(ctx context.Context) error {
	m.initOnce.Do(func() {
		if m.Current().IsResolved() {
			return
		}

		s, err := m.auth.GetSession(ctx)
		if err != nil {
			m.logger.Warn("Could not restore session, continuing signed out", zap.Error(err))
			m.initErr = authError(err)
			m.resolve(gateway.EventInitialSession, domain.AnonymousSession())
			return
		}
		m.resolve(gateway.EventInitialSession, fromAuthSession(s))
	})
	return m.initErr
}

// resolve applies the initial session unless a pushed event already did.
func (m *Manager) resolve(event gateway.AuthEvent, next domain.Session) {
	m.mu.Lock()
	if m.current.IsResolved() {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	m.transition(event, next)
}

// Loading reports whether the session is still unknown.
func (m *Manager) Loading() bool {
	return !m.Current().IsResolved()
}

// Ready is closed once the session is resolved.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// Current returns a snapshot of the session.
func (m *Manager) Current() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copySession(m.current)
}

func (m *Manager) State() domain.SessionState {
	return m.Current().State
}

// Identity returns a copy of the signed-in identity, or nil.
func (m *Manager) Identity() *domain.Identity {
	return m.Current().Identity
}

// Subscribe registers l for every later transition.
func (m *Manager) Subscribe(l Listener) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.listeners, id)
		})
	}
}

// SignIn authenticates with email and password. On failure the session is
// left as it was.
func (m *Manager) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Identity{}, apperrors.NewAuth(apperrors.ReasonInvalidInput, "email and password are required")
	}

	before := m.pushedEvents()
	s, err := m.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		m.logger.Info("Sign in failed", zap.Error(err))
		return domain.Identity{}, authError(err)
	}
	if s == nil {
		return domain.Identity{}, apperrors.NewAuth(apperrors.ReasonProvider, "sign in returned no session")
	}

	next := fromAuthSession(s)
	m.transitionUnlessPushed(before, gateway.EventSignedIn, next)
	return *next.Identity, nil
}

// SignUp registers an account. The session becomes authenticated only when
// the gateway hands back a live session; otherwise the account awaits email
// confirmation and the session is unchanged.
func (m *Manager) SignUp(ctx context.Context, email, password, displayName string) (domain.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Identity{}, apperrors.NewAuth(apperrors.ReasonInvalidInput, "email and password are required")
	}
	if len(password) < MinPasswordLength {
		return domain.Identity{}, apperrors.NewAuth(apperrors.ReasonInvalidInput, "password must be at least 6 characters")
	}

	metadata := map[string]interface{}{"full_name": strings.TrimSpace(displayName)}
	before := m.pushedEvents()
	result, err := m.auth.SignUp(ctx, email, password, metadata)
	if err != nil {
		m.logger.Info("Sign up failed", zap.Error(err))
		return domain.Identity{}, authError(err)
	}

	identity := identityFrom(result.User)
	if result.Session != nil {
		next := fromAuthSession(result.Session)
		m.transitionUnlessPushed(before, gateway.EventSignedIn, next)
		identity = *next.Identity
	}
	return identity, nil
}

// SignOut ends the session. Signing out while anonymous succeeds.
func (m *Manager) SignOut(ctx context.Context) error {
	before := m.pushedEvents()
	if err := m.auth.SignOut(ctx); err != nil {
		m.logger.Warn("Sign out failed", zap.Error(err))
		return authError(err)
	}
	m.transitionUnlessPushed(before, gateway.EventSignedOut, domain.AnonymousSession())
	return nil
}

func (m *Manager) pushedEvents() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pushed
}

// transitionUnlessPushed applies the outcome of a call only when the gateway
// pushed no events while it ran. A pushed event already carried the outcome,
// and any later event is newer than it.
func (m *Manager) transitionUnlessPushed(before uint64, event gateway.AuthEvent, next domain.Session) {
	if m.pushedEvents() != before {
		return
	}
	m.transition(event, next)
}

// Close stops listening to gateway events.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
	})
}

func (m *Manager) onGatewayEvent(event gateway.AuthEvent, s *gateway.AuthSession) {
	m.logger.Debug("Gateway auth event", zap.String("event", string(event)))
	m.mu.Lock()
	m.pushed++
	m.mu.Unlock()
	switch event {
	case gateway.EventSignedOut:
		m.transition(event, domain.AnonymousSession())
	case gateway.EventSignedIn, gateway.EventTokenRefreshed, gateway.EventUserUpdated, gateway.EventInitialSession:
		m.transition(event, fromAuthSession(s))
	default:
		m.logger.Debug("Ignoring unknown auth event", zap.String("event", string(event)))
	}
}

// transition is the single write path. Listeners hear about real changes,
// and about refreshes even when the identity payload is the same.
func (m *Manager) transition(event gateway.AuthEvent, next domain.Session) {
	m.mu.Lock()
	prev := m.current
	changed := prev.State != next.State || !prev.SameIdentity(next)
	refresh := event == gateway.EventTokenRefreshed || event == gateway.EventUserUpdated
	if !changed && !refresh {
		m.mu.Unlock()
		return
	}

	m.current = copySession(next)
	if !prev.IsResolved() {
		close(m.ready)
	}
	listeners := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	if changed {
		m.metrics.RecordSessionTransition(string(next.State))
		m.logger.Info("Session changed",
			zap.String("event", string(event)),
			zap.String("from", string(prev.State)),
			zap.String("to", string(next.State)),
			zap.String("user_id", next.UserID()),
		)
	}

	change := Change{Event: event, Previous: copySession(prev), Session: copySession(next)}
	for _, l := range listeners {
		m.notify(l, change)
	}
}

func (m *Manager) notify(l Listener, change Change) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Session listener panicked",
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
	}()
	l(change)
}

func fromAuthSession(s *gateway.AuthSession) domain.Session {
	if s == nil || s.User.ID == "" {
		return domain.AnonymousSession()
	}
	return domain.AuthenticatedSession(identityFrom(s.User))
}

func identityFrom(u gateway.User) domain.Identity {
	return domain.Identity{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName(),
		CreatedAt: u.CreatedAt,
	}
}

func copySession(s domain.Session) domain.Session {
	if s.Identity != nil {
		id := *s.Identity
		s.Identity = &id
	}
	return s
}

// authError guarantees an auth-kind error for the caller.
func authError(err error) error {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		if appErr.Kind == apperrors.KindAuth {
			return err
		}
		return apperrors.NewAuth(apperrors.ReasonProvider, appErr.Message).WithCause(err)
	}
	return apperrors.NewAuth(apperrors.ReasonProvider, "authentication service unavailable").WithCause(err)
}

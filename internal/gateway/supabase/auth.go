package supabase

import (
	"context"
	"time"

	"github.com/google/uuid"
	supa "github.com/supabase-community/supabase-go"
	"github.com/supabase-community/gotrue-go/types"
	"go.uber.org/zap"

	"hiprompt/internal/gateway"
)

// GetSession returns the stored session, refreshing it first when the access
// token has expired. The store is read once per process.
func (g *Gateway) GetSession(ctx context.Context) (*gateway.AuthSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	if g.loaded {
		s := cloneSession(g.session)
		g.mu.Unlock()
		return s, nil
	}
	g.mu.Unlock()

	stored := g.loadStored()
	if stored == nil {
		g.markLoaded()
		return nil, nil
	}

	persist := false
	if !g.expiresAt(stored).After(g.now()) {
		refreshed, err := g.refreshTokens(stored.RefreshToken)
		if err != nil {
			if isAuthRejection(err) {
				g.logger.Info("Stored session expired and could not be refreshed", zap.Error(err))
				g.clearStore()
				g.markLoaded()
				return nil, nil
			}
			return nil, mapAuthError(err)
		}
		stored, persist = refreshed, true
	}

	g.adopt(stored, persist)
	return cloneSession(stored), nil
}

func (g *Gateway) OnAuthStateChange(fn gateway.AuthListener) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.listeners, id)
	}
}

func (g *Gateway) SignInWithPassword(ctx context.Context, email, password string) (*gateway.AuthSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var resp *types.TokenResponse
	err := g.withClient(func(c *supa.Client) error {
		var err error
		resp, err = c.Auth.SignInWithEmailPassword(email, password)
		return err
	})
	if err != nil {
		return nil, mapAuthError(err)
	}

	session := g.fromTypesSession(resp.Session)
	g.adopt(session, true)
	g.emit(gateway.EventSignedIn, session)
	return cloneSession(session), nil
}

func (g *Gateway) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*gateway.SignUpResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var resp *types.SignupResponse
	err := g.withClient(func(c *supa.Client) error {
		var err error
		resp, err = c.Auth.Signup(types.SignupRequest{
			Email:    email,
			Password: password,
			Data:     metadata,
		})
		return err
	})
	if err != nil {
		return nil, mapAuthError(err)
	}

	// Without auto-confirm the body is the user; with it, a session.
	user := resp.User
	if user.ID == uuid.Nil {
		user = resp.Session.User
	}
	result := &gateway.SignUpResult{User: fromTypesUser(user)}

	if resp.Session.AccessToken != "" {
		session := g.fromTypesSession(resp.Session)
		g.adopt(session, true)
		g.emit(gateway.EventSignedIn, session)
		result.Session = cloneSession(session)
	}
	return result, nil
}

// SignOut revokes the session. Without a session it only clears local state.
func (g *Gateway) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	current := cloneSession(g.session)
	g.mu.Unlock()

	if current != nil {
		err := g.withClient(func(c *supa.Client) error {
			return c.Auth.WithToken(current.AccessToken).Logout()
		})
		// An already revoked or expired token is as good as a sign-out.
		if err != nil && !isAuthRejection(err) && authStatus(err) != 404 {
			return mapAuthError(err)
		}
	}

	g.drop()
	g.clearStore()
	if current != nil {
		g.emit(gateway.EventSignedOut, nil)
	}
	return nil
}

// adopt makes session current, points the clients at its token and restarts
// the refresher.
func (g *Gateway) adopt(session *gateway.AuthSession, persist bool) {
	g.setBearer(session)

	g.mu.Lock()
	g.session = cloneSession(session)
	g.loaded = true
	stop := g.stopRefresh
	g.stopRefresh = nil
	g.mu.Unlock()

	if stop != nil {
		stop()
	}
	if persist && g.store != nil {
		if err := g.store.Save(session); err != nil {
			g.logger.Warn("Failed to persist session", zap.Error(err))
		}
	}

	g.mu.Lock()
	if !g.closed && g.stopRefresh == nil {
		g.stopRefresh = g.startRefresher(cloneSession(session))
	}
	g.mu.Unlock()
}

// drop forgets the current session.
func (g *Gateway) drop() {
	g.setBearer(nil)

	g.mu.Lock()
	g.session = nil
	g.loaded = true
	stop := g.stopRefresh
	g.stopRefresh = nil
	g.mu.Unlock()

	if stop != nil {
		stop()
	}
}

func (g *Gateway) markLoaded() {
	g.mu.Lock()
	g.loaded = true
	g.mu.Unlock()
}

func (g *Gateway) loadStored() *gateway.AuthSession {
	if g.store == nil {
		return nil
	}
	stored, err := g.store.Load()
	if err != nil {
		g.logger.Warn("Ignoring unreadable session file", zap.Error(err))
		g.clearStore()
		return nil
	}
	return stored
}

func (g *Gateway) clearStore() {
	if g.store == nil {
		return
	}
	if err := g.store.Clear(); err != nil {
		g.logger.Warn("Failed to clear session file", zap.Error(err))
	}
}

// onSessionFileChange applies a sign-in or sign-out made by another process.
func (g *Gateway) onSessionFileChange(stored *gateway.AuthSession) {
	g.mu.Lock()
	current := cloneSession(g.session)
	loaded := g.loaded
	g.mu.Unlock()

	if !loaded {
		return
	}

	switch {
	case stored == nil && current != nil:
		g.logger.Info("Session removed by another process")
		g.drop()
		g.emit(gateway.EventSignedOut, nil)

	case stored != nil && (current == nil || current.AccessToken != stored.AccessToken):
		if !g.expiresAt(stored).After(g.now()) {
			return
		}
		event := gateway.EventTokenRefreshed
		if current == nil || current.User.ID != stored.User.ID {
			event = gateway.EventSignedIn
		}
		g.adopt(stored, false)
		g.emit(event, stored)
	}
}

// emit calls listeners outside the lock.
func (g *Gateway) emit(event gateway.AuthEvent, session *gateway.AuthSession) {
	g.mu.Lock()
	listeners := make([]gateway.AuthListener, 0, len(g.listeners))
	for _, fn := range g.listeners {
		listeners = append(listeners, fn)
	}
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(event, cloneSession(session))
	}
}

func (g *Gateway) fromTypesSession(s types.Session) *gateway.AuthSession {
	out := &gateway.AuthSession{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		User:         fromTypesUser(s.User),
	}
	switch {
	case s.ExpiresAt > 0:
		out.ExpiresAt = time.Unix(s.ExpiresAt, 0).UTC()
	case s.ExpiresIn > 0:
		out.ExpiresAt = g.now().Add(time.Duration(s.ExpiresIn) * time.Second).UTC()
	default:
		if exp, ok := tokenExpiry(s.AccessToken); ok {
			out.ExpiresAt = exp
		}
	}
	return out
}

func toTypesSession(s *gateway.AuthSession, token string) types.Session {
	out := types.Session{AccessToken: token, TokenType: "bearer"}
	if s != nil {
		out.RefreshToken = s.RefreshToken
		out.ExpiresAt = s.ExpiresAt.Unix()
	}
	return out
}

func fromTypesUser(u types.User) gateway.User {
	out := gateway.User{
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		Metadata:  u.UserMetadata,
	}
	if u.ID != uuid.Nil {
		out.ID = u.ID.String()
	}
	return out
}

func cloneSession(s *gateway.AuthSession) *gateway.AuthSession {
	if s == nil {
		return nil
	}
	out := *s
	if s.User.Metadata != nil {
		out.User.Metadata = make(map[string]interface{}, len(s.User.Metadata))
		for k, v := range s.User.Metadata {
			out.User.Metadata[k] = v
		}
	}
	return &out
}

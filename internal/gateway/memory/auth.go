package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"hiprompt/internal/gateway"
	apperrors "hiprompt/pkg/errors"
)

const minPasswordLength = 6

func (g *Gateway) GetSession(ctx context.Context) (*gateway.AuthSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.checkError("GetSession", ""); err != nil {
		return nil, err
	}
	return cloneSession(g.session), nil
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
	g.mu.Lock()
	if err := g.checkError("SignInWithPassword", ""); err != nil {
		g.mu.Unlock()
		return nil, err
	}

	acct, ok := g.accounts[normalizeEmail(email)]
	if !ok || acct.password != password {
		g.mu.Unlock()
		return nil, apperrors.NewAuth(apperrors.ReasonInvalidCredentials, "Invalid login credentials")
	}
	if !acct.confirmed {
		g.mu.Unlock()
		return nil, apperrors.NewAuth(apperrors.ReasonInvalidCredentials, "Email not confirmed")
	}

	g.session = g.newSession(acct.user)
	out := cloneSession(g.session)
	g.mu.Unlock()

	g.emit(gateway.EventSignedIn, out)
	return out, nil
}

func (g *Gateway) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*gateway.SignUpResult, error) {
	g.mu.Lock()
	if err := g.checkError("SignUp", ""); err != nil {
		g.mu.Unlock()
		return nil, err
	}

	key := normalizeEmail(email)
	if key == "" || !strings.Contains(key, "@") {
		g.mu.Unlock()
		return nil, apperrors.NewAuth(apperrors.ReasonInvalidInput, "Unable to validate email address: invalid format")
	}
	if len(password) < minPasswordLength {
		g.mu.Unlock()
		return nil, apperrors.NewAuth(apperrors.ReasonInvalidInput, "Password should be at least 6 characters")
	}
	if _, exists := g.accounts[key]; exists {
		g.mu.Unlock()
		return nil, apperrors.NewAuth(apperrors.ReasonAlreadyExists, "User already registered")
	}

	meta := make(map[string]interface{}, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	user := gateway.User{
		ID:        uuid.New().String(),
		Email:     key,
		CreatedAt: g.now(),
		Metadata:  meta,
	}
	g.accounts[key] = &account{user: user, password: password, confirmed: g.autoConfirm}

	// Mirrors the handle_new_user trigger that creates the profile row.
	profile := row{"id": user.ID}
	if name := user.FullName(); name != "" {
		profile["full_name"] = name
	}
	g.applyDefaults(gateway.TableProfiles, profile)
	g.tables[gateway.TableProfiles] = append(g.tables[gateway.TableProfiles], profile)

	result := &gateway.SignUpResult{User: user}
	if g.autoConfirm {
		g.session = g.newSession(user)
		result.Session = cloneSession(g.session)
	}
	g.mu.Unlock()

	if result.Session != nil {
		g.emit(gateway.EventSignedIn, result.Session)
	}
	return result, nil
}

func (g *Gateway) SignOut(ctx context.Context) error {
	g.mu.Lock()
	if err := g.checkError("SignOut", ""); err != nil {
		g.mu.Unlock()
		return err
	}
	hadSession := g.session != nil
	g.session = nil
	g.mu.Unlock()

	if hadSession {
		g.emit(gateway.EventSignedOut, nil)
	}
	return nil
}

// ConfirmEmail marks an account as verified so it can sign in.
func (g *Gateway) ConfirmEmail(email string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	acct, ok := g.accounts[normalizeEmail(email)]
	if ok {
		acct.confirmed = true
	}
	return ok
}

// CreateUser registers a confirmed account without touching the session.
func (g *Gateway) CreateUser(email, password, fullName string) gateway.User {
	g.mu.Lock()
	defer g.mu.Unlock()

	user := gateway.User{
		ID:        uuid.New().String(),
		Email:     normalizeEmail(email),
		CreatedAt: g.now(),
		Metadata:  map[string]interface{}{"full_name": fullName},
	}
	g.accounts[user.Email] = &account{user: user, password: password, confirmed: true}

	profile := row{"id": user.ID, "full_name": fullName}
	g.applyDefaults(gateway.TableProfiles, profile)
	g.tables[gateway.TableProfiles] = append(g.tables[gateway.TableProfiles], profile)
	return user
}

// EmitAuthEvent simulates a pushed auth change, such as a token refresh or a
// sign-out from another client. The stored session follows the event.
func (g *Gateway) EmitAuthEvent(event gateway.AuthEvent, session *gateway.AuthSession) {
	g.mu.Lock()
	if event == gateway.EventSignedOut {
		g.session = nil
	} else if session != nil {
		g.session = cloneSession(session)
	}
	g.mu.Unlock()

	g.emit(event, cloneSession(session))
}

// emit calls listeners outside the lock so they may call back into the gateway.
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

func (g *Gateway) newSession(user gateway.User) *gateway.AuthSession {
	return &gateway.AuthSession{
		AccessToken:  uuid.New().String(),
		RefreshToken: uuid.New().String(),
		ExpiresAt:    g.clock().Add(time.Hour),
		User:         user,
	}
}

// currentUserID must be called with g.mu held.
func (g *Gateway) currentUserID() string {
	if g.session == nil {
		return ""
	}
	return g.session.User.ID
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
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

package supabase

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	supa "github.com/supabase-community/supabase-go"
	"github.com/supabase-community/gotrue-go/types"
	"go.uber.org/zap"

	"hiprompt/internal/gateway"
)

const refreshRetryDelay = 10 * time.Second

// tokenExpiry reads the exp claim without verifying the signature; the
// gateway verifies tokens, the client only schedules refreshes.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time.UTC(), true
}

func (g *Gateway) expiresAt(s *gateway.AuthSession) time.Time {
	if !s.ExpiresAt.IsZero() {
		return s.ExpiresAt
	}
	if exp, ok := tokenExpiry(s.AccessToken); ok {
		return exp
	}
	// Unknown expiry: assume the default one hour lifetime from now.
	return g.now().Add(time.Hour)
}

// isAuthRejection reports whether GoTrue refused the credentials rather than
// failing to answer.
func isAuthRejection(err error) bool {
	switch authStatus(err) {
	case 400, 401, 403:
		return true
	}
	return false
}

func (g *Gateway) refreshTokens(refreshToken string) (*gateway.AuthSession, error) {
	var resp *types.TokenResponse
	err := g.withClient(func(c *supa.Client) error {
		var err error
		resp, err = c.Auth.RefreshToken(refreshToken)
		return err
	})
	if err != nil {
		return nil, err
	}
	return g.fromTypesSession(resp.Session), nil
}

// startRefresher runs one goroutine that refreshes session shortly before it
// expires. The returned function stops it and waits for it to exit.
func (g *Gateway) startRefresher(session *gateway.AuthSession) func() {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.refreshLoop(session, stop)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
		})
	}
}

func (g *Gateway) refreshLoop(session *gateway.AuthSession, stop <-chan struct{}) {
	wait := g.expiresAt(session).Add(-g.cfg.RefreshMargin).Sub(g.now())
	for {
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
		}

		next, err := g.refreshTokens(session.RefreshToken)
		if err != nil {
			if isAuthRejection(err) {
				g.logger.Warn("Refresh token rejected, signing out", zap.Error(err))
				g.expire(session)
				return
			}
			g.logger.Warn("Token refresh failed, retrying",
				zap.Duration("retry_in", refreshRetryDelay),
				zap.Error(err),
			)
			wait = refreshRetryDelay
			continue
		}

		g.mu.Lock()
		if g.session == nil || g.session.User.ID != session.User.ID {
			g.mu.Unlock()
			return
		}
		g.session = cloneSession(next)
		g.mu.Unlock()

		g.setBearer(next)
		if g.store != nil {
			if err := g.store.Save(next); err != nil {
				g.logger.Warn("Failed to persist refreshed session", zap.Error(err))
			}
		}
		g.logger.Debug("Access token refreshed", zap.String("user_id", next.User.ID))
		g.emit(gateway.EventTokenRefreshed, next)

		session = next
		wait = g.expiresAt(session).Add(-g.cfg.RefreshMargin).Sub(g.now())
	}
}

// expire drops a session whose refresh token was rejected. It runs on the
// refresher goroutine, so it releases the stop handle instead of calling it.
func (g *Gateway) expire(session *gateway.AuthSession) {
	g.mu.Lock()
	if g.session == nil || g.session.User.ID != session.User.ID {
		g.mu.Unlock()
		return
	}
	g.session = nil
	g.stopRefresh = nil
	g.mu.Unlock()

	g.setBearer(nil)
	g.clearStore()
	g.emit(gateway.EventSignedOut, nil)
}

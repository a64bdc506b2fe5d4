// Package supabase implements the gateway over a hosted Supabase project using
// supabase-go (GoTrue for auth, PostgREST for tables).
package supabase

import (
	"errors"
	"fmt"
	"sync"
	"time"

	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"hiprompt/internal/gateway"
)

// SessionStore persists the token pair between runs. sessionfile.Store
// satisfies it.
type SessionStore interface {
	Load() (*gateway.AuthSession, error)
	Save(*gateway.AuthSession) error
	Clear() error
	Watch(fn func(*gateway.AuthSession)) (stop func(), err error)
}

// Config holds the project credentials.
type Config struct {
	URL     string
	AnonKey string
	// RefreshMargin is how long before expiry the access token is refreshed.
	RefreshMargin time.Duration
	// WatchSessionFile delivers sign-outs made by other processes.
	WatchSessionFile bool
}

// Gateway talks to a Supabase project. A process holds one Gateway and
// therefore one signed-in user.
type Gateway struct {
	cfg    Config
	store  SessionStore
	logger *zap.Logger

	// clientMu guards the bearer token carried by client.
	clientMu sync.RWMutex
	client   *supa.Client

	mu          sync.Mutex
	session     *gateway.AuthSession
	loaded      bool
	listeners   map[int]gateway.AuthListener
	nextID      int
	stopRefresh func()
	stopWatch   func()
	closed      bool

	now func() time.Time
}

var (
	_ gateway.Gateway = (*Gateway)(nil)
	_ gateway.Auth    = (*Gateway)(nil)
	_ gateway.Tables  = (*Gateway)(nil)
)

// New connects to the project. store may be nil, in which case sessions live
// only for the lifetime of the process.
func New(cfg Config, store SessionStore, logger *zap.Logger) (*Gateway, error) {
	if cfg.URL == "" || cfg.AnonKey == "" {
		return nil, errors.New("supabase url and anon key are required")
	}
	if cfg.RefreshMargin <= 0 {
		cfg.RefreshMargin = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := supa.NewClient(cfg.URL, cfg.AnonKey, &supa.ClientOptions{
		Headers: map[string]string{},
		Schema:  "public",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	g := &Gateway{
		cfg:       cfg,
		store:     store,
		logger:    logger.Named("supabase"),
		client:    client,
		listeners: make(map[int]gateway.AuthListener),
		now:       time.Now,
	}

	if store != nil && cfg.WatchSessionFile {
		stop, err := store.Watch(g.onSessionFileChange)
		if err != nil {
			g.logger.Warn("Session file watch disabled", zap.Error(err))
		} else {
			g.stopWatch = stop
		}
	}
	return g, nil
}

func (g *Gateway) Auth() gateway.Auth     { return g }
func (g *Gateway) Tables() gateway.Tables { return g }

// Close stops the refresh and watch goroutines.
func (g *Gateway) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	stopRefresh, stopWatch := g.stopRefresh, g.stopWatch
	g.stopRefresh, g.stopWatch = nil, nil
	g.mu.Unlock()

	if stopRefresh != nil {
		stopRefresh()
	}
	if stopWatch != nil {
		stopWatch()
	}
	return nil
}

// withClient runs fn with a read lock on the bearer token.
func (g *Gateway) withClient(fn func(c *supa.Client) error) error {
	g.clientMu.RLock()
	defer g.clientMu.RUnlock()
	return fn(g.client)
}

// setBearer points every sub-client at the session's access token, or back at
// the anon key when session is nil.
func (g *Gateway) setBearer(session *gateway.AuthSession) {
	token := g.cfg.AnonKey
	if session != nil {
		token = session.AccessToken
	}
	g.clientMu.Lock()
	defer g.clientMu.Unlock()
	g.client.UpdateAuthSession(toTypesSession(session, token))
}

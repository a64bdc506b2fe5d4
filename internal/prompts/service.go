// Package prompts holds the data operations behind each page: the feed,
// prompt detail, authoring, likes and the profile overview.
package prompts

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"hiprompt/internal/domain"
	"hiprompt/internal/observability"
	"hiprompt/internal/repository"
	apperrors "hiprompt/pkg/errors"
)

const defaultViewTimeout = 5 * time.Second

// SessionSource exposes the current session. session.Manager satisfies it.
type SessionSource interface {
	Current() domain.Session
}

// Service is stateless apart from its collaborators; every call re-fetches.
type Service struct {
	session    SessionSource
	prompts    repository.PromptRepository
	likes      repository.LikeRepository
	categories repository.CategoryRepository
	profiles   repository.ProfileRepository

	logger  *zap.Logger
	metrics *observability.Collector

	atomicLikesFn string
	viewTimeout   time.Duration
	now           func() time.Time

	// views tracks fire-and-forget view writes so Close can wait for them.
	views sync.WaitGroup
}

type Option func(*Service)

// WithAtomicLikes toggles likes through the named stored procedure instead of
// the two-step edge and counter sequence.
func WithAtomicLikes(fn string) Option {
	return func(s *Service) { s.atomicLikesFn = fn }
}

func WithMetrics(c *observability.Collector) Option {
	return func(s *Service) { s.metrics = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l.Named("prompts")
		}
	}
}

// WithClock replaces time.Now for updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithViewTimeout(d time.Duration) Option {
	return func(s *Service) { s.viewTimeout = d }
}

// Repositories groups the table accessors the service needs.
type Repositories struct {
	Prompts    repository.PromptRepository
	Likes      repository.LikeRepository
	Categories repository.CategoryRepository
	Profiles   repository.ProfileRepository
}

func NewService(session SessionSource, repos Repositories, opts ...Option) *Service {
	s := &Service{
		session:     session,
		prompts:     repos.Prompts,
		likes:       repos.Likes,
		categories:  repos.Categories,
		profiles:    repos.Profiles,
		logger:      zap.NewNop(),
		viewTimeout: defaultViewTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close waits for pending view writes.
func (s *Service) Close() {
	s.views.Wait()
}

// requireIdentity returns the signed-in identity or a sign-in-required error.
func (s *Service) requireIdentity() (domain.Session, *domain.Identity, error) {
	current := s.session.Current()
	if !current.IsAuthenticated() {
		return current, nil, apperrors.SignInRequired()
	}
	return current, current.Identity, nil
}

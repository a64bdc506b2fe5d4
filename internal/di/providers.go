// Package di assembles the client from configuration.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"

	"hiprompt/internal/config"
	"hiprompt/internal/gateway"
	"hiprompt/internal/gateway/memory"
	"hiprompt/internal/gateway/sessionfile"
	"hiprompt/internal/gateway/supabase"
	"hiprompt/internal/interfaces/http/rest"
	"hiprompt/internal/observability"
	"hiprompt/internal/prompts"
	"hiprompt/internal/repository"
	"hiprompt/internal/session"
)

// App holds the wired client. Close through the cleanup returned by
// InitializeApp.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Collector
	Gateway gateway.Gateway
	Session *session.Manager
	Prompts *prompts.Service
	Router  *rest.Router
}

// SuperSet is every provider needed to build an App.
var SuperSet = wire.NewSet(
	ObservabilityProviders,
	GatewayProviders,
	ApplicationProviders,
	provideRouter,
	wire.Struct(new(App), "*"),
)

var ObservabilityProviders = wire.NewSet(
	provideLogger,
	provideMetrics,
	provideTracer,
)

var GatewayProviders = wire.NewSet(
	provideGateway,
	provideRepositories,
)

var ApplicationProviders = wire.NewSet(
	provideSessionManager,
	providePromptService,
)

// demoCategories seed the memory driver so the create form has options.
var demoCategories = []string{"Writing", "Coding", "Marketing", "Education", "Research"}

func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// provideMetrics returns nil when metrics are disabled; every consumer
// accepts a nil collector.
func provideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.Observability.MetricsEnabled {
		return nil
	}
	return observability.NewCollector(cfg.Observability.ServiceName)
}

func provideTracer(cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	tp, err := observability.InitTracing(cfg.Observability.ServiceName, string(cfg.Environment), cfg.Observability.TracingEndpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	return tp, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}, nil
}

// provideGateway builds the configured driver behind the resilient decorator.
// Credentials must already have passed config diagnostics.
func provideGateway(
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Collector,
	tp *observability.TracerProvider,
) (gateway.Gateway, func(), error) {
	var inner gateway.Gateway
	switch cfg.Gateway.Driver {
	case config.DriverMemory:
		g := memory.New(memory.WithAutoConfirm(true))
		for _, name := range demoCategories {
			g.SeedCategory(name)
		}
		inner = g
	default:
		if err := cfg.Diagnose().Err(); err != nil {
			return nil, nil, err
		}
		store := sessionfile.New(cfg.Gateway.SessionFile, logger)
		g, err := supabase.New(supabase.Config{
			URL:              cfg.Supabase.URL,
			AnonKey:          cfg.Supabase.AnonKey,
			WatchSessionFile: true,
		}, store, logger)
		if err != nil {
			return nil, nil, err
		}
		inner = g
	}

	rcfg := gateway.DefaultResilientConfig()
	rcfg.CallTimeout = cfg.Gateway.Timeout
	rcfg.FailureRatio = cfg.Gateway.BreakerFailureRatio
	rcfg.OpenTimeout = cfg.Gateway.BreakerTimeout

	gw := gateway.NewResilient(inner, rcfg, metrics, tp.Tracer(), logger)
	return gw, func() {
		if err := gw.Close(); err != nil {
			logger.Warn("Failed to close gateway", zap.Error(err))
		}
	}, nil
}

func provideRepositories(gw gateway.Gateway) prompts.Repositories {
	tables := gw.Tables()
	return prompts.Repositories{
		Prompts:    repository.NewPromptStore(tables),
		Likes:      repository.NewLikeStore(tables),
		Categories: repository.NewCategoryStore(tables),
		Profiles:   repository.NewProfileStore(tables),
	}
}

func provideSessionManager(gw gateway.Gateway, logger *zap.Logger, metrics *observability.Collector) (*session.Manager, func()) {
	mgr := session.NewManager(gw.Auth(), logger, session.WithMetrics(metrics))
	return mgr, mgr.Close
}

func providePromptService(
	mgr *session.Manager,
	repos prompts.Repositories,
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Collector,
) (*prompts.Service, func()) {
	opts := []prompts.Option{
		prompts.WithLogger(logger),
		prompts.WithMetrics(metrics),
	}
	if cfg.Gateway.AtomicLikesRPC != "" {
		opts = append(opts, prompts.WithAtomicLikes(cfg.Gateway.AtomicLikesRPC))
	}
	svc := prompts.NewService(mgr, repos, opts...)
	return svc, svc.Close
}

func provideRouter(
	mgr *session.Manager,
	svc *prompts.Service,
	metrics *observability.Collector,
	logger *zap.Logger,
	cfg *config.Config,
) *rest.Router {
	return rest.NewRouter(mgr, svc, metrics, logger, cfg.HTTP.CORSOrigins)
}

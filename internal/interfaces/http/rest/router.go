package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	_ "hiprompt/internal/interfaces/http/rest/docs"
	"hiprompt/internal/interfaces/http/rest/handlers"
	"hiprompt/internal/interfaces/http/rest/middleware"
	"hiprompt/internal/observability"
)

// Sign-in and sign-up attempts allowed per minute, with a burst of the same.
const authAttemptsPerMinute = 10

// Router creates and configures the HTTP router
type Router struct {
	session     handlers.SessionController
	service     handlers.PromptService
	metrics     *observability.Collector
	logger      *zap.Logger
	corsOrigins []string
}

// NewRouter creates a new router instance. metrics may be nil.
func NewRouter(
	session handlers.SessionController,
	service handlers.PromptService,
	metrics *observability.Collector,
	logger *zap.Logger,
	corsOrigins []string,
) *Router {
	return &Router{
		session:     session,
		service:     service,
		metrics:     metrics,
		logger:      logger,
		corsOrigins: corsOrigins,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := newBaseRouter(rt.logger, rt.metrics, rt.corsOrigins)

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	authHandler := handlers.NewAuthHandler(rt.session, rt.logger)
	promptHandler := handlers.NewPromptHandler(rt.service, rt.logger)
	navHandler := handlers.NewNavHandler(rt.session, rt.logger)
	requireAuth := middleware.RequireAuth(rt.session, rt.logger)

	router.Route("/api", func(r chi.Router) {
		r.Get("/nav", navHandler.GetNav)

		r.Route("/auth", func(r chi.Router) {
			limiter := rate.NewLimiter(rate.Every(time.Minute/authAttemptsPerMinute), authAttemptsPerMinute)
			limit := middleware.RateLimit(limiter, rt.logger)
			r.With(limit).Post("/login", authHandler.Login)
			r.With(limit).Post("/register", authHandler.Register)
			r.Post("/logout", authHandler.Logout)
			r.Get("/session", authHandler.Session)
		})

		r.Route("/prompts", func(r chi.Router) {
			r.Get("/", promptHandler.ListPrompts)
			r.Get("/{id}", promptHandler.GetPrompt)
			r.With(requireAuth).Post("/", promptHandler.CreatePrompt)
			r.With(requireAuth).Patch("/{id}", promptHandler.UpdatePrompt)
			r.With(requireAuth).Delete("/{id}", promptHandler.DeletePrompt)
			r.With(requireAuth).Post("/{id}/like", promptHandler.ToggleLike)
		})

		r.Get("/categories", promptHandler.ListCategories)
		r.With(requireAuth).Get("/profile", promptHandler.GetProfile)
	})

	return router
}

func newBaseRouter(logger *zap.Logger, metrics *observability.Collector, origins []string) chi.Router {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Metrics(metrics))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready once the persisted session has been resolved.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !rt.session.Current().IsResolved() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"loading"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

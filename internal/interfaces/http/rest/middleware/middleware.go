// Package middleware holds the HTTP middleware of the local shell.
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hiprompt/internal/domain"
	"hiprompt/internal/interfaces/http/rest/response"
	"hiprompt/internal/observability"
	apperrors "hiprompt/pkg/errors"
)

// Logger logs one line per request.
func Logger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP Request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}

// Recovery is the top-level fault boundary: a panic becomes an UNEXPECTED
// error response carrying the request ID.
func Recovery(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				requestID := chimiddleware.GetReqID(r.Context())
				logger.Error("Panic recovered",
					zap.Any("panic", rec),
					zap.String("request_id", requestID),
					zap.String("path", r.URL.Path),
					zap.Stack("stack"),
				)

				appErr := apperrors.NewUnexpected(
					fmt.Sprintf("something went wrong on our side, reload and try again (request %s)", requestID),
					fmt.Errorf("panic: %v", rec),
				)
				appErr.Reason = apperrors.ReasonPanic
				response.Error(w, r, nil, appErr)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// Metrics records request counts and latency by route pattern.
func Metrics(collector *observability.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if collector == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			collector.RecordHTTPRequest(r.Method, route, status, time.Since(start))
		})
	}
}

// SessionSource exposes the current session.
type SessionSource interface {
	Current() domain.Session
}

// RequireAuth answers 401 for anonymous callers.
func RequireAuth(source SessionSource, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !source.Current().IsAuthenticated() {
				response.Error(w, r, logger, apperrors.SignInRequired())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit answers 429 once limiter has no tokens left.
func RateLimit(limiter *rate.Limiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "60")
				response.Error(w, r, logger, apperrors.NewAuth(apperrors.ReasonRateLimited, "too many attempts, wait a minute and try again"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"hiprompt/internal/observability"
	apperrors "hiprompt/pkg/errors"
)

// ResilientConfig holds configuration for the gateway circuit breaker
type ResilientConfig struct {
	Name        string
	CallTimeout time.Duration
	MaxRequests uint32
	Interval    time.Duration
	OpenTimeout time.Duration
	// FailureRatio trips the breaker once MinRequests calls have been seen.
	FailureRatio float64
	MinRequests  uint32
}

// DefaultResilientConfig returns a default configuration for the circuit breaker
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		Name:         "gateway",
		CallTimeout:  10 * time.Second,
		MaxRequests:  3,
		Interval:     30 * time.Second,
		OpenTimeout:  30 * time.Second,
		FailureRatio: 0.6,
		MinRequests:  5,
	}
}

// Resilient decorates a Gateway with a circuit breaker, per-call timeouts,
// tracing spans and Prometheus metrics.
type Resilient struct {
	inner   Gateway
	cfg     ResilientConfig
	cb      *gobreaker.CircuitBreaker
	metrics *observability.Collector
	tracer  trace.Tracer
	logger  *zap.Logger
}

var (
	_ Gateway = (*Resilient)(nil)
	_ Auth    = resilientAuth{}
	_ Tables  = resilientTables{}
)

// NewResilient wraps inner. metrics and tracer may be nil.
func NewResilient(inner Gateway, cfg ResilientConfig, metrics *observability.Collector, tracer trace.Tracer, logger *zap.Logger) *Resilient {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("gateway")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Resilient{inner: inner, cfg: cfg, metrics: metrics, tracer: tracer, logger: logger}
	r.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.SetBreakerState(name, int(to))
		},
		IsSuccessful: isSuccessful,
	})
	return r
}

// isSuccessful counts only outages against the breaker. Rejected credentials,
// missing rows and policy violations are answers, not failures.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		return errors.Is(err, context.Canceled)
	}
	switch appErr.Kind {
	case apperrors.KindAuth:
		return appErr.Reason != apperrors.ReasonProvider
	case apperrors.KindData:
		switch appErr.Reason {
		case apperrors.ReasonNotFound, apperrors.ReasonForbidden, apperrors.ReasonValidation, apperrors.ReasonConflict:
			return true
		}
	}
	return false
}

// State reports the breaker state.
func (r *Resilient) State() gobreaker.State {
	return r.cb.State()
}

func (r *Resilient) Auth() Auth     { return resilientAuth{r} }
func (r *Resilient) Tables() Tables { return resilientTables{r} }
func (r *Resilient) Close() error   { return r.inner.Close() }

func (r *Resilient) call(ctx context.Context, kind apperrors.Kind, operation, table string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	if r.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.CallTimeout)
		defer cancel()
	}

	ctx, span := r.tracer.Start(ctx, "gateway."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gateway.operation", operation),
			attribute.String("gateway.table", table),
		),
	)
	defer span.End()

	start := time.Now()
	result, err := r.cb.Execute(func() (interface{}, error) {
		return bounded(ctx, fn)
	})
	err = r.translate(ctx, kind, err)
	r.metrics.RecordGatewayOperation(operation, table, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Debug("Gateway call failed",
			zap.String("operation", operation),
			zap.String("table", table),
			zap.Error(err),
		)
	}
	return result, err
}

type outcome struct {
	value interface{}
	err   error
	panic interface{}
}

// bounded returns when fn does or when ctx ends. Drivers may ignore ctx once a
// request is in flight, so a result arriving after that is dropped.
func bounded(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	done := make(chan outcome, 1)
	go func() {
		var out outcome
		defer func() {
			out.panic = recover()
			done <- out
		}()
		out.value, out.err = fn(ctx)
	}()

	select {
	case out := <-done:
		if out.panic != nil {
			panic(out.panic)
		}
		return out.value, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Resilient) translate(ctx context.Context, kind apperrors.Kind, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return unavailable(kind, "service temporarily unavailable, try again shortly", err)
	}
	if apperrors.GetAppError(err) != nil {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return unavailable(kind, "the gateway did not respond in time", err)
	}
	if kind == apperrors.KindAuth {
		return apperrors.NewAuth(apperrors.ReasonProvider, "authentication service error").WithCause(err)
	}
	return apperrors.NewData(apperrors.ReasonRemote, "gateway request failed").WithCause(err)
}

func unavailable(kind apperrors.Kind, message string, cause error) error {
	if kind == apperrors.KindAuth {
		return apperrors.NewAuth(apperrors.ReasonProvider, message).WithCause(cause)
	}
	return apperrors.NewData(apperrors.ReasonUnavailable, message).WithCause(cause)
}

type resilientAuth struct{ r *Resilient }

func (a resilientAuth) GetSession(ctx context.Context) (*AuthSession, error) {
	res, err := a.r.call(ctx, apperrors.KindAuth, "get_session", "", func(ctx context.Context) (interface{}, error) {
		return a.r.inner.Auth().GetSession(ctx)
	})
	s, _ := res.(*AuthSession)
	return s, err
}

func (a resilientAuth) OnAuthStateChange(fn AuthListener) func() {
	return a.r.inner.Auth().OnAuthStateChange(fn)
}

func (a resilientAuth) SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error) {
	res, err := a.r.call(ctx, apperrors.KindAuth, "sign_in", "", func(ctx context.Context) (interface{}, error) {
		return a.r.inner.Auth().SignInWithPassword(ctx, email, password)
	})
	s, _ := res.(*AuthSession)
	return s, err
}

func (a resilientAuth) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*SignUpResult, error) {
	res, err := a.r.call(ctx, apperrors.KindAuth, "sign_up", "", func(ctx context.Context) (interface{}, error) {
		return a.r.inner.Auth().SignUp(ctx, email, password, metadata)
	})
	s, _ := res.(*SignUpResult)
	return s, err
}

func (a resilientAuth) SignOut(ctx context.Context) error {
	_, err := a.r.call(ctx, apperrors.KindAuth, "sign_out", "", func(ctx context.Context) (interface{}, error) {
		return nil, a.r.inner.Auth().SignOut(ctx)
	})
	return err
}

type resilientTables struct{ r *Resilient }

func (t resilientTables) Select(ctx context.Context, table string, q Query) (json.RawMessage, error) {
	return t.raw(ctx, "select", table, func(ctx context.Context) (json.RawMessage, error) {
		return t.r.inner.Tables().Select(ctx, table, q)
	})
}

func (t resilientTables) Insert(ctx context.Context, table string, row interface{}) (json.RawMessage, error) {
	return t.raw(ctx, "insert", table, func(ctx context.Context) (json.RawMessage, error) {
		return t.r.inner.Tables().Insert(ctx, table, row)
	})
}

func (t resilientTables) Update(ctx context.Context, table string, patch interface{}, filters ...Filter) (json.RawMessage, error) {
	return t.raw(ctx, "update", table, func(ctx context.Context) (json.RawMessage, error) {
		return t.r.inner.Tables().Update(ctx, table, patch, filters...)
	})
}

func (t resilientTables) Delete(ctx context.Context, table string, filters ...Filter) error {
	_, err := t.raw(ctx, "delete", table, func(ctx context.Context) (json.RawMessage, error) {
		return nil, t.r.inner.Tables().Delete(ctx, table, filters...)
	})
	return err
}

func (t resilientTables) RPC(ctx context.Context, fn string, args interface{}) (json.RawMessage, error) {
	return t.raw(ctx, "rpc", fn, func(ctx context.Context) (json.RawMessage, error) {
		return t.r.inner.Tables().RPC(ctx, fn, args)
	})
}

func (t resilientTables) raw(ctx context.Context, operation, table string, fn func(context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	res, err := t.r.call(ctx, apperrors.KindData, operation, table, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	raw, _ := res.(json.RawMessage)
	return raw, err
}

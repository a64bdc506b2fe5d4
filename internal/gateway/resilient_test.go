package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hiprompt/internal/gateway"
	"hiprompt/internal/gateway/memory"
	"hiprompt/internal/observability"
	apperrors "hiprompt/pkg/errors"
)

func newResilient(t *testing.T, inner *memory.Gateway) (*gateway.Resilient, *observability.Collector) {
	t.Helper()
	cfg := gateway.DefaultResilientConfig()
	cfg.MinRequests = 2
	cfg.FailureRatio = 0.5
	cfg.OpenTimeout = time.Minute
	metrics := observability.NewCollector("test")
	return gateway.NewResilient(inner, cfg, metrics, nil, zap.NewNop()), metrics
}

func TestResilientBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("OutagesTripBreaker", func(t *testing.T) {
		inner := memory.New()
		r, _ := newResilient(t, inner)
		inner.SetError("Select", errors.New("connection refused"))

		for i := 0; i < 2; i++ {
			_, err := r.Tables().Select(ctx, gateway.TablePrompts, gateway.Query{})
			require.Error(t, err)
			assert.True(t, apperrors.HasReason(err, apperrors.ReasonRemote))
		}
		assert.Equal(t, gobreaker.StateOpen, r.State())

		inner.ClearErrors()
		_, err := r.Tables().Select(ctx, gateway.TablePrompts, gateway.Query{})
		assert.True(t, apperrors.HasReason(err, apperrors.ReasonUnavailable))

		_, err = r.Auth().SignInWithPassword(ctx, "a@x.com", "secret1")
		assert.True(t, apperrors.HasReason(err, apperrors.ReasonProvider))
	})

	t.Run("ExpectedErrorsDoNotTrip", func(t *testing.T) {
		inner := memory.New()
		r, _ := newResilient(t, inner)

		for i := 0; i < 5; i++ {
			_, err := r.Auth().SignInWithPassword(ctx, "nobody@x.com", "wrong1")
			assert.True(t, apperrors.HasReason(err, apperrors.ReasonInvalidCredentials))

			_, err = r.Tables().Select(ctx, gateway.TablePrompts, gateway.Query{
				Filters: []gateway.Filter{gateway.Eq("id", "missing")},
				Single:  true,
			})
			assert.True(t, apperrors.IsNotFound(err))
		}
		assert.Equal(t, gobreaker.StateClosed, r.State())
	})
}

func TestResilientPassThrough(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	user := inner.CreateUser("a@x.com", "secret1", "Ada")
	r, metrics := newResilient(t, inner)

	var events []gateway.AuthEvent
	r.Auth().OnAuthStateChange(func(e gateway.AuthEvent, _ *gateway.AuthSession) { events = append(events, e) })

	s, err := r.Auth().SignInWithPassword(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, s.User.ID)

	current, err := r.Auth().GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)

	raw, err := r.Tables().Insert(ctx, gateway.TablePrompts, map[string]interface{}{
		"title": "t", "content": "c", "author_id": user.ID,
	})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"title":"t"`)

	require.NoError(t, r.Auth().SignOut(ctx))
	none, err := r.Auth().GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	assert.Equal(t, []gateway.AuthEvent{gateway.EventSignedIn, gateway.EventSignedOut}, events)

	families, err := metrics.GetRegistry().Gather()
	require.NoError(t, err)
	found := false
	for _, f := range families {
		if f.GetName() == "test_gateway_operations_total" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestResilientTimeout(t *testing.T) {
	inner := memory.New()
	cfg := gateway.DefaultResilientConfig()
	cfg.CallTimeout = time.Nanosecond
	r := gateway.NewResilient(inner, cfg, nil, nil, nil)
	inner.SetError("Select", context.DeadlineExceeded)

	_, err := r.Tables().Select(context.Background(), gateway.TablePrompts, gateway.Query{})
	assert.True(t, apperrors.HasReason(err, apperrors.ReasonUnavailable))
}

// stallingTables holds every Select until release is closed, whatever ctx says.
type stallingTables struct {
	gateway.Tables
	release chan struct{}
}

func (s stallingTables) Select(ctx context.Context, table string, q gateway.Query) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	<-s.release
	return s.Tables.Select(context.Background(), table, q)
}

type stallingGateway struct {
	*memory.Gateway
	tables stallingTables
}

func (g stallingGateway) Tables() gateway.Tables { return g.tables }

func TestResilientTimeoutBoundsStalledCalls(t *testing.T) {
	inner := memory.New()
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	cfg := gateway.DefaultResilientConfig()
	cfg.CallTimeout = 50 * time.Millisecond
	r := gateway.NewResilient(stallingGateway{Gateway: inner, tables: stallingTables{Tables: inner, release: release}}, cfg, nil, nil, nil)

	start := time.Now()
	_, err := r.Tables().Select(context.Background(), gateway.TablePrompts, gateway.Query{})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, apperrors.HasReason(err, apperrors.ReasonUnavailable))
	assert.True(t, apperrors.GetAppError(err).Retryable)
	assert.Less(t, elapsed, time.Second)
}

func TestResilientCallerCancellation(t *testing.T) {
	inner := memory.New()
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	cfg := gateway.DefaultResilientConfig()
	cfg.CallTimeout = 0
	r := gateway.NewResilient(stallingGateway{Gateway: inner, tables: stallingTables{Tables: inner, release: release}}, cfg, nil, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := r.Tables().Select(ctx, gateway.TablePrompts, gateway.Query{})
	require.Error(t, err)
	assert.Equal(t, gobreaker.StateClosed, r.State())
}

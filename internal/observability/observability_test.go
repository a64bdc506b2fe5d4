package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	return out.GetCounter().GetValue()
}

func TestCollector(t *testing.T) {
	c := NewCollector("hiprompt")

	c.RecordGatewayOperation("select", "prompts", 10*time.Millisecond, nil)
	c.RecordGatewayOperation("select", "prompts", 10*time.Millisecond, errors.New("boom"))
	c.RecordSessionTransition("authenticated")
	c.RecordLikeToggle(true)
	c.RecordLikeToggle(false)
	c.RecordLikeToggle(true)
	c.RecordPromptCreated()
	c.RecordHTTPRequest("GET", "/api/prompts", 200, time.Millisecond)

	assert.Equal(t, 1.0, value(t, c.GatewayOperations.WithLabelValues("select", "prompts", "success")))
	assert.Equal(t, 1.0, value(t, c.GatewayOperations.WithLabelValues("select", "prompts", "error")))
	assert.Equal(t, 2.0, value(t, c.LikesToggled.WithLabelValues("like")))
	assert.Equal(t, 1.0, value(t, c.PromptsCreated))
	assert.Equal(t, 1.0, value(t, c.HTTPRequests.WithLabelValues("GET", "/api/prompts", "200")))

	t.Run("Handler", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "hiprompt_session_transitions_total")
	})

	t.Run("IndependentRegistries", func(t *testing.T) {
		other := NewCollector("hiprompt")
		assert.NotSame(t, c.GetRegistry(), other.GetRegistry())
	})
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordGatewayOperation("select", "prompts", time.Millisecond, nil)
		c.RecordSessionTransition("anonymous")
		c.RecordLikeToggle(true)
		c.RecordPromptCreated()
		c.RecordView(nil)
		c.SetBreakerState("gateway", 2)
		c.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
	})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInitTracingWithoutEndpoint(t *testing.T) {
	tp, err := InitTracing("hiprompt", "development", "")
	require.NoError(t, err)

	_, span := tp.Tracer().Start(context.Background(), "noop")
	span.End()
	assert.False(t, span.SpanContext().IsValid())
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(true, "warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))

	_, err = NewLogger(false, "loud")
	assert.Error(t, err)
}

func TestSamplerFollowsEnvironment(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", samplerFor("development").Description())
	assert.Contains(t, samplerFor("production").Description(), "TraceIDRatioBased{0.25}")
}

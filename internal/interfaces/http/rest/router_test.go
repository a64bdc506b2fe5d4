package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"hiprompt/internal/config"
	"hiprompt/internal/domain"
	"hiprompt/internal/gateway"
	"hiprompt/internal/gateway/memory"
	"hiprompt/internal/interfaces/http/rest"
	"hiprompt/internal/interfaces/http/rest/handlers"
	"hiprompt/internal/interfaces/http/rest/response"
	"hiprompt/internal/observability"
	"hiprompt/internal/prompts"
	"hiprompt/internal/repository"
	"hiprompt/internal/session"
	apperrors "hiprompt/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const password = "secret1"

type server struct {
	g       *memory.Gateway
	mgr     *session.Manager
	handler http.Handler
	ada     gateway.User
	bob     gateway.User
}

func newServer(t *testing.T, metrics *observability.Collector) *server {
	t.Helper()
	logger := zaptest.NewLogger(t)
	g := memory.New()
	s := &server{
		g:   g,
		ada: g.CreateUser("ada@example.com", password, "Ada Lovelace"),
		bob: g.CreateUser("bob@example.com", password, "Bob"),
	}
	s.mgr = session.NewManager(g, logger)
	require.NoError(t, s.mgr.Initialize(context.Background()))

	svc := prompts.NewService(s.mgr, prompts.Repositories{
		Prompts:    repository.NewPromptStore(g),
		Likes:      repository.NewLikeStore(g),
		Categories: repository.NewCategoryStore(g),
		Profiles:   repository.NewProfileStore(g),
	}, prompts.WithLogger(logger))

	s.handler = rest.NewRouter(s.mgr, svc, metrics, logger, []string{"http://localhost:5173"}).Setup()
	t.Cleanup(func() {
		svc.Close()
		s.mgr.Close()
	})
	return s
}

func (s *server) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *server) login(t *testing.T, u gateway.User) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/login", handlers.LoginRequest{Email: u.Email, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func (s *server) seed(t *testing.T, author gateway.User, title string, public bool) string {
	t.Helper()
	id, err := s.g.Seed(gateway.TablePrompts, map[string]interface{}{
		"title":     title,
		"content":   "body of " + title,
		"author_id": author.ID,
		"is_public": public,
	})
	require.NoError(t, err)
	return id
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Error
}

func TestHealthAndReady(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	t.Run("not ready until the session resolves", func(t *testing.T) {
		g := memory.New()
		mgr := session.NewManager(g, zaptest.NewLogger(t))
		defer mgr.Close()
		h := rest.NewRouter(mgr, nil, nil, zaptest.NewLogger(t), nil).Setup()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nav", nil))
		var nav handlers.NavResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nav))
		assert.Equal(t, []string{handlers.ActionDiscover, handlers.ActionLoading}, nav.Actions)
	})
}

func TestNav(t *testing.T) {
	s := newServer(t, nil)

	nav := func() handlers.NavResponse {
		rec := s.do(t, http.MethodGet, "/api/nav", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var out handlers.NavResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	anon := nav()
	assert.Equal(t, domain.StateAnonymous, anon.State)
	assert.Equal(t, []string{"discover", "sign_in", "join"}, anon.Actions)

	s.login(t, s.ada)
	authed := nav()
	assert.Equal(t, []string{"discover", "create", "profile", "sign_out"}, authed.Actions)
	require.NotNil(t, authed.Identity)
	assert.Equal(t, s.ada.ID, authed.Identity.ID)

	rec := s.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"discover", "sign_in", "join"}, nav().Actions)
}

func TestAuthRoutes(t *testing.T) {
	t.Run("wrong password", func(t *testing.T) {
		s := newServer(t, nil)
		rec := s.do(t, http.MethodPost, "/api/auth/login", handlers.LoginRequest{Email: s.ada.Email, Password: "nope"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, apperrors.KindAuth, body.Kind)
		assert.Equal(t, apperrors.ReasonInvalidCredentials, body.Reason)
		assert.True(t, body.Retryable)
		assert.Equal(t, domain.StateAnonymous, s.mgr.State())
	})

	t.Run("session after login", func(t *testing.T) {
		s := newServer(t, nil)
		s.login(t, s.bob)

		rec := s.do(t, http.MethodGet, "/api/auth/session", nil)
		var resp handlers.SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.StateAuthenticated, resp.State)
		assert.Equal(t, "bob@example.com", resp.Identity.Email)
	})

	t.Run("register awaiting confirmation", func(t *testing.T) {
		s := newServer(t, nil)
		rec := s.do(t, http.MethodPost, "/api/auth/register", handlers.RegisterRequest{
			Email: "cleo@example.com", Password: password, ConfirmPassword: password, FullName: "Cleo",
		})

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var resp handlers.SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.ConfirmationRequired)
		assert.Equal(t, domain.StateAnonymous, resp.State)
		assert.Equal(t, "cleo@example.com", resp.Identity.Email)
	})

	t.Run("register rejects bad input", func(t *testing.T) {
		s := newServer(t, nil)
		tests := []struct {
			name   string
			req    handlers.RegisterRequest
			reason apperrors.Reason
		}{
			{"mismatch", handlers.RegisterRequest{Email: "c@example.com", Password: password, ConfirmPassword: "other1", FullName: "C"}, apperrors.ReasonInvalidInput},
			{"no name", handlers.RegisterRequest{Email: "c@example.com", Password: password, ConfirmPassword: password}, apperrors.ReasonInvalidInput},
			{"short password", handlers.RegisterRequest{Email: "c@example.com", Password: "abc", ConfirmPassword: "abc", FullName: "C"}, apperrors.ReasonInvalidInput},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := s.do(t, http.MethodPost, "/api/auth/register", tt.req)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				body := decodeError(t, rec)
				assert.Equal(t, apperrors.KindAuth, body.Kind)
				assert.Equal(t, tt.reason, body.Reason)
			})
		}
		assert.Equal(t, 0, s.g.Count(gateway.TableProfiles, gateway.Eq("full_name", "C")))
	})

	t.Run("malformed body", func(t *testing.T) {
		s := newServer(t, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apperrors.ReasonValidation, decodeError(t, rec).Reason)
	})
}

func TestAuthAttemptsAreRateLimited(t *testing.T) {
	s := newServer(t, nil)
	bad := handlers.LoginRequest{Email: s.ada.Email, Password: "nope"}

	for i := 0; i < 10; i++ {
		rec := s.do(t, http.MethodPost, "/api/auth/login", bad)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := s.do(t, http.MethodPost, "/api/auth/login", bad)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, apperrors.KindAuth, body.Kind)
	assert.Equal(t, apperrors.ReasonRateLimited, body.Reason)
	assert.True(t, body.Retryable)

	// Reading the session is not limited.
	rec = s.do(t, http.MethodGet, "/api/auth/session", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireSignIn(t *testing.T) {
	s := newServer(t, nil)
	id := s.seed(t, s.ada, "Public", true)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/prompts"},
		{http.MethodPatch, "/api/prompts/" + id},
		{http.MethodDelete, "/api/prompts/" + id},
		{http.MethodPost, "/api/prompts/" + id + "/like"},
		{http.MethodGet, "/api/profile"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, map[string]string{})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, apperrors.ReasonSignInRequired, body.Reason)
			assert.True(t, body.Retryable)
			assert.NotEmpty(t, body.RequestID)
		})
	}
	assert.Equal(t, 1, s.g.Count(gateway.TablePrompts))
}

func TestPromptLifecycle(t *testing.T) {
	s := newServer(t, nil)
	s.login(t, s.ada)

	rec := s.do(t, http.MethodPost, "/api/prompts", domain.PromptDraft{
		Title:    "  SQL joins ",
		Content:  "Explain joins",
		IsPublic: true,
		Tags:     []string{"sql", "sql", "db"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created domain.Prompt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "SQL joins", created.Title)
	assert.Equal(t, "/api/prompts/"+created.ID, rec.Header().Get("Location"))

	rec = s.do(t, http.MethodGet, "/api/prompts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed prompts.Feed
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed.Prompts, 1)
	require.NotNil(t, feed.Featured)
	assert.Equal(t, created.ID, feed.Featured.ID)

	rec = s.do(t, http.MethodGet, "/api/prompts/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail prompts.Detail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.True(t, detail.CanMutate)
	assert.False(t, detail.Liked)

	rec = s.do(t, http.MethodPost, "/api/prompts/"+created.ID+"/like", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var like prompts.LikeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &like))
	assert.Equal(t, prompts.LikeResult{Liked: true, LikesCount: 1}, like)

	title := "SQL joins, explained"
	rec = s.do(t, http.MethodPatch, "/api/prompts/"+created.ID, domain.PromptPatch{Title: &title})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated domain.Prompt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, title, updated.Title)

	rec = s.do(t, http.MethodDelete, "/api/prompts/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/prompts/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPromptRoutesEnforceOwnership(t *testing.T) {
	s := newServer(t, nil)
	public := s.seed(t, s.ada, "Ada public", true)
	private := s.seed(t, s.ada, "Ada private", false)
	s.login(t, s.bob)

	title := "taken"
	rec := s.do(t, http.MethodPatch, "/api/prompts/"+public, domain.PromptPatch{Title: &title})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apperrors.ReasonForbidden, decodeError(t, rec).Reason)

	rec = s.do(t, http.MethodDelete, "/api/prompts/"+public, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/prompts/"+private, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decodeError(t, rec).Retryable)

	rec = s.do(t, http.MethodPost, "/api/prompts/"+public+"/like", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateValidation(t *testing.T) {
	s := newServer(t, nil)
	s.login(t, s.ada)

	rec := s.do(t, http.MethodPost, "/api/prompts", domain.PromptDraft{Title: " ", Content: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, apperrors.KindData, body.Kind)
	assert.Equal(t, "title is required", body.Message)
	assert.Equal(t, 0, s.g.Count(gateway.TablePrompts))
}

func TestCategoriesAndProfile(t *testing.T) {
	s := newServer(t, nil)
	s.g.SeedCategory("Writing")
	s.g.SeedCategory("Coding")
	s.seed(t, s.ada, "Mine public", true)
	s.seed(t, s.ada, "Mine private", false)
	s.seed(t, s.bob, "Not mine", true)

	rec := s.do(t, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cats struct {
		Categories []domain.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.Len(t, cats.Categories, 2)
	assert.Equal(t, "Coding", cats.Categories[0].Name)

	s.login(t, s.ada)
	rec = s.do(t, http.MethodGet, "/api/profile?visibility=private", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view prompts.ProfileView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, domain.VisibilityPrivate, view.Visibility)
	assert.Equal(t, 2, view.Stats.PromptCount)
	require.Len(t, view.Prompts, 1)
	assert.Equal(t, "Mine private", view.Prompts[0].Title)
}

func TestGatewayFailureIsRetryable(t *testing.T) {
	s := newServer(t, nil)
	s.g.SetError("Select:"+gateway.TablePrompts, apperrors.NewData(apperrors.ReasonUnavailable, "gateway unreachable"))

	rec := s.do(t, http.MethodGet, "/api/prompts", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, apperrors.KindData, body.Kind)
	assert.True(t, body.Retryable)
}

type panickingService struct {
	handlers.PromptService
}

func (panickingService) Feed(context.Context, prompts.FeedQuery) (prompts.Feed, error) {
	panic("boom")
}

func TestRecoveryTurnsPanicsIntoUnexpected(t *testing.T) {
	g := memory.New()
	mgr := session.NewManager(g, zaptest.NewLogger(t))
	defer mgr.Close()
	require.NoError(t, mgr.Initialize(context.Background()))

	h := rest.NewRouter(mgr, panickingService{}, nil, zaptest.NewLogger(t), nil).Setup()
	req := httptest.NewRequest(http.MethodGet, "/api/prompts", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, apperrors.KindUnexpected, body.Kind)
	assert.Equal(t, "req-42", body.RequestID)
	assert.Contains(t, body.Message, "req-42")

	// The process keeps serving after a panic.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	collector := observability.NewCollector("hiprompt")
	s := newServer(t, collector)

	s.do(t, http.MethodGet, "/api/categories", nil)
	rec := s.do(t, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hiprompt_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/api/categories"`)
}

func TestAPIDocs(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(t, http.MethodGet, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "/api", doc.BasePath)

	routes := map[string][]string{
		"/nav":               {"get"},
		"/auth/login":        {"post"},
		"/auth/register":     {"post"},
		"/auth/logout":       {"post"},
		"/auth/session":      {"get"},
		"/prompts":           {"get", "post"},
		"/prompts/{id}":      {"get", "patch", "delete"},
		"/prompts/{id}/like": {"post"},
		"/categories":        {"get"},
		"/profile":           {"get"},
	}
	for path, methods := range routes {
		for _, method := range methods {
			assert.Contains(t, doc.Paths[path], method, "%s %s", method, path)
		}
	}

	rec = s.do(t, http.MethodGet, "/swagger/index.html", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newServer(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/prompts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDiagnosticHandler(t *testing.T) {
	cfg := config.Default()
	cfg.Supabase.URL = config.PlaceholderURL
	diag := cfg.Diagnose()
	require.False(t, diag.OK())

	h := rest.NewDiagnosticHandler(diag, zaptest.NewLogger(t))
	for _, path := range []string{"/", "/api/prompts", "/health"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			var body rest.DiagnosticBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, apperrors.KindConfiguration, body.Error.Kind)
			assert.Contains(t, body.Instructions, "HIPROMPT_SUPABASE_URL")
			require.Len(t, body.Settings, 2)
			assert.False(t, body.Settings[0].Configured)
			assert.False(t, body.Settings[1].Configured)
		})
	}
}

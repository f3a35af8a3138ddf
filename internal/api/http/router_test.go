package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/animation-service/internal/api/http/handlers"
	"github.com/spec-kit/animation-service/internal/auth"
	"github.com/spec-kit/animation-service/internal/config"
	"github.com/spec-kit/animation-service/internal/domain"
	"github.com/spec-kit/animation-service/internal/events"
	"github.com/spec-kit/animation-service/internal/observability"
	"github.com/spec-kit/animation-service/internal/repository"
	"github.com/spec-kit/animation-service/internal/service"
)

const testSecret = "router-test-secret"

type testServer struct {
	app     *fiber.App
	users   *repository.MemoryUserRepository
	metrics *observability.Metrics
}

func newTestServer(t *testing.T, authenticator func(*repository.MemoryUserRepository) auth.Authenticator, singleTenant bool) *testServer {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	userRepo := repository.NewMemoryUserRepository()
	animationRepo := repository.NewMemoryAnimationRepository()
	dispatcher := events.NewInMemoryDispatcher()

	tokens, err := auth.NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)

	gate := auth.NewRequestGate(auth.GateDependencies{
		Authenticator: authenticator(userRepo),
		Tokens:        tokens,
		Policy:        auth.NewPolicy(singleTenant),
		Logger:        logger,
		Recorder:      metrics,
	})

	app := fiber.New()
	RegisterMiddlewares(app, config.AppConfig{RequestTimeoutSeconds: 5}, logger, metrics)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("animation-service", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(gate),
		Users:          handlers.NewUsersHandler(service.NewUserService(userRepo, dispatcher, logger)),
		Animations:     handlers.NewAnimationsHandler(service.NewAnimationService(animationRepo, dispatcher, logger)),
		AuthMiddleware: auth.NewAuthMiddleware(gate),
		Metrics:        metrics,
	})

	return &testServer{app: app, users: userRepo, metrics: metrics}
}

func fixedAdmin(*repository.MemoryUserRepository) auth.Authenticator {
	return auth.NewFixedAuthenticator("admin", "admin")
}

func storeBacked(users *repository.MemoryUserRepository) auth.Authenticator {
	return auth.NewStoreAuthenticator(users, time.Second)
}

func basic(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func (s *testServer) do(t *testing.T, method, path, authorization, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	status, body := s.do(t, fiber.MethodPost, "/api/auth", basic(username, password), "")
	require.Equal(t, fiber.StatusOK, status, body)
	require.NotEmpty(t, body)
	return body
}

func TestLoginReturnsPlainToken(t *testing.T) {
	srv := newTestServer(t, fixedAdmin, true)

	for _, method := range []string{fiber.MethodGet, fiber.MethodPost} {
		req := httptest.NewRequest(method, "/api/auth", nil)
		req.Header.Set(fiber.HeaderAuthorization, basic("admin", "admin"))

		resp, err := srv.app.Test(req, -1)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/plain")
		assert.Equal(t, 2, strings.Count(string(raw), "."), "token should be a compact JWT")
	}
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	srv := newTestServer(t, fixedAdmin, true)

	cases := map[string]string{
		"wrong password": basic("admin", "nope"),
		"unknown user":   basic("someone", "admin"),
		"no header":      "",
		"bearer instead": "Bearer abc",
	}
	var bodies []string
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			status, body := srv.do(t, fiber.MethodPost, "/api/auth", header, "")
			assert.Equal(t, fiber.StatusUnauthorized, status)
			bodies = append(bodies, body)
		})
	}
	for _, body := range bodies[1:] {
		assert.Equal(t, bodies[0], body)
	}
}

func TestLoginStoreUnavailable(t *testing.T) {
	srv := newTestServer(t, func(*repository.MemoryUserRepository) auth.Authenticator {
		return auth.NewStoreAuthenticator(failingStore{}, time.Second)
	}, true)

	status, _ := srv.do(t, fiber.MethodPost, "/api/auth", basic("admin", "admin"), "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

type failingStore struct{}

func (failingStore) LookupCredential(context.Context, string) (domain.Credential, error) {
	return domain.Credential{}, assert.AnError
}

func TestProtectedRoutes(t *testing.T) {
	srv := newTestServer(t, fixedAdmin, true)
	token := srv.login(t, "admin", "admin")

	status, body := srv.do(t, fiber.MethodGet, "/api/hello", "Bearer "+token, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Hello World", body)

	status, _ = srv.do(t, fiber.MethodGet, "/api/hello", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	tampered := token[:len(token)-1] + flipChar(token[len(token)-1])
	status, _ = srv.do(t, fiber.MethodGet, "/api/hello", "Bearer "+tampered, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = srv.do(t, fiber.MethodGet, "/api/animation", "Bearer not-a-token", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	decisions := srv.metrics.AuthDecisions
	assert.Equal(t, 1.0, testutil.ToFloat64(decisions.WithLabelValues("ANY_AUTHENTICATED", "allowed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(decisions.WithLabelValues("ANY_AUTHENTICATED", "NO_CREDENTIALS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(decisions.WithLabelValues("ANY_AUTHENTICATED", "INVALID_SIGNATURE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(decisions.WithLabelValues("ANY_AUTHENTICATED", "MALFORMED")))
}

func flipChar(c byte) string {
	if c == 'A' {
		return "B"
	}
	return "A"
}

func TestMutationsRequireAdminRole(t *testing.T) {
	srv := newTestServer(t, storeBacked, false)

	cred, err := auth.NewCredential("viewer", "secret")
	require.NoError(t, err)
	require.NoError(t, srv.users.Create(context.Background(), &domain.User{
		Name:         cred.Username,
		PasswordHash: cred.PasswordHash,
		PasswordSalt: cred.Salt,
	}))

	token := srv.login(t, "viewer", "secret")

	status, _ := srv.do(t, fiber.MethodGet, "/api/animation", "Bearer "+token, "")
	assert.Equal(t, fiber.StatusOK, status)

	status, body := srv.do(t, fiber.MethodPost, "/api/animation", "Bearer "+token, `{"name":"spin"}`)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.NotContains(t, body, "role")
}

func TestSingleTenantGrantsAdminToStoreUsers(t *testing.T) {
	srv := newTestServer(t, storeBacked, true)

	cred, err := auth.NewCredential("editor", "secret")
	require.NoError(t, err)
	require.NoError(t, srv.users.Create(context.Background(), &domain.User{
		Name:         cred.Username,
		PasswordHash: cred.PasswordHash,
		PasswordSalt: cred.Salt,
	}))

	token := srv.login(t, "editor", "secret")
	status, _ := srv.do(t, fiber.MethodPost, "/api/animation", "Bearer "+token, `{"name":"spin"}`)
	assert.Equal(t, fiber.StatusCreated, status)
}

func TestAnimationCRUD(t *testing.T) {
	srv := newTestServer(t, fixedAdmin, true)
	bearer := "Bearer " + srv.login(t, "admin", "admin")

	status, body := srv.do(t, fiber.MethodPost, "/api/animation", bearer,
		`{"name":"wave","description":"hello","data":{"frames":[1,2,3]}}`)
	require.Equal(t, fiber.StatusCreated, status, body)

	var created map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	id := int64(created["id"].(float64))
	assert.Equal(t, "wave", created["name"])

	path := "/api/animation/" + strconv.FormatInt(id, 10)
	status, body = srv.do(t, fiber.MethodGet, path, bearer, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"frames":[1,2,3]`)

	status, body = srv.do(t, fiber.MethodPatch, "/api/animation", bearer,
		`{"id":`+strconv.FormatInt(id, 10)+`,"name":"wave2","description":"bye","data":{}}`)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, `"wave2"`)

	status, body = srv.do(t, fiber.MethodGet, "/api/animation", bearer, "")
	require.Equal(t, fiber.StatusOK, status)
	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Len(t, list, 1)

	status, _ = srv.do(t, fiber.MethodDelete, path, bearer, "")
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = srv.do(t, fiber.MethodGet, path, bearer, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = srv.do(t, fiber.MethodGet, "/api/animation/abc", bearer, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestUserCRUDHidesPasswordMaterial(t *testing.T) {
	srv := newTestServer(t, fixedAdmin, true)
	bearer := "Bearer " + srv.login(t, "admin", "admin")

	status, body := srv.do(t, fiber.MethodPost, "/api/user", bearer, `{"name":"alice","password":"pw"}`)
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "salt")

	status, _ = srv.do(t, fiber.MethodPost, "/api/user", bearer, `{"name":"alice","password":"other"}`)
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = srv.do(t, fiber.MethodPost, "/api/user", bearer, `{"name":"","password":"pw"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = srv.do(t, fiber.MethodGet, "/api/user", bearer, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.NotContains(t, body, "password")
	assert.Contains(t, body, `"alice"`)
}

func TestPreflightBypassesGate(t *testing.T) {
	srv := newTestServer(t, fixedAdmin, true)

	status, _ := srv.do(t, fiber.MethodOptions, "/api/animation", "", "")
	assert.NotEqual(t, fiber.StatusUnauthorized, status)
	assert.NotEqual(t, fiber.StatusForbidden, status)
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	srv := newTestServer(t, fixedAdmin, true)

	status, body := srv.do(t, fiber.MethodGet, "/health/live", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "alive")

	status, body = srv.do(t, fiber.MethodGet, "/health/ready", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "disabled")

	status, _ = srv.do(t, fiber.MethodGet, "/nowhere", "", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, fixedAdmin, true)

	resp, err := srv.app.Test(httptest.NewRequest(fiber.MethodGet, "/health/live", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(observability.RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, fixedAdmin, true)
	srv.do(t, fiber.MethodGet, "/api/hello", "", "")

	status, body := srv.do(t, fiber.MethodGet, "/metrics", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "animation_service_auth_decisions_total")
	assert.Contains(t, body, "animation_service_http_requests_total")
}

func TestValidationDetails(t *testing.T) {
	srv := newTestServer(t, fixedAdmin, true)
	bearer := "Bearer " + srv.login(t, "admin", "admin")

	status, body := srv.do(t, fiber.MethodPatch, "/api/animation", bearer, `{"name":"x"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, `"id":"required"`)
}

package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/interfaces/http/handler"
	"github.com/gymdesk/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	group.Group("nested", "/nested").PUT("/item", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/test/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v2/test/nested/item", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, "test", group.Name())
	assert.Equal(t, "/test", group.Prefix())
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	var order []string
	group := NewDomainGroup("test", "/test").
		Use(func(c *gin.Context) { order = append(order, "mw"); c.Next() }).
		POST("/run", func(c *gin.Context) { order = append(order, "handler"); c.Status(http.StatusOK) })
	r.Register(group).Setup()

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/test/run", nil))
	assert.Equal(t, []string{"mw", "handler"}, order)
}

func testHandlers(check handler.HealthCheck) Handlers {
	return Handlers{
		System:        handler.NewSystemHandler("test", map[string]handler.HealthCheck{"database": check}),
		Tenant:        handler.NewTenantHandler(nil),
		Member:        handler.NewMemberHandler(nil, nil),
		Membership:    handler.NewMembershipHandler(nil),
		CheckIn:       handler.NewCheckInHandler(nil),
		Notifications: handler.NewNotificationHandler(nil),
	}
}

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine(EngineConfig{ServiceName: "test", MaxBodyBytes: 1024}, testHandlers(func(context.Context) error { return nil }), zap.NewNop())
	require.NoError(t, err)

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("gym routes require a tenant", func(t *testing.T) {
		for _, path := range []string{
			"/api/v1/gym/members",
			"/api/v1/gym/check-ins",
			"/api/v1/gym/memberships",
			"/api/v1/gym/memberships/" + uuid.NewString() + "/renew",
		} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code, path)
			assert.Contains(t, w.Body.String(), "ERR_TENANT_REQUIRED", path)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNewEngine_UnhealthyDependency(t *testing.T) {
	engine, err := NewEngine(EngineConfig{MaxBodyBytes: 1024}, testHandlers(func(context.Context) error { return errors.New("refused") }), zap.NewNop())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "refused")
}

func TestNewEngine_RateLimit(t *testing.T) {
	engine, err := NewEngine(EngineConfig{MaxBodyBytes: 1024, RateLimitRPS: 0.001, RateLimitBurst: 1},
		testHandlers(func(context.Context) error { return nil }), zap.NewNop())
	require.NoError(t, err)

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestNewEngine_Swagger(t *testing.T) {
	ok := func(context.Context) error { return nil }

	t.Run("disabled", func(t *testing.T) {
		engine, err := NewEngine(EngineConfig{MaxBodyBytes: 1024}, testHandlers(ok), zap.NewNop())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		engine, err := NewEngine(EngineConfig{MaxBodyBytes: 1024, Swagger: middleware.SwaggerConfig{Enabled: true}}, testHandlers(ok), zap.NewNop())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

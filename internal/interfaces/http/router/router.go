package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gymdesk/backend/internal/infrastructure/logger"
	"github.com/gymdesk/backend/internal/interfaces/http/handler"
	"github.com/gymdesk/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup creates a route group for a specific domain
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{
		name:   name,
		prefix: prefix,
	}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle("GET", path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle("POST", path, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle("PUT", path, handlers)
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{
		method:   method,
		path:     path,
		handlers: handlers,
	})
	return dg
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}

	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}

	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// Handlers bundles the HTTP handlers served by the API
type Handlers struct {
	System        *handler.SystemHandler
	Tenant        *handler.TenantHandler
	Member        *handler.MemberHandler
	Membership    *handler.MembershipHandler
	CheckIn       *handler.CheckInHandler
	Notifications *handler.NotificationHandler
}

// EngineConfig holds the cross-cutting HTTP settings
type EngineConfig struct {
	ServiceName    string
	TracingEnabled bool
	TrustedProxies []string
	CORSOrigins    []string
	MaxBodyBytes   int64
	RateLimitRPS   float64
	RateLimitBurst int
	Swagger        middleware.SwaggerConfig
}

// NewEngine builds the gin engine with the middleware stack and every route
func NewEngine(cfg EngineConfig, h Handlers, log *zap.Logger) (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	middleware.SetupValidator()

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSOrigins

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(log),
		middleware.TracingWithConfig(middleware.TracingConfig{ServiceName: cfg.ServiceName, Enabled: cfg.TracingEnabled}),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(cors),
		middleware.BodyLimit(cfg.MaxBodyBytes),
	)
	if cfg.RateLimitRPS > 0 {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))
	}

	engine.GET("/health", h.System.Health)
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))

	tenantScoped := []gin.HandlerFunc{middleware.TenantContext(), middleware.TracingAttributeInjector()}

	r := NewRouter(engine)
	r.Register(NewDomainGroup("system", "").GET("/health", h.System.Health))

	identity := NewDomainGroup("identity", "/identity")
	identity.Group("tenants", "/tenants").
		Use(middleware.TracingAttributeInjector()).
		POST("", h.Tenant.Create)
	identity.Group("tenant", "/tenant").
		Use(tenantScoped...).
		GET("", h.Tenant.GetCurrent).
		PUT("/messaging", h.Tenant.UpdateMessaging).
		POST("/suspend", h.Tenant.Suspend).
		POST("/activate", h.Tenant.Activate)
	r.Register(identity)

	r.Register(NewDomainGroup("gym", "/gym").
		Use(tenantScoped...).
		POST("/members", h.Member.Create).
		PUT("/members/:id/recipient", h.Member.LinkRecipient).
		POST("/members/:id/deactivate", h.Member.Deactivate).
		GET("/members/:id/active-membership", h.Membership.GetActive).
		POST("/disciplines", h.Member.CreateDiscipline).
		POST("/memberships", h.Membership.Create).
		POST("/memberships/:id/renew", h.Membership.Renew).
		POST("/memberships/:id/expire", h.Membership.Expire).
		POST("/check-ins", h.CheckIn.CheckIn))

	r.Register(NewDomainGroup("notifications", "/notifications").
		Use(middleware.TracingAttributeInjector()).
		POST("/sweep", h.Notifications.RunSweep))

	r.Setup()
	return engine, nil
}

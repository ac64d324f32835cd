package api

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sxc/scholarhub/internal/api/handler"
	"github.com/sxc/scholarhub/internal/api/middleware"
	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
	_ "github.com/sxc/scholarhub/internal/docs" // swagger docs
)

const (
	apiPrefix        = "/api"
	metricsNamespace = "scholarhub"
)

// Dependencies carries everything the router needs. Registerer and
// Gatherer default to the global Prometheus registry.
type Dependencies struct {
	Auth       ports.AuthService
	Resources  ports.ResourceService
	Users      ports.UserService
	Dashboards ports.DashboardService
	UserLookup middleware.UserFinder
	Store      middleware.StoreChecker
	Health     map[string]handler.DependencyCheck
	Logger     zerolog.Logger

	CORSOrigins    []string
	MaxUploadBytes int64

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// route is one row of the API route table.
type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
	stages  []echo.MiddlewareFunc
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(middleware.CORS(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.Recover())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metricsNamespace,
		Subsystem:  "http",
		Registerer: registerer,
	}))
	if d.MaxUploadBytes > 0 {
		e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dB", d.MaxUploadBytes)))
	}

	// --- Operational endpoints (no store check) ---
	health := handler.NewHealthHandler(d.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	api := e.Group(apiPrefix, middleware.EnsureStore(d.Store, d.Logger))
	for _, r := range routeTable(d) {
		api.Add(r.method, r.path, r.handler, r.stages...)
	}

	return e
}

func routeTable(d Dependencies) []route {
	authHandler := handler.NewAuthHandler(d.Auth)
	resourceHandler := handler.NewResourceHandler(d.Resources, d.Logger)
	userHandler := handler.NewUserHandler(d.Users)
	dashboardHandler := handler.NewDashboardHandler(d.Dashboards)

	authenticated := func(missingMsg string) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{
			middleware.Authenticate(d.Auth, missingMsg),
			middleware.LoadUser(d.UserLookup),
		}
	}
	anyUser := authenticated(middleware.MsgAuthRequired)
	adminOnly := func(forbiddenMsg string) []echo.MiddlewareFunc {
		return append(slices.Clone(anyUser), middleware.RequireRole(forbiddenMsg, domain.RoleAdmin))
	}

	return []route{
		{http.MethodGet, "", handler.Root, nil},
		{http.MethodGet, "/", handler.Root, nil},

		{http.MethodPost, "/auth/register", authHandler.Register, nil},
		{http.MethodPost, "/auth/login", authHandler.Login, nil},
		{http.MethodGet, "/auth/verify", authHandler.Verify, authenticated(middleware.MsgNoToken)},
		{http.MethodPost, "/auth/logout", authHandler.Logout, anyUser},

		{http.MethodGet, "/resources", resourceHandler.List, nil},
		{http.MethodPost, "/resources", resourceHandler.Create, adminOnly("Only administrators can upload resources")},
		{http.MethodGet, "/resources/:id", resourceHandler.Get, nil},
		{http.MethodPatch, "/resources/:id", resourceHandler.Update, adminOnly("Only administrators can edit resources")},
		{http.MethodDelete, "/resources/:id", resourceHandler.Delete, adminOnly("Only administrators can delete resources")},
		{http.MethodGet, "/resources/:id/download", resourceHandler.Download, anyUser},
		{http.MethodPost, "/resources/:id/bookmark", resourceHandler.ToggleBookmark, anyUser},

		{http.MethodGet, "/users", userHandler.List, adminOnly("Admin access required")},
		{http.MethodGet, "/search", resourceHandler.Search, nil},

		{http.MethodGet, "/dashboard/student", dashboardHandler.Student, anyUser},
		{http.MethodGet, "/dashboard/admin", dashboardHandler.Admin, adminOnly("Admin access required")},
	}
}

package sandbox

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/paquexpress/client-go/internal/sandbox/handler"
	"github.com/paquexpress/client-go/internal/sandbox/middleware"
	"github.com/paquexpress/client-go/internal/sandbox/service"
)

// NewRouter builds the Echo instance with all sandbox routes registered.
// db is nil when running on the in-memory backend.
func NewRouter(cfg *Config, auth *service.Auth, tenants *service.Tenants, db *mongo.Database, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("paquexpress_sandbox"))

	authHandler := handler.NewAuthHandler(auth)
	tenantHandler := handler.NewTenantHandler(tenants)
	requireAuth := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/refresh", authHandler.Refresh)
	e.GET("/api/auth/me", authHandler.Me, requireAuth)
	e.POST("/api/auth/logout", authHandler.Logout, requireAuth)

	// --- Empresa routes ---
	empresas := e.Group("/api/empresas", requireAuth, middleware.TenantHeader(false))
	empresas.GET("", tenantHandler.List)
	empresas.GET("/:slug/perfil", tenantHandler.Profile)

	// --- Health probes and metrics ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

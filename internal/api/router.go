package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/cleanworks/invoicing-system/internal/api/handler"
	"github.com/cleanworks/invoicing-system/internal/api/middleware"
	"github.com/cleanworks/invoicing-system/internal/core/domain"
	"github.com/cleanworks/invoicing-system/internal/core/ports"
	"github.com/cleanworks/invoicing-system/internal/infrastructure/http/handlers"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Log       zerolog.Logger
	JWTSecret string

	Auth     ports.AuthService
	Users    ports.UserService
	Catalog  ports.CatalogService
	Workflow ports.WorkflowService
	Invoices ports.InvoiceService

	// Readiness lists the dependencies probed by /health/ready.
	Readiness []handlers.Dependency
	// Registerer receives the HTTP request metrics. Defaults to the
	// Prometheus default registerer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	placeHandler := handler.NewPlaceHandler(deps.Catalog)
	draftHandler := handler.NewDraftHandler(deps.Workflow)
	invoiceHandler := handler.NewInvoiceHandler(deps.Invoices)

	// --- Public routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(deps.Readiness...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))

	v1.GET("/me/profile", userHandler.GetProfile)
	v1.PUT("/me/profile", userHandler.UpdateProfile)
	v1.PUT("/me/password", authHandler.ChangePassword)

	v1.GET("/places", placeHandler.List)

	draft := v1.Group("/invoice-draft")
	draft.GET("", draftHandler.Get)
	draft.DELETE("", draftHandler.Discard)
	draft.PUT("/period", draftHandler.SetPeriod)
	draft.POST("/candidate", draftHandler.Candidate)
	draft.POST("/entries", draftHandler.AddEntry)
	draft.DELETE("/entries/:id", draftHandler.RemoveEntry)
	draft.POST("/generate", draftHandler.Generate)
	draft.GET("/document", draftHandler.Document)

	v1.GET("/invoices", invoiceHandler.List)
	v1.GET("/invoices/:number", invoiceHandler.Get)
	v1.GET("/invoices/:number/document", invoiceHandler.Document)

	// --- Admin routes ---
	admin := v1.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	admin.GET("/users", userHandler.ListUsers)
	admin.PUT("/users/:id/role", userHandler.ChangeRole)
	admin.POST("/places", placeHandler.Create)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

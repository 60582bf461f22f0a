// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"media-fetch-bot/internal/metrics"
	"media-fetch-bot/internal/transport/httpserver/dto"
	"media-fetch-bot/internal/transport/httpserver/handler"
	"media-fetch-bot/internal/transport/httpserver/middleware"
	"media-fetch-bot/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         int
	BodyLimit    int
	Debug        bool
	TemplatesDir string
	StaticDir    string
	// ReportWindow is the default window of /api/v1/stats and the dashboard.
	ReportWindow time.Duration
}

// Dependencies are the services behind the routes.
type Dependencies struct {
	Media     handler.MediaFetcher
	Usage     handler.UsageReporter
	Recent    handler.RecentRequests
	CacheSize handler.CacheCounter
	Providers handler.ProviderLister
	System    handler.SystemCollector
	Metrics   *metrics.Metrics
	Validator *validator.Validator
	Readiness []middleware.ReadinessCheck
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg ServerConfig, deps Dependencies, logger *zap.Logger) *Server {
	engine := html.New(cfg.TemplatesDir, ".html")
	if cfg.Debug {
		engine.Reload(true)
	}

	app := fiber.New(fiber.Config{
		AppName:      "media-fetch-bot",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
		Views:        engine,
	})

	// Health endpoints stay ahead of the rest so they answer under load.
	app.Use(middleware.NewHealthCheck(logger, deps.Readiness...))

	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Metrics(deps.Metrics))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS())
	app.Use(compress.New())

	if cfg.StaticDir != "" {
		app.Static("/static", cfg.StaticDir)
	}

	mediaHandler := handler.NewMediaHandler(deps.Media, deps.Validator, logger)
	statsHandler := handler.NewStatsHandler(deps.Usage, cfg.ReportWindow, deps.Validator, logger)
	adminHandler := handler.NewAdminHandler(deps.Providers, deps.System, logger)
	dashboardHandler := handler.NewDashboardHandler(deps.Usage, deps.Recent, deps.CacheSize, cfg.ReportWindow, logger)

	registerRoutes(app, deps.Metrics, mediaHandler, statsHandler, adminHandler, dashboardHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	m *metrics.Metrics,
	mediaHandler *handler.MediaHandler,
	statsHandler *handler.StatsHandler,
	adminHandler *handler.AdminHandler,
	dashboardHandler *handler.DashboardHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	app.Get("/dashboard", dashboardHandler.Render)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})

	v1 := app.Group("/api/v1")

	media := v1.Group("/media")
	media.Post("/resolve", mediaHandler.Resolve)
	media.Get("/cache", mediaHandler.Cached)

	v1.Get("/stats", statsHandler.Stats)

	admin := v1.Group("/admin")
	admin.Get("/providers", adminHandler.GetProviders)
	admin.Get("/system", adminHandler.GetSystem)
}

// errorHandler logs based on HTTP status code: 404s at DEBUG, 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal server error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			msg = e.Message
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Error: msg,
			Code:  "UNHANDLED_ERROR",
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server, waiting for in-flight
// resolutions until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.ShutdownWithContext(ctx)
}

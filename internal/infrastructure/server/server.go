package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/soloplan/core/internal/adapters/blob"
	httpHandlers "github.com/soloplan/core/internal/adapters/http"
	"github.com/soloplan/core/internal/adapters/repository"
	"github.com/soloplan/core/internal/application/persist"
	"github.com/soloplan/core/internal/application/services"
	"github.com/soloplan/core/internal/infrastructure/config"
	"github.com/soloplan/core/internal/infrastructure/database"
	"github.com/soloplan/core/internal/infrastructure/logger"
	"github.com/soloplan/core/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo      *echo.Echo
	config    *config.Config
	logger    *logger.Logger
	db        *database.DB
	docs      *services.DocumentService
	persister *persist.Debouncer

	// last background persist failure, surfaced by the readiness check
	persistErr atomic.Value
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance. The db is nil unless the postgres
// storage backend is configured.
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		db:     db,
	}

	// Storage backend
	var store ports.BlobStore
	switch cfg.Storage.Backend {
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("postgres storage backend requires a database connection")
		}
		store = blob.NewPostgresStore(db.DB)
	default:
		store = blob.NewFileStore(cfg.Storage.Path)
	}

	// Repository and debounced persister
	docRepo := repository.NewDocumentRepository(store, appLogger)

	var metrics *persist.Metrics
	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		metrics = persist.NewMetrics(registry)
	}

	persister := persist.New(
		cfg.Storage.DebounceWindow,
		cfg.Storage.FlushTimeout,
		docRepo.Save,
		func(err error) { server.persistErr.Store(err.Error()) },
		appLogger,
		metrics,
	)
	server.persister = persister

	// Initialize services
	docService := services.NewDocumentService(docRepo, persister, appLogger)
	if err := docService.Init(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	reportService := services.NewReportService(docService, appLogger)
	server.docs = docService

	// Initialize handlers
	documentHandler := httpHandlers.NewDocumentHandler(docService, appLogger)
	projectHandler := httpHandlers.NewProjectHandler(docService, appLogger)
	taskHandler := httpHandlers.NewTaskHandler(docService, appLogger)
	todoHandler := httpHandlers.NewTodoHandler(docService, appLogger)
	reportHandler := httpHandlers.NewReportHandler(reportService, appLogger)

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes(documentHandler, projectHandler, taskHandler, todoHandler, reportHandler)

	// Setup metrics
	if cfg.Metrics.Enabled {
		server.setupMetrics(registry)
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	// Rate limiting middleware
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			id := ctx.RealIP()
			return id, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
	}))

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Timeout middleware
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(documentHandler *httpHandlers.DocumentHandler, projectHandler *httpHandlers.ProjectHandler, taskHandler *httpHandlers.TaskHandler, todoHandler *httpHandlers.TodoHandler, reportHandler *httpHandlers.ReportHandler) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Whole-document routes
	v1.GET("/document", documentHandler.GetDocument)
	v1.POST("/document", documentHandler.SaveDocument)
	v1.PUT("/scratchpad", documentHandler.UpdateScratchpad)

	// Project routes
	projectGroup := v1.Group("/projects")
	projectGroup.GET("", projectHandler.ListProjects)
	projectGroup.POST("", projectHandler.CreateProject)
	projectGroup.GET("/:id", projectHandler.GetProject)
	projectGroup.PUT("/:id", projectHandler.UpdateProject)
	projectGroup.DELETE("/:id", projectHandler.DeleteProject)
	projectGroup.GET("/:id/tasks", projectHandler.GetProjectTasks)
	projectGroup.POST("/:id/notes", projectHandler.AddNote)
	projectGroup.PUT("/:id/notes/:noteId", projectHandler.UpdateNote)
	projectGroup.DELETE("/:id/notes/:noteId", projectHandler.DeleteNote)

	// Project category routes
	categoryGroup := v1.Group("/categories")
	categoryGroup.GET("", projectHandler.ListCategories)
	categoryGroup.POST("", projectHandler.CreateCategory)
	categoryGroup.PUT("/:id", projectHandler.UpdateCategory)
	categoryGroup.DELETE("/:id", projectHandler.DeleteCategory)

	// Task routes
	taskGroup := v1.Group("/tasks")
	taskGroup.GET("", taskHandler.ListTasks)
	taskGroup.POST("", taskHandler.CreateTask)
	taskGroup.GET("/:id", taskHandler.GetTask)
	taskGroup.PUT("/:id", taskHandler.UpdateTask)
	taskGroup.DELETE("/:id", taskHandler.DeleteTask)
	taskGroup.POST("/:id/subtasks", taskHandler.AddSubtask)
	taskGroup.PUT("/:id/subtasks/:subtaskId", taskHandler.UpdateSubtask)
	taskGroup.DELETE("/:id/subtasks/:subtaskId", taskHandler.RemoveSubtask)

	// Quick task routes
	quickGroup := v1.Group("/quick-tasks")
	quickGroup.GET("", taskHandler.ListQuickTasks)
	quickGroup.POST("", taskHandler.CreateQuickTask)
	quickGroup.PUT("/:id", taskHandler.UpdateQuickTask)
	quickGroup.DELETE("/:id", taskHandler.DeleteQuickTask)

	// Log routes; the owner is a task, quick task or personal todo
	logGroup := v1.Group("/items/:ownerId/logs")
	logGroup.POST("", taskHandler.AddLog)
	logGroup.PUT("/:logId", taskHandler.UpdateLog)
	logGroup.DELETE("/:logId", taskHandler.DeleteLog)

	// Personal todo routes
	v1.GET("/personal-todos", todoHandler.GetPersonalTodos)
	v1.PUT("/personal-todos/reorder", todoHandler.ReorderActiveTodos)
	todoCategoryGroup := v1.Group("/todo-categories")
	todoCategoryGroup.POST("", todoHandler.CreateTodoCategory)
	todoCategoryGroup.PUT("/:id", todoHandler.UpdateTodoCategory)
	todoCategoryGroup.DELETE("/:id", todoHandler.DeleteTodoCategory)
	todoGroup := v1.Group("/todos")
	todoGroup.POST("", todoHandler.CreateTodo)
	todoGroup.PUT("/:id", todoHandler.UpdateTodo)
	todoGroup.DELETE("/:id", todoHandler.DeleteTodo)
	todoGroup.POST("/:id/activate", todoHandler.MoveTodoToActive)
	todoGroup.POST("/:id/deactivate", todoHandler.MoveTodoToBacklog)

	// Report routes
	v1.GET("/reports/projects", reportHandler.GetProjectReports)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics(registry *prometheus.Registry) {
	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	// Database health check, only relevant for the postgres backend
	if s.db != nil {
		if err := s.db.HealthCheck(); err != nil {
			status = "error"
			checks["database"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		} else {
			checks["database"] = map[string]interface{}{
				"status": "ok",
				"stats":  s.db.GetConnectionInfo(),
			}
		}
	}

	// Persistence health check
	if msg, ok := s.persistErr.Load().(string); ok && msg != "" {
		status = "error"
		checks["persistence"] = map[string]interface{}{
			"status":     "error",
			"last_error": msg,
		}
	} else {
		checks["persistence"] = map[string]interface{}{
			"status": "ok",
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  "1.21",
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if s.db != nil {
		if err := s.db.Ping(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": "database_not_ready",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address, "storage_backend", s.config.Storage.Backend)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server. Pending document writes
// are flushed before the listener closes.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")

	if err := s.docs.Flush(ctx); err != nil {
		s.logger.Errorw("Failed to flush pending writes", "error", err)
	}

	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": e.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}

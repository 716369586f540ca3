// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/cart"
	"github.com/mrokonuzzaan040/tech-pinik/internal/infrastructure/database/postgres"
	"github.com/mrokonuzzaan040/tech-pinik/internal/interfaces/http/handlers"
	"github.com/mrokonuzzaan040/tech-pinik/internal/interfaces/http/middleware"
	"github.com/mrokonuzzaan040/tech-pinik/internal/interfaces/http/routes"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	logger      logrus.FieldLogger
	metrics     *metrics.Metrics
	db          *gorm.DB
	redisClient *redis.Client
	carts       *cart.Service
	invoices    handlers.InvoiceRenderer

	gin        *gin.Engine
	httpServer *http.Server
	startedAt  time.Time
}

// Option customises the Server
type Option func(*Server)

// WithInvoiceRenderer replaces the wkhtmltopdf invoice renderer
func WithInvoiceRenderer(r handlers.InvoiceRenderer) Option {
	return func(s *Server) { s.invoices = r }
}

// NewServer creates a new HTTP server instance. redisClient may be nil,
// which disables rate limiting.
func NewServer(cfg *config.Config, logger logrus.FieldLogger, m *metrics.Metrics, db *gorm.DB, redisClient *redis.Client, carts *cart.Service, opts ...Option) *Server {
	s := &Server{
		config:      cfg,
		logger:      logger,
		metrics:     m,
		db:          db,
		redisClient: redisClient,
		carts:       carts,
		startedAt:   time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the gin engine on first use
func (s *Server) Handler() http.Handler {
	if s.gin != nil {
		return s.gin
	}

	s.gin = gin.New()
	if len(s.config.Security.TrustedProxies) > 0 {
		if err := s.gin.SetTrustedProxies(s.config.Security.TrustedProxies); err != nil {
			s.logger.WithError(err).Warn("invalid trusted proxies, trusting none")
			_ = s.gin.SetTrustedProxies(nil)
		}
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s.gin
}

// Start starts the HTTP server
func (s *Server) Start() error {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	log.Printf("🚀 HTTP Server starting on port %s", s.config.Server.Port)
	log.Printf("🌐 API Base URL: http://localhost:%s/api/v1", s.config.Server.Port)
	log.Printf("📊 Health Check: http://localhost:%s/health", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	log.Println("🛑 Shutting down HTTP server...")

	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	log.Println("✅ HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	if s.metrics != nil {
		s.gin.Use(middleware.Metrics(s.metrics))
	}
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders())

	if s.redisClient != nil && s.config.Security.RateLimitPerMinute > 0 {
		s.gin.Use(middleware.RateLimit(s.config.Security.RateLimitPerMinute, s.redisClient, s.logger))
	}

	maxBody := s.config.Server.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 10 << 20
	}
	s.gin.Use(middleware.RequestSizeLimit(maxBody))

	timeout := s.config.Server.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s.gin.Use(middleware.Timeout(timeout))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)
	if s.metrics != nil {
		s.gin.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	apiV1 := s.gin.Group("/api/v1")
	routes.SetupRoutes(apiV1, routes.Dependencies{
		Config:   s.config,
		Logger:   s.logger,
		Metrics:  s.metrics,
		DB:       s.db,
		Carts:    s.carts,
		Invoices: s.invoices,
	})

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"auth":       "/api/v1/auth",
					"products":   "/api/v1/products",
					"categories": "/api/v1/categories",
					"cart":       "/api/v1/cart",
					"orders":     "/api/v1/orders",
					"admin":      "/api/v1/admin",
				},
			})
		})
	}
}

// healthCheck pings the database and Redis
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := postgres.Wrap(s.db).Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database ping failed",
		})
		return
	}

	if s.redisClient != nil {
		if err := s.redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "redis ping failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck reports uptime and the number of live cart sessions
func (s *Server) readinessCheck(c *gin.Context) {
	sessions := 0
	if s.carts != nil {
		sessions = s.carts.ActiveSessions()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ready",
		"timestamp":    time.Now().UTC(),
		"uptime":       time.Since(s.startedAt).Round(time.Second).String(),
		"cartSessions": sessions,
	})
}

// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, admin authentication, and rate
// limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Admin routes disabled unless ADMIN_TOKEN is configured
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/power-status-tracker/docs"
	"github.com/tbourn/power-status-tracker/internal/config"
	"github.com/tbourn/power-status-tracker/internal/http/handlers"
	"github.com/tbourn/power-status-tracker/internal/http/middleware"
	"github.com/tbourn/power-status-tracker/internal/repo"
	"github.com/tbourn/power-status-tracker/internal/services"
)

// NewServices builds the status and notification services for cfg. The CLI
// and the HTTP server share this wiring.
func NewServices(db *gorm.DB, gw services.Gateway, cfg config.Config) (*services.StatusService, *services.NotificationService) {
	notifier := services.NewNotificationService(db, repo.SubscriberStore{}, gw)
	notifier.Policy = services.NewPhrasePolicy(cfg.Telegram.DeactivationPhrases...)
	notifier.Location = cfg.Location()
	notifier.ParseMode = cfg.Telegram.ParseMode
	return services.NewStatusService(db, notifier), notifier
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), compression, CORS
// and security headers, health and metrics endpoints, the status page, and
// then mounts the versioned API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: request-scoped logger + access log with secret scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Gzip (skips /metrics, which compresses itself)
//  8. CORS and Security headers
//
// Rate limiting is installed per group: anonymous routes are keyed by client
// IP, admin routes by principal after AdminAuth.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, gw services.Gateway, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{middleware.HeaderAdminToken},
		QuietPaths:  []string{"/health", "/metrics"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (64 KiB; payloads are tiny)
	r.Use(limitBody(64 << 10))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics("/health"))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Compression for the page and JSON
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 8) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match", middleware.HeaderAdminToken}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		HSTS:        cfg.Security.EnableHSTS,
		HSTSMaxAge:  cfg.Security.HSTSMaxAge,
		Permissions: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/gateway
	statusSvc, notifier := NewServices(db, gw, cfg)
	h := handlers.New(statusSvc, notifier, cfg.Location())

	publicRL := middleware.NewRateLimiter("public", cfg.RateRPS, cfg.RateBurst, middleware.KeyByPrincipalOrIP())
	adminRL := middleware.NewRateLimiter("admin", cfg.RateRPS, cfg.RateBurst, middleware.KeyByPrincipalOrIP())

	// Status page
	r.SetHTMLTemplate(handlers.Templates())
	r.GET("/", publicRL.Handler(), middleware.ContentSecurityPolicy(middleware.StatusPageCSP), h.Home)

	apiBase := cfg.APIBasePath // e.g. "/api/v1"

	// Public API
	api := groupWithPrefix(r, apiBase)
	api.GET("/status", publicRL.Handler(), h.GetStatus)

	// Admin API
	admin := groupWithPrefix(r, apiBase)
	admin.Use(middleware.AdminAuth(cfg.AdminToken), adminRL.Handler(), middleware.NoStore())
	{
		admin.PUT("/status", h.SetStatus)

		admin.GET("/subscribers", h.ListSubscribers)
		admin.POST("/subscribers", h.AddSubscriber)
		admin.DELETE("/subscribers/:chat_id", h.RemoveSubscriber)
		admin.POST("/subscribers/:chat_id/test", h.SendTestMessage)

		admin.GET("/bot", h.GetBot)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

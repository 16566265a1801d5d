// Package httpapi wires the HTTP transport (Gin) to the submission pipeline,
// middleware, and route handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, logging with PII redaction, panic recovery,
// metrics, compression, rate limiting, CORS, and security headers.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - All dependencies injected; no package-level connection state
//   - Validation lives in the pipeline, never re-declared on routes
package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/bpatel/go-portfolio-backend/internal/config"
	"github.com/bpatel/go-portfolio-backend/internal/http/handlers"
	"github.com/bpatel/go-portfolio-backend/internal/http/middleware"
	"github.com/bpatel/go-portfolio-backend/internal/mail"
	"github.com/bpatel/go-portfolio-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. db may be nil (store unreachable at boot → degraded mode) and
// sender may be nil (no mail credentials → notifications disabled); the
// pipeline tolerates both.
//
// Middleware order:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: panics become JSON 500 (with request id)
//  5. Body size limiter
//  6. gzip compression
//  7. Metrics + /metrics endpoint
//  8. CORS and security headers
//
// The rate limiter (100 requests / 15 min per client IP by default) guards
// only the /api group, so the landing page and health checks stay cheap.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, sender mail.Sender, cfg config.Config) {
	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging; the contact form carries names/emails/phones
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (64 KiB is plenty for a contact form)
	r.Use(limitBody(64 << 10))

	// 6) Compression for JSON and the landing page
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) CORS posture (allow all when no allowlist is configured; the form
	// may be embedded on mirrors of the portfolio)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:   []string{"X-Request-ID", "Content-Length"},
			MaxAge:          12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORS.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"X-Request-ID", "Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and the request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Landing page + assets, with the JSON 404 envelope as the fallback for
	// anything that is neither a route nor a file.
	r.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(cfg.StaticDir, "index.html"))
	})
	r.NoRoute(staticOr404(cfg.StaticDir))

	// Dependency injection: pipeline ← store/mail handles
	notifier := services.NewNotifier(sender, cfg.Mail.Username)
	contactSvc := services.NewContactService(db, notifier)
	h := handlers.New(contactSvc)

	// Public + admin API, rate limited per client IP
	rl := middleware.NewRateLimiter(cfg.RateMax, cfg.RateWindow, middleware.KeyByClientIP())
	api := r.Group("/api", rl.Handler())
	{
		api.POST("/contact", h.SubmitContact)
		api.GET("/contacts", h.ListContacts)
		api.PUT("/contacts/:id/read", h.MarkRead)
		api.PUT("/contacts/:id/replied", h.MarkReplied)
	}
}

// staticOr404 serves files from dir for unmatched GET paths outside /api,
// mirroring an Express static-then-404 setup. Everything else gets the JSON
// 404 envelope.
func staticOr404(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet && !strings.HasPrefix(c.Request.URL.Path, "/api") {
			// The leading slash makes Join treat the path as relative to
			// dir, so traversal cannot escape it.
			p := filepath.Join(dir, filepath.Clean(c.Request.URL.Path))
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				c.File(p)
				return
			}
		}
		handlers.RouteNotFound(c)
	}
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader; oversized bodies error on read downstream.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

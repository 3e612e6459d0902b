// Package httpapi wires the HTTP transport (Gin) to the fortune service,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-fortune-backend/internal/cache"
	"github.com/tbourn/go-fortune-backend/internal/config"
	"github.com/tbourn/go-fortune-backend/internal/gemini"
	"github.com/tbourn/go-fortune-backend/internal/http/handlers"
	"github.com/tbourn/go-fortune-backend/internal/http/middleware"
	"github.com/tbourn/go-fortune-backend/internal/local"
	"github.com/tbourn/go-fortune-backend/internal/repo"
	"github.com/tbourn/go-fortune-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and returns the fortune service so the caller can drain pending
// background cache writes on shutdown.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. gzip compression
//  7. Metrics
//  8. Rate limiter (per device/IP)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, respCache cache.ResponseCache, cfg config.Config) *services.FortuneService {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction. The device identity header is
	// masked: it is a long-lived pseudonymous identifier.
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{handlers.HeaderDeviceID},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (64 KiB, fortune requests are tiny)
	r.Use(limitBody(64 << 10))

	// 6) Compress JSON payloads
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per device/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByDeviceOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", handlers.HeaderDeviceID},
			ExposeHeaders:    []string{"X-Request-ID", "X-Cache", "Content-Length"},
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
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", handlers.HeaderDeviceID},
			ExposeHeaders:    []string{"X-Request-ID", "X-Cache", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
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

	// Dependency injection: service ← cache/cascade/generator
	defaultLoc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		defaultLoc = time.UTC
	}
	svc := &services.FortuneService{
		Cache:           respCache,
		Remote:          gemini.NewClient(cfg.Gemini),
		Local:           local.NewGenerator(repo.NewDeviceStateStore(db), defaultLoc),
		CacheTTL:        cfg.CacheTTL,
		DefaultTimezone: cfg.DefaultTimezone,
		Debug:           cfg.Debug,
		OfflineFirst:    cfg.OfflineFirst,
	}
	h := handlers.New(svc)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.POST("/fortune/today", h.Fortune)
		api.POST("/fortune/local", h.LocalFortune)
		api.GET("/remote-config", h.GetRemoteConfig)
	}

	return svc
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

package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/iss-tracker-service/internal/auth"
	"github.com/PratikDhanave/iss-tracker-service/internal/config"
	"github.com/PratikDhanave/iss-tracker-service/internal/exposure"
	"github.com/PratikDhanave/iss-tracker-service/internal/handlers"
	"github.com/PratikDhanave/iss-tracker-service/internal/metrics"
	"github.com/PratikDhanave/iss-tracker-service/internal/store"
)

// NewRouter wires public endpoints and the guarded polygon writes.
// Public: /health, /ready, /metrics, /iss/*, GET /2d-polygons
// Guarded (when API_KEYS is set): POST/DELETE /2d-polygons
func NewRouter(cfg *config.Config, st store.Store, windows *exposure.Service, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(metrics.Middleware())
	r.Use(cors())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "online"})
	})

	// Readiness: confirms the store dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	handlers.RegisterISSRoutes(r, windows, st, logger)
	handlers.RegisterPolygonRoutes(r, st, auth.RequireAPIKey(cfg.APIKeys), logger)

	return r
}

// requestLogger logs one line per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

// cors allows any origin without credentials.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

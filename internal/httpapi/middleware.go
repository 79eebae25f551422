package httpapi

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/studyplan/internal/logger"
	"github.com/abhisek/studyplan/internal/store"
)

// TenantHeader carries the tenant a request acts for.
const TenantHeader = "X-Tenant-ID"

const tenantKey = "studyplan.tenant"

func withTenant(def store.Tenant) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := strings.TrimSpace(c.GetHeader(TenantHeader))
		if t == "" {
			t = string(def)
		}
		c.Set(tenantKey, store.Tenant(t))
		c.Next()
	}
}

func tenantOf(c *gin.Context) store.Tenant {
	if v, ok := c.Get(tenantKey); ok {
		if t, ok := v.(store.Tenant); ok {
			return t
		}
	}
	return store.DefaultTenant
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", TenantHeader},
		ExposeHeaders: []string{"Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"tenant", tenantOf(c),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Debug("HTTP request", fields...)
		}
	}
}

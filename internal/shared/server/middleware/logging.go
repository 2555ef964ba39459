package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cv-analyzer/internal/shared/server/respond"
	"cv-analyzer/internal/shared/telemetry"
)

// quietRoutes are polled by health checks and scrapers; they only log when they fail.
var quietRoutes = map[string]bool{
	"/metrics":          true,
	"/api/health":       true,
	"/api/health/ready": true,
}

// Logging writes one "request.complete" line per request after the chain has
// run, so values handlers stash under respond.Key* are included.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		began := time.Now()
		c.Next()

		status := c.Writer.Status()
		if quietRoutes[c.FullPath()] && status < 400 {
			return
		}
		levelFor(status)("request.complete", map[string]any{
			"request_id":        RequestIDFromContext(c),
			"analysis_id":       c.GetString(respond.KeyAnalysisID),
			"status_transition": c.GetString(respond.KeyTransition),
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"route":             c.FullPath(),
			"status":            status,
			"bytes":             c.Writer.Size(),
			"duration_ms":       float64(time.Since(began).Microseconds()) / 1000,
			"client_ip":         c.ClientIP(),
			"user_agent":        c.Request.UserAgent(),
		})
	}
}

func levelFor(status int) func(string, map[string]any) {
	switch {
	case status >= 500:
		return telemetry.Error
	case status >= 400:
		return telemetry.Warn
	default:
		return telemetry.Info
	}
}

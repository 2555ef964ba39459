package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-analyzer/internal/analyses"
	"cv-analyzer/internal/services/health"
	"cv-analyzer/internal/shared/config"
	"cv-analyzer/internal/shared/metrics"
	"cv-analyzer/internal/shared/server/middleware"
	"cv-analyzer/internal/shared/telemetry"
	"cv-analyzer/internal/uploads"
)

const (
	groupDefault = "DEFAULT"
	groupUpload  = "UPLOAD"
	groupPolling = "POLLING"
)

// RouterDeps holds the handlers mounted by NewRouter.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	Health          *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := uploads.RegisterValidators(); err != nil {
		telemetry.Error("server.validators_failed", map[string]any{"error": err})
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSOrigins),
		middleware.RateLimit(middleware.Throttle{
			Classify: rateLimitGroup,
			Rules: map[string]middleware.Rule{
				groupDefault: {PerSecond: 5, Burst: 20},
				groupUpload:  {PerSecond: 0.5, Burst: 5},
				groupPolling: {PerSecond: 5, Burst: 10},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	if deps.Health != nil {
		deps.Health.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	return r
}

func rateLimitGroup(c *gin.Context) string {
	switch {
	case c.Request.Method == http.MethodOptions:
		return ""
	case c.Request.Method == http.MethodPost && c.FullPath() == "/api/cv/upload":
		return groupUpload
	case c.Request.Method == http.MethodGet && c.FullPath() == "/api/cv/:id/status":
		return groupPolling
	default:
		return groupDefault
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

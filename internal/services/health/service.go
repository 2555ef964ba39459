package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cv-analyzer/internal/shared/server/respond"
	"cv-analyzer/internal/shared/telemetry"
)

const readyTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	Version string
	DB      Pinger
}

// NewService constructs a new health service. db may be nil when records
// are kept in memory.
func NewService(version string, db Pinger) *Service {
	return &Service{Version: version, DB: db}
}

// Status returns the liveness payload.
func (s *Service) Status() map[string]string {
	return map[string]string{"status": "ok", "version": s.Version}
}

// Ready reports whether the backing database answers.
func (s *Service) Ready(ctx context.Context) error {
	if s.DB == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()
	return s.DB.PingContext(ctx)
}

// RegisterRoutes attaches /health and /health/ready to rg.
func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		respond.OK(c, s.Status())
	})
	rg.GET("/health/ready", func(c *gin.Context) {
		if err := s.Ready(c.Request.Context()); err != nil {
			telemetry.Warn("health.not_ready", map[string]any{"error": err})
			respond.Error(c, http.StatusServiceUnavailable, "NOT_READY", "database unavailable", nil)
			return
		}
		respond.OK(c, gin.H{"status": "ready", "version": s.Version})
	})
}

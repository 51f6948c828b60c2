package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neilthomass/instaPFP/models"
)

// StatsReporter exposes pool utilisation for the health endpoint.
type StatsReporter interface {
	Stats() models.PoolStats
	Uptime() time.Duration
}

// Health returns a handler for GET /health.
//
// Reports session-pool utilisation and degrades status when > 80% of
// sessions are active.
func Health(sc StatsReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := sc.Stats()

		status := "healthy"
		if stats.MaxSessions > 0 && stats.ActiveSessions > int(float64(stats.MaxSessions)*0.8) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:    status,
			Uptime:    sc.Uptime().Round(time.Second).String(),
			PoolStats: stats,
			Version:   "0.1.0",
		})
	}
}

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/neilthomass/instaPFP/api/handler"
	"github.com/neilthomass/instaPFP/api/middleware"
	"github.com/neilthomass/instaPFP/config"
	"github.com/neilthomass/instaPFP/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	/pfp:    Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(sc *scraper.Scraper, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/health", handler.Health(sc))

	protected := r.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.GET("/pfp/:username", handler.PFP(sc))

	return r
}

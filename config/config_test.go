package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if !cfg.Browser.Headless {
		t.Error("headless should default to true")
	}
	if cfg.Browser.MaxSessions != 4 {
		t.Errorf("max sessions = %d", cfg.Browser.MaxSessions)
	}
	if cfg.Scraper.BaseURL != "https://www.instagram.com" {
		t.Errorf("base url = %s", cfg.Scraper.BaseURL)
	}
	if cfg.Scraper.ReadyTimeout != 12*time.Second {
		t.Errorf("ready timeout = %v", cfg.Scraper.ReadyTimeout)
	}
	if cfg.Cache.TTL != 15*time.Minute {
		t.Errorf("cache ttl = %v", cfg.Cache.TTL)
	}
	if cfg.Auth.Enabled {
		t.Error("auth should default to disabled")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PFP_PORT", "9090")
	t.Setenv("PFP_HEADLESS", "false")
	t.Setenv("PFP_CACHE_TTL", "30s")
	t.Setenv("PFP_BLOCKED_RESOURCES", "Image, Stylesheet")
	t.Setenv("PFP_RATE_RPS", "2.5")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Browser.Headless {
		t.Error("headless override ignored")
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("cache ttl = %v", cfg.Cache.TTL)
	}
	if len(cfg.Scraper.BlockedResourceTypes) != 2 || cfg.Scraper.BlockedResourceTypes[1] != "Stylesheet" {
		t.Errorf("blocked resources = %v", cfg.Scraper.BlockedResourceTypes)
	}
	if cfg.RateLimit.RequestsPerSecond != 2.5 {
		t.Errorf("rps = %v", cfg.RateLimit.RequestsPerSecond)
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("PFP_PORT", "not-a-port")
	t.Setenv("PFP_CACHE_TTL", "soon")

	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("malformed port should fall back, got %d", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 15*time.Minute {
		t.Errorf("malformed ttl should fall back, got %v", cfg.Cache.TTL)
	}
}

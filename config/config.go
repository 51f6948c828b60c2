package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls browser launching and the session pool.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path for the
	// system-browser fallback launch configuration.
	BrowserBin string

	// MaxSessions bounds the number of simultaneously live browser
	// processes. Requests beyond capacity wait up to AcquireTimeout.
	MaxSessions int // default: 4

	// LaunchTimeout bounds each individual launch-config attempt.
	LaunchTimeout time.Duration // default: 20s

	// AcquireTimeout is the maximum wait for a free session slot.
	AcquireTimeout time.Duration // default: 10s
}

// ScraperConfig controls profile page loading and extraction.
type ScraperConfig struct {
	// BaseURL is the profile URL prefix; the username and a trailing
	// slash are appended.
	BaseURL string // default: "https://www.instagram.com"

	// NavigationTimeout is the max time for the initial navigation.
	NavigationTimeout time.Duration // default: 20s

	// ReadyTimeout is the max wait for the profile-image readiness
	// marker after navigation.
	ReadyTimeout time.Duration // default: 12s

	// Stealth enables anti-bot-detection evasions before navigation.
	Stealth bool // default: true

	// BlockedResourceTypes lists resource types the page may skip
	// downloading. Blocking image bytes is safe: candidate URLs live in
	// DOM attributes, not in the decoded images.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-identity rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per identity.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per identity.
	Burst int // default: 3
}

// CacheConfig controls the username → URL result cache.
type CacheConfig struct {
	// TTL is how long a cached URL is served before a refetch.
	// Zero disables caching.
	TTL time.Duration // default: 15m

	// MaxEntries is the maximum number of cached usernames.
	MaxEntries int // default: 1000
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("PFP_HOST", "0.0.0.0"),
			Port: envIntOr("PFP_PORT", 8080),
			Mode: envOr("PFP_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:       envBoolOr("PFP_HEADLESS", true),
			NoSandbox:      envBoolOr("PFP_NO_SANDBOX", false),
			BrowserBin:     os.Getenv("PFP_BROWSER_BIN"),
			MaxSessions:    envIntOr("PFP_MAX_SESSIONS", 4),
			LaunchTimeout:  envDurationOr("PFP_LAUNCH_TIMEOUT", 20*time.Second),
			AcquireTimeout: envDurationOr("PFP_ACQUIRE_TIMEOUT", 10*time.Second),
		},
		Scraper: ScraperConfig{
			BaseURL:           envOr("PFP_BASE_URL", "https://www.instagram.com"),
			NavigationTimeout: envDurationOr("PFP_NAV_TIMEOUT", 20*time.Second),
			ReadyTimeout:      envDurationOr("PFP_READY_TIMEOUT", 12*time.Second),
			Stealth:           envBoolOr("PFP_STEALTH", true),
			BlockedResourceTypes: envSliceOr("PFP_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("PFP_AUTH_ENABLED", false),
			APIKeys: envSliceOr("PFP_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("PFP_RATE_RPS", 1.0),
			Burst:             envIntOr("PFP_RATE_BURST", 3),
		},
		Cache: CacheConfig{
			TTL:        envDurationOr("PFP_CACHE_TTL", 15*time.Minute),
			MaxEntries: envIntOr("PFP_CACHE_MAX_ENTRIES", 1000),
		},
		Log: LogConfig{
			Level:  envOr("PFP_LOG_LEVEL", "info"),
			Format: envOr("PFP_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}

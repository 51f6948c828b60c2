package models

// CandidateSource tags where an image candidate was discovered.
type CandidateSource string

const (
	// SourceSrcset marks candidates parsed from an image element's
	// srcset descriptor list (or its bare src attribute).
	SourceSrcset CandidateSource = "srcset"

	// SourceEmbeddedJSON marks candidates found in inline script JSON.
	// These carry no measured size; they are treated as the canonical
	// HD variants by the selection policy.
	SourceEmbeddedJSON CandidateSource = "embeddedJson"
)

// ImageCandidate is a discovered but not-yet-selected image URL with
// optional resolution metadata. The dedup key is the exact URL.
type ImageCandidate struct {
	URL    string          `json:"url"`
	Width  int             `json:"width,omitempty"`
	Height int             `json:"height,omitempty"`
	Source CandidateSource `json:"source"`
}

// PFPResult is the outcome of a successful pipeline run.
type PFPResult struct {
	Username string          `json:"username"`
	URL      string          `json:"url"`
	Width    int             `json:"width,omitempty"`
	Height   int             `json:"height,omitempty"`
	Source   CandidateSource `json:"source,omitempty"`

	// CacheStatus indicates whether the result was served from cache.
	// Values: "hit", "miss", or empty (caching disabled).
	CacheStatus string `json:"cache_status,omitempty"`
}

// PFPResponse is the JSON response for GET /pfp/:username.
type PFPResponse struct {
	// Success indicates whether the fetch completed without errors.
	Success bool `json:"success"`

	// Username echoes the requested profile.
	Username string `json:"username,omitempty"`

	// URL is the selected highest-resolution profile picture URL.
	URL string `json:"url,omitempty"`

	// Width/Height are set when the selected candidate carried explicit
	// size metadata.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Source records which scan produced the selected candidate.
	Source CandidateSource `json:"source,omitempty"`

	// CacheStatus indicates whether the response was served from cache.
	CacheStatus string `json:"cache_status,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// ScrapeMs is the time spent launching, navigating and extracting.
	ScrapeMs int64 `json:"scrape_ms,omitempty"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the browser session pool.
type PoolStats struct {
	MaxSessions    int `json:"max_sessions"`
	ActiveSessions int `json:"active_sessions"`
}

// Package scraper runs the profile-picture pipeline: session acquisition,
// page loading, candidate extraction and ranking, with a result cache on top.
package scraper

import (
	"context"
	"log/slog"
	"time"

	rodDevices "github.com/go-rod/rod/lib/devices"

	"github.com/neilthomass/instaPFP/browser"
	"github.com/neilthomass/instaPFP/cache"
	"github.com/neilthomass/instaPFP/config"
	"github.com/neilthomass/instaPFP/devices"
	"github.com/neilthomass/instaPFP/extract"
	"github.com/neilthomass/instaPFP/models"
)

// loadFunc matches loadProfile; injectable so pipeline tests run without
// a real browser.
type loadFunc func(ctx context.Context, h *browser.Handle, username string, dev rodDevices.Device) (string, error)

// Scraper coordinates one profile-picture fetch per call.
// It is safe for concurrent use; the cache is the only shared mutable state
// across requests.
type Scraper struct {
	scraperCfg config.ScraperConfig
	seq        *browser.Sequencer
	pool       *browser.Pool
	cache      *cache.Cache
	fetcher    *httpFetcher
	startTime  time.Time
	load       loadFunc
}

// New builds a Scraper. No browser is launched here: sessions are acquired
// per request through the launch sequencer and torn down with it.
func New(cfg *config.Config) *Scraper {
	s := &Scraper{
		scraperCfg: cfg.Scraper,
		seq:        browser.NewSequencer(cfg.Browser),
		pool:       browser.NewPool(cfg.Browser.MaxSessions, cfg.Browser.AcquireTimeout),
		cache:      cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries),
		fetcher:    newHTTPFetcher(),
		startTime:  time.Now(),
	}
	s.load = s.loadProfile
	return s
}

// FetchProfilePicture resolves the highest-resolution profile picture URL
// for the requested username.
//
// Pipeline: cache lookup → session slot → launch sequencer → page load
// (one internal retry on readiness timeout only) → both extraction scans →
// ranking → cache write. The session handle is released on every exit path,
// including extraction failure and caller cancellation; internal retries
// never cross this boundary.
func (s *Scraper) FetchProfilePicture(ctx context.Context, req *models.ProfileRequest) (*models.PFPResult, error) {
	req.Defaults()
	if req.Username == "" {
		return nil, models.NewFetchError(models.ErrCodeInvalidInput, "username must not be empty", nil)
	}

	dev, err := devices.Lookup(req.Device)
	if err != nil {
		return nil, err
	}

	if url, ok := s.cache.Get(req.Username); ok {
		slog.Debug("cache hit", "username", req.Username)
		return &models.PFPResult{Username: req.Username, URL: url, CacheStatus: "hit"}, nil
	}

	release, err := s.pool.Slot(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	h, err := s.seq.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer h.Release()

	html, err := s.load(ctx, h, req.Username, dev)
	if models.CodeOf(err) == models.ErrCodeTimeout && ctx.Err() == nil {
		slog.Info("readiness timeout, retrying once", "username", req.Username)
		html, err = s.load(ctx, h, req.Username, dev)
	}
	if err != nil {
		return nil, err
	}

	cands, err := extract.Candidates(html)
	if err != nil {
		return nil, err
	}
	best, err := extract.Select(cands)
	if err != nil {
		return nil, err
	}
	slog.Info("profile picture selected",
		"username", req.Username,
		"url", best.URL,
		"source", best.Source,
		"candidates", len(cands),
	)

	result := &models.PFPResult{
		Username: req.Username,
		URL:      best.URL,
		Width:    best.Width,
		Height:   best.Height,
		Source:   best.Source,
	}
	if s.cache.Enabled() {
		s.cache.Put(req.Username, best.URL)
		result.CacheStatus = "miss"
	}
	return result, nil
}

// FetchImage downloads the selected image and returns its bytes with the
// upstream content type. Used by the CLI save and the API image proxy.
func (s *Scraper) FetchImage(ctx context.Context, url string) ([]byte, string, error) {
	data, contentType, err := s.fetcher.fetch(ctx, url)
	if err != nil {
		return nil, "", models.NewFetchError(models.ErrCodeUpstream, "failed to fetch image", err)
	}
	return data, contentType, nil
}

// Stats returns a snapshot of the session pool's current state.
func (s *Scraper) Stats() models.PoolStats {
	return s.pool.Stats()
}

// Uptime reports how long this Scraper has been serving.
func (s *Scraper) Uptime() time.Duration {
	return time.Since(s.startTime)
}

// Package browser owns emulated-browser acquisition: an ordered sequence of
// launch configurations, a per-request session handle, and a bounded pool of
// live sessions.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/neilthomass/instaPFP/config"
	"github.com/neilthomass/instaPFP/models"
)

// LaunchConfig describes one browser-start strategy. Configs are attempted
// in declared order by the Sequencer.
type LaunchConfig struct {
	// Name identifies the strategy in logs and errors.
	Name string

	// Headless controls the headless mode for this attempt.
	Headless bool

	// Leakless wraps the browser in the leakless watchdog process.
	// Some sandboxes and AV setups refuse to execute it, which is the
	// main reason a later config disables it.
	Leakless bool

	// Bin overrides the browser binary path. Empty means Rod's managed
	// browser resolution.
	Bin string
}

// Handle is a live browser session. It is owned exclusively by the caller
// that acquired it until Release is called. Release is idempotent and must
// run on every exit path.
type Handle struct {
	Browser *rod.Browser
	Config  LaunchConfig

	release func()
	once    sync.Once
}

// NewHandle wraps a connected browser and its teardown func. Custom
// LaunchFunc implementations use this to build handles.
func NewHandle(b *rod.Browser, cfg LaunchConfig, release func()) *Handle {
	return &Handle{Browser: b, Config: cfg, release: release}
}

// Release terminates the underlying browser process unconditionally.
// Safe to call more than once and after partial failures.
func (h *Handle) Release() {
	h.once.Do(func() {
		if h.release != nil {
			h.release()
		}
	})
}

// LaunchFunc starts a browser for one LaunchConfig. It is injectable so the
// sequencing contract can be tested without Chrome.
type LaunchFunc func(ctx context.Context, cfg LaunchConfig) (*Handle, error)

// Sequencer attempts an ordered list of launch configurations, each attempt
// bounded by a fixed timeout, and yields the first session that comes up.
type Sequencer struct {
	configs        []LaunchConfig
	attemptTimeout time.Duration
	launch         LaunchFunc
}

// NewSequencer builds a Sequencer with the default config order and the real
// Rod launcher.
func NewSequencer(bcfg config.BrowserConfig) *Sequencer {
	return &Sequencer{
		configs:        DefaultConfigs(bcfg),
		attemptTimeout: bcfg.LaunchTimeout,
		launch: func(ctx context.Context, cfg LaunchConfig) (*Handle, error) {
			return launch(ctx, cfg, bcfg)
		},
	}
}

// NewSequencerFunc builds a Sequencer with explicit configs and launch
// function. Used by tests and by callers with custom fallback orders.
func NewSequencerFunc(configs []LaunchConfig, attemptTimeout time.Duration, fn LaunchFunc) *Sequencer {
	return &Sequencer{configs: configs, attemptTimeout: attemptTimeout, launch: fn}
}

// DefaultConfigs is the declared fallback order: the standard managed
// headless launch, the same without the leakless watchdog, then the system
// browser binary.
func DefaultConfigs(bcfg config.BrowserConfig) []LaunchConfig {
	bin := bcfg.BrowserBin
	if bin == "" {
		if p, ok := launcher.LookPath(); ok {
			bin = p
		}
	}
	return []LaunchConfig{
		{Name: "headless", Headless: bcfg.Headless, Leakless: true},
		{Name: "headless-direct", Headless: bcfg.Headless, Leakless: false},
		{Name: "system-browser", Headless: bcfg.Headless, Leakless: false, Bin: bin},
	}
}

// Acquire attempts each LaunchConfig in declared order and returns the first
// live Handle. When every configuration fails it returns a LAUNCH_FAILED
// error reporting the attempt count and wrapping the last underlying error.
func (s *Sequencer) Acquire(ctx context.Context) (*Handle, error) {
	var lastErr error
	attempts := 0

	for _, cfg := range s.configs {
		if ctx.Err() != nil {
			break
		}
		attempts++

		attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
		h, err := s.launch(attemptCtx, cfg)
		cancel()

		if err == nil {
			slog.Info("browser launched", "config", cfg.Name, "attempt", attempts)
			return h, nil
		}
		lastErr = err
		slog.Warn("launch config failed", "config", cfg.Name, "attempt", attempts, "error", err)
	}

	if lastErr == nil {
		lastErr = ctx.Err()
	}
	return nil, models.NewFetchError(
		models.ErrCodeLaunch,
		fmt.Sprintf("browser unobtainable after %d launch attempts", attempts),
		lastErr,
	)
}

// launch starts Chrome via the Rod launcher for one config and connects.
func launch(ctx context.Context, cfg LaunchConfig, bcfg config.BrowserConfig) (*Handle, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(bcfg.NoSandbox).
		Leakless(cfg.Leakless).
		Context(ctx)

	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	// Present as a regular browser, not an automated one.
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("no-default-browser-check"))

	controlURL, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, fmt.Errorf("launch %s: %w", cfg.Name, err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("connect %s: %w", cfg.Name, err)
	}

	return NewHandle(b, cfg, func() {
		_ = b.Close()
		l.Kill()
		l.Cleanup()
	}), nil
}

package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	rodDevices "github.com/go-rod/rod/lib/devices"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/neilthomass/instaPFP/browser"
	"github.com/neilthomass/instaPFP/extract"
	"github.com/neilthomass/instaPFP/models"
)

// Page markers the profile page renders for missing and private accounts.
// Both classify as PROFILE_NOT_FOUND; the message records which one matched.
var (
	reNotFound = regexp.MustCompile(`Sorry, this page isn(?:'|&#39;|’)t available`)
	rePrivate  = regexp.MustCompile(`[Tt]his [Aa]ccount [Ii]s [Pp]rivate`)
)

// loadProfile navigates a session to the profile page under the given
// device emulation and returns the rendered HTML once the profile-image
// readiness marker is present.
//
// Lifecycle, in a fixed order:
//
//  1. open page          – fresh tab on the acquired session
//  2. DEFER: page close  – the handle release kills the browser anyway,
//     but closing the tab keeps retries on the same session clean
//  3. emulate device     – viewport + mobile user-agent (before navigation)
//  4. stealth injection  – mask navigator.webdriver etc. (before navigation)
//  5. hijack mount       – skip image/font/media bytes (before navigation)
//  6. extra headers      – Referer, so the visit doesn't look typed-in
//  7. context binding    – propagate the request deadline to all Rod calls
//  8. navigate           – bounded by NavigationTimeout
//  9. readiness wait     – profile image element, bounded by ReadyTimeout
//  10. classify + HTML   – not-found/private markers beat a timeout verdict
func (s *Scraper) loadProfile(ctx context.Context, h *browser.Handle, username string, dev rodDevices.Device) (string, error) {
	page, err := h.Browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", models.NewFetchError(models.ErrCodeLaunch, "failed to open page on browser session", err)
	}
	defer func() { _ = page.Close() }()

	if err := page.Emulate(dev); err != nil {
		return "", models.NewFetchError(models.ErrCodeInternal, "device emulation failed", err)
	}

	if s.scraperCfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		}
	}

	router := setupHijack(page, s.scraperCfg.BlockedResourceTypes)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{
			"Referer": "https://www.google.com/",
		}),
	}.Call(page)

	p := page.Context(ctx)

	profileURL := fmt.Sprintf("%s/%s/", s.scraperCfg.BaseURL, username)
	if err := p.Timeout(s.scraperCfg.NavigationTimeout).Navigate(profileURL); err != nil {
		return "", classifyNavError(err, "navigation to profile page failed")
	}

	if _, err := p.Timeout(s.scraperCfg.ReadyTimeout).Element(extract.ProfileImageSelector); err != nil {
		// The marker never appeared. The page content decides whether
		// this is a dead profile or a genuine timeout.
		if html, htmlErr := p.HTML(); htmlErr == nil {
			if nfErr := classifyMarkers(html, username); nfErr != nil {
				return "", nfErr
			}
		}
		return "", classifyNavError(err, "profile image readiness marker absent")
	}

	html, err := p.HTML()
	if err != nil {
		return "", classifyNavError(err, "failed to extract page HTML")
	}
	if nfErr := classifyMarkers(html, username); nfErr != nil {
		return "", nfErr
	}
	return html, nil
}

// classifyMarkers returns PROFILE_NOT_FOUND when the page carries a
// missing-profile or private-account marker, nil otherwise.
func classifyMarkers(html, username string) error {
	if reNotFound.MatchString(html) {
		return models.NewFetchError(models.ErrCodeNotFound,
			fmt.Sprintf("profile @%s does not exist", username), nil)
	}
	if rePrivate.MatchString(html) {
		return models.NewFetchError(models.ErrCodeNotFound,
			fmt.Sprintf("profile @%s is private", username), nil)
	}
	return nil
}

// classifyNavError wraps raw navigation errors into typed FetchErrors so
// callers can retry timeouts and map the rest to HTTP statuses. A canceled
// caller is neither: the context error surfaces as-is and is never retried.
func classifyNavError(err error, msg string) error {
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewFetchError(models.ErrCodeTimeout, msg, err)
	default:
		return models.NewFetchError(models.ErrCodeUpstream, msg, err)
	}
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

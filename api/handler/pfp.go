package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neilthomass/instaPFP/models"
)

// ProfileFetcher is what the pfp handler needs from the pipeline. Declared
// here so handler tests can stub the pipeline without a browser.
type ProfileFetcher interface {
	FetchProfilePicture(ctx context.Context, req *models.ProfileRequest) (*models.PFPResult, error)
	FetchImage(ctx context.Context, url string) ([]byte, string, error)
}

// PFP returns a handler for GET /pfp/:username.
//
// Query parameters:
//
//	redirect=1    → 302 to the selected candidate URL (no proxying)
//	format=json   → 200 {"url": ...} metadata
//	format=image  → proxied image bytes with the upstream content type (default)
//	device=<name> → named device-emulation preset; unknown names are a 400
func PFP(svc ProfileFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		req := &models.ProfileRequest{
			Username: c.Param("username"),
			Device:   c.Query("device"),
			Format:   c.Query("format"),
		}
		if c.Query("redirect") == "1" {
			req.Format = models.FormatRedirect
		}
		req.Defaults()

		if req.Format != models.FormatImage && req.Format != models.FormatJSON && req.Format != models.FormatRedirect {
			respondError(c, models.NewFetchError(
				models.ErrCodeInvalidInput, "format must be image, json or redirect", nil,
			), models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()})
			return
		}

		scrapeStart := time.Now()
		result, err := svc.FetchProfilePicture(c.Request.Context(), req)
		scrapeMs := time.Since(scrapeStart).Milliseconds()

		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs:  time.Since(totalStart).Milliseconds(),
				ScrapeMs: scrapeMs,
			})
			return
		}

		switch req.Format {
		case models.FormatRedirect:
			c.Redirect(http.StatusFound, result.URL)

		case models.FormatJSON:
			c.JSON(http.StatusOK, models.PFPResponse{
				Success:     true,
				Username:    result.Username,
				URL:         result.URL,
				Width:       result.Width,
				Height:      result.Height,
				Source:      result.Source,
				CacheStatus: result.CacheStatus,
				Timing: models.TimingInfo{
					TotalMs:  time.Since(totalStart).Milliseconds(),
					ScrapeMs: scrapeMs,
				},
			})

		default: // image
			data, contentType, fetchErr := svc.FetchImage(c.Request.Context(), result.URL)
			if fetchErr != nil {
				respondError(c, fetchErr, models.TimingInfo{
					TotalMs:  time.Since(totalStart).Milliseconds(),
					ScrapeMs: scrapeMs,
				})
				return
			}
			c.Data(http.StatusOK, contentType, data)
		}
	}
}

// respondError maps a FetchError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	fetchErr, ok := err.(*models.FetchError)
	if !ok {
		fetchErr = models.NewFetchError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(fetchErr), models.PFPResponse{
		Success: false,
		Error:   fetchErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.FetchError) int {
	switch e.Code {
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	case models.ErrCodeExtraction, models.ErrCodeUpstream:
		return http.StatusBadGateway // 502
	case models.ErrCodeLaunch, models.ErrCodeBusy:
		return http.StatusServiceUnavailable // 503
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}

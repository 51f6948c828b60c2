package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/neilthomass/instaPFP/models"
)

// stubFetcher satisfies ProfileFetcher with canned results.
type stubFetcher struct {
	result   *models.PFPResult
	err      error
	image    []byte
	imageErr error

	gotReq *models.ProfileRequest
	calls  int
}

func (s *stubFetcher) FetchProfilePicture(_ context.Context, req *models.ProfileRequest) (*models.PFPResult, error) {
	s.calls++
	s.gotReq = req
	return s.result, s.err
}

func (s *stubFetcher) FetchImage(_ context.Context, _ string) ([]byte, string, error) {
	if s.imageErr != nil {
		return nil, "", s.imageErr
	}
	return s.image, "image/jpeg", nil
}

func newTestRouter(svc ProfileFetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/pfp/:username", PFP(svc))
	return r
}

func doRequest(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestPFP_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{models.ErrCodeNotFound, http.StatusNotFound},
		{models.ErrCodeExtraction, http.StatusBadGateway},
		{models.ErrCodeUpstream, http.StatusBadGateway},
		{models.ErrCodeLaunch, http.StatusServiceUnavailable},
		{models.ErrCodeBusy, http.StatusServiceUnavailable},
		{models.ErrCodeTimeout, http.StatusGatewayTimeout},
		{models.ErrCodeInvalidInput, http.StatusBadRequest},
		{models.ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			svc := &stubFetcher{err: models.NewFetchError(tt.code, "boom", nil)}
			w := doRequest(t, newTestRouter(svc), "/pfp/someuser?format=json")

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}

			var resp models.PFPResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("bad response body: %v", err)
			}
			if resp.Success {
				t.Error("error responses must set success=false")
			}
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("error detail = %+v, want code %s", resp.Error, tt.code)
			}
		})
	}
}

func TestPFP_JSONFormat(t *testing.T) {
	svc := &stubFetcher{result: &models.PFPResult{
		Username:    "someuser",
		URL:         "https://cdn.test/s640x640/pic.jpg",
		Width:       640,
		Source:      models.SourceSrcset,
		CacheStatus: "miss",
	}}
	w := doRequest(t, newTestRouter(svc), "/pfp/someuser?format=json")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp models.PFPResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Success || resp.URL != "https://cdn.test/s640x640/pic.jpg" || resp.Width != 640 {
		t.Errorf("response = %+v", resp)
	}
}

func TestPFP_RedirectFormat(t *testing.T) {
	svc := &stubFetcher{result: &models.PFPResult{URL: "https://cdn.test/pic.jpg"}}

	for _, path := range []string{"/pfp/someuser?format=redirect", "/pfp/someuser?redirect=1"} {
		w := doRequest(t, newTestRouter(svc), path)
		if w.Code != http.StatusFound {
			t.Errorf("%s: status = %d, want 302", path, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "https://cdn.test/pic.jpg" {
			t.Errorf("%s: location = %q", path, loc)
		}
	}
}

func TestPFP_ImageFormatProxiesBytes(t *testing.T) {
	svc := &stubFetcher{
		result: &models.PFPResult{URL: "https://cdn.test/pic.jpg"},
		image:  []byte{0xFF, 0xD8, 0xFF},
	}
	w := doRequest(t, newTestRouter(svc), "/pfp/someuser")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("content type = %q", ct)
	}
	if w.Body.Len() != 3 {
		t.Errorf("body length = %d, want the proxied bytes", w.Body.Len())
	}
}

func TestPFP_ImageFetchFailureIs502(t *testing.T) {
	svc := &stubFetcher{
		result:   &models.PFPResult{URL: "https://cdn.test/pic.jpg"},
		imageErr: models.NewFetchError(models.ErrCodeUpstream, "cdn refused", nil),
	}
	w := doRequest(t, newTestRouter(svc), "/pfp/someuser")

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestPFP_UnknownFormatRejectedBeforeFetch(t *testing.T) {
	svc := &stubFetcher{result: &models.PFPResult{URL: "u"}}
	w := doRequest(t, newTestRouter(svc), "/pfp/someuser?format=yaml")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if svc.calls != 0 {
		t.Error("invalid format must be rejected before the pipeline runs")
	}
}

func TestPFP_PassesDeviceAndUsernameThrough(t *testing.T) {
	svc := &stubFetcher{result: &models.PFPResult{URL: "u"}}
	doRequest(t, newTestRouter(svc), "/pfp/@SomeUser?format=json&device=pixel-2")

	if svc.gotReq == nil {
		t.Fatal("pipeline never called")
	}
	if svc.gotReq.Username != "SomeUser" {
		t.Errorf("username = %q, want @ stripped", svc.gotReq.Username)
	}
	if svc.gotReq.Device != "pixel-2" {
		t.Errorf("device = %q", svc.gotReq.Device)
	}
}

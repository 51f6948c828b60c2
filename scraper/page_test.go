package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/neilthomass/instaPFP/models"
)

func TestClassifyMarkers(t *testing.T) {
	tests := []struct {
		name string
		html string
		code string
	}{
		{"missing profile", `<span>Sorry, this page isn't available.</span>`, models.ErrCodeNotFound},
		{"html-escaped apostrophe", `Sorry, this page isn&#39;t available.`, models.ErrCodeNotFound},
		{"curly apostrophe", `Sorry, this page isn’t available.`, models.ErrCodeNotFound},
		{"private account", `<h2>This Account is Private</h2>`, models.ErrCodeNotFound},
		{"normal page", `<img alt="profile picture" src="x">`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyMarkers(tt.html, "someuser")
			if got := models.CodeOf(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestClassifyNavError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"deadline", context.DeadlineExceeded, models.ErrCodeTimeout},
		{"wrapped deadline", errors.Join(errors.New("navigate"), context.DeadlineExceeded), models.ErrCodeTimeout},
		{"anything else", errors.New("net::ERR_CONNECTION_RESET"), models.ErrCodeUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classifyNavError(tt.err, "boom")
			if got := models.CodeOf(classified); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
			if !errors.Is(classified, tt.err) {
				t.Error("classified error should wrap the original")
			}
		})
	}
}

func TestClassifyNavError_CancellationIsNotATimeout(t *testing.T) {
	for _, err := range []error{
		context.Canceled,
		errors.Join(errors.New("navigate"), context.Canceled),
	} {
		classified := classifyNavError(err, "boom")
		if !errors.Is(classified, context.Canceled) {
			t.Errorf("cancellation should surface as-is, got %v", classified)
		}
		if models.CodeOf(classified) == models.ErrCodeTimeout {
			t.Error("a hung-up caller must not be recorded as a retryable timeout")
		}
	}
}

func TestToHeadersMap(t *testing.T) {
	m := toHeadersMap(map[string]string{"Referer": "https://www.google.com/"})
	if got := m["Referer"].Str(); got != "https://www.google.com/" {
		t.Errorf("Referer = %q", got)
	}
}

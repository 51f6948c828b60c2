package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func authRouter(keys []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(keys))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestAuth_NoOpWithoutKeys(t *testing.T) {
	w := httptest.NewRecorder()
	authRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want open access with no configured keys", w.Code)
	}
}

func TestAuth_MissingKey(t *testing.T) {
	w := httptest.NewRecorder()
	authRouter([]string{"secret"}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_HeaderStyles(t *testing.T) {
	r := authRouter([]string{"secret"})

	tests := []struct {
		name   string
		header string
		value  string
		status int
	}{
		{"x-api-key valid", "X-API-Key", "secret", http.StatusOK},
		{"x-api-key invalid", "X-API-Key", "wrong", http.StatusUnauthorized},
		{"bearer valid", "Authorization", "Bearer secret", http.StatusOK},
		{"bearer invalid", "Authorization", "Bearer wrong", http.StatusUnauthorized},
		{"basic scheme rejected", "Authorization", "Basic secret", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set(tt.header, tt.value)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

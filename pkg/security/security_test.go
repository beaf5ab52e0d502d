package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

func TestSecureHeaders(t *testing.T) {
	router := gin.New()
	router.Use(Secure())
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/api/responses/1", ok)
	router.GET("/metrics", ok)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/responses/1", nil))
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store on api paths", got)
	}
	if got := w.Header().Get("Referrer-Policy"); got != "no-referrer" {
		t.Errorf("Referrer-Policy = %q, want no-referrer", got)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if got := w.Header().Get("Cache-Control"); got != "" {
		t.Errorf("Cache-Control = %q on non-api path, want unset", got)
	}
}

func TestRateLimiterExemptsHealth(t *testing.T) {
	router := gin.New()
	router.Use(RateLimiter(1, time.Minute))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/api/health", ok)
	router.GET("/api/surveys", ok)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("health probe %d limited: status %d", i, w.Code)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/surveys", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first data request: status %d, want 200", w.Code)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/surveys", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second data request: status %d, want 429", w.Code)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func authRouter(key string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequireAPIKey(key))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return router
}

func TestRequireAPIKey(t *testing.T) {
	router := authRouter("secret")

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer secret", http.StatusOK},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic secret", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimit(1))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-User-ID", "u1")
	router.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("first request: status = %d", first.Code)
	}

	// burst exhausted after a couple of immediate requests
	var limited bool
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("rate limiter never tripped")
	}

	// a different user has their own budget
	other := httptest.NewRecorder()
	otherReq := httptest.NewRequest(http.MethodGet, "/ping", nil)
	otherReq.Header.Set("X-User-ID", "u2")
	router.ServeHTTP(other, otherReq)
	if other.Code != http.StatusOK {
		t.Errorf("second user: status = %d, want 200", other.Code)
	}
}

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"postpilot/internal/handlers"
	"postpilot/internal/middleware"
	"postpilot/internal/pipeline"
	"postpilot/internal/session"
)

// testRouter builds the route tree with inert dependencies. Requests
// without a session cookie never touch Valkey, so an unconnected client
// is fine for routing tests.
func testRouter(t *testing.T) http.Handler {
	t.Helper()

	sessions := session.NewStore(redis.NewClient(&redis.Options{Addr: "localhost:1"}), false)
	limiter := middleware.NewRateLimiter(100, time.Minute)
	t.Cleanup(limiter.Stop)

	p := pipeline.New(nil)
	return New(Deps{
		Sessions:   sessions,
		AILimiter:  limiter,
		Auth:       handlers.NewAuth(sessions, nil, nil, nil),
		Write:      handlers.NewWrite(p, "postpilot", "test"),
		Thumbnails: handlers.NewThumbnails(p),
		Keywords:   handlers.NewKeywords(nil, nil, nil),
		Contents:   handlers.NewContents(nil, nil, nil, nil),
		Settings:   handlers.NewSettings(nil),
	})
}

func TestHealthRoutes(t *testing.T) {
	r := testRouter(t)

	for _, path := range []string{"/api/health", "/api/write/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rr.Code)
		}
		var resp map[string]string
		json.Unmarshal(rr.Body.Bytes(), &resp)
		if resp["status"] != "ok" {
			t.Errorf("GET %s body = %v", path, resp)
		}
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := testRouter(t)

	protected := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/write"},
		{http.MethodPost, "/api/write/refine"},
		{http.MethodPost, "/api/write/validate"},
		{http.MethodPost, "/api/write/fix"},
		{http.MethodPost, "/api/thumbnails"},
		{http.MethodPost, "/api/keywords/analyze"},
		{http.MethodPost, "/api/keywords/top"},
		{http.MethodGet, "/api/contents/"},
		{http.MethodPost, "/api/contents/"},
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPut, "/api/auth/password"},
		{http.MethodPut, "/api/auth/profile"},
		{http.MethodGet, "/api/keywords/history"},
		{http.MethodGet, "/api/settings/wordpress"},
		{http.MethodDelete, "/api/settings/wordpress"},
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodPost, "/api/auth/2fa/setup"},
	}

	for _, tt := range protected {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", tt.method, tt.path, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s %s Content-Type = %q, want application/json", tt.method, tt.path, ct)
		}
	}
}

func TestResetPasswordIsPublic(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password",
		strings.NewReader(`{"email":"someone@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 without a session", rr.Code)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddlewareAllowsAllInDevMode(t *testing.T) {
	os.Unsetenv("SEEDFINDER_AUTH_TOKEN")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)

	AuthMiddleware()(c)

	if c.IsAborted() {
		t.Fatal("expected request to pass through when no token is configured")
	}
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	t.Setenv("SEEDFINDER_AUTH_TOKEN", "secret")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)

	AuthMiddleware()(c)

	if !c.IsAborted() || w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 + aborted, got code=%d aborted=%v", w.Code, c.IsAborted())
	}
}

func TestAuthMiddlewareAcceptsMatchingBearerToken(t *testing.T) {
	t.Setenv("SEEDFINDER_AUTH_TOKEN", "secret")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	c.Request.Header.Set("Authorization", "Bearer secret")

	AuthMiddleware()(c)

	if c.IsAborted() {
		t.Fatal("expected request with matching bearer token to pass through")
	}
}

func TestIsExhaustiveModeEnabledDefaultsFalse(t *testing.T) {
	os.Unsetenv("SEEDFINDER_ENABLE_EXHAUSTIVE")
	if IsExhaustiveModeEnabled() {
		t.Fatal("exhaustive mode must default to disabled")
	}
	t.Setenv("SEEDFINDER_ENABLE_EXHAUSTIVE", "true")
	if !IsExhaustiveModeEnabled() {
		t.Fatal("expected exhaustive mode enabled once the env var is set")
	}
}

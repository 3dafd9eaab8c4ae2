package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":"ok"}`, rec.Body.String())
}

func TestRequestLogging(t *testing.T) {
	ts := newTestServer(t)

	ts.do(http.MethodGet, "/api/health?source=cli", "", nil)

	var found bool
	for _, entry := range ts.hook.AllEntries() {
		if entry.Message == "incoming request: GET /api/health?source=cli" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodOptions, "/api/user/auth/signin", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestDocs(t *testing.T) {
	ts := newTestServer(t)

	for _, surface := range []string{"user", "admin"} {
		rec := ts.do(http.MethodGet, "/api/docs/"+surface, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "SwaggerUIBundle")
		assert.Contains(t, rec.Body.String(), "/api/docs/"+surface+"/openapi.yaml")

		rec = ts.do(http.MethodGet, "/api/docs/"+surface+"/openapi.yaml", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "openapi: 3.0.0"))

		rec = ts.do(http.MethodGet, "/api/docs/"+surface+"/openapi.json", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		doc := decode(t, rec)
		assert.Equal(t, "3.0.0", doc["openapi"])
		assert.Contains(t, doc["components"].(map[string]any)["securitySchemes"], "bearerAuth")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	ts.do(http.MethodPost, "/api/user/auth/signin", "", map[string]string{"email": "nobody@example.com", "password": "x"})

	rec := ts.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `blog_auth_outcomes_total{operation="signin_user",outcome="invalid_credentials"} 1`)
	assert.Contains(t, body, `blog_http_requests_total{method="POST",route="/api/user/auth/signin",status_code="401"} 1`)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(0.001), 2, time.Hour)
	t.Cleanup(limiter.Stop)
	ts := newTestServer(t, func(o *Options) { o.Limiter = limiter })

	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/health", "", nil).Code)

	rec := ts.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "Too many requests, please try again later.", decode(t, rec)["error"])
}

func healthFrom(ts *testServer, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
		req.Header.Set("X-Real-IP", forwardedFor)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitMiddleware_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(0.001), 1, time.Hour)
	t.Cleanup(limiter.Stop)
	ts := newTestServer(t, func(o *Options) { o.Limiter = limiter })

	allowed := 0
	for i := 0; i < 20; i++ {
		if healthFrom(ts, "203.0.113.7:40000", fmt.Sprintf("198.51.100.%d", i+1)) == http.StatusOK {
			allowed++
		}
	}

	assert.Equal(t, 1, allowed)
	assert.Equal(t, 1, limiter.Len())
}

func TestRateLimitMiddleware_HonorsForwardedForFromTrustedProxy(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(0.001), 1, time.Hour)
	t.Cleanup(limiter.Stop)
	ts := newTestServer(t, func(o *Options) {
		o.Limiter = limiter
		o.TrustedProxies = []string{"10.0.0.0/8"}
	})

	assert.Equal(t, http.StatusOK, healthFrom(ts, "10.1.2.3:40000", "198.51.100.1"))
	assert.Equal(t, http.StatusOK, healthFrom(ts, "10.1.2.3:40000", "198.51.100.2"))
	assert.Equal(t, http.StatusTooManyRequests, healthFrom(ts, "10.1.2.3:40000", "198.51.100.1"))
	assert.Equal(t, 2, limiter.Len())
}

func TestRouter_RejectsInvalidTrustedProxy(t *testing.T) {
	logger, _ := test.NewNullLogger()
	h := NewHandler(nil, nil, nil, logger, Options{PublicURL: "http://blog.test", TrustedProxies: []string{"not-an-ip"}})

	_, err := h.Router()
	assert.Error(t, err)
}

func TestNewHandler_WarnsWithoutPublicURL(t *testing.T) {
	logger, hook := test.NewNullLogger()

	NewHandler(nil, nil, nil, logger, Options{})

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "server.publicurl")

	hook.Reset()
	NewHandler(nil, nil, nil, logger, Options{PublicURL: "https://blog.example.com"})
	assert.Empty(t, hook.AllEntries())
}

func TestRateLimiter_PerClientAndCleanup(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(0.001), 1, time.Minute)
	t.Cleanup(limiter.Stop)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
	assert.Equal(t, 2, limiter.Len())

	limiter.cleanup(time.Now().Add(time.Minute))
	assert.Equal(t, 2, limiter.Len())

	limiter.cleanup(time.Now().Add(3 * time.Minute))
	assert.Equal(t, 0, limiter.Len())

	limiter.Stop()
	limiter.Stop()
}

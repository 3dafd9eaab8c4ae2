package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest(http.MethodPost, "/api/user/auth/signin", 200, 15*time.Millisecond)
	c.RecordRequest(http.MethodPost, "/api/user/auth/signin", 200, 5*time.Millisecond)
	c.RecordRequest(http.MethodGet, "", 404, time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(c.requests.WithLabelValues("POST", "/api/user/auth/signin", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.requests.WithLabelValues("GET", "unmatched", "404")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(c.latency))
}

func TestCollector_AuthOutcomesAndRateLimit(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthOutcome("signin_user", "success")
	c.RecordAuthOutcome("signin_user", "invalid_credentials")
	c.RecordAuthOutcome("signin_user", "invalid_credentials")
	c.RecordRateLimited()

	assert.InDelta(t, 2, testutil.ToFloat64(c.authOutcomes.WithLabelValues("signin_user", "invalid_credentials")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.rateLimited), 0)
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordAuthOutcome("gate", "access_denied")

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `blog_auth_outcomes_total{operation="gate",outcome="access_denied"} 1`)
}

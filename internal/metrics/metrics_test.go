package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.IncResolutions("tiktok", "success")
	m.IncResolutions("tiktok", "success")
	m.IncProviderCalls("tikwm", "rate_limited")
	m.IncCacheLookups(CacheHit)
	m.SetWindowRequests("facebook", 42)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.resolutionsTotal.WithLabelValues("tiktok", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerCalls.WithLabelValues("tikwm", "rate_limited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues(CacheHit)))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.windowRequests.WithLabelValues("facebook")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.IncHTTPRequests(http.StatusOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `mediafetch_http_requests_total{status="200"} 1`)
}

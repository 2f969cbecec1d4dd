package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsManager_CountersExposed(t *testing.T) {
	m := NewMetricsManager("dealership-service")

	m.OrdersPlacedTotal.Inc()
	m.OrdersPlacedTotal.Inc()
	m.HTTPRequestsTotal.WithLabelValues("/api/cart", "GET", "200").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrdersPlacedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/cart", "GET", "200")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dealership_service_orders_placed_total 2")
}

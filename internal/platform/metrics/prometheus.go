package metrics

import (
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager holds custom Prometheus metrics.
type MetricsManager struct {
	Registry            *prometheus.Registry
	OrdersPlacedTotal   prometheus.Counter
	OrdersCancelled     prometheus.Counter
	UsersRegistered     prometheus.Counter
	FailedLoginsTotal   prometheus.Counter
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()
	namespace := strings.ReplaceAll(serviceName, "-", "_")

	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed through checkout.",
	})
	ordersCancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_cancelled_total",
		Help:      "Total number of orders cancelled by their owners.",
	})
	usersRegistered := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user registrations.",
	})
	failedLogins := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "failed_logins_total",
		Help:      "Total number of rejected login attempts.",
	})
	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	registry.MustRegister(
		ordersPlaced,
		ordersCancelled,
		usersRegistered,
		failedLogins,
		requestsTotal,
		requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:            registry,
		OrdersPlacedTotal:   ordersPlaced,
		OrdersCancelled:     ordersCancelled,
		UsersRegistered:     usersRegistered,
		FailedLoginsTotal:   failedLogins,
		HTTPRequestsTotal:   requestsTotal,
		HTTPRequestDuration: requestDuration,
	}
}

func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// StartMetricsServer serves /metrics on a dedicated port. An empty port
// disables the server; the main router still exposes /metrics.
func StartMetricsServer(port string, log logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		log.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	log.Infow("Prometheus metrics server starting", "port", port, "path", "/metrics")

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	return server.ListenAndServe()
}

func (m *MetricsManager) IncOrdersPlaced() {
	if m != nil {
		m.OrdersPlacedTotal.Inc()
	}
}

func (m *MetricsManager) IncOrdersCancelled() {
	if m != nil {
		m.OrdersCancelled.Inc()
	}
}

func (m *MetricsManager) IncUsersRegistered() {
	if m != nil {
		m.UsersRegistered.Inc()
	}
}

func (m *MetricsManager) IncFailedLogins() {
	if m != nil {
		m.FailedLoginsTotal.Inc()
	}
}

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"airbnb-dashboard/services"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	derivationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_derivation_duration_seconds",
			Help:    "Time spent computing one dashboard output",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
		[]string{"output"},
	)

	derivationRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dashboard_derivation_rows",
			Help: "Entries produced by the last run of each output",
		},
		[]string{"output"},
	)

	wsSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_websocket_sessions",
			Help: "Number of open dashboard websocket sessions",
		},
	)
)

// ObserveDerivation records one derivation run; install it with
// Dispatcher.SetObserver.
func ObserveDerivation(out services.Output, elapsed time.Duration, rows int) {
	derivationDuration.WithLabelValues(string(out)).Observe(elapsed.Seconds())
	derivationRows.WithLabelValues(string(out)).Set(float64(rows))
}

// statusOf reports the response status, 101 for hijacked websocket upgrades.
func statusOf(ww chimw.WrapResponseWriter, r *http.Request) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	if websocket.IsWebSocketUpgrade(r) {
		return http.StatusSwitchingProtocols
	}
	return http.StatusOK
}

// routePattern keeps metric labels low-cardinality.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// Metrics records request counts and latencies per route.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(statusOf(ww, r))).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

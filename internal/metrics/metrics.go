package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login results
const (
	LoginSuccess  = "success"
	LoginRejected = "rejected"
	LoginError    = "error"
)

var (
	// Logins counts login submissions by outcome.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wash24_admin",
		Name:      "logins_total",
		Help:      "Login submissions by result.",
	}, []string{"result"})

	// ForcedLogouts counts sessions ended by a 401 from the backend.
	ForcedLogouts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wash24_admin",
		Name:      "forced_logouts_total",
		Help:      "Sessions cleared after the backend rejected the bearer token.",
	})

	// GuardRedirects counts route guard redirects by target path.
	GuardRedirects = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wash24_admin",
		Name:      "guard_redirects_total",
		Help:      "Route guard redirects by target.",
	}, []string{"target"})

	// UpstreamRequests counts backend calls by method and status code.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wash24_admin",
		Name:      "upstream_requests_total",
		Help:      "Backend requests by method and status. Status 0 is a transport error.",
	}, []string{"method", "status"})

	// UpstreamDuration observes backend latency.
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wash24_admin",
		Name:      "upstream_request_duration_seconds",
		Help:      "Backend request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

// ObserveUpstream records one backend round trip.
func ObserveUpstream(method string, status int, seconds float64) {
	UpstreamRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	UpstreamDuration.WithLabelValues(method).Observe(seconds)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

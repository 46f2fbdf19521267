// Package metrics defines the Prometheus instruments for the shop:
// the usual HTTP metrics plus domain counters for order placement,
// cart mutations, and history rebuilds.
//
// Everything registers on the default Prometheus registry, so the gRPC
// interceptors' promauto metrics land on the same /metrics page:
//
//	r.Use(metrics.Middleware())
//	r.HandleFunc("/metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration measures HTTP latency by method, route, status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vastra",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// RequestTotal counts HTTP requests by method, route, status.
	RequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vastra",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	// RequestInFlight gauges requests currently being served.
	RequestInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "vastra",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// DBQueryDuration measures query latency by operation name.
	DBQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vastra",
		Subsystem: "db",
		Name:      "query_duration_seconds",
		Help:      "Duration of database queries in seconds.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
	}, []string{"operation"})

	// QueueJobsProcessed counts finished queue jobs by job type and
	// outcome ("ok" | "failed").
	QueueJobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vastra",
		Subsystem: "queue",
		Name:      "jobs_processed_total",
		Help:      "Total queue jobs processed.",
	}, []string{"type", "status"})
)

var (
	// OrdersPlaced counts committed order placements.
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vastra",
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Total orders successfully placed.",
	})

	// OrderLinesConverted counts cart lines flipped into order details.
	OrderLinesConverted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vastra",
		Subsystem: "orders",
		Name:      "lines_converted_total",
		Help:      "Total cart lines converted into order details.",
	})

	// CartMutations counts cart writes: "add" | "merge" | "update" | "remove".
	CartMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vastra",
		Subsystem: "cart",
		Name:      "mutations_total",
		Help:      "Total cart mutations.",
	}, []string{"kind"})

	// HistoryRebuilds counts order-history reconstructions served.
	HistoryRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vastra",
		Subsystem: "orders",
		Name:      "history_rebuilds_total",
		Help:      "Total order-history reconstructions served.",
	})
)

// statusWriter captures the response code for labeling.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records duration, totals, and the in-flight gauge for
// every request passing through the router.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)

			// Raw path; acceptable cardinality for this API surface.
			labels := []string{r.Method, r.URL.Path, strconv.Itoa(sw.status)}
			RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(labels...).Inc()
		})
	}
}

// Handler serves the metrics page. Mount on GET /metrics.
func Handler() http.HandlerFunc {
	return promhttp.Handler().ServeHTTP
}

// ObserveDBQuery records one query's duration:
//
//	defer metrics.ObserveDBQuery("order_history_join", time.Now())
func ObserveDBQuery(operation string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

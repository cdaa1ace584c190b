package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
)

// Recorder exposes ledger and HTTP metrics on its own registry
type Recorder struct {
	registry     *prometheus.Registry
	operations   *prometheus.CounterVec
	amounts      *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var _ coreport.MetricsRecorder = (*Recorder)(nil)

// NewRecorder creates a recorder with the Go runtime and process collectors registered
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Ledger operations by outcome.",
			},
			[]string{"operation", "result"},
		),
		amounts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_amount_minor_units_total",
				Help: "Money moved through the ledger in minor units.",
			},
			[]string{"direction"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.operations,
		r.amounts,
		r.httpDuration,
	)
	return r
}

// ObserveOperation counts one ledger operation with its outcome
func (r *Recorder) ObserveOperation(operation, result string) {
	r.operations.WithLabelValues(operation, result).Inc()
}

// AddAmount accumulates minor units moved in the given direction
func (r *Recorder) AddAmount(direction string, amount int64) {
	if amount <= 0 {
		return
	}
	r.amounts.WithLabelValues(direction).Add(float64(amount))
}

// ObserveHTTPRequest records the latency of one HTTP request
func (r *Recorder) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	r.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// RegisterDBStats exports the connection pool statistics of db
func (r *Recorder) RegisterDBStats(db *sql.DB, dbName string) error {
	return r.registry.Register(collectors.NewDBStatsCollector(db, dbName))
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

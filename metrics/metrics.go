package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the process-wide counters and gauges exposed on /metrics.
// Counters are monotonic for the process lifetime and safe under
// concurrent increments.
type Metrics struct {
	registry *prometheus.Registry
	start    time.Time

	// Requests counts every inbound HTTP request, incremented before
	// routing. Errors counts handler-level failures, client-caused or not.
	Requests prometheus.Counter
	Errors   prometheus.Counter

	dbConnected func() bool

	uptimeDesc *prometheus.Desc
	memoryDesc *prometheus.Desc
	dbDesc     *prometheus.Desc
}

// New builds the registry. dbConnected reports the store's current
// connection state; it must not perform I/O.
func New(dbConnected func() bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		start:    time.Now(),
		Requests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campgo_requests_total",
			Help: "Total number of requests",
		}),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campgo_errors_total",
			Help: "Total number of errors",
		}),
		dbConnected: dbConnected,
		uptimeDesc: prometheus.NewDesc(
			"campgo_uptime_seconds",
			"Service uptime in seconds",
			nil, nil,
		),
		memoryDesc: prometheus.NewDesc(
			"campgo_memory_usage_bytes",
			"Memory usage in bytes",
			[]string{"type"}, nil,
		),
		dbDesc: prometheus.NewDesc(
			"campgo_db_status",
			"Database connection status (1=connected, 0=disconnected)",
			nil, nil,
		),
	}

	m.registry.MustRegister(m.Requests, m.Errors, m)
	return m
}

// UptimeSeconds returns whole seconds elapsed since startup.
func (m *Metrics) UptimeSeconds() int64 {
	return int64(time.Since(m.start).Seconds())
}

// Handler serves the registry in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Describe implements prometheus.Collector for the sampled gauges.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.uptimeDesc
	ch <- m.memoryDesc
	ch <- m.dbDesc
}

// Collect samples uptime, memory usage and store connectivity at scrape
// time.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(m.uptimeDesc, prometheus.GaugeValue, float64(m.UptimeSeconds()))

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	ch <- prometheus.MustNewConstMetric(m.memoryDesc, prometheus.GaugeValue, float64(ms.Sys), "rss")
	ch <- prometheus.MustNewConstMetric(m.memoryDesc, prometheus.GaugeValue, float64(ms.HeapSys), "heapTotal")
	ch <- prometheus.MustNewConstMetric(m.memoryDesc, prometheus.GaugeValue, float64(ms.HeapAlloc), "heapUsed")

	dbStatus := 0.0
	if m.dbConnected != nil && m.dbConnected() {
		dbStatus = 1.0
	}
	ch <- prometheus.MustNewConstMetric(m.dbDesc, prometheus.GaugeValue, dbStatus)
}

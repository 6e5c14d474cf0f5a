package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the Prometheus collectors of one run. Each instance owns its
// registry, so several runs (or tests) never collide on registration.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	jobsTotal  *prometheus.CounterVec
	jobSeconds *prometheus.HistogramVec
	activeJobs prometheus.Gauge
	coeffs     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them together with the Go
// runtime collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "polycalc_jobs_total",
			Help: "Number of computed cases by operation and outcome.",
		}, []string{"op", "status"}),
		jobSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "polycalc_job_duration_seconds",
			Help:    "Time spent computing one case.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"op"}),
		activeJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "polycalc_active_jobs",
			Help: "Number of cases currently being computed.",
		}),
		coeffs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "polycalc_coefficients_total",
			Help: "Coefficients read and written, by direction.",
		}, []string{"direction"}),
	}
	m.registry.MustRegister(m.jobsTotal, m.jobSeconds, m.activeJobs, m.coeffs,
		collectors.NewGoCollector())
	return m
}

// IncrementActiveJobs marks a case as started.
func (m *Metrics) IncrementActiveJobs() {
	if m == nil {
		return
	}
	m.activeJobs.Inc()
}

// DecrementActiveJobs marks a case as finished.
func (m *Metrics) DecrementActiveJobs() {
	if m == nil {
		return
	}
	m.activeJobs.Dec()
}

// ObserveJob records the outcome and duration of one case.
func (m *Metrics) ObserveJob(op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.jobsTotal.WithLabelValues(op, status).Inc()
	m.jobSeconds.WithLabelValues(op).Observe(d.Seconds())
}

// AddCoefficients counts coefficients flowing in ("in") or out ("out").
func (m *Metrics) AddCoefficients(direction string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.coeffs.WithLabelValues(direction).Add(float64(n))
}

// Gatherer exposes the registry, for tests and HTTP exposition.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

// WriteText gathers every metric and writes it in the Prometheus text
// exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

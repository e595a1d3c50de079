// Package metrics records what a launch did, for the status server's
// /metrics endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the launcher's metrics on a private registry, so several
// App instances (as in tests) never collide on registration.
type Collector struct {
	registry *prometheus.Registry

	spawnsTotal    *prometheus.CounterVec
	probeAttempts  prometheus.Counter
	stepDuration   *prometheus.HistogramVec
	stepFailures   *prometheus.CounterVec
	checkFailures  *prometheus.CounterVec
	launchedAtSecs prometheus.Gauge
}

// NewCollector creates a Collector whose metric names start with namespace.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		spawnsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_spawns_total",
			Help:      "Processes spawned, by service.",
		}, []string{"service"}),
		probeAttempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readiness_probe_attempts_total",
			Help:      "Health requests sent while waiting for the back end.",
		}),
		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of each launch step.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"step"}),
		stepFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_failures_total",
			Help:      "Launch steps that failed, by step.",
		}, []string{"step"}),
		checkFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_failures_total",
			Help:      "System checks that did not pass, by check and severity.",
		}, []string{"check", "severity"}),
		launchedAtSecs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "launched_timestamp_seconds",
			Help:      "Unix time both services were spawned.",
		}),
	}
}

// ServiceSpawned counts a spawned process.
func (c *Collector) ServiceSpawned(service string) {
	c.spawnsTotal.WithLabelValues(service).Inc()
}

// ProbeAttempts adds n readiness requests.
func (c *Collector) ProbeAttempts(n int) {
	c.probeAttempts.Add(float64(n))
}

// ObserveStep records how long a step took and whether it failed.
func (c *Collector) ObserveStep(step string, d time.Duration, err error) {
	c.stepDuration.WithLabelValues(step).Observe(d.Seconds())
	if err != nil {
		c.stepFailures.WithLabelValues(step).Inc()
	}
}

// CheckFailed counts a check that did not pass.
func (c *Collector) CheckFailed(check, severity string) {
	c.checkFailures.WithLabelValues(check, severity).Inc()
}

// Launched records the time the launch completed.
func (c *Collector) Launched(at time.Time) {
	c.launchedAtSecs.Set(float64(at.Unix()))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

package report

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/entrhq/pagekit/pkg/event"
)

// Lifecycle duration buckets, in seconds.
var lifecycleBuckets = []float64{
	.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30,
}

// MetricsListener exports event counters and lifecycle timings to
// Prometheus.
type MetricsListener struct {
	event.Func

	events   *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	driver   *prometheus.CounterVec
}

// NewMetricsListener creates the collectors and registers them on reg.
func NewMetricsListener(reg prometheus.Registerer) *MetricsListener {
	m := &MetricsListener{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pagekit_events_total",
			Help: "Total number of events published, by kind",
		}, []string{"kind"}),

		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pagekit_init_failures_total",
			Help: "Total number of failed page and module initializations",
		}, []string{"subject"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pagekit_init_duration_seconds",
			Help:    "Time from BeforeInit to AfterInit in seconds",
			Buckets: lifecycleBuckets,
		}, []string{"subject"}),

		driver: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pagekit_driver_errors_total",
			Help: "Total number of failed driver calls",
		}, []string{"origin"}),
	}
	m.Func = m.observe

	reg.MustRegister(m.events, m.failures, m.duration, m.driver)
	return m
}

func (m *MetricsListener) observe(e *event.Event) error {
	m.events.WithLabelValues(e.Label()).Inc()
	switch e.Kind() {
	case event.KindAfterInit:
		m.duration.WithLabelValues(e.Subject()).Observe(e.Elapsed().Seconds())
	case event.KindInitException:
		m.failures.WithLabelValues(e.Subject()).Inc()
	case event.KindDriverException:
		m.driver.WithLabelValues(e.Origin().Label).Inc()
	}
	return nil
}

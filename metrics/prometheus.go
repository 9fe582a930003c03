// file: metrics/prometheus.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder keeps counters and histograms for the /metrics endpoint.
type PrometheusRecorder struct {
	listDuration *prometheus.HistogramVec
	mutations    *prometheus.CounterVec
	pages        prometheus.Gauge
}

// NewPrometheusRecorder registers the collectors on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		listDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "activities_frontend",
			Subsystem: "upstream",
			Name:      "list_duration_seconds",
			Help:      "Time spent fetching the activity list from the activity service.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "activities_frontend",
			Subsystem: "upstream",
			Name:      "mutations_total",
			Help:      "Signup and removal requests by outcome.",
		}, []string{"action", "outcome"}),
		pages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "activities_frontend",
			Subsystem: "websocket",
			Name:      "connected_pages",
			Help:      "Open live-update connections.",
		}),
	}
	reg.MustRegister(r.listDuration, r.mutations, r.pages)
	return r
}

func (r *PrometheusRecorder) ObserveList(outcome string, elapsed time.Duration) {
	r.listDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (r *PrometheusRecorder) CountMutation(action, outcome string) {
	r.mutations.WithLabelValues(action, outcome).Inc()
}

func (r *PrometheusRecorder) SetConnectedPages(count int) {
	r.pages.Set(float64(count))
}

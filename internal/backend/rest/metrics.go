package rest

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments outgoing calls to the task collection.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewMetrics registers the client metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "todo",
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of requests sent to the task collection.",
			},
			[]string{"code", "method"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "todo",
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Duration of requests to the task collection in seconds.",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.3, 1, 3},
			},
			[]string{"method"},
		),
		inFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "todo",
				Subsystem: "api",
				Name:      "in_flight_requests",
				Help:      "Current number of in-flight requests to the task collection.",
			},
		),
	}
}

// InstrumentRoundTripper wraps next with the in-flight, counter and
// duration collectors.
func (m *Metrics) InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperInFlight(m.inFlight,
		promhttp.InstrumentRoundTripperCounter(m.requests,
			promhttp.InstrumentRoundTripperDuration(m.duration, next),
		),
	)
}

// Package metrics exposes the counters, gauges and summaries the core
// calls into. The registry is an external collaborator: this package
// never starts its own HTTP exporter; whatever process embeds the
// gateway registers Registry.Collectors() with its own prometheus.Registerer
// and exporter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sydowma/mdgateway/pkg/domain"
)

// Registry holds the gateway's Prometheus collectors. Message counters
// are keyed by (venue, dataType); parse errors and connection status are
// keyed by venue alone.
type Registry struct {
	Received     *prometheus.CounterVec
	Published    *prometheus.CounterVec
	ParseErrors  *prometheus.CounterVec
	Connected    *prometheus.GaugeVec
	ParseLatency *prometheus.SummaryVec
}

// New builds a Registry with unregistered collectors; call Collectors to
// obtain the prometheus.Collector values to hand to an external registerer.
func New() *Registry {
	return &Registry{
		Received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mdgateway",
			Name:      "frames_received_total",
			Help:      "Raw frames received from the transport, before classification.",
		}, []string{"venue", "data_type"}),
		Published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mdgateway",
			Name:      "frames_published_total",
			Help:      "Frames successfully parsed and handed to the sink.",
		}, []string{"venue", "data_type"}),
		ParseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mdgateway",
			Name:      "parse_errors_total",
			Help:      "Frames dropped due to a MalformedFrame error, by venue.",
		}, []string{"venue"}),
		Connected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "mdgateway",
			Name:      "connection_status",
			Help:      "1 if the venue's WebSocket is connected, 0 otherwise.",
		}, []string{"venue"}),
		ParseLatency: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Namespace:  "mdgateway",
			Name:       "parse_latency_microseconds",
			Help:       "Parse facade wall-clock latency in microseconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"venue", "data_type"}),
	}
}

// Collectors returns every collector in the registry, for bulk
// registration with an external prometheus.Registerer.
func (r *Registry) Collectors() []prometheus.Collector {
	return []prometheus.Collector{r.Received, r.Published, r.ParseErrors, r.Connected, r.ParseLatency}
}

// ObserveReceived increments the received counter for (venue, dataType).
func (r *Registry) ObserveReceived(venue domain.Venue, dt domain.DataType) {
	r.Received.WithLabelValues(venue.String(), dt.String()).Inc()
}

// ObservePublished increments the published counter for (venue, dataType).
func (r *Registry) ObservePublished(venue domain.Venue, dt domain.DataType) {
	r.Published.WithLabelValues(venue.String(), dt.String()).Inc()
}

// ObserveParseError increments the per-venue parse-error counter.
func (r *Registry) ObserveParseError(venue domain.Venue) {
	r.ParseErrors.WithLabelValues(venue.String()).Inc()
}

// SetConnected sets the connection-status gauge for venue.
func (r *Registry) SetConnected(venue domain.Venue, connected bool) {
	v := 0.0
	if connected {
		v = 1.0
	}
	r.Connected.WithLabelValues(venue.String()).Set(v)
}

// ObserveParseLatency records a parse-facade elapsed time in microseconds.
func (r *Registry) ObserveParseLatency(venue domain.Venue, dt domain.DataType, elapsedNanos int64) {
	r.ParseLatency.WithLabelValues(venue.String(), dt.String()).Observe(float64(elapsedNanos) / 1000.0)
}

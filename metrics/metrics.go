// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Fetches counts catalog and backend fetches by category and outcome.
	Fetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelfinder_fetches_total",
		Help: "Fetches issued by the session controller, by category and outcome.",
	}, []string{"category", "outcome"})

	// StaleResponses counts responses discarded because a newer fetch of
	// the same category was issued while they were in flight.
	StaleResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelfinder_stale_responses_total",
		Help: "Responses discarded by the generation guard.",
	}, []string{"category"})

	// EventsPublished counts notifications delivered through the event bus.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelfinder_events_published_total",
		Help: "Notifications published on the in-process event bus.",
	}, []string{"topic"})

	// SearchReports counts fire-and-forget search occurrence reports.
	SearchReports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelfinder_search_reports_total",
		Help: "Best-effort search occurrence reports sent to the backend.",
	}, []string{"outcome"})
)

// Outcome labels for Fetches and SearchReports.
const (
	OutcomeOK             = "ok"
	OutcomeAppError       = "app_error"
	OutcomeTransportError = "transport_error"
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

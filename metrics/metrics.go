// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	RecipesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipes_written_total",
			Help: "Recipes created, updated or deleted.",
		},
		[]string{"op"},
	)

	RelationToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relation_toggles_total",
			Help: "Favorite, cart and follow toggles by outcome.",
		},
		[]string{"relation", "op", "result"},
	)

	ShoppingListExports = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shopping_list_exports_total",
			Help: "Shopping list documents rendered.",
		},
	)
)

func RecordHTTPRequest(method, route, status string, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordRecipeWrite(op string) {
	RecipesWritten.WithLabelValues(op).Inc()
}

func RecordToggle(relation, op, result string) {
	RelationToggles.WithLabelValues(relation, op, result).Inc()
}

// Package metrics exposes Prometheus counters for the core financial
// operations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TransactionsCreated counts ledger transactions by type.
	TransactionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finbook_transactions_created_total",
		Help: "Number of ledger transactions created, by type.",
	}, []string{"type"})

	// TransactionsVoided counts voided transactions.
	TransactionsVoided = promauto.NewCounter(prometheus.CounterOpts{
		Name: "finbook_transactions_voided_total",
		Help: "Number of ledger transactions voided.",
	})

	// SettlementsRecorded counts debt and split settlements.
	SettlementsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finbook_settlements_recorded_total",
		Help: "Number of settlements recorded, by target kind.",
	}, []string{"kind"})

	// IdempotencyConflicts counts writes rejected by idempotency keys.
	IdempotencyConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "finbook_idempotency_conflicts_total",
		Help: "Number of writes rejected because their idempotency key was already used.",
	})

	// EventsPublished counts published domain events by type.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finbook_events_published_total",
		Help: "Number of domain events published, by event type.",
	}, []string{"event_type"})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

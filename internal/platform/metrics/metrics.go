package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workshop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "workshop_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Stock ledger metrics
	LedgerEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_ledger_entries_total",
			Help: "Total number of stock ledger entries written, by reason kind",
		},
		[]string{"kind"},
	)

	LedgerIntegrityViolationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_ledger_integrity_violations_total",
			Help: "Total number of reconciliations that found an inconsistent ledger",
		},
	)

	// Document numbering metrics
	SequenceCollisionRepairsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sequence_collision_repairs_total",
			Help: "Total number of document number collisions repaired by fast-forwarding the counter",
		},
	)

	// Invoice lifecycle metrics
	InvoiceTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_transitions_total",
			Help: "Total number of invoice status changes, by target status",
		},
		[]string{"to"},
	)
)

// RecordLedgerEntry increments the ledger entry counter for a reason kind.
func RecordLedgerEntry(kind string) {
	LedgerEntriesTotal.WithLabelValues(kind).Inc()
}

// RecordIntegrityViolation increments the integrity violation counter.
func RecordIntegrityViolation() {
	LedgerIntegrityViolationsTotal.Inc()
}

// RecordSequenceRepair increments the collision repair counter.
func RecordSequenceRepair() {
	SequenceCollisionRepairsTotal.Inc()
}

// RecordInvoiceTransition increments the transition counter for the target status.
func RecordInvoiceTransition(to string) {
	InvoiceTransitionsTotal.WithLabelValues(to).Inc()
}

// ObserveHTTPRequest records one finished HTTP request.
func ObserveHTTPRequest(method, path, status string, started time.Time) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(started).Seconds())
}

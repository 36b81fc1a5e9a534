package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	hoursSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salondesk",
			Name:      "hours_save_total",
			Help:      "Count of working-hours save attempts by outcome.",
		},
		[]string{"outcome"},
	)

	rowsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salondesk",
			Name:      "hours_rows_created_total",
			Help:      "Count of working-hour rows created.",
		},
	)

	rowsUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salondesk",
			Name:      "hours_rows_updated_total",
			Help:      "Count of working-hour rows updated.",
		},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salondesk",
			Name:      "cache_lookup_total",
			Help:      "Count of row-list cache lookups by result.",
		},
		[]string{"result"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salondesk",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(hoursSaves, rowsCreated, rowsUpdated, cacheLookups, httpRequests)
	})
}

func IncSave(outcome string) {
	hoursSaves.WithLabelValues(outcome).Inc()
}

func IncRowCreated() {
	rowsCreated.Inc()
}

func IncRowUpdated() {
	rowsUpdated.Inc()
}

func IncCacheLookup(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

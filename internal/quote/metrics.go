package quote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quotesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quotes_saved_total",
		Help: "Number of quotes persisted",
	})

	saveConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quote_number_conflicts_total",
		Help: "Number of saves rejected because the quote number was taken",
	})

	numberFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quote_number_fallbacks_total",
		Help: "Number of quote numbers generated from the clock because the store was unavailable",
	})
)

package services

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ledgerOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ledger_operations_total",
		Help: "Ledger operations by outcome",
	},
	[]string{"operation", "outcome"},
)

func observe(operation string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrValidation):
		outcome = "validation"
	case errors.Is(err, ErrConflict):
		outcome = "conflict"
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	ledgerOperations.WithLabelValues(operation, outcome).Inc()
}

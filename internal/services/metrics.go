package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finanfun_auth_attempts_total",
			Help: "Authentication attempts by method and result.",
		},
		[]string{"method", "result"},
	)

	ledgerTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finanfun_ledger_transactions_total",
			Help: "Ledger postings by transaction type and result.",
		},
		[]string{"type", "result"},
	)

	sessionsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "finanfun_sessions_swept_total",
			Help: "Expired sessions removed by the sweeper.",
		},
	)
)

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

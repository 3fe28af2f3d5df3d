package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SignUps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mywallet_signups_total",
			Help: "Sign-up attempts by result",
		},
		[]string{"result"},
	)
	SignIns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mywallet_signins_total",
			Help: "Sign-in attempts by result",
		},
		[]string{"result"},
	)
	SignOuts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mywallet_sessions_deleted_total",
			Help: "Sessions removed by sign-out",
		},
	)
	TransactionsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mywallet_transactions_created_total",
			Help: "Ledger entries appended by type",
		},
		[]string{"type"},
	)
)

const (
	resultOK                 = "ok"
	resultConflict           = "conflict"
	resultInvalidCredentials = "invalid_credentials"
	resultInvalid            = "invalid"
	resultError              = "error"
)

func init() {
	prometheus.MustRegister(SignUps)
	prometheus.MustRegister(SignIns)
	prometheus.MustRegister(SignOuts)
	prometheus.MustRegister(TransactionsCreated)
}

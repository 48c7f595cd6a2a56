package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repair_registrations_total",
			Help: "Total number of successful registrations by role.",
		},
		[]string{"role"},
	)

	loginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "repair_logins_total",
		Help: "Total number of successful logins.",
	})

	requestsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "repair_requests_created_total",
		Help: "Total number of repair requests created.",
	})

	invoicesIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "repair_invoices_issued_total",
		Help: "Total number of invoices issued.",
	})

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repair_token_verifications_total",
			Help: "Total number of access token verification attempts by type and status.",
		},
		[]string{"type", "status"},
	)
)

// Package metrics exposes Prometheus counters for the funnel backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttemptsTotal counts admin login attempts by outcome
	// (success, failure, rate_limited, locked).
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadfunnel",
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Total number of admin login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// TokenRefreshesTotal counts access tokens minted through the refresh
	// path.
	TokenRefreshesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "leadfunnel",
			Subsystem: "auth",
			Name:      "token_refreshes_total",
			Help:      "Total number of access tokens re-issued from refresh tokens",
		},
	)

	// LeadSubmissionsTotal counts accepted funnel submissions by risk level.
	LeadSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadfunnel",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total number of accepted lead submissions by risk level",
		},
		[]string{"risk_level"},
	)
)

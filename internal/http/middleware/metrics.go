package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Economy operation counters, incremented by the handlers.
	EconomyOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_operations_total",
			Help: "Economy operations by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
	LevelUps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "economy_level_ups_total",
			Help: "Level-ups produced by economy operations",
		},
	)
)

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(EconomyOps)
	prometheus.MustRegister(LevelUps)
}

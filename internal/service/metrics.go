package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matches_created_total",
			Help: "Total number of match results created, by source",
		},
		[]string{"source"},
	)

	sweepRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rushing_sweep_runs_total",
			Help: "Total number of rushing-expert sweep executions",
		},
	)
)

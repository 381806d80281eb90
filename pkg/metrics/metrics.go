// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package metrics holds the Prometheus collectors of the countdown and score game.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CountdownTicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flick_countdown_ticks_total",
		Help: "Total number of countdown ticks evaluated",
	})

	CountdownCompleted = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "flick_countdown_completed",
		Help: "1 once the countdown has reached its target instant",
	})

	ScoreIncrementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flick_score_increments_total",
			Help: "Total number of accepted score increments",
		},
		[]string{"participant"},
	)

	ScoreIncrementsRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flick_score_increments_rejected_total",
		Help: "Total number of increments ignored because scores are locked",
	})

	BackendErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flick_score_backend_errors_total",
			Help: "Total number of backing store failures",
		},
		[]string{"backend", "op"},
	)

	ScoreboardRendersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flick_scoreboard_renders_total",
		Help: "Total number of scoreboard renders",
	})

	DisplayClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "flick_display_clients",
		Help: "Number of connected display WebSocket clients",
	})
)

// Collectors returns every application collector for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		CountdownTicksTotal,
		CountdownCompleted,
		ScoreIncrementsTotal,
		ScoreIncrementsRejectedTotal,
		BackendErrorsTotal,
		ScoreboardRendersTotal,
		DisplayClients,
	}
}

/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package telemetry holds the Prometheus collectors, the HTTP metrics
// middleware and the OpenTelemetry tracing setup.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// APIRequestsTotal counts API requests by method, route and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maitred_api_requests_total",
			Help: "Total number of API requests.",
		},
		[]string{"method", "endpoint", "status"},
	)

	// APIRequestDuration observes API latency by method, route and status.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "maitred_api_request_duration_seconds",
			Help:    "API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	// APIActiveConnections gauges in-flight API requests.
	APIActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "maitred_api_active_connections",
			Help: "Number of in-flight API requests.",
		},
	)

	// AvailabilityProbesTotal counts continuous-window probes by outcome.
	AvailabilityProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maitred_availability_probes_total",
			Help: "Total availability probes served, by boundary kind.",
		},
		[]string{"boundary"},
	)

	// RankingPassesTotal counts ranking passes over the roster.
	RankingPassesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "maitred_ranking_passes_total",
			Help: "Total table ranking passes.",
		},
	)

	// StoreBlocksLoaded gauges sanitized reservation blocks in the store.
	StoreBlocksLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "maitred_store_blocks_loaded",
			Help: "Sanitized reservation blocks in the interval store.",
		},
	)

	// FloorOccupancyPct gauges the most recently computed occupancy.
	FloorOccupancyPct = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "maitred_floor_occupancy_pct",
			Help: "Floor occupancy percentage at the last computed instant.",
		},
	)
)

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

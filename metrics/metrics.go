// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TokenVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_token_verifications_total",
			Help: "Room token verifications by result.",
		},
		[]string{"result"},
	)

	VotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_votes_total",
			Help: "Vote admission attempts by result.",
		},
		[]string{"result"},
	)

	RoomsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_rooms_created_total",
			Help: "Poll rooms created by duration preset.",
		},
		[]string{"duration"},
	)

	LiveSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "poll_live_subscribers",
			Help: "Currently connected live tally subscribers.",
		},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		TokenVerificationsTotal,
		VotesTotal,
		RoomsCreatedTotal,
		LiveSubscribers,
	)
}

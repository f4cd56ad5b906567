// Package metrics registers the prometheus collectors served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InsightsGenerated counts dashboard insights by source ("ai" or
	// "heuristic"), which makes AI fallback rate visible.
	InsightsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shelfaware_insights_generated_total",
		Help: "Insights served on dashboards, by source.",
	}, []string{"source"})

	AIRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shelfaware_ai_request_duration_seconds",
		Help:    "Latency of LLM chat completion calls.",
		Buckets: prometheus.DefBuckets,
	})

	AIFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shelfaware_ai_failures_total",
		Help: "LLM calls that errored or returned unusable output.",
	})

	LoginFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shelfaware_login_failures_total",
		Help: "Rejected login attempts.",
	})
)

// Package metrics содержит prometheus-метрики сервиса.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "astro_match"

var (
	ChartWorkflowTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chart_workflow_total",
		Help:      "Chart acquisition runs by chart kind, final state and source.",
	}, []string{"kind", "state", "source"})

	ChartCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chart_cache_hits_total",
		Help:      "Chart cache hits by layer (cache, db).",
	}, []string{"layer"})

	ChartPersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chart_persist_failures_total",
		Help:      "Best-effort chart writes that failed.",
	})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of calls to external providers.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider", "outcome"})

	ChatStreams = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_streams_total",
		Help:      "Chat replies by mode and outcome.",
	}, []string{"mode", "outcome"})

	DBQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "db_query_duration_seconds",
		Help:      "Postgres query latency by operation.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"op", "outcome"})
)

// ObserveUpstream записывает длительность вызова провайдера
func ObserveUpstream(provider string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamDuration.WithLabelValues(provider, outcome).Observe(time.Since(start).Seconds())
}

// ObserveQuery записывает длительность запроса к БД
func ObserveQuery(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	DBQueryDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}

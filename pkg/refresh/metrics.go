package refresh

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	brokenJobsMetric = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cihud_broken_jobs",
		Help: "Number of jobs with at least two consecutive failures",
	}, []string{"family"})
	refreshDurationMetric = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cihud_refresh_duration_seconds",
		Help:    "Time to list and fetch all builds of a family",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	})
	fetchFailuresMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cihud_build_fetch_failures_total",
		Help: "Build detail fetches that failed and were shown as empty",
	}, []string{"family"})
)

// Package metrics держит prometheus-коллекторы апстримов и цикла оценки.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kitflip"

const (
	UpstreamOracle = "oracle"
	UpstreamMarket = "marketplace"
)

//nolint:gochecknoglobals
var (
	upstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream HTTP responses by status code (0 = transport error).",
		},
		[]string{"upstream", "status"},
	)

	upstreamRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_retries_total",
			Help:      "Retries by reason.",
		},
		[]string{"upstream", "reason"},
	)

	refreshRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_refresh_requests_total",
			Help:      "Background re-price requests sent to the oracle.",
		},
		[]string{"reason"},
	)

	rateLimitSleeps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_sleep_seconds_total",
			Help:      "Time spent sleeping on 429 responses.",
		},
		[]string{"upstream"},
	)

	nameMismatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "marketplace_name_mismatches_total",
			Help:      "Snapshots that named a different item than requested.",
		},
	)

	lastCycleCandidates = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_cycle_candidates",
			Help:      "Candidates of the last evaluation cycle by state.",
		},
		[]string{"state"},
	)
)

func ObserveUpstream(upstream string, status int) {
	upstreamRequests.WithLabelValues(upstream, strconv.Itoa(status)).Inc()
}

func ObserveRetry(upstream, reason string) {
	upstreamRetries.WithLabelValues(upstream, reason).Inc()
}

func ObserveRefresh(reason string) {
	refreshRequests.WithLabelValues(reason).Inc()
}

func ObserveRateLimitSleep(upstream string, seconds float64) {
	rateLimitSleeps.WithLabelValues(upstream).Add(seconds)
}

func ObserveNameMismatch() {
	nameMismatches.Inc()
}

func SetLastCycle(priced, unpriced int) {
	lastCycleCandidates.WithLabelValues("priced").Set(float64(priced))
	lastCycleCandidates.WithLabelValues("unpriced").Set(float64(unpriced))
}

package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"kitflip/internal/metrics"
)

func TestCollectorsRegistered(t *testing.T) {
	rq := require.New(t)

	metrics.ObserveUpstream(metrics.UpstreamOracle, 200)
	metrics.ObserveRetry(metrics.UpstreamMarket, "status")
	metrics.ObserveRefresh("stale")
	metrics.ObserveRateLimitSleep(metrics.UpstreamMarket, 1.5)
	metrics.ObserveNameMismatch()
	metrics.SetLastCycle(3, 2)

	count, err := testutil.GatherAndCount(
		prometheus.DefaultGatherer,
		"kitflip_upstream_requests_total",
		"kitflip_upstream_retries_total",
		"kitflip_oracle_refresh_requests_total",
		"kitflip_rate_limit_sleep_seconds_total",
		"kitflip_marketplace_name_mismatches_total",
		"kitflip_last_cycle_candidates",
	)
	rq.NoError(err)
	rq.GreaterOrEqual(count, 7)
}

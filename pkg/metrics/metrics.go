// Package metrics exposes the Prometheus registry used by the bot.
// Metrics are defined in their respective packages (client, cache, ratelimit,
// bot) and registered via promauto, so importing those packages is enough.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Admission Metrics (pkg/ratelimit):
//   - trn_inflight_requests (Gauge): Tracker requests currently holding a slot (max 4)
//   - trn_admission_waits_total (Counter): Requests that had to wait for a slot
//
// Cache Metrics (pkg/cache):
//   - trn_cache_hits_total{layer} (Counter): Lookups that found a slot, by layer (memory, redis)
//   - trn_cache_misses_total (Counter): Lookups with no slot
//   - trn_cache_stale_total (Counter): Slots found past the 30 s TTL
//   - trn_cache_entries{layer} (Gauge): Current number of slots
//   - trn_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - trn_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - trn_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - trn_errors_total{class} (Counter): Failed attempts by class (access_denied, client, server, network, decode)
//   - trn_challenge_solves_total{result} (Counter): Challenge solves after a 403 (ok, failed)
//   - trn_absent_total{endpoint} (Counter): Fetches that ended without data
//
// Bot Metrics (internal/bot):
//   - bf6_commands_total{command, outcome} (Counter): Handled slash commands
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(trn_cache_hits_total[5m])) /
//   (sum(rate(trn_cache_hits_total[5m])) + sum(rate(trn_cache_misses_total[5m])))
//
//   # Cloudflare pressure
//   rate(trn_errors_total{class="access_denied"}[5m])
//
//   # Share of fetches users saw as "no data"
//   sum(rate(trn_absent_total[5m])) / sum(rate(trn_requests_total[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(trn_request_duration_seconds_bucket[5m]))

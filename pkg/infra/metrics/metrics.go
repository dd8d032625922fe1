package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	LookupsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ipguard_lookups_total",
			Help: "Total number of IP lookups by cache result",
		},
		[]string{"result"}, // "hit" or "miss"
	)

	ProviderChecksTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ipguard_provider_checks_total",
			Help: "Outbound provider checks by provider and outcome",
		},
		[]string{"provider", "outcome"}, // "clean", "blocked", "skipped", "error"
	)

	BlacklistedTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ipguard_blacklisted_total",
			Help: "Blocking verdicts by triggering provider",
		},
		[]string{"provider"},
	)

	CacheEntriesCleared = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "ipguard_cache_entries_cleared_total",
			Help: "Cached verdicts removed by cache clears",
		},
	)
)

// Handler exposes the private registry for the metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

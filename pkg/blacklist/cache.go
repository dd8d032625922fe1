package blacklist

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/netsentry/ipguard/pkg/infra/cache"
	"github.com/netsentry/ipguard/pkg/infra/metrics"
)

// VerdictCache memoizes checker verdicts per IP for a validity window.
// Clean verdicts are cached too, so repeatedly seen clean IPs do not
// re-trigger outbound queries. Concurrent lookups for the same IP are
// collapsed into a single aggregation.
type VerdictCache struct {
	checker *Checker
	store   *cache.TTLMap
	group   singleflight.Group
	logger  *logrus.Logger
}

func NewVerdictCache(logger *logrus.Logger, checker *Checker, validity time.Duration) *VerdictCache {
	return &VerdictCache{
		checker: checker,
		store:   cache.NewTTLMap(validity),
		logger:  logger,
	}
}

// Lookup returns the cached verdict for ip when it is still within the
// validity window, otherwise it runs the checker and stores the result,
// superseding any stale entry.
func (c *VerdictCache) Lookup(ctx context.Context, ip string) Verdict {
	c.logger.WithField("ip", ip).Debug("looking up IP")

	if value, ok := c.store.Get(ip); ok {
		verdict, ok := value.(Verdict)
		if ok {
			c.logger.WithFields(logrus.Fields{
				"ip":      ip,
				"blocked": verdict.Blocked,
			}).Debug("verdict served from cache")
			metrics.LookupsTotal.WithLabelValues("hit").Inc()
			return verdict
		}
	}
	metrics.LookupsTotal.WithLabelValues("miss").Inc()

	value, _, _ := c.group.Do(ip, func() (interface{}, error) {
		verdict := c.checker.Check(ctx, ip)
		c.store.Set(ip, verdict)
		return verdict, nil
	})

	verdict, ok := value.(Verdict)
	if !ok {
		return Verdict{}
	}
	return verdict
}

// Clear removes all cached verdicts and returns how many were removed.
// Lookups already past the cache check are unaffected.
func (c *VerdictCache) Clear() int {
	removed := c.store.Clear()
	c.logger.WithField("removed", removed).Info("verdict cache cleared")
	metrics.CacheEntriesCleared.Add(float64(removed))
	return removed
}

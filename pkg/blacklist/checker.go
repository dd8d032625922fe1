package blacklist

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/netsentry/ipguard/pkg/infra/metrics"
	"github.com/netsentry/ipguard/pkg/providers"
)

// Checker aggregates an ordered set of providers with first-match-wins
// semantics: the first provider reporting a block decides the verdict and
// later providers are not consulted. Registration order is the tie-break
// priority.
type Checker struct {
	providers []providers.Provider
	logger    *logrus.Logger
}

func NewChecker(logger *logrus.Logger, provs []providers.Provider) *Checker {
	return &Checker{
		providers: provs,
		logger:    logger,
	}
}

// Check queries providers in order. A provider error or missing credential
// is "no information" for that provider; the check continues with the rest.
// Total failure of every provider degrades to a clean verdict, which
// conflates "unknown" with "not blacklisted" - a known limitation.
func (c *Checker) Check(ctx context.Context, ip string) Verdict {
	for _, p := range c.providers {
		result, err := p.Check(ctx, ip)
		if err != nil {
			if errors.Is(err, providers.ErrNotConfigured) {
				c.logger.WithField("provider", p.Name()).Debug("provider not configured, skipping")
				metrics.ProviderChecksTotal.WithLabelValues(p.Name(), "skipped").Inc()
				continue
			}
			c.logger.WithError(err).WithFields(logrus.Fields{
				"provider": p.Name(),
				"ip":       ip,
			}).Error("provider check failed")
			metrics.ProviderChecksTotal.WithLabelValues(p.Name(), "error").Inc()
			continue
		}

		if result.Blocked {
			c.logger.WithFields(logrus.Fields{
				"ip":         ip,
				"provider":   p.Name(),
				"confidence": result.Confidence,
			}).Warn("IP blacklisted")
			metrics.ProviderChecksTotal.WithLabelValues(p.Name(), "blocked").Inc()
			metrics.BlacklistedTotal.WithLabelValues(p.Name()).Inc()
			return Verdict{
				Blocked:    true,
				Source:     p.Name(),
				Confidence: result.Confidence,
			}
		}

		c.logger.WithFields(logrus.Fields{
			"ip":       ip,
			"provider": p.Name(),
		}).Debug("IP not found in provider")
		metrics.ProviderChecksTotal.WithLabelValues(p.Name(), "clean").Inc()
	}

	c.logger.WithField("ip", ip).Info("IP is not blacklisted")
	return Verdict{}
}

package factory

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	"github.com/netsentry/ipguard/pkg/config"
	"github.com/netsentry/ipguard/pkg/infra/httpx"
	"github.com/netsentry/ipguard/pkg/providers"
	"github.com/netsentry/ipguard/pkg/providers/abuseipdb"
	"github.com/netsentry/ipguard/pkg/providers/blocklistde"
	"github.com/netsentry/ipguard/pkg/providers/stopforumspam"
)

// Build assembles the provider chain from configuration. List order is the
// aggregation priority order.
func Build(
	cfg config.ProvidersConfig,
	client httpx.Client,
	logger *logrus.Logger,
) ([]providers.Provider, error) {
	out := make([]providers.Provider, 0, len(cfg.Order))
	seen := make(map[string]bool, len(cfg.Order))

	for _, pc := range cfg.Order {
		if seen[pc.Name] {
			return nil, fmt.Errorf("provider %q registered twice", pc.Name)
		}
		seen[pc.Name] = true

		provider, err := build(pc, cfg, client, logger)
		if err != nil {
			return nil, err
		}
		out = append(out, provider)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no providers configured")
	}
	return out, nil
}

func build(
	pc config.ProviderConfig,
	cfg config.ProvidersConfig,
	client httpx.Client,
	logger *logrus.Logger,
) (providers.Provider, error) {
	switch pc.Name {
	case abuseipdb.ProviderName:
		var settings abuseipdb.Config
		if err := mapstructure.Decode(pc.Settings, &settings); err != nil {
			return nil, fmt.Errorf("failed to decode %s settings: %w", pc.Name, err)
		}
		return abuseipdb.NewProvider(logger, client, settings, cfg.Timeout()), nil
	case stopforumspam.ProviderName:
		var settings stopforumspam.Config
		if err := mapstructure.Decode(pc.Settings, &settings); err != nil {
			return nil, fmt.Errorf("failed to decode %s settings: %w", pc.Name, err)
		}
		return stopforumspam.NewProvider(logger, client, settings, cfg.Timeout()), nil
	case blocklistde.ProviderName:
		var settings blocklistde.Config
		if err := mapstructure.Decode(pc.Settings, &settings); err != nil {
			return nil, fmt.Errorf("failed to decode %s settings: %w", pc.Name, err)
		}
		return blocklistde.NewProvider(logger, client, settings, cfg.Timeout()), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", pc.Name)
	}
}

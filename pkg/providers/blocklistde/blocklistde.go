package blocklistde

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/netsentry/ipguard/pkg/infra/httpx"
	"github.com/netsentry/ipguard/pkg/providers"
)

const (
	ProviderName    = "blocklist_de"
	DefaultEndpoint = "https://api.blocklist.de/api.php"

	// The feed is binary presence; a listing maps to one fixed confidence.
	listedConfidence = 80
)

type Config struct {
	Endpoint    string `mapstructure:"endpoint"`
	TimeoutSecs int    `mapstructure:"timeout_seconds"`
}

type Provider struct {
	client  httpx.Client
	breaker httpx.CircuitBreaker
	logger  *logrus.Logger
	config  Config
	timeout time.Duration
}

func NewProvider(logger *logrus.Logger, client httpx.Client, cfg Config, timeout time.Duration) providers.Provider {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.TimeoutSecs > 0 {
		timeout = time.Duration(cfg.TimeoutSecs) * time.Second
	}
	return &Provider{
		client:  client,
		breaker: httpx.NewCircuitBreaker(ProviderName, 30*time.Second, 5),
		logger:  logger,
		config:  cfg,
		timeout: timeout,
	}
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Check(ctx context.Context, ip string) (providers.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s?ip=%s", p.config.Endpoint, url.QueryEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return providers.Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	var resp *http.Response
	err = p.breaker.Execute(func() error {
		var doErr error
		resp, doErr = p.client.Do(req)
		return doErr
	})
	if err != nil {
		return providers.Result{}, fmt.Errorf("blocklist.de request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.WithField("status", resp.StatusCode).Warn("blocklist.de API error")
		return providers.Result{}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.Result{}, fmt.Errorf("failed to read blocklist.de response: %w", err)
	}

	// The API answers in plain text with an "attacks: N" line for listed IPs.
	text := strings.ToLower(string(body))
	if strings.Contains(text, "attacks:") && !strings.Contains(text, "attacks: 0") {
		p.logger.WithField("ip", ip).Debug("blocklist.de listing with attacks")
		return providers.Result{Blocked: true, Confidence: listedConfidence}, nil
	}

	return providers.Result{}, nil
}

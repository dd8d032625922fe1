package stopforumspam

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"

	"github.com/netsentry/ipguard/pkg/infra/httpx"
	"github.com/netsentry/ipguard/pkg/providers"
)

const (
	ProviderName    = "stopforumspam"
	DefaultEndpoint = "https://api.stopforumspam.org/api"

	// Listing frequency is scaled to a 0-100 confidence value.
	frequencyScale = 10
	maxConfidence  = 100
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

	endpoint := fmt.Sprintf("%s?ip=%s&json", p.config.Endpoint, url.QueryEscape(ip))
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
		return providers.Result{}, fmt.Errorf("stopforumspam request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.WithField("status", resp.StatusCode).Warn("stopforumspam API error")
		return providers.Result{}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.Result{}, fmt.Errorf("failed to read stopforumspam response: %w", err)
	}

	value, err := fastjson.ParseBytes(body)
	if err != nil {
		return providers.Result{}, fmt.Errorf("failed to parse stopforumspam response: %w", err)
	}

	if value.GetInt("ip", "appears") == 0 {
		return providers.Result{}, nil
	}

	frequency := value.GetInt("ip", "frequency")
	confidence := frequency * frequencyScale
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	p.logger.WithFields(logrus.Fields{
		"ip":         ip,
		"frequency":  frequency,
		"confidence": confidence,
	}).Debug("stopforumspam listing")

	return providers.Result{Blocked: true, Confidence: confidence}, nil
}

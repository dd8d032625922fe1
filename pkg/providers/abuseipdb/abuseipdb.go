package abuseipdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/netsentry/ipguard/pkg/infra/httpx"
	"github.com/netsentry/ipguard/pkg/providers"
)

const (
	ProviderName    = "abuseipdb"
	DefaultEndpoint = "https://api.abuseipdb.com/api/v2/check"

	// Abuse confidence scores above this value count as a block.
	blockThreshold = 75

	defaultMaxAgeDays = 90
)

type Config struct {
	APIKey      string `mapstructure:"api_key"`
	Endpoint    string `mapstructure:"endpoint"`
	MaxAgeDays  int    `mapstructure:"max_age_in_days"`
	TimeoutSecs int    `mapstructure:"timeout_seconds"`
}

type checkResponse struct {
	Data struct {
		AbuseConfidenceScore int `json:"abuseConfidenceScore"`
	} `json:"data"`
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
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = defaultMaxAgeDays
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
	if p.config.APIKey == "" {
		return providers.Result{}, providers.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	endpoint := fmt.Sprintf(
		"%s?ipAddress=%s&maxAgeInDays=%d",
		p.config.Endpoint, url.QueryEscape(ip), p.config.MaxAgeDays,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return providers.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Key", p.config.APIKey)

	var resp *http.Response
	err = p.breaker.Execute(func() error {
		var doErr error
		resp, doErr = p.client.Do(req)
		return doErr
	})
	if err != nil {
		return providers.Result{}, fmt.Errorf("abuseipdb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.WithField("status", resp.StatusCode).Warn("abuseipdb API error")
		return providers.Result{}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.Result{}, fmt.Errorf("failed to read abuseipdb response: %w", err)
	}

	var parsed checkResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return providers.Result{}, fmt.Errorf("failed to parse abuseipdb response: %w", err)
	}

	score := parsed.Data.AbuseConfidenceScore
	p.logger.WithFields(logrus.Fields{"ip": ip, "score": score}).Debug("abuseipdb abuse score")

	return providers.Result{Blocked: score > blockThreshold, Confidence: score}, nil
}

package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsentry/ipguard/pkg/blacklist"
	handlers "github.com/netsentry/ipguard/pkg/handlers/http"
	"github.com/netsentry/ipguard/pkg/providers"
)

type stubProvider struct {
	name   string
	result providers.Result
}

func (s *stubProvider) Name() string {
	return s.name
}

func (s *stubProvider) Check(ctx context.Context, ip string) (providers.Result, error) {
	return s.result, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newApp(provs ...providers.Provider) (*fiber.App, *blacklist.VerdictCache) {
	logger := testLogger()
	checker := blacklist.NewChecker(logger, provs)
	cache := blacklist.NewVerdictCache(logger, checker, time.Hour)

	app := fiber.New()
	app.Get("/api/v1/check/:ip", handlers.NewCheckIPHandler(logger, cache).Handle)
	app.Delete("/api/v1/cache", handlers.NewClearCacheHandler(logger, cache).Handle)
	return app, cache
}

func TestCheckIPHandler_BlockedIP(t *testing.T) {
	app, _ := newApp(&stubProvider{
		name:   "abuseipdb",
		result: providers.Result{Blocked: true, Confidence: 85},
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/check/198.51.100.9", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var verdict blacklist.Verdict
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&verdict))
	assert.True(t, verdict.Blocked)
	assert.Equal(t, "abuseipdb", verdict.Source)
	assert.Equal(t, 85, verdict.Confidence)
}

func TestCheckIPHandler_CleanIP(t *testing.T) {
	app, _ := newApp(&stubProvider{name: "abuseipdb"})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/check/203.0.113.5", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var verdict blacklist.Verdict
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&verdict))
	assert.False(t, verdict.Blocked)
	assert.Empty(t, verdict.Source)
	assert.Equal(t, 0, verdict.Confidence)
}

func TestCheckIPHandler_InvalidIP(t *testing.T) {
	app, _ := newApp(&stubProvider{name: "abuseipdb"})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/check/not-an-ip", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestClearCacheHandler_ReportsRemovedCount(t *testing.T) {
	app, cache := newApp(&stubProvider{name: "abuseipdb"})

	cache.Lookup(context.Background(), "203.0.113.5")
	cache.Lookup(context.Background(), "198.51.100.9")

	resp, err := app.Test(httptest.NewRequest(fiber.MethodDelete, "/api/v1/cache", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, 2, payload["removed"])
}

package abuseipdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsentry/ipguard/pkg/infra/httpx/mocks"
	"github.com/netsentry/ipguard/pkg/providers"
	"github.com/netsentry/ipguard/pkg/providers/abuseipdb"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestAbuseIPDB_MissingAPIKeySkips(t *testing.T) {
	client := new(mocks.MockHTTPClient)
	provider := abuseipdb.NewProvider(testLogger(), client, abuseipdb.Config{}, time.Second)

	_, err := provider.Check(context.Background(), "198.51.100.9")

	assert.ErrorIs(t, err, providers.ErrNotConfigured)
	client.AssertNotCalled(t, "Do")
}

func TestAbuseIPDB_HighScoreBlocks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("Key"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "198.51.100.9", r.URL.Query().Get("ipAddress"))
		assert.Equal(t, "90", r.URL.Query().Get("maxAgeInDays"))
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"data":{"abuseConfidenceScore":85}}`))
		assert.NoError(t, err)
	}))
	defer ts.Close()

	provider := abuseipdb.NewProvider(testLogger(), ts.Client(), abuseipdb.Config{
		APIKey:   "secret",
		Endpoint: ts.URL,
	}, time.Second)

	result, err := provider.Check(context.Background(), "198.51.100.9")

	require.NoError(t, err)
	assert.True(t, result.Blocked)
	assert.Equal(t, 85, result.Confidence)
}

func TestAbuseIPDB_LowScoreDoesNotBlock(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"data":{"abuseConfidenceScore":50}}`))
		assert.NoError(t, err)
	}))
	defer ts.Close()

	provider := abuseipdb.NewProvider(testLogger(), ts.Client(), abuseipdb.Config{
		APIKey:   "secret",
		Endpoint: ts.URL,
	}, time.Second)

	result, err := provider.Check(context.Background(), "203.0.113.5")

	require.NoError(t, err)
	assert.False(t, result.Blocked)
}

func TestAbuseIPDB_ThresholdIsExclusive(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"data":{"abuseConfidenceScore":75}}`))
		assert.NoError(t, err)
	}))
	defer ts.Close()

	provider := abuseipdb.NewProvider(testLogger(), ts.Client(), abuseipdb.Config{
		APIKey:   "secret",
		Endpoint: ts.URL,
	}, time.Second)

	result, err := provider.Check(context.Background(), "203.0.113.5")

	require.NoError(t, err)
	assert.False(t, result.Blocked, "score of exactly 75 must not block")
}

func TestAbuseIPDB_APIErrorIsNoInformation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	provider := abuseipdb.NewProvider(testLogger(), ts.Client(), abuseipdb.Config{
		APIKey:   "secret",
		Endpoint: ts.URL,
	}, time.Second)

	result, err := provider.Check(context.Background(), "203.0.113.5")

	require.NoError(t, err)
	assert.False(t, result.Blocked)
	assert.Equal(t, 0, result.Confidence)
}

func TestAbuseIPDB_MalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`not json`))
		assert.NoError(t, err)
	}))
	defer ts.Close()

	provider := abuseipdb.NewProvider(testLogger(), ts.Client(), abuseipdb.Config{
		APIKey:   "secret",
		Endpoint: ts.URL,
	}, time.Second)

	_, err := provider.Check(context.Background(), "203.0.113.5")

	assert.Error(t, err)
}

func TestAbuseIPDB_TransportFailure(t *testing.T) {
	provider := abuseipdb.NewProvider(testLogger(), &http.Client{Timeout: time.Millisecond}, abuseipdb.Config{
		APIKey:   "secret",
		Endpoint: "http://127.0.0.1:9999",
	}, time.Second)

	_, err := provider.Check(context.Background(), "203.0.113.5")

	assert.Error(t, err)
}

package providers

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by adapters whose required credential is
// absent. The aggregator treats it as a silent skip, not a failure.
var ErrNotConfigured = errors.New("provider not configured")

// Result is one provider's normalized answer for a single IP. Confidence is
// a 0-100 score; it is only meaningful when Blocked is true.
type Result struct {
	Blocked    bool
	Confidence int
}

// Provider queries exactly one upstream threat-intelligence feed. Check must
// bound its own network timeout; a transport failure or unparseable payload
// is reported as an error and counts as "no information" upstream.
type Provider interface {
	Name() string
	Check(ctx context.Context, ip string) (Result, error)
}

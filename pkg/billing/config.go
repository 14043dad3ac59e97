package billing

import (
	"context"
	"net/http"
)

// Config defines the standard configuration all providers should accept
type Config struct {
	// WebhookSecret is the shared key used to verify incoming callbacks
	// (Billplz "X Signature Key").
	WebhookSecret string

	// APIKey is used for outbound API calls to the billing provider.
	APIKey string

	// CollectionID identifies the provider collection new bills are opened in.
	CollectionID string

	// Sandbox selects the provider's sandbox API instead of production.
	Sandbox bool

	// BaseURL overrides the API base URL derived from Sandbox. Mostly for tests.
	BaseURL string

	// Description is the bill description shown to the payer.
	Description string

	// CallbackURL is where the provider posts payment callbacks.
	CallbackURL string

	// RedirectURL is where the provider sends the payer after the hosted page.
	RedirectURL string

	// HTTPClient is an optional HTTP client for API calls.
	// If nil, a default client with 10s timeout will be used.
	HTTPClient *http.Client

	// OnPayment is invoked for every verified callback that reports a settled
	// payment. Its error is logged and counted but never changes the webhook
	// response.
	OnPayment func(ctx context.Context, event PaymentEvent) error

	// RateLimiter limits failed webhook verifications per remote IP.
	// Verified callbacks are never limited.
	// If nil, an in-memory limiter (100 requests/minute) is used.
	RateLimiter RateLimitStore

	// Metrics is an optional metrics collector for tracking billing provider operations.
	// If nil, metrics will be silently ignored (no-op).
	// Use billing/metrics/prometheus.DefaultMetrics(namespace) for Prometheus metrics.
	Metrics Metrics

	// Logger is an optional structured logger. If nil, logs are discarded.
	Logger Logger
}

// RateLimitStore decides whether another request for key fits in the
// current window.
type RateLimitStore interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Package billplz implements billing.Provider for Billplz (https://www.billplz.com).
package billplz

import (
	"net/http"
	"strings"
	"time"

	"github.com/mihaimyh/paybridge/pkg/billing"
	"github.com/mihaimyh/paybridge/pkg/billing/internal"
	"github.com/mihaimyh/paybridge/storage/memory"
)

const (
	providerName             = "billplz"
	productionBaseURL        = "https://www.billplz.com/api"
	sandboxBaseURL           = "https://www.billplz-sandbox.com/api"
	billsEndpoint            = "/v3/bills"
	defaultHTTPTimeout       = 10 * time.Second
	defaultRateLimitWindow   = time.Minute
	defaultRateLimitRequests = 100
	defaultDescription       = "Training Registration Fee"
	maxWebhookBodyBytes      = 256 * 1024
	maxFormBodyBytes         = 64 * 1024
)

// Provider implements the billing.Provider interface for Billplz
type Provider struct {
	config        billing.Config
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	webhookSecret string
	rateLimiter   billing.RateLimitStore
	forms         internal.FormDecoder
	metrics       billing.Metrics
	logger        billing.Logger
}

// NewProvider creates a new Billplz billing provider.
// At least one of APIKey (bill creation) or WebhookSecret (callbacks) is required.
func NewProvider(config billing.Config) (*Provider, error) {
	apiKey := strings.TrimSpace(config.APIKey)
	// The secret is the HMAC key and is used byte for byte; blank means unset.
	webhookSecret := config.WebhookSecret
	if strings.TrimSpace(webhookSecret) == "" {
		webhookSecret = ""
	}
	if apiKey == "" && webhookSecret == "" {
		return nil, billing.ErrProviderNotConfigured
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultHTTPTimeout,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		baseURL = BaseURL(config.Sandbox)
	}

	if strings.TrimSpace(config.Description) == "" {
		config.Description = defaultDescription
	}

	limiter := config.RateLimiter
	if limiter == nil {
		limiter = memory.NewRateLimiter(defaultRateLimitRequests, defaultRateLimitWindow)
	}

	metrics := config.Metrics
	if metrics == nil {
		metrics = &billing.NoopMetrics{}
	}

	logger := config.Logger
	if logger == nil {
		logger = &billing.NoopLogger{}
	}

	return &Provider{
		config:        config,
		httpClient:    httpClient,
		baseURL:       baseURL,
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		rateLimiter:   limiter,
		forms:         internal.URLEncodedDecoder{},
		metrics:       metrics,
		logger:        logger,
	}, nil
}

// BaseURL returns the Billplz API root for the given mode.
func BaseURL(sandbox bool) string {
	if sandbox {
		return sandboxBaseURL
	}
	return productionBaseURL
}

// Name returns the provider name
func (p *Provider) Name() string {
	return providerName
}

// BillHandler returns the HTTP handler for the payer-facing bill form
func (p *Provider) BillHandler() http.Handler {
	return http.HandlerFunc(p.handleCreateBill)
}

// WebhookHandler returns the HTTP handler for Billplz callbacks
func (p *Provider) WebhookHandler() http.Handler {
	return http.HandlerFunc(p.handleWebhook)
}

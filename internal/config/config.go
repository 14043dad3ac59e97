// Package config loads the bridge's process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mihaimyh/paybridge/pkg/billing"
	"github.com/mihaimyh/paybridge/pkg/billing/billplz"
	"github.com/mihaimyh/paybridge/pkg/invoice"
	"github.com/mihaimyh/paybridge/pkg/mailer"
	redisstore "github.com/mihaimyh/paybridge/storage/redis"
)

const (
	webhookPath       = "/api/billplz-webhook"
	paymentStatusPath = "/payment-status"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Routers lists the accepted ROUTER values.
var Routers = []string{"chi", "gin", "echo", "fiber", "mux"}

// Config is read once at startup and passed explicitly to every component.
type Config struct {
	WebhookSecret string `env:"BILLPLZ_X_SIGNATURE"`
	APIKey        string `env:"BILLPLZ_API_KEY"`
	CollectionID  string `env:"BILLPLZ_COLLECTION_ID"`
	Sandbox       bool   `env:"BILLPLZ_SANDBOX" envDefault:"false"`

	PublicAPIBase string `env:"PUBLIC_API_BASE"`
	AppBaseURL    string `env:"APP_BASE_URL"`

	SMTPHost   string `env:"SMTP_HOST"`
	SMTPPort   int    `env:"SMTP_PORT" envDefault:"465"`
	SMTPUser   string `env:"SMTP_USER"`
	SMTPPass   string `env:"SMTP_PASS"`
	AdminEmail string `env:"ADMIN_EMAIL"`

	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Router      string `env:"ROUTER" envDefault:"chi"`

	RedisURL         string        `env:"REDIS_URL"`
	WebhookRateLimit int           `env:"WEBHOOK_RATE_LIMIT" envDefault:"100"`
	RateLimitWindow  time.Duration `env:"WEBHOOK_RATE_WINDOW" envDefault:"1m"`

	InvoicePrefix   string `env:"INVOICE_PREFIX" envDefault:"EL"`
	IssuerName      string `env:"ISSUER_NAME" envDefault:"Easy Latih Consultancy"`
	IssuerWebsite   string `env:"ISSUER_WEBSITE" envDefault:"www.easylatih.my"`
	BillDescription string `env:"BILL_DESCRIPTION" envDefault:"Training Registration Fee"`
	MailFromName    string `env:"MAIL_FROM_NAME" envDefault:"Easy Latih"`
}

// Load reads the process environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

// LoadFrom reads the given variables instead of the process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

// Validate reports the first missing or malformed setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.WebhookSecret) == "" {
		return fmt.Errorf("%w: BILLPLZ_X_SIGNATURE is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: BILLPLZ_API_KEY is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.CollectionID) == "" {
		return fmt.Errorf("%w: BILLPLZ_COLLECTION_ID is required", ErrInvalidConfig)
	}
	if !knownRouter(c.Router) {
		return fmt.Errorf("%w: unknown ROUTER %q (want one of %s)", ErrInvalidConfig, c.Router, strings.Join(Routers, ", "))
	}
	if c.SMTPHost != "" && c.AdminEmail == "" {
		return fmt.Errorf("%w: ADMIN_EMAIL is required when SMTP_HOST is set", ErrInvalidConfig)
	}
	if c.SMTPPort <= 0 {
		return fmt.Errorf("%w: SMTP_PORT must be positive", ErrInvalidConfig)
	}
	if c.WebhookRateLimit <= 0 {
		return fmt.Errorf("%w: WEBHOOK_RATE_LIMIT must be positive", ErrInvalidConfig)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("%w: WEBHOOK_RATE_WINDOW must be positive", ErrInvalidConfig)
	}
	return nil
}

func knownRouter(name string) bool {
	for _, r := range Routers {
		if r == name {
			return true
		}
	}
	return false
}

// BillplzBaseURL is the API root for the configured environment.
func (c *Config) BillplzBaseURL() string {
	return billplz.BaseURL(c.Sandbox)
}

// CallbackURL is where Billplz posts payment callbacks.
func (c *Config) CallbackURL() string {
	return strings.TrimRight(c.PublicAPIBase, "/") + webhookPath
}

// RedirectURL is where the payer lands after the hosted payment page.
func (c *Config) RedirectURL() string {
	return strings.TrimRight(c.AppBaseURL, "/") + paymentStatusPath
}

// Billing returns the provider configuration. Collaborators (OnPayment,
// RateLimiter, Metrics, Logger) are left for the caller to wire.
func (c *Config) Billing() billing.Config {
	return billing.Config{
		WebhookSecret: c.WebhookSecret,
		APIKey:        c.APIKey,
		CollectionID:  c.CollectionID,
		Sandbox:       c.Sandbox,
		Description:   c.BillDescription,
		CallbackURL:   c.CallbackURL(),
		RedirectURL:   c.RedirectURL(),
	}
}

// Mailer returns the SMTP relay configuration.
func (c *Config) Mailer() mailer.Config {
	return mailer.Config{
		Host:         c.SMTPHost,
		Port:         c.SMTPPort,
		Username:     c.SMTPUser,
		Password:     c.SMTPPass,
		AdminAddress: c.AdminEmail,
		FromName:     c.MailFromName,
	}
}

// Letterhead returns the invoice header and footer text.
func (c *Config) Letterhead() invoice.Letterhead {
	lh := invoice.DefaultLetterhead()
	lh.IssuerName = c.IssuerName
	lh.Website = c.IssuerWebsite
	lh.Description = c.BillDescription
	return lh
}

// RateLimit returns the Redis limiter settings.
func (c *Config) RateLimit() redisstore.Config {
	rc := redisstore.DefaultConfig()
	rc.Limit = c.WebhookRateLimit
	rc.Window = c.RateLimitWindow
	return rc
}

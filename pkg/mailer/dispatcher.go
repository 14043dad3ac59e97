// Package mailer delivers rendered invoices by email.
package mailer

import (
	"context"
	"fmt"

	"github.com/mihaimyh/paybridge/pkg/billing"
)

const defaultSMTPPort = 465

// Config describes the outbound relay. An empty Host disables delivery.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	// AdminAddress is the sender address and receives a blind copy of every invoice.
	AdminAddress string

	// FromName is the display name of the sender (e.g., "Easy Latih").
	FromName string
}

// Configured reports whether a relay host is set.
func (c Config) Configured() bool {
	return c.Host != ""
}

// Message is one outbound email.
type Message struct {
	FromName    string
	From        string
	To          string
	Bcc         []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Attachment is an in-memory file attached to a Message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Sender hands a message to a mail transport.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Dispatcher emails invoices through a Sender.
type Dispatcher struct {
	config  Config
	sender  Sender
	metrics billing.Metrics
	logger  billing.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSender replaces the SMTP transport.
func WithSender(sender Sender) Option {
	return func(d *Dispatcher) {
		d.sender = sender
	}
}

// WithMetrics records dispatch outcomes.
func WithMetrics(metrics billing.Metrics) Option {
	return func(d *Dispatcher) {
		if metrics != nil {
			d.metrics = metrics
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger billing.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher. Without WithSender it sends over SMTP
// with implicit TLS.
func NewDispatcher(config Config, opts ...Option) *Dispatcher {
	if config.Port == 0 {
		config.Port = defaultSMTPPort
	}
	d := &Dispatcher{
		config:  config,
		metrics: &billing.NoopMetrics{},
		logger:  &billing.NoopLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.sender == nil {
		d.sender = NewSMTPSender(config)
	}
	return d
}

// Dispatch emails pdf to "to" with the admin address in BCC. When no relay
// is configured it logs and returns nil without touching the network.
func (d *Dispatcher) Dispatch(ctx context.Context, to string, pdf []byte, invoiceNo string) error {
	if !d.config.Configured() {
		d.logger.Info("no SMTP host configured, skipping invoice email",
			billing.Field{Key: "invoice_no", Value: invoiceNo},
		)
		d.metrics.RecordEmailDispatch("skipped")
		return nil
	}

	if err := d.sender.Send(ctx, d.compose(to, pdf, invoiceNo)); err != nil {
		d.metrics.RecordEmailDispatch("error")
		return fmt.Errorf("failed to send invoice %s: %w", invoiceNo, err)
	}

	d.logger.Info("invoice emailed",
		billing.Field{Key: "invoice_no", Value: invoiceNo},
		billing.Field{Key: "to", Value: to},
	)
	d.metrics.RecordEmailDispatch("sent")
	return nil
}

func (d *Dispatcher) compose(to string, pdf []byte, invoiceNo string) *Message {
	msg := &Message{
		FromName: d.config.FromName,
		From:     d.config.AdminAddress,
		To:       to,
		Subject:  fmt.Sprintf("Invoice %s – %s", invoiceNo, d.config.FromName),
		Body:     fmt.Sprintf("Attached is your invoice %s. Thank you.", invoiceNo),
		Attachments: []Attachment{
			{Filename: invoiceNo + ".pdf", Content: pdf},
		},
	}
	if d.config.AdminAddress != "" {
		msg.Bcc = []string{d.config.AdminAddress}
	}
	return msg
}

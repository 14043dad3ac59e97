package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/mihaimyh/paybridge/pkg/billing"
)

// Mailer delivers a rendered invoice. mailer.Dispatcher satisfies it.
type Mailer interface {
	Dispatch(ctx context.Context, to string, pdf []byte, invoiceNo string) error
}

// IssuerConfig wires the invoice pipeline.
type IssuerConfig struct {
	Numbers  *NumberGenerator
	Renderer *Renderer
	Mailer   Mailer // optional; nil disables email
	Metrics  billing.Metrics
	Logger   billing.Logger
	Now      func() time.Time
}

// Issuer turns paid events into emailed PDF invoices. Use HandlePayment as
// billing.Config.OnPayment.
type Issuer struct {
	numbers  *NumberGenerator
	renderer *Renderer
	mailer   Mailer
	metrics  billing.Metrics
	logger   billing.Logger
	now      func() time.Time
}

// NewIssuer creates an Issuer, filling defaults for unset fields.
func NewIssuer(config IssuerConfig) *Issuer {
	i := &Issuer{
		numbers:  config.Numbers,
		renderer: config.Renderer,
		mailer:   config.Mailer,
		metrics:  config.Metrics,
		logger:   config.Logger,
		now:      config.Now,
	}
	if i.numbers == nil {
		i.numbers = NewNumberGenerator(DefaultPrefix)
	}
	if i.renderer == nil {
		i.renderer = NewRenderer(DefaultLetterhead())
	}
	if i.metrics == nil {
		i.metrics = &billing.NoopMetrics{}
	}
	if i.logger == nil {
		i.logger = &billing.NoopLogger{}
	}
	if i.now == nil {
		i.now = time.Now
	}
	return i
}

// HandlePayment numbers, renders and, when the payer left an email, sends
// the invoice. The invoice is discarded afterwards.
func (i *Issuer) HandlePayment(ctx context.Context, event billing.PaymentEvent) error {
	inv := Invoice{
		Number:   i.numbers.Next(),
		Name:     event.Name,
		Email:    event.Email,
		Amount:   event.Amount,
		BillID:   event.BillID,
		PaidAt:   event.PaidAt,
		IssuedAt: i.now(),
	}

	pdf, err := i.renderer.Render(inv)
	if err != nil {
		i.metrics.RecordInvoiceIssued("error")
		return fmt.Errorf("failed to render invoice %s: %w", inv.Number, err)
	}

	i.logger.Info("invoice issued",
		billing.Field{Key: "invoice_no", Value: inv.Number},
		billing.Field{Key: "bill_id", Value: inv.BillID},
		billing.Field{Key: "amount", Value: FormatAmount(inv.Amount)},
		billing.Field{Key: "bytes", Value: len(pdf)},
	)

	if inv.Email == "" || i.mailer == nil {
		i.metrics.RecordInvoiceIssued("success")
		return nil
	}

	if err := i.mailer.Dispatch(ctx, inv.Email, pdf, inv.Number); err != nil {
		i.metrics.RecordInvoiceIssued("error")
		return err
	}

	i.metrics.RecordInvoiceIssued("success")
	return nil
}

package billplz

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mihaimyh/paybridge/pkg/billing"
	"github.com/mihaimyh/paybridge/pkg/billing/internal"
)

const (
	statePaid       = "paid"
	statusProcessed = "processed"
	statusIgnored   = "ignored"
	statusError     = "error"
)

// IsPaid reports whether a verified callback describes a settled payment.
func IsPaid(fields map[string]string) bool {
	return fields["paid"] == "true" && fields["state"] == statePaid
}

// handleWebhook processes incoming Billplz callbacks.
// Once the signature checks out the response is always 200, whatever happens
// in OnPayment, so Billplz keeps the callback URL healthy.
func (p *Provider) handleWebhook(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	internal.SetSecurityHeaders(w)

	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	if p.webhookSecret == "" {
		http.Error(w, "webhook not configured", http.StatusServiceUnavailable)
		return
	}

	requestID := uuid.NewString()

	body, err := internal.ReadBodyStrict(w, r, maxWebhookBodyBytes)
	if err != nil && !errors.Is(err, internal.ErrEmptyBody) {
		if errors.Is(err, internal.ErrPayloadTooLarge) {
			http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			p.metrics.RecordWebhookError(providerName, "payload_too_large")
			return
		}
		http.Error(w, "invalid payload", http.StatusBadRequest)
		p.metrics.RecordWebhookError(providerName, "invalid_payload")
		return
	}

	fields, err := p.parseCallback(body)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrInvalidWebhookSignature):
			p.logger.Warn("webhook signature rejected",
				billing.Field{Key: "request_id", Value: requestID},
				billing.Field{Key: "remote_ip", Value: internal.GetClientIP(r)},
				billing.Field{Key: "bill_id", Value: fields["id"]},
			)
			p.metrics.RecordWebhookError(providerName, "auth_failed")
			if !p.allowRejected(r) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			http.Error(w, "Invalid signature", http.StatusBadRequest)
		default:
			p.metrics.RecordWebhookError(providerName, "invalid_payload")
			http.Error(w, "invalid payload", http.StatusBadRequest)
		}
		return
	}

	state := fields["state"]
	if state == "" {
		state = "unknown"
	}

	if !IsPaid(fields) {
		p.logger.Debug("webhook acknowledged without payment",
			billing.Field{Key: "request_id", Value: requestID},
			billing.Field{Key: "bill_id", Value: fields["id"]},
			billing.Field{Key: "state", Value: state},
			billing.Field{Key: "paid", Value: fields["paid"]},
		)
		p.acknowledge(w)
		p.metrics.RecordWebhookEvent(providerName, state, statusIgnored)
		p.metrics.RecordWebhookProcessingDuration(providerName, state, time.Since(startTime))
		return
	}

	status := statusProcessed
	if err := p.dispatchPayment(r.Context(), fields); err != nil {
		status = statusError
		p.logger.Error("payment processing failed",
			billing.Field{Key: "request_id", Value: requestID},
			billing.Field{Key: "bill_id", Value: fields["id"]},
			billing.Field{Key: "error", Value: err},
		)
	}

	p.acknowledge(w)
	p.metrics.RecordWebhookEvent(providerName, state, status)
	p.metrics.RecordWebhookProcessingDuration(providerName, state, time.Since(startTime))
}

// dispatchPayment hands a paid callback to OnPayment. The request context is
// detached so a disconnecting caller does not abort invoice delivery.
func (p *Provider) dispatchPayment(ctx context.Context, fields map[string]string) error {
	if p.config.OnPayment == nil {
		return nil
	}

	event := billing.PaymentEvent{
		Provider: providerName,
		BillID:   fields["id"],
		Name:     fields["name"],
		Email:    fields["email"],
		Amount:   fields["amount"],
		PaidAt:   fields["paid_at"],
		Fields:   fields,
	}
	return p.config.OnPayment(context.WithoutCancel(ctx), event)
}

// parseCallback decodes a callback body and verifies its x_signature.
// On a bad signature the decoded fields are still returned for logging.
// Verified fields are returned without the signature.
func (p *Provider) parseCallback(body []byte) (map[string]string, error) {
	fields, err := p.forms.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrInvalidWebhookPayload, err)
	}
	if !VerifySignature(fields, p.webhookSecret) {
		return fields, fmt.Errorf("%w: bill %q", billing.ErrInvalidWebhookSignature, fields["id"])
	}
	delete(fields, signatureField)
	return fields, nil
}

// allowRejected charges a failed verification to the sender's socket
// address. Verified callbacks never consume the budget.
func (p *Provider) allowRejected(r *http.Request) bool {
	return internal.Allow(r.Context(), p.rateLimiter, p.logger, internal.RemoteIP(r))
}

func (p *Provider) acknowledge(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

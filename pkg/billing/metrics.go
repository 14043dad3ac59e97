package billing

import "time"

// Metrics defines the interface for tracking bridge operations.
// All methods are optional - components should gracefully handle nil metrics.
type Metrics interface {
	// RecordWebhookEvent records a verified webhook received from the billing provider.
	// state: the provider's payment state (e.g., "paid", "due")
	// status: "processed", "ignored" or "error"
	RecordWebhookEvent(provider, state, status string)

	// RecordWebhookProcessingDuration records how long it took to process a webhook.
	RecordWebhookProcessingDuration(provider, state string, duration time.Duration)

	// RecordWebhookError records a webhook rejection.
	// errorType: e.g. "auth_failed", "invalid_payload", "payload_too_large"
	RecordWebhookError(provider, errorType string)

	// RecordAPICall records an API call to the billing provider.
	// endpoint: The API endpoint called (e.g., "/v3/bills")
	// status: HTTP status code as string, or "error" for transport failures
	RecordAPICall(provider, endpoint, status string)

	// RecordAPICallDuration records how long an API call took.
	RecordAPICallDuration(provider, endpoint string, duration time.Duration)

	// RecordInvoiceIssued records an invoice pipeline run.
	// status: "success" or "error"
	RecordInvoiceIssued(status string)

	// RecordEmailDispatch records an invoice email outcome.
	// status: "sent", "skipped" or "error"
	RecordEmailDispatch(status string)
}

// NoopMetrics is a no-op implementation of the Metrics interface.
type NoopMetrics struct{}

func (n *NoopMetrics) RecordWebhookEvent(_, _, _ string)                            {}
func (n *NoopMetrics) RecordWebhookProcessingDuration(_, _ string, _ time.Duration) {}
func (n *NoopMetrics) RecordWebhookError(_, _ string)                               {}
func (n *NoopMetrics) RecordAPICall(_, _, _ string)                                 {}
func (n *NoopMetrics) RecordAPICallDuration(_, _ string, _ time.Duration)           {}
func (n *NoopMetrics) RecordInvoiceIssued(_ string)                                 {}
func (n *NoopMetrics) RecordEmailDispatch(_ string)                                 {}

package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderNotConfigured is returned when a provider is not properly configured
	ErrProviderNotConfigured = errors.New("billing provider not configured")

	// ErrInvalidWebhookSignature is returned when webhook signature validation fails
	ErrInvalidWebhookSignature = errors.New("invalid webhook signature")

	// ErrInvalidWebhookPayload is returned when webhook payload cannot be parsed
	ErrInvalidWebhookPayload = errors.New("invalid webhook payload")

	// ErrProviderAPIError is returned when the provider's API returns an error
	ErrProviderAPIError = errors.New("billing provider API error")

	// ErrMissingFields is returned when a bill request lacks required payer fields
	ErrMissingFields = errors.New("missing fields")
)

// ProviderError carries the provider's non-success response.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrProviderAPIError, e.StatusCode, e.Body)
}

func (e *ProviderError) Unwrap() error {
	return ErrProviderAPIError
}

package billing

// PaymentEvent describes a verified callback whose payment is settled.
// It is passed to Config.OnPayment; nothing about it is persisted.
type PaymentEvent struct {
	// Provider is the billing provider name ("billplz")
	Provider string

	// BillID is the provider's bill identifier
	BillID string

	// Name and Email identify the payer. Email may be empty.
	Name  string
	Email string

	// Amount is the raw amount in minor currency units as sent by the provider.
	Amount string

	// PaidAt is the provider's raw paid-at timestamp, empty when absent.
	PaidAt string

	// Fields holds the full verified callback, signature excluded.
	Fields map[string]string
}

package billing

import (
	"context"
	"net/http"
)

// Provider is the generic interface a hosted-payment backend must implement.
// The bridge only needs two things from a provider: a way to open a bill the
// payer can settle on a hosted page, and an endpoint that receives the
// provider's asynchronous payment callback.
type Provider interface {
	// Name returns the provider name (e.g., "billplz")
	Name() string

	// CreateBill opens a bill with the provider and returns its hosted payment URL.
	CreateBill(ctx context.Context, req BillRequest) (*Bill, error)

	// BillHandler returns the HTTP handler that accepts the payer's form and
	// redirects to the hosted payment page.
	BillHandler() http.Handler

	// WebhookHandler returns the HTTP handler that processes payment callbacks.
	// The implementation handles method checks, signature verification and
	// dispatch of paid events to Config.OnPayment internally.
	WebhookHandler() http.Handler
}

// BillRequest is the transient payload of one outbound bill-creation call.
type BillRequest struct {
	Name        string
	Email       string
	Mobile      string
	Amount      string // minor currency unit, e.g. "10050" for RM 100.50
	Description string
	CallbackURL string
	RedirectURL string
}

// Bill is the subset of the provider's bill resource the bridge relies on.
type Bill struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

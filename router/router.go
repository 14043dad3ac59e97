// Package router holds the route table shared by the framework adapters.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/mihaimyh/paybridge/pkg/billing"
)

const (
	// CreateBillPath receives the registration form and redirects to the hosted payment page.
	CreateBillPath = "/api/create-bill"
	// WebhookPath receives Billplz payment callbacks.
	WebhookPath = "/api/billplz-webhook"
	// HealthPath answers liveness probes.
	HealthPath = "/healthz"
)

// Handlers are the endpoints every adapter mounts. Bill and Webhook receive all
// methods so they can answer 405 themselves.
type Handlers struct {
	Bill    http.Handler
	Webhook http.Handler
	Health  http.Handler
}

// FromProvider builds the handler set for a billing provider.
func FromProvider(p billing.Provider) Handlers {
	return Handlers{
		Bill:    p.BillHandler(),
		Webhook: p.WebhookHandler(),
	}
}

// HealthHandler returns Health, or a static JSON liveness handler when unset.
func (h Handlers) HealthHandler() http.Handler {
	if h.Health != nil {
		return h.Health
	}
	return http.HandlerFunc(healthz)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

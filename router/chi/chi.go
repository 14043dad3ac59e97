// Package chi mounts the bridge endpoints on a chi router.
package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mihaimyh/paybridge/router"
)

// Register mounts the handlers on r.
func Register(r chi.Router, h router.Handlers) {
	r.Handle(router.CreateBillPath, h.Bill)
	r.Handle(router.WebhookPath, h.Webhook)
	r.Method(http.MethodGet, router.HealthPath, h.HealthHandler())
}

// New returns a chi router with panic recovery and the handlers mounted.
func New(h router.Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	Register(r, h)
	return r
}

// Package mux mounts the bridge endpoints on a gorilla/mux router.
package mux

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mihaimyh/paybridge/router"
)

// Register mounts the handlers on r.
func Register(r *mux.Router, h router.Handlers) {
	r.Handle(router.CreateBillPath, h.Bill)
	r.Handle(router.WebhookPath, h.Webhook)
	r.Handle(router.HealthPath, h.HealthHandler()).Methods(http.MethodGet)
}

// New returns a gorilla/mux router with the handlers mounted.
func New(h router.Handlers) *mux.Router {
	r := mux.NewRouter()
	Register(r, h)
	return r
}

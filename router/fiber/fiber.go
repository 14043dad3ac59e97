// Package fiber mounts the bridge endpoints on a Fiber app.
package fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mihaimyh/paybridge/router"
)

// Register mounts the handlers on app.
func Register(app *fiber.App, h router.Handlers) {
	app.All(router.CreateBillPath, adaptor.HTTPHandler(h.Bill))
	app.All(router.WebhookPath, adaptor.HTTPHandler(h.Webhook))
	app.Get(router.HealthPath, adaptor.HTTPHandler(h.HealthHandler()))
}

// New returns a Fiber app with panic recovery and the handlers mounted.
func New(h router.Handlers) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	Register(app, h)
	return app
}

// Handler exposes a Fiber app as a net/http handler so it can share the
// server lifecycle of the other adapters.
func Handler(h router.Handlers) http.Handler {
	return adaptor.FiberApp(New(h))
}

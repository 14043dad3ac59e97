// Package echo mounts the bridge endpoints on an Echo instance.
package echo

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mihaimyh/paybridge/router"
)

// Register mounts the handlers on e.
func Register(e *echo.Echo, h router.Handlers) {
	e.Any(router.CreateBillPath, echo.WrapHandler(h.Bill))
	e.Any(router.WebhookPath, echo.WrapHandler(h.Webhook))
	e.GET(router.HealthPath, echo.WrapHandler(h.HealthHandler()))
}

// New returns an Echo instance with panic recovery and the handlers mounted.
func New(h router.Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	Register(e, h)
	return e
}

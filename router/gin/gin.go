// Package gin mounts the bridge endpoints on a Gin engine.
package gin

import (
	"github.com/gin-gonic/gin"

	"github.com/mihaimyh/paybridge/router"
)

// Register mounts the handlers on r.
func Register(r gin.IRoutes, h router.Handlers) {
	r.Any(router.CreateBillPath, gin.WrapH(h.Bill))
	r.Any(router.WebhookPath, gin.WrapH(h.Webhook))
	r.GET(router.HealthPath, gin.WrapH(h.HealthHandler()))
}

// New returns a Gin engine with panic recovery and the handlers mounted.
func New(h router.Handlers) *gin.Engine {
	e := gin.New()
	e.Use(gin.Recovery())
	Register(e, h)
	return e
}

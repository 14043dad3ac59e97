package internal

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/mihaimyh/paybridge/pkg/billing"
)

// Allow consults store for key. Store failures allow the request: a broken
// limiter must not make the provider think the endpoint is down.
func Allow(ctx context.Context, store billing.RateLimitStore, logger billing.Logger, key string) bool {
	allowed, err := store.Allow(ctx, key)
	if err != nil {
		logger.Warn("rate limiter unavailable, allowing request",
			billing.Field{Key: "ip", Value: key},
			billing.Field{Key: "error", Value: err},
		)
		return true
	}
	return allowed
}

// RemoteIP returns the host part of RemoteAddr. Forwarding headers are
// ignored since any client can set them.
func RemoteIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// GetClientIP extracts the client IP address for logging.
// Checks X-Forwarded-For header first (set by proxies/load balancers),
// then falls back to RemoteIP.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take first IP in the chain
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	return RemoteIP(r)
}

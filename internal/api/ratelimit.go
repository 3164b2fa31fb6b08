package api

import (
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// loginRateLimit rejects login attempts beyond the per-IP budget with 429.
// The key is the connection address, which RealIP rewrites only when the
// server is configured to trust a proxy.
func (s *Server) loginRateLimit(ctx huma.Context, next func(huma.Context)) {
	key := clientIP(ctx.RemoteAddr())
	if !s.loginLimiter.Allow(key) {
		s.logger.Warn("login rate limit exceeded", "ip", key)
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "too many login attempts, try again later")
		return
	}
	next(ctx)
}

// clientIP strips the port from a connection address.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

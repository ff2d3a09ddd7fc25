package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/config"
	"github.com/sharadhiadiga/Elint/internal/interfaces/http/dto"
)

// DocsGuard gates the Swagger UI. Disabled docs answer 404, callers outside
// AllowedIPs get 403, and when RequireAuth is set requireBearer runs last.
// Unparseable allowlist entries are skipped.
func DocsGuard(cfg config.SwaggerConfig, requireBearer gin.HandlerFunc) gin.HandlerFunc {
	allow := parseAllowlist(cfg.AllowedIPs)
	restricted := len(cfg.AllowedIPs) > 0

	return func(c *gin.Context) {
		requestID := c.GetString(RequestIDKey)
		switch {
		case !cfg.Enabled:
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeNotFound, "API documentation is not available", requestID))
			return
		case restricted && !allowed(allow, c.ClientIP()):
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Access to API documentation is restricted", requestID))
			return
		}

		if cfg.RequireAuth && requireBearer != nil {
			requireBearer(c)
			if c.IsAborted() {
				return
			}
		}
		c.Next()
	}
}

// parseAllowlist accepts single addresses and CIDR prefixes
func parseAllowlist(entries []string) []netip.Prefix {
	out := make([]netip.Prefix, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if strings.Contains(e, "/") {
			if p, err := netip.ParsePrefix(e); err == nil {
				out = append(out, p.Masked())
			}
			continue
		}
		if addr, err := netip.ParseAddr(e); err == nil {
			out = append(out, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
		}
	}
	return out
}

func allowed(allow []netip.Prefix, clientIP string) bool {
	addr, err := netip.ParseAddr(clientIP)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range allow {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

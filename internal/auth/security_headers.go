package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContentPolicy lists the third-party origins pages may talk to, on top of
// the site itself. Package images may come from any https host.
type ContentPolicy struct {
	// ScriptOrigins may serve scripts and receive XHR beacons, e.g. the
	// analytics host.
	ScriptOrigins []string
}

func (p ContentPolicy) directives() []string {
	sources := func(base ...string) string {
		return strings.Join(append(base, p.ScriptOrigins...), " ")
	}
	return []string{
		"default-src 'self'",
		"script-src " + sources("'self'", "'unsafe-inline'"),
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data: https:",
		"font-src 'self'",
		"connect-src " + sources("'self'"),
		"frame-ancestors 'none'",
	}
}

const permissionsPolicy = "camera=(), geolocation=(), microphone=(), payment=(), usb=()"

// SecurityHeadersMiddleware sets the browser hardening headers on every
// response.
func SecurityHeadersMiddleware(policy ContentPolicy) gin.HandlerFunc {
	csp := strings.Join(policy.directives(), "; ")

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", permissionsPolicy)

		// forms post back to this host, which may sit behind a TLS proxy
		formAction := "'self'"
		if host := c.Request.Host; host != "" {
			formAction += " https://" + host
		}
		h.Set("Content-Security-Policy", csp+"; form-action "+formAction)

		c.Next()
	}
}

// StrictTransportSecurityMiddleware sends HSTS only on requests that
// arrived over TLS, directly or through a proxy.
func StrictTransportSecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if overTLS(c.Request) {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

func overTLS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

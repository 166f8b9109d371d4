// Package demo keeps a public demo deployment intact. The seeded admin
// credentials are published there, so the admin console is read-only.
package demo

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// Message is shown when a blocked write is attempted.
const Message = "This action is disabled in demo mode."

// Notifier reports a blocked write to the visitor, usually as a flash.
type Notifier func(c *gin.Context, message string)

// Middleware blocks write operations on the admin console in demo mode.
// Read-only operations are always allowed, as are customer pages.
type Middleware struct {
	enabled bool
	notify  Notifier
}

// NewMiddleware creates a demo mode middleware. notify may be nil, in
// which case blocked writes get a plain 403.
func NewMiddleware(enabled bool, notify Notifier) *Middleware {
	return &Middleware{enabled: enabled, notify: notify}
}

// IsEnabled returns whether demo mode is active.
func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that blocks admin writes.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		if isReadOnly(c.Request.Method) || !isProtectedPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		m.respondBlocked(c)
	}
}

func isReadOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// isProtectedPath reports whether path is part of the admin console.
// The admin login stays open so visitors can use the published account.
func isProtectedPath(path string) bool {
	if path == "/admin/login" {
		return false
	}
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}

// respondBlocked answers JSON clients with a 403 and sends browsers back
// to the page they came from.
func (m *Middleware) respondBlocked(c *gin.Context) {
	if m.notify == nil || strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     Message,
			"demo_mode": true,
		})
		return
	}

	m.notify(c, Message)
	c.Redirect(http.StatusFound, backTo(c.Request))
	c.Abort()
}

// backTo returns the local referer, or the console home.
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || !strings.HasPrefix(ref.Path, "/") || (ref.Host != "" && ref.Host != r.Host) {
		return "/admin"
	}
	return ref.RequestURI()
}

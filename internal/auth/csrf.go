package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// CSRFFieldName is the form field carrying the token.
const CSRFFieldName = "gorilla.csrf.Token"

// CSRFTokenHeader is the header name for CSRF token in AJAX requests.
const CSRFTokenHeader = "X-CSRF-Token"

const csrfContextKey = "csrf_token"

// CSRFMiddleware creates a Gin middleware for CSRF protection. Safe methods
// pass through and get a token for the templates. When secure is false the
// request is marked as plain HTTP so the origin check does not demand TLS.
// Rejected submissions are logged with gorilla's failure reason.
func CSRFMiddleware(secret []byte, secure bool, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.FieldName(CSRFFieldName),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.ErrorHandler(csrfRejected(logger)),
	)

	return func(c *gin.Context) {
		if !secure {
			c.Request = csrf.PlaintextHTTPRequest(c.Request)
		}

		passed := false
		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Set(csrfContextKey, csrf.Token(r))
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)
		if !passed {
			// the error handler already responded
			c.Abort()
		}
	}
}

// csrfExpiredPage is served outside the layout: the rejected request never
// reaches the session middleware, so there is nothing to render it with.
const csrfExpiredPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Session Expired | Tourism Packages</title>
<link rel="stylesheet" href="/static/style.css"></head>
<body><main class="container">
<h1>Session Expired</h1>
<p>This form has expired. Reload the page and submit it again.</p>
<p><a href="/">Back to the packages</a></p>
</main></body>
</html>`

func csrfRejected(logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("csrf check failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.NamedError("reason", csrf.FailureReason(r)),
		)

		if strings.Contains(r.Header.Get("Accept"), "application/json") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(csrfExpiredPage))
	})
}

// GetCSRFToken retrieves the CSRF token from the Gin context.
func GetCSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/tourism/internal/auth"
	"github.com/mrlokans/tourism/internal/demo"
	"github.com/mrlokans/tourism/internal/logging"
)

// Router is the configured engine plus the controllers that hold
// background resources.
type Router struct {
	*gin.Engine
	authController *auth.AuthController
}

// Close stops the login throttle.
func (r *Router) Close() {
	r.authController.Stop()
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) (*Router, error) {
	if cfg.Store == nil || cfg.Sessions == nil {
		return nil, errors.New("router needs a store and a session manager")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(logging.RequestLogger(logger))
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	var policy auth.ContentPolicy
	if origin := cfg.Analytics.Origin(); origin != "" {
		policy.ScriptOrigins = append(policy.ScriptOrigins, origin)
	}
	router.Use(auth.SecurityHeadersMiddleware(policy))
	router.Use(auth.StrictTransportSecurityMiddleware())

	// CSRF runs before the session middleware so the request it rewrites
	// still carries the session context afterwards
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.Auth.SecureCookies, logger))
	}
	router.Use(cfg.Sessions.SessionLoadSave(logger))
	router.Use(cfg.Store.RequestScope())

	// Blocked admin writes are reported as a flash on the previous page
	router.Use(demo.NewMiddleware(cfg.DemoMode, func(c *gin.Context, message string) {
		cfg.Sessions.AddFlash(c.Request, auth.FlashWarning, message)
	}).Handler())

	tmpl, err := LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	// Serve static files
	router.StaticFS("/static", StaticFiles(cfg.StaticPath))

	views := NewViews(cfg.Sessions, logger, Site{
		DemoMode:        cfg.DemoMode,
		AnalyticsScript: cfg.Analytics.ScriptTag(),
	})

	var emailCheck []gin.HandlerFunc
	if len(cfg.CORSOrigins) > 0 {
		emailCheck = append(emailCheck, cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{http.MethodGet},
		}))
	}

	authController := auth.NewAuthController(cfg.Sessions, views, cfg.Auth, cfg.Admin, logger)
	authController.RegisterRoutes(router, emailCheck...)

	NewCatalogController(views, cfg.Sessions, logger).RegisterRoutes(router)
	NewBackofficeController(views, cfg.Sessions, logger).RegisterRoutes(router)

	// Health endpoints
	health := NewHealthController(cfg.Store, cfg.Version, logger)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	router.NoRoute(views.NotFound)

	return &Router{Engine: router, authController: authController}, nil
}

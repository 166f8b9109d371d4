package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/tourism/internal/analytics"
	"github.com/mrlokans/tourism/internal/auth"
	"github.com/mrlokans/tourism/internal/config"
	"github.com/mrlokans/tourism/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Store    *database.Store
	Sessions *auth.SessionManager
	Logger   *zap.Logger

	// Auth settings: login throttling, cookies, bcrypt cost
	Auth  config.Auth
	Admin config.Admin

	// CSRFSecret enables CSRF protection when non-empty. It must be 32 bytes.
	CSRFSecret []byte

	// UI paths. An empty TemplatesPath uses the embedded templates and an
	// empty StaticPath the embedded assets.
	TemplatesPath string
	StaticPath    string

	// Origins allowed to call the JSON email checks
	CORSOrigins []string

	// DemoMode makes the admin console read-only
	DemoMode bool

	// Analytics adds the Plausible script to every page when enabled
	Analytics analytics.Plausible

	// Application info
	Version string
}

package http

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/tourism/internal/auth"
	"github.com/mrlokans/tourism/internal/logging"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

//go:embed static
var embeddedStatic embed.FS

var templateFuncs = template.FuncMap{
	"rupees": formatRupees,
	"date":   formatDate,
	"year":   func() int { return time.Now().Year() },
}

func formatRupees(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}

// LoadTemplates parses every page template from dir, or the embedded set
// when dir is empty. Pages are addressed by file name.
func LoadTemplates(dir string) (*template.Template, error) {
	root := template.New("").Funcs(templateFuncs)
	if dir == "" {
		return root.ParseFS(embeddedTemplates, "templates/*.html")
	}
	tmpl, err := root.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates in %s: %w", dir, err)
	}
	return tmpl, nil
}

// StaticFiles returns dir as a file system, or the embedded assets when
// dir is empty or missing.
func StaticFiles(dir string) http.FileSystem {
	if info, err := os.Stat(dir); dir != "" && err == nil && info.IsDir() {
		return gin.Dir(dir, false)
	}
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		// the directory is part of the binary
		panic(err)
	}
	return http.FS(sub)
}

// Site is layout data that does not change between requests.
type Site struct {
	DemoMode        bool
	AnalyticsScript template.HTML
}

// Views renders pages inside the shared layout. Every page gets the
// pending flashes, the names of whoever is logged in and the CSRF token.
type Views struct {
	sessions *auth.SessionManager
	logger   *zap.Logger
	site     Site
}

var _ auth.Renderer = (*Views)(nil)

func NewViews(sessions *auth.SessionManager, logger *zap.Logger, site Site) *Views {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Views{sessions: sessions, logger: logger, site: site}
}

func (v *Views) HTML(c *gin.Context, status int, name string, data gin.H) {
	r := c.Request
	page := gin.H{
		"Flashes":       v.sessions.PopFlashes(r),
		"UserLoggedIn":  v.sessions.UserID(r) != 0,
		"UserName":      v.sessions.UserName(r),
		"AdminLoggedIn": v.sessions.AdminID(r) != 0,
		"AdminName":     v.sessions.AdminName(r),
		"CSRFField":     auth.CSRFFieldName,
		"CSRFToken":     auth.GetCSRFToken(c),
		"DemoMode":      v.site.DemoMode,
		"Analytics":     v.site.AnalyticsScript,
	}
	for k, val := range data {
		page[k] = val
	}
	c.HTML(status, name, page)
}

func (v *Views) NotFound(c *gin.Context) {
	v.HTML(c, http.StatusNotFound, "404.html", gin.H{"Title": "Not found"})
}

// Error logs err and renders the generic error page. The cause is never
// shown to the visitor.
func (v *Views) Error(c *gin.Context, err error) {
	logging.FromContext(c, v.logger).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	_ = c.Error(err)
	v.HTML(c, http.StatusInternalServerError, "500.html", gin.H{"Title": "Error"})
}

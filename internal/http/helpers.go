package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/tourism/internal/apperr"
	"github.com/mrlokans/tourism/internal/auth"
	"github.com/mrlokans/tourism/internal/database"
)

// pages is the plumbing shared by the page controllers.
type pages struct {
	views    *Views
	sessions *auth.SessionManager
	logger   *zap.Logger
}

// conn returns the request's connection. On failure the error page is
// already rendered.
func (p *pages) conn(c *gin.Context) (*database.Conn, bool) {
	conn, err := database.ConnFrom(c)
	if err != nil {
		p.views.Error(c, err)
		return nil, false
	}
	return conn, true
}

// fail maps a service error onto the response. Missing records render the
// 404 page, other known errors become an error flash on redirect, and
// anything else renders the error page.
func (p *pages) fail(c *gin.Context, err error, redirect string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		p.views.NotFound(c)
	case apperr.IsKnown(err):
		p.flashAndRedirect(c, auth.FlashError, apperr.Message(err), redirect)
	default:
		p.views.Error(c, err)
	}
}

func (p *pages) flashAndRedirect(c *gin.Context, category, message, location string) {
	p.sessions.AddFlash(c.Request, category, message)
	c.Redirect(http.StatusFound, location)
}

// idParam parses a numeric path parameter. Anything else names no record,
// so the 404 page is rendered.
func (p *pages) idParam(c *gin.Context, name string) (uint, bool) {
	id, ok := parseIDParam(c, name)
	if !ok {
		p.views.NotFound(c)
	}
	return id, ok
}

// parseIDParam extracts a positive unsigned integer ID from URL parameters.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

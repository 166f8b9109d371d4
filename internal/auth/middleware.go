package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys for the authenticated account ids.
const (
	ContextKeyUserID  = "auth_user_id"
	ContextKeyAdminID = "auth_admin_id"
)

// Login pages the guards redirect to.
const (
	UserLoginPath  = "/login"
	AdminLoginPath = "/admin/login"
)

// RequireUser lets the request through only with a customer session.
// Otherwise it queues a warning and redirects to the customer login page.
func RequireUser(sm *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := sm.UserID(c.Request)
		if userID == 0 {
			sm.AddFlash(c.Request, FlashWarning, "Please login first!")
			c.Redirect(http.StatusFound, UserLoginPath)
			c.Abort()
			return
		}
		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// RequireAdmin is RequireUser for the admin namespace.
func RequireAdmin(sm *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID := sm.AdminID(c.Request)
		if adminID == 0 {
			sm.AddFlash(c.Request, FlashWarning, "Admin login required.")
			c.Redirect(http.StatusFound, AdminLoginPath)
			c.Abort()
			return
		}
		c.Set(ContextKeyAdminID, adminID)
		c.Next()
	}
}

// GetUserID retrieves the customer id set by RequireUser, or 0.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// GetAdminID retrieves the admin id set by RequireAdmin, or 0.
func GetAdminID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyAdminID); exists {
		if adminID, ok := id.(uint); ok {
			return adminID
		}
	}
	return 0
}

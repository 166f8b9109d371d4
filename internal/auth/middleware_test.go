package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/tourism/internal/config"
	"github.com/mrlokans/tourism/internal/entities"
)

func setupGuardRouter(t *testing.T) *gin.Engine {
	t.Helper()
	sm := setupSessionManager(t, config.Auth{})

	router := gin.New()
	router.Use(sm.SessionLoadSave(nil))
	router.GET("/as-user", func(c *gin.Context) {
		_ = sm.LoginUser(c.Request, &entities.User{ID: 11, Fullname: "Alice"})
		c.Status(http.StatusOK)
	})
	router.GET("/as-admin", func(c *gin.Context) {
		_ = sm.LoginAdmin(c.Request, &entities.Admin{ID: 5, Fullname: "Admin"})
		c.Status(http.StatusOK)
	})
	router.GET("/user-only", RequireUser(sm), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetUserID(c), "admin": GetAdminID(c)})
	})
	router.GET("/admin-only", RequireAdmin(sm), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetUserID(c), "admin": GetAdminID(c)})
	})
	return router
}

func TestRequireUser(t *testing.T) {
	router := setupGuardRouter(t)

	client := newTestClient(t, router)
	rr := client.get("/user-only")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, UserLoginPath, rr.Header().Get("Location"))

	client.get("/as-user")
	rr = client.get("/user-only")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"user":11,"admin":0}`, rr.Body.String())

	// a customer session does not open the back office
	rr = client.get("/admin-only")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, AdminLoginPath, rr.Header().Get("Location"))
}

func TestRequireAdmin(t *testing.T) {
	router := setupGuardRouter(t)

	client := newTestClient(t, router)
	client.get("/as-admin")
	rr := client.get("/admin-only")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"user":0,"admin":5}`, rr.Body.String())

	rr = client.get("/user-only")
	assert.Equal(t, http.StatusFound, rr.Code)
}

func TestGetIDs_WithoutGuard(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Zero(t, GetUserID(c))
	assert.Zero(t, GetAdminID(c))

	c.Set(ContextKeyUserID, "not-a-uint")
	assert.Zero(t, GetUserID(c))
}

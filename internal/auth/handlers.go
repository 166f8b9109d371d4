package auth

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/tourism/internal/activity"
	"github.com/mrlokans/tourism/internal/apperr"
	"github.com/mrlokans/tourism/internal/config"
	"github.com/mrlokans/tourism/internal/database"
	"github.com/mrlokans/tourism/internal/database/users"
	"github.com/mrlokans/tourism/internal/forms"
)

// Renderer draws full pages. The HTTP layer implements it with the shared
// layout, the pending flashes and the CSRF token.
type Renderer interface {
	HTML(c *gin.Context, status int, name string, data gin.H)
	NotFound(c *gin.Context)
	Error(c *gin.Context, err error)
}

// Redirect targets after account actions.
const (
	UserHomePath      = "/dashboard"
	AdminHomePath     = "/admin"
	ProfilePath       = "/profile"
	AdminProfilePath  = "/admin/profile"
	UserRegisterPath  = "/register"
	AdminRegisterPath = "/admin/register"
)

type registerForm struct {
	Fullname string `form:"fullname" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type adminRegisterForm struct {
	Fullname        string `form:"fullname" binding:"required"`
	Email           string `form:"email" binding:"required"`
	Password        string `form:"password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" binding:"required"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type changePasswordForm struct {
	CurrentPassword string `form:"current_password"`
	NewPassword     string `form:"new_password"`
	ConfirmPassword string `form:"confirm_password"`
}

type profileForm struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Phone    string `form:"phone"`
	Location string `form:"location"`
}

// AuthController handles account endpoints for customers and admins.
type AuthController struct {
	sessions          *SessionManager
	views             Renderer
	config            config.Auth
	adminRegistration bool
	throttle          *LoginThrottle
	logger            *zap.Logger
}

// NewAuthController creates a new authentication controller.
func NewAuthController(sessions *SessionManager, views Renderer, cfg config.Auth, admin config.Admin, logger *zap.Logger) *AuthController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthController{
		sessions:          sessions,
		views:             views,
		config:            cfg,
		adminRegistration: admin.RegistrationEnabled,
		throttle:          NewLoginThrottle(cfg),
		logger:            logger,
	}
}

// RegisterRoutes registers account routes. emailCheck wraps the two JSON
// email lookups, which are also called from other origins.
func (ac *AuthController) RegisterRoutes(router gin.IRouter, emailCheck ...gin.HandlerFunc) {
	requireUser := RequireUser(ac.sessions)
	requireAdmin := RequireAdmin(ac.sessions)

	router.GET("/register", ac.RegisterPage)
	router.POST("/register", ac.Register)
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.GET("/logout", ac.Logout)
	router.GET("/check_email", chain(emailCheck, ac.CheckEmail)...)

	router.GET("/profile", requireUser, ac.ProfilePage)
	router.POST("/profile", requireUser, ac.UpdateProfile)
	router.POST("/update-profile", requireUser, ac.UpdateProfile)
	router.GET("/user_change_password", requireUser, ac.ChangePasswordPage)
	router.POST("/user_change_password", requireUser, ac.ChangePassword)

	router.GET("/admin/register", ac.AdminRegisterPage)
	router.POST("/admin/register", ac.AdminRegister)
	router.GET("/admin/login", ac.AdminLoginPage)
	router.POST("/admin/login", ac.AdminLogin)
	router.GET("/admin/logout", ac.AdminLogout)
	router.GET("/check_admin_email", chain(emailCheck, ac.CheckAdminEmail)...)

	router.GET("/admin/change-password", requireAdmin, ac.AdminChangePasswordPage)
	router.POST("/admin/change-password", requireAdmin, ac.AdminChangePassword)
}

func chain(middleware []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(middleware)+1)
	out = append(out, middleware...)
	return append(out, handler)
}

// Stop ends the login throttle's sweeper.
func (ac *AuthController) Stop() {
	if ac.throttle != nil {
		ac.throttle.Stop()
	}
}

// services builds the per-request service and activity recorder on the
// request's connection. On failure the error page is already rendered.
func (ac *AuthController) services(c *gin.Context) (*Service, *activity.Recorder, bool) {
	conn, err := database.ConnFrom(c)
	if err != nil {
		ac.views.Error(c, err)
		return nil, nil, false
	}
	return NewService(conn, ac.config), activity.NewRecorder(conn.Gorm(), ac.logger), true
}

// record writes an activity row without a service. Logging out must work
// even when the database does not.
func (ac *AuthController) record(c *gin.Context, actorID *uint, role, action string) {
	conn, err := database.ConnFrom(c)
	if err != nil {
		ac.logger.Error("failed to record activity", zap.String("action", action), zap.Error(err))
		return
	}
	activity.NewRecorder(conn.Gorm(), ac.logger).Record(c.Request.Context(), actorID, role, action)
}

// fail shows a known error as a flash on the redirect target and renders
// the error page for anything else.
func (ac *AuthController) fail(c *gin.Context, err error, redirect string) {
	if !apperr.IsKnown(err) {
		ac.views.Error(c, err)
		return
	}
	ac.sessions.AddFlash(c.Request, FlashError, apperr.Message(err))
	c.Redirect(http.StatusFound, redirect)
}

func (ac *AuthController) flashAndRedirect(c *gin.Context, category, message, location string) {
	ac.sessions.AddFlash(c.Request, category, message)
	c.Redirect(http.StatusFound, location)
}

// --- customer accounts ---

func (ac *AuthController) RegisterPage(c *gin.Context) {
	ac.views.HTML(c, http.StatusOK, "user_register.html", nil)
}

func (ac *AuthController) Register(c *gin.Context) {
	var form registerForm
	if err := forms.Bind(c, &form, "All fields are required."); err != nil {
		ac.fail(c, err, UserRegisterPath)
		return
	}

	svc, rec, ok := ac.services(c)
	if !ok {
		return
	}
	user, err := svc.Register(form.Fullname, form.Email, form.Password)
	if err != nil {
		ac.fail(c, err, UserRegisterPath)
		return
	}

	rec.Record(c.Request.Context(), nil, activity.RoleGuest, "User registered: "+user.Email)
	ac.flashAndRedirect(c, FlashSuccess, "Registration successful! Please log in.", UserLoginPath)
}

func (ac *AuthController) LoginPage(c *gin.Context) {
	if ac.sessions.UserID(c.Request) != 0 {
		c.Redirect(http.StatusFound, UserHomePath)
		return
	}
	ac.views.HTML(c, http.StatusOK, "user_login.html", nil)
}

func (ac *AuthController) Login(c *gin.Context) {
	var form loginForm
	if err := forms.Bind(c, &form, "Email and password are required."); err != nil {
		ac.fail(c, err, UserLoginPath)
		return
	}
	if !ac.allowLogin(c, RealmUser, form.Email, "user_login.html") {
		return
	}

	svc, rec, ok := ac.services(c)
	if !ok {
		return
	}
	user, err := svc.Authenticate(form.Email, form.Password)
	if err != nil {
		ac.loginFailed(c, RealmUser, form.Email, err, UserLoginPath)
		return
	}
	ac.throttle.Reset(RealmUser, c.ClientIP(), form.Email)

	if err := ac.sessions.LoginUser(c.Request, user); err != nil {
		ac.views.Error(c, err)
		return
	}
	rec.Record(c.Request.Context(), activity.ID(user.ID), activity.RoleUser, "User logged in")
	c.Redirect(http.StatusFound, UserHomePath)
}

// Logout ends the whole session, the admin namespace included.
func (ac *AuthController) Logout(c *gin.Context) {
	if userID := ac.sessions.UserID(c.Request); userID != 0 {
		ac.record(c, activity.ID(userID), activity.RoleUser, "User logged out")
	}
	if err := ac.sessions.Logout(c.Request); err != nil {
		ac.logger.Warn("failed to destroy session", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/")
}

func (ac *AuthController) CheckEmail(c *gin.Context) {
	ac.checkEmail(c, func(svc *Service, email string) (bool, error) {
		return svc.EmailExists(email)
	})
}

func (ac *AuthController) ProfilePage(c *gin.Context) {
	svc, _, ok := ac.services(c)
	if !ok {
		return
	}
	user, err := svc.GetUser(GetUserID(c))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// the account behind the session is gone
			_ = ac.sessions.Logout(c.Request)
			c.Redirect(http.StatusFound, UserLoginPath)
			return
		}
		ac.views.Error(c, err)
		return
	}
	ac.views.HTML(c, http.StatusOK, "profile.html", gin.H{"User": user})
}

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	var form profileForm
	if err := forms.Bind(c, &form, "Name and email are required."); err != nil {
		ac.fail(c, err, ProfilePath)
		return
	}

	svc, rec, ok := ac.services(c)
	if !ok {
		return
	}
	userID := GetUserID(c)
	err := svc.UpdateProfile(userID, users.ProfileUpdate{
		Fullname: form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
		Location: form.Location,
	})
	if err != nil {
		ac.fail(c, err, ProfilePath)
		return
	}

	ac.sessions.SetUserName(c.Request, form.Name)
	rec.Record(c.Request.Context(), activity.ID(userID), activity.RoleUser, "Updated profile")
	ac.flashAndRedirect(c, FlashSuccess, "Profile updated successfully!", ProfilePath)
}

func (ac *AuthController) ChangePasswordPage(c *gin.Context) {
	ac.views.HTML(c, http.StatusOK, "user_change_password.html", nil)
}

func (ac *AuthController) ChangePassword(c *gin.Context) {
	var form changePasswordForm
	if err := forms.Bind(c, &form, "All fields are required."); err != nil {
		ac.fail(c, err, "/user_change_password")
		return
	}

	svc, rec, ok := ac.services(c)
	if !ok {
		return
	}
	userID := GetUserID(c)
	if err := svc.ChangePassword(userID, form.CurrentPassword, form.NewPassword, form.ConfirmPassword); err != nil {
		ac.fail(c, err, "/user_change_password")
		return
	}

	rec.Record(c.Request.Context(), activity.ID(userID), activity.RoleUser, "Changed password")
	ac.flashAndRedirect(c, FlashSuccess, "Password updated successfully!", ProfilePath)
}

// --- admin accounts ---

func (ac *AuthController) AdminRegisterPage(c *gin.Context) {
	if !ac.adminRegistration {
		ac.views.NotFound(c)
		return
	}
	ac.views.HTML(c, http.StatusOK, "admin_register.html", nil)
}

func (ac *AuthController) AdminRegister(c *gin.Context) {
	if !ac.adminRegistration {
		ac.views.NotFound(c)
		return
	}

	var form adminRegisterForm
	if err := forms.Bind(c, &form, "All fields are required!"); err != nil {
		ac.fail(c, err, AdminRegisterPath)
		return
	}

	svc, rec, ok := ac.services(c)
	if !ok {
		return
	}
	admin, err := svc.RegisterAdmin(form.Fullname, form.Email, form.Password, form.ConfirmPassword)
	if err != nil {
		ac.fail(c, err, AdminRegisterPath)
		return
	}

	rec.Record(c.Request.Context(), nil, activity.RoleGuest, "Admin registered: "+admin.Email)
	ac.flashAndRedirect(c, FlashSuccess, "New admin registered successfully!", AdminLoginPath)
}

func (ac *AuthController) AdminLoginPage(c *gin.Context) {
	if ac.sessions.AdminID(c.Request) != 0 {
		c.Redirect(http.StatusFound, AdminHomePath)
		return
	}
	ac.views.HTML(c, http.StatusOK, "admin_login.html", nil)
}

func (ac *AuthController) AdminLogin(c *gin.Context) {
	var form loginForm
	if err := forms.Bind(c, &form, "Email and password are required."); err != nil {
		ac.fail(c, err, AdminLoginPath)
		return
	}
	if !ac.allowLogin(c, RealmAdmin, form.Email, "admin_login.html") {
		return
	}

	svc, rec, ok := ac.services(c)
	if !ok {
		return
	}
	admin, err := svc.AuthenticateAdmin(form.Email, form.Password)
	if err != nil {
		ac.loginFailed(c, RealmAdmin, form.Email, err, AdminLoginPath)
		return
	}
	ac.throttle.Reset(RealmAdmin, c.ClientIP(), form.Email)

	if err := ac.sessions.LoginAdmin(c.Request, admin); err != nil {
		ac.views.Error(c, err)
		return
	}
	rec.Record(c.Request.Context(), activity.ID(admin.ID), activity.RoleAdmin, "Admin logged in")
	c.Redirect(http.StatusFound, AdminHomePath)
}

func (ac *AuthController) AdminLogout(c *gin.Context) {
	if adminID := ac.sessions.AdminID(c.Request); adminID != 0 {
		ac.record(c, activity.ID(adminID), activity.RoleAdmin, "Admin logged out")
	}
	if err := ac.sessions.Logout(c.Request); err != nil {
		ac.logger.Warn("failed to destroy session", zap.Error(err))
	}
	c.Redirect(http.StatusFound, AdminLoginPath)
}

func (ac *AuthController) CheckAdminEmail(c *gin.Context) {
	ac.checkEmail(c, func(svc *Service, email string) (bool, error) {
		return svc.AdminEmailExists(email)
	})
}

func (ac *AuthController) AdminChangePasswordPage(c *gin.Context) {
	ac.views.HTML(c, http.StatusOK, "change_password.html", nil)
}

func (ac *AuthController) AdminChangePassword(c *gin.Context) {
	var form changePasswordForm
	if err := forms.Bind(c, &form, "All fields are required."); err != nil {
		ac.fail(c, err, "/admin/change-password")
		return
	}

	svc, rec, ok := ac.services(c)
	if !ok {
		return
	}
	adminID := GetAdminID(c)
	if err := svc.ChangeAdminPassword(adminID, form.CurrentPassword, form.NewPassword, form.ConfirmPassword); err != nil {
		ac.fail(c, err, "/admin/change-password")
		return
	}

	rec.Record(c.Request.Context(), activity.ID(adminID), activity.RoleAdmin, "Changed password")
	ac.flashAndRedirect(c, FlashSuccess, "Password changed successfully!", AdminProfilePath)
}

// --- shared ---

// allowLogin consults the login throttle. A locked out attempt is
// answered here with 429 and the login page.
func (ac *AuthController) allowLogin(c *gin.Context, realm Realm, email, page string) bool {
	retryAfter := ac.throttle.Check(realm, c.ClientIP(), email)
	if retryAfter == 0 {
		return true
	}
	c.Header("Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
	ac.sessions.AddFlash(c.Request, FlashError, "Too many login attempts. Please try again later.")
	ac.views.HTML(c, http.StatusTooManyRequests, page, gin.H{"Email": email})
	return false
}

func (ac *AuthController) loginFailed(c *gin.Context, realm Realm, email string, err error, page string) {
	if apperr.IsKnown(err) {
		if lockout := ac.throttle.Fail(realm, c.ClientIP(), email); lockout > 0 {
			ac.logger.Warn("login locked out",
				zap.String("realm", string(realm)),
				zap.String("ip", c.ClientIP()),
				zap.Duration("lockout", lockout),
			)
		}
	}
	ac.fail(c, err, page)
}

func (ac *AuthController) checkEmail(c *gin.Context, lookup func(*Service, string) (bool, error)) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusOK, gin.H{"exists": false})
		return
	}

	conn, err := database.ConnFrom(c)
	if err != nil {
		ac.logger.Error("email check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unavailable"})
		return
	}
	exists, err := lookup(NewService(conn, ac.config), email)
	if err != nil {
		ac.logger.Error("email check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

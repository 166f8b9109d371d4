package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/tourism/internal/apperr"
	"github.com/mrlokans/tourism/internal/auth"
	"github.com/mrlokans/tourism/internal/backoffice"
	"github.com/mrlokans/tourism/internal/forms"
)

const (
	adminPackagesPath    = "/admin/packages"
	adminAddPackagePath  = "/admin/add-package"
	adminEditPackagePath = "/admin/edit-package/"
	adminEditProfilePath = "/admin/profile/edit"
)

type packageForm struct {
	Title       string  `form:"title" binding:"required"`
	Location    string  `form:"location" binding:"required"`
	Description string  `form:"description"`
	Price       float64 `form:"price"`
	Days        int     `form:"days"`
	ImageURL    string  `form:"image_url"`
	Status      string  `form:"status"`
}

func (f packageForm) toService() backoffice.PackageForm {
	return backoffice.PackageForm{
		Title:       f.Title,
		Location:    f.Location,
		Description: f.Description,
		Price:       f.Price,
		Days:        f.Days,
		ImageURL:    f.ImageURL,
		Status:      f.Status,
	}
}

type adminProfileForm struct {
	Fullname string `form:"fullname"`
	Email    string `form:"email"`
	Phone    string `form:"phone"`
}

// BackofficeController serves the admin console. Every route requires an
// admin login.
type BackofficeController struct {
	pages
}

func NewBackofficeController(views *Views, sessions *auth.SessionManager, logger *zap.Logger) *BackofficeController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackofficeController{pages{views: views, sessions: sessions, logger: logger}}
}

func (bc *BackofficeController) RegisterRoutes(router gin.IRouter) {
	admin := router.Group("/admin", auth.RequireAdmin(bc.sessions))

	admin.GET("", bc.Dashboard)
	admin.GET("/packages", bc.Packages)
	admin.GET("/add-package", bc.AddPackagePage)
	admin.POST("/add-package", bc.AddPackage)
	admin.GET("/edit-package/:id", bc.EditPackagePage)
	admin.POST("/edit-package/:id", bc.EditPackage)
	admin.POST("/delete-package/:id", bc.DeletePackage)
	admin.GET("/bookings", bc.Bookings)
	admin.GET("/users", bc.Users)
	admin.GET("/feedback", bc.Feedback)
	admin.GET("/profile", bc.Profile)
	admin.GET("/profile/edit", bc.EditProfilePage)
	admin.POST("/profile/edit", bc.EditProfile)
}

func (bc *BackofficeController) service(c *gin.Context) (*backoffice.Service, bool) {
	conn, ok := bc.conn(c)
	if !ok {
		return nil, false
	}
	return backoffice.NewService(conn, bc.logger), true
}

func (bc *BackofficeController) Dashboard(c *gin.Context) {
	svc, ok := bc.service(c)
	if !ok {
		return
	}
	stats, err := svc.Dashboard(c.Request.Context())
	if err != nil {
		bc.views.Error(c, err)
		return
	}
	bc.views.HTML(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"Title": "Admin dashboard",
		"Stats": stats,
	})
}

func (bc *BackofficeController) Packages(c *gin.Context) {
	svc, ok := bc.service(c)
	if !ok {
		return
	}
	pkgs, err := svc.Packages()
	if err != nil {
		bc.views.Error(c, err)
		return
	}
	bc.views.HTML(c, http.StatusOK, "manage_packages.html", gin.H{
		"Title":    "Packages",
		"Packages": pkgs,
	})
}

func (bc *BackofficeController) AddPackagePage(c *gin.Context) {
	bc.views.HTML(c, http.StatusOK, "add_package.html", gin.H{"Title": "Add package"})
}

func (bc *BackofficeController) AddPackage(c *gin.Context) {
	var form packageForm
	if err := forms.Bind(c, &form, "All fields marked * are required."); err != nil {
		bc.fail(c, err, adminAddPackagePath)
		return
	}
	svc, ok := bc.service(c)
	if !ok {
		return
	}
	if _, err := svc.CreatePackage(c.Request.Context(), auth.GetAdminID(c), form.toService()); err != nil {
		bc.fail(c, err, adminAddPackagePath)
		return
	}
	bc.flashAndRedirect(c, auth.FlashSuccess, "Package added successfully!", adminPackagesPath)
}

func (bc *BackofficeController) EditPackagePage(c *gin.Context) {
	id, ok := bc.idParam(c, "id")
	if !ok {
		return
	}
	svc, ok := bc.service(c)
	if !ok {
		return
	}
	pkg, err := svc.GetPackage(id)
	if err != nil {
		bc.fail(c, err, adminPackagesPath)
		return
	}
	bc.views.HTML(c, http.StatusOK, "edit_package.html", gin.H{
		"Title":   "Edit package",
		"Package": pkg,
	})
}

func (bc *BackofficeController) EditPackage(c *gin.Context) {
	id, ok := bc.idParam(c, "id")
	if !ok {
		return
	}
	back := fmt.Sprintf("%s%d", adminEditPackagePath, id)

	var form packageForm
	if err := forms.Bind(c, &form, "All fields marked * are required."); err != nil {
		bc.fail(c, err, back)
		return
	}
	svc, ok := bc.service(c)
	if !ok {
		return
	}
	if err := svc.UpdatePackage(c.Request.Context(), auth.GetAdminID(c), id, form.toService()); err != nil {
		bc.fail(c, err, back)
		return
	}
	bc.flashAndRedirect(c, auth.FlashSuccess, "Package updated successfully!", adminPackagesPath)
}

func (bc *BackofficeController) DeletePackage(c *gin.Context) {
	id, ok := bc.idParam(c, "id")
	if !ok {
		return
	}
	svc, ok := bc.service(c)
	if !ok {
		return
	}
	pkg, err := svc.DeletePackage(c.Request.Context(), auth.GetAdminID(c), id)
	if err != nil {
		bc.fail(c, err, adminPackagesPath)
		return
	}
	bc.flashAndRedirect(c, auth.FlashInfo, fmt.Sprintf("Package '%s' deleted.", pkg.Title), adminPackagesPath)
}

func (bc *BackofficeController) Bookings(c *gin.Context) {
	svc, ok := bc.service(c)
	if !ok {
		return
	}
	bookings, err := svc.Bookings(c.Request.Context())
	if err != nil {
		bc.views.Error(c, err)
		return
	}
	bc.views.HTML(c, http.StatusOK, "all_bookings.html", gin.H{
		"Title":    "All bookings",
		"Bookings": bookings,
	})
}

func (bc *BackofficeController) Users(c *gin.Context) {
	svc, ok := bc.service(c)
	if !ok {
		return
	}
	users, err := svc.Users(c.Request.Context())
	if err != nil {
		bc.views.Error(c, err)
		return
	}
	bc.views.HTML(c, http.StatusOK, "user_list.html", gin.H{
		"Title": "Users",
		"Users": users,
	})
}

func (bc *BackofficeController) Feedback(c *gin.Context) {
	svc, ok := bc.service(c)
	if !ok {
		return
	}
	feedback, err := svc.Feedback()
	if err != nil {
		bc.views.Error(c, err)
		return
	}
	bc.views.HTML(c, http.StatusOK, "feedback_reports.html", gin.H{
		"Title":    "Feedback",
		"Feedback": feedback,
	})
}

func (bc *BackofficeController) Profile(c *gin.Context) {
	svc, ok := bc.service(c)
	if !ok {
		return
	}
	profile, err := svc.Profile(c.Request.Context(), auth.GetAdminID(c))
	if err != nil {
		bc.adminMissing(c, err)
		return
	}
	bc.views.HTML(c, http.StatusOK, "admin_profile.html", gin.H{
		"Title":   "Admin profile",
		"Profile": profile,
	})
}

func (bc *BackofficeController) EditProfilePage(c *gin.Context) {
	svc, ok := bc.service(c)
	if !ok {
		return
	}
	admin, err := svc.GetAdmin(auth.GetAdminID(c))
	if err != nil {
		bc.adminMissing(c, err)
		return
	}
	bc.views.HTML(c, http.StatusOK, "edit_admin_profile.html", gin.H{
		"Title": "Edit profile",
		"Admin": admin,
	})
}

func (bc *BackofficeController) EditProfile(c *gin.Context) {
	var form adminProfileForm
	if err := forms.Bind(c, &form, "Name and email are required."); err != nil {
		bc.fail(c, err, adminEditProfilePath)
		return
	}
	svc, ok := bc.service(c)
	if !ok {
		return
	}
	if err := svc.UpdateProfile(c.Request.Context(), auth.GetAdminID(c), form.Fullname, form.Email, form.Phone); err != nil {
		bc.fail(c, err, adminEditProfilePath)
		return
	}
	bc.sessions.SetAdminName(c.Request, strings.TrimSpace(form.Fullname))
	bc.flashAndRedirect(c, auth.FlashSuccess, "Profile updated successfully!", auth.AdminProfilePath)
}

// adminMissing handles an admin session whose account no longer exists.
func (bc *BackofficeController) adminMissing(c *gin.Context, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		bc.flashAndRedirect(c, auth.FlashError, "Admin not found.", auth.AdminHomePath)
		return
	}
	bc.views.Error(c, err)
}

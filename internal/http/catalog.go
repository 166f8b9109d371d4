package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/tourism/internal/apperr"
	"github.com/mrlokans/tourism/internal/auth"
	"github.com/mrlokans/tourism/internal/catalog"
	"github.com/mrlokans/tourism/internal/database/users"
	"github.com/mrlokans/tourism/internal/forms"
)

const (
	explorePath    = "/explore"
	contactPath    = "/contact"
	myBookingsPath = "/my_bookings"
)

var dashboardNotifications = []string{
	"Your booking has been confirmed!",
	"New destinations added this week!",
	"Exclusive offers available this month!",
}

var travelTips = []string{
	"Pack light and smart for your trip!",
	"Always carry a power bank and travel adapter.",
	"Check your passport validity before booking.",
	"Travel insurance gives peace of mind.",
	"Explore local food and culture wherever you go!",
}

type bookingForm struct {
	Name       string `form:"name" binding:"required"`
	Email      string `form:"email" binding:"required"`
	TravelDate string `form:"travel_date" binding:"required"`
	Persons    int    `form:"persons" binding:"required"`
}

type contactForm struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Subject string `form:"subject"`
	Message string `form:"message"`
}

// CatalogController serves the public pages and the customer's bookings.
type CatalogController struct {
	pages
}

func NewCatalogController(views *Views, sessions *auth.SessionManager, logger *zap.Logger) *CatalogController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogController{pages{views: views, sessions: sessions, logger: logger}}
}

func (cc *CatalogController) RegisterRoutes(router gin.IRouter) {
	requireUser := auth.RequireUser(cc.sessions)

	router.GET("/", cc.Home)
	router.GET("/about", cc.About)
	router.GET(contactPath, cc.ContactPage)
	router.POST(contactPath, cc.Contact)
	router.GET(explorePath, cc.Explore)
	router.GET("/package/:id", cc.PackageDetail)

	router.GET("/book/:id", requireUser, cc.BookPage)
	router.POST("/book/:id", requireUser, cc.Book)
	router.GET(myBookingsPath, requireUser, cc.MyBookings)
	router.GET(auth.UserHomePath, requireUser, cc.Dashboard)
}

func (cc *CatalogController) service(c *gin.Context) (*catalog.Service, bool) {
	conn, ok := cc.conn(c)
	if !ok {
		return nil, false
	}
	return catalog.NewService(conn, cc.logger), true
}

func (cc *CatalogController) Home(c *gin.Context) {
	svc, ok := cc.service(c)
	if !ok {
		return
	}
	featured, err := svc.ListFeatured(catalog.DefaultFeaturedLimit)
	if err != nil {
		cc.views.Error(c, err)
		return
	}
	cc.views.HTML(c, http.StatusOK, "index.html", gin.H{"Packages": featured})
}

func (cc *CatalogController) About(c *gin.Context) {
	cc.views.HTML(c, http.StatusOK, "about_us.html", gin.H{"Title": "About us"})
}

func (cc *CatalogController) ContactPage(c *gin.Context) {
	cc.views.HTML(c, http.StatusOK, "contact_us.html", gin.H{"Title": "Contact us"})
}

func (cc *CatalogController) Contact(c *gin.Context) {
	var form contactForm
	if err := forms.Bind(c, &form, "Message is required."); err != nil {
		cc.fail(c, err, contactPath)
		return
	}

	svc, ok := cc.service(c)
	if !ok {
		return
	}
	_, err := svc.SubmitFeedback(c.Request.Context(), catalog.ContactMessage{
		Name:    form.Name,
		Email:   form.Email,
		Subject: form.Subject,
		Message: form.Message,
	})
	if err != nil {
		cc.fail(c, err, contactPath)
		return
	}
	cc.flashAndRedirect(c, auth.FlashSuccess, "Thanks for your feedback!", contactPath)
}

func (cc *CatalogController) Explore(c *gin.Context) {
	svc, ok := cc.service(c)
	if !ok {
		return
	}
	query := c.Query("q")
	found, err := svc.Search(query)
	if err != nil {
		cc.views.Error(c, err)
		return
	}
	cc.views.HTML(c, http.StatusOK, "explore_packages.html", gin.H{
		"Title":    "Explore",
		"Packages": found,
		"Query":    query,
	})
}

// PackageDetail shows a package to anyone. The booking form only appears
// for a logged-in customer.
func (cc *CatalogController) PackageDetail(c *gin.Context) {
	id, ok := cc.idParam(c, "id")
	if !ok {
		return
	}
	svc, ok := cc.service(c)
	if !ok {
		return
	}
	pkg, err := svc.GetPackage(id)
	if err != nil {
		cc.fail(c, err, explorePath)
		return
	}
	cc.views.HTML(c, http.StatusOK, "book_package.html", gin.H{
		"Title":   pkg.Title,
		"Package": pkg,
		"CanBook": cc.sessions.UserID(c.Request) != 0,
		"Today":   time.Now().Format(catalog.TravelDateLayout),
	})
}

// BookPage shows the booking form prefilled with the customer's name and
// email. An unknown package sends the customer back to the catalog.
func (cc *CatalogController) BookPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		cc.flashAndRedirect(c, auth.FlashError, "Package not found.", explorePath)
		return
	}
	conn, ok := cc.conn(c)
	if !ok {
		return
	}
	svc := catalog.NewService(conn, cc.logger)
	pkg, err := svc.GetPackage(id)
	if err != nil {
		cc.bookingFailed(c, err, id)
		return
	}

	data := gin.H{
		"Title":   pkg.Title,
		"Package": pkg,
		"CanBook": true,
		"Today":   time.Now().Format(catalog.TravelDateLayout),
	}
	if user, err := users.NewRepository(conn.Gorm()).GetByID(auth.GetUserID(c)); err == nil {
		data["Name"] = user.Fullname
		data["Email"] = user.Email
	}
	cc.views.HTML(c, http.StatusOK, "book_package.html", data)
}

func (cc *CatalogController) Book(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		cc.flashAndRedirect(c, auth.FlashError, "Package not found.", explorePath)
		return
	}
	svc, ok := cc.service(c)
	if !ok {
		return
	}

	var form bookingForm
	if err := forms.Bind(c, &form, "Please fill all fields."); err != nil {
		// an unknown package outranks a bad form
		if _, perr := svc.GetPackage(id); perr != nil {
			err = perr
		}
		cc.bookingFailed(c, err, id)
		return
	}

	receipt, err := svc.BookPackage(c.Request.Context(), catalog.BookingRequest{
		UserID:     auth.GetUserID(c),
		PackageID:  id,
		Name:       form.Name,
		Email:      form.Email,
		TravelDate: form.TravelDate,
		Persons:    form.Persons,
	})
	if err != nil {
		cc.bookingFailed(c, err, id)
		return
	}

	cc.flashAndRedirect(c, auth.FlashSuccess,
		fmt.Sprintf("Booking confirmed! Total: %s", formatRupees(receipt.Payment.Amount)),
		myBookingsPath)
}

// bookingFailed returns a missing package to the catalog and any other
// known failure to the booking form.
func (cc *CatalogController) bookingFailed(c *gin.Context, err error, packageID uint) {
	if errors.Is(err, apperr.ErrNotFound) {
		cc.flashAndRedirect(c, auth.FlashError, "Package not found.", explorePath)
		return
	}
	cc.fail(c, err, "/book/"+strconv.FormatUint(uint64(packageID), 10))
}

func (cc *CatalogController) MyBookings(c *gin.Context) {
	svc, ok := cc.service(c)
	if !ok {
		return
	}
	bookings, err := svc.MyBookings(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		cc.views.Error(c, err)
		return
	}
	cc.views.HTML(c, http.StatusOK, "my_bookings.html", gin.H{
		"Title":    "My bookings",
		"Bookings": bookings,
	})
}

func (cc *CatalogController) Dashboard(c *gin.Context) {
	svc, ok := cc.service(c)
	if !ok {
		return
	}
	dashboard, err := svc.UserDashboard(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		cc.views.Error(c, err)
		return
	}
	cc.views.HTML(c, http.StatusOK, "main_dashboard.html", gin.H{
		"Title":         "Dashboard",
		"Dashboard":     dashboard,
		"Notifications": dashboardNotifications,
		"Tips":          travelTips,
	})
}

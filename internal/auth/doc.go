// Package auth provides account management and session-based access
// control for customers and admins.
//
// Customers and admins are separate accounts in separate tables. Both can
// be logged in from one browser at the same time: the session keeps
// user_id/user_name and admin_id/admin_name side by side, and logging in
// to one never touches the other. Logging out destroys the whole session.
//
// # Usage
//
// Build the session manager on the backend's scs store and install the
// middleware before any route that reads the session:
//
//	sessions := auth.NewSessionManager(store.SessionStore(), cfg.Auth)
//	router.Use(sessions.SessionLoadSave(logger))
//	router.GET("/my_bookings", auth.RequireUser(sessions), handler)
//
// Services are built per request on the request's connection:
//
//	conn, err := database.ConnFrom(c)
//	svc := auth.NewService(conn, cfg.Auth)
//	user, err := svc.Authenticate(email, password)
//
// Errors wrap the kinds in internal/apperr; apperr.Message gives the text
// to show in a flash.
package auth

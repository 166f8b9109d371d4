package auth

import (
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/tourism/internal/config"
	"github.com/mrlokans/tourism/internal/entities"
)

// Session data keys. Customer and admin logins live side by side in one
// session under separate keys.
const (
	SessionKeyUserID    = "user_id"
	SessionKeyUserName  = "user_name"
	SessionKeyAdminID   = "admin_id"
	SessionKeyAdminName = "admin_name"
	SessionKeyFlashes   = "flashes"
)

// Flash categories used by the templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register([]Flash{})
}

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager on store, which
// must match the selected database backend.
func NewSessionManager(store scs.Store, cfg config.Auth) *SessionManager {
	sm := scs.New()
	sm.Store = store

	lifetime := cfg.SessionLifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	sm.Lifetime = lifetime
	sm.IdleTimeout = lifetime / 2 // Half of lifetime for inactivity

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}
}

// LoginUser renews the token and stores the customer namespace. An admin
// login in the same session is kept.
func (sm *SessionManager) LoginUser(r *http.Request, user *entities.User) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}
	// Store IDs as int to match GetInt() retrieval
	sm.Put(r.Context(), SessionKeyUserID, int(user.ID))
	sm.Put(r.Context(), SessionKeyUserName, user.Fullname)
	return nil
}

// LoginAdmin renews the token and stores the admin namespace.
func (sm *SessionManager) LoginAdmin(r *http.Request, admin *entities.Admin) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}
	sm.Put(r.Context(), SessionKeyAdminID, int(admin.ID))
	sm.Put(r.Context(), SessionKeyAdminName, admin.Fullname)
	return nil
}

// SetUserName refreshes the display name after a profile edit.
func (sm *SessionManager) SetUserName(r *http.Request, name string) {
	sm.Put(r.Context(), SessionKeyUserName, name)
}

func (sm *SessionManager) SetAdminName(r *http.Request, name string) {
	sm.Put(r.Context(), SessionKeyAdminName, name)
}

// Logout destroys the whole session, both namespaces included.
func (sm *SessionManager) Logout(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// UserID returns the logged-in customer id, or 0.
func (sm *SessionManager) UserID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyUserID))
}

func (sm *SessionManager) UserName(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyUserName)
}

// AdminID returns the logged-in admin id, or 0.
func (sm *SessionManager) AdminID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyAdminID))
}

func (sm *SessionManager) AdminName(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyAdminName)
}

// AddFlash queues a notice for the next rendered page.
func (sm *SessionManager) AddFlash(r *http.Request, category, message string) {
	flashes, _ := sm.Get(r.Context(), SessionKeyFlashes).([]Flash)
	flashes = append(flashes, Flash{Category: category, Message: message})
	sm.Put(r.Context(), SessionKeyFlashes, flashes)
}

// PopFlashes returns the queued notices and clears them.
func (sm *SessionManager) PopFlashes(r *http.Request) []Flash {
	flashes, _ := sm.Pop(r.Context(), SessionKeyFlashes).([]Flash)
	return flashes
}

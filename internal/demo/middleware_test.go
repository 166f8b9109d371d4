package demo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(m *Middleware) *gin.Engine {
	router := gin.New()
	router.Use(m.Handler())
	ok := func(c *gin.Context) { c.String(http.StatusOK, "OK") }
	for _, path := range []string{"/admin", "/admin/login", "/admin/add-package", "/admin/delete-package/1", "/book/1", "/register", "/administrators"} {
		router.GET(path, ok)
		router.POST(path, ok)
	}
	router.HEAD("/admin/packages", ok)
	router.OPTIONS("/admin/packages", ok)
	return router
}

func TestNewMiddleware(t *testing.T) {
	m := NewMiddleware(true, nil)
	if !m.IsEnabled() {
		t.Error("Expected middleware to be enabled")
	}

	m = NewMiddleware(false, nil)
	if m.IsEnabled() {
		t.Error("Expected middleware to be disabled")
	}
}

func TestMiddleware_AllowsReadOnlyMethods(t *testing.T) {
	router := newTestRouter(NewMiddleware(true, nil))

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		path := "/admin/packages"
		if method == http.MethodGet {
			path = "/admin/add-package"
		}
		req := httptest.NewRequest(method, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200 for %s %s, got %d", method, path, w.Code)
		}
	}
}

func TestMiddleware_BlocksAdminWrites(t *testing.T) {
	router := newTestRouter(NewMiddleware(true, nil))

	for _, path := range []string{"/admin", "/admin/add-package", "/admin/delete-package/1"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("Expected status 403 for %s, got %d", path, w.Code)
			continue
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to parse response: %v", err)
		}
		if response["demo_mode"] != true {
			t.Error("Expected demo_mode flag in response")
		}
	}
}

func TestMiddleware_AllowsCustomerWritesAndAdminLogin(t *testing.T) {
	router := newTestRouter(NewMiddleware(true, nil))

	for _, path := range []string{"/admin/login", "/book/1", "/register", "/administrators"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200 for %s, got %d", path, w.Code)
		}
	}
}

func TestMiddleware_DisabledAllowsAllRequests(t *testing.T) {
	router := newTestRouter(NewMiddleware(false, nil))

	req := httptest.NewRequest(http.MethodPost, "/admin/delete-package/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 when disabled, got %d", w.Code)
	}
}

func TestMiddleware_NotifiesBrowsers(t *testing.T) {
	tests := []struct {
		name     string
		referer  string
		accept   string
		wantCode int
		wantLoc  string
	}{
		{"back to local referer", "http://example.com/admin/edit-package/1?x=1", "", http.StatusFound, "/admin/edit-package/1?x=1"},
		{"relative referer", "/admin/packages", "", http.StatusFound, "/admin/packages"},
		{"foreign referer", "http://evil.example/phish", "", http.StatusFound, "/admin"},
		{"no referer", "", "", http.StatusFound, "/admin"},
		{"json clients get 403", "", "application/json", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var notified string
			router := newTestRouter(NewMiddleware(true, func(c *gin.Context, message string) {
				notified = message
			}))

			req := httptest.NewRequest(http.MethodPost, "http://example.com/admin/add-package", nil)
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("Expected status %d, got %d", tt.wantCode, w.Code)
			}
			if loc := w.Header().Get("Location"); loc != tt.wantLoc {
				t.Errorf("Expected Location %q, got %q", tt.wantLoc, loc)
			}
			if tt.wantCode == http.StatusFound && notified != Message {
				t.Errorf("Expected notification %q, got %q", Message, notified)
			}
		})
	}
}

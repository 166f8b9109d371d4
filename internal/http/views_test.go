package http

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates_Embedded(t *testing.T) {
	tmpl, err := LoadTemplates("")
	require.NoError(t, err)

	pages := []string{
		"index.html", "about_us.html", "contact_us.html", "explore_packages.html",
		"book_package.html", "my_bookings.html", "main_dashboard.html",
		"user_register.html", "user_login.html", "profile.html", "user_change_password.html",
		"admin_register.html", "admin_login.html", "change_password.html",
		"admin_dashboard.html", "manage_packages.html", "add_package.html", "edit_package.html",
		"all_bookings.html", "user_list.html", "feedback_reports.html",
		"admin_profile.html", "edit_admin_profile.html",
		"404.html", "500.html",
	}
	for _, name := range pages {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestLoadTemplates_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(`{{rupees 10}}`), 0o644))

	tmpl, err := LoadTemplates(dir)
	require.NoError(t, err)
	assert.NotNil(t, tmpl.Lookup("index.html"))

	_, err = LoadTemplates(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestStaticFiles(t *testing.T) {
	f, err := StaticFiles("").Open("style.css")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.css"), []byte("body{}"), 0o644))
	f, err = StaticFiles(dir).Open("/site.css")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = StaticFiles(filepath.Join(dir, "missing")).Open("style.css")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", formatDate(time.Time{}))
	assert.Equal(t, "05 Mar 2030", formatDate(time.Date(2030, 3, 5, 10, 0, 0, 0, time.UTC)))
}

// Package analytics renders the optional Plausible Analytics snippet for
// the public pages.
package analytics

import (
	"html/template"
	"net/url"
	"slices"
	"strings"

	"github.com/mrlokans/tourism/internal/config"
)

// DefaultScriptURL is used when PLAUSIBLE_SCRIPT_URL is unset.
const DefaultScriptURL = "https://plausible.io/js/script.js"

// Plausible holds the effective Plausible Analytics configuration
type Plausible struct {
	Domain     string
	ScriptURL  string
	Extensions []string
}

// NewPlausible builds the configuration from the environment. Unknown
// extensions are dropped and returned so the caller can report them.
func NewPlausible(cfg config.Plausible) (Plausible, []string) {
	p := Plausible{
		Domain:    strings.TrimSpace(cfg.Domain),
		ScriptURL: strings.TrimSpace(cfg.ScriptURL),
	}
	if p.ScriptURL == "" {
		p.ScriptURL = DefaultScriptURL
	}

	var rejected []string
	for _, ext := range parseExtensions(cfg.Extensions) {
		if IsValidExtension(ext) {
			p.Extensions = append(p.Extensions, ext)
		} else {
			rejected = append(rejected, ext)
		}
	}
	return p, rejected
}

// Enabled reports whether a site domain is configured
func (p Plausible) Enabled() bool {
	return p.Domain != ""
}

// Origin is the scheme and host serving the script, for the page's
// content security policy. It is empty when analytics is off or the script
// is served by this site.
func (p Plausible) Origin() string {
	if !p.Enabled() {
		return ""
	}
	u, err := url.Parse(p.ScriptURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// BuildScriptURL constructs the Plausible script URL with extensions
func BuildScriptURL(baseURL string, extensions []string) string {
	if len(extensions) == 0 {
		return baseURL
	}

	// script.js becomes script.outbound-links.file-downloads.js
	if base, found := strings.CutSuffix(baseURL, ".js"); found {
		return base + "." + strings.Join(extensions, ".") + ".js"
	}

	return baseURL
}

// ScriptTag returns safe HTML for the Plausible script tag, or nothing
// when analytics is off.
func (p Plausible) ScriptTag() template.HTML {
	if !p.Enabled() {
		return ""
	}

	scriptURL := BuildScriptURL(p.ScriptURL, p.Extensions)

	return template.HTML(`<script defer data-domain="` + template.HTMLEscapeString(p.Domain) + `" src="` + template.HTMLEscapeString(scriptURL) + `"></script>`)
}

// parseExtensions splits comma-separated extensions and trims whitespace
func parseExtensions(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ValidExtensions lists the known Plausible script extensions
var ValidExtensions = []string{
	"outbound-links",
	"file-downloads",
	"tagged-events",
	"hash",
	"compat",
	"local",
	"manual",
	"pageview-props",
	"revenue",
}

// IsValidExtension checks if an extension is known
func IsValidExtension(ext string) bool {
	return slices.Contains(ValidExtensions, ext)
}

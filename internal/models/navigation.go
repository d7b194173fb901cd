package models

import (
	"net/url"
	"strings"
)

// Navigation reasons carried in the login page query string.
const (
	ReasonSessionExpired = "session_expired"
)

// RedirectIntent is the typed value passed between a guard and a login
// page: where the user was headed and why they were bounced. It lives only
// in the URL query, never in storage.
type RedirectIntent struct {
	TargetPath string
	Reason     string
}

// IntentFromQuery rebuilds the intent from the login page's query values.
func IntentFromQuery(query url.Values) RedirectIntent {
	return RedirectIntent{
		TargetPath: SafeTarget(query.Get("redirect")),
		Reason:     query.Get("message"),
	}
}

// LoginURL renders the intent as a login destination for the given login
// path ("/auth" or "/admin/auth").
func (i RedirectIntent) LoginURL(loginPath string) string {
	q := url.Values{}
	if i.TargetPath != "" {
		q.Set("redirect", i.TargetPath)
	}
	if i.Reason != "" {
		q.Set("message", i.Reason)
	}
	if len(q) == 0 {
		return loginPath
	}
	return loginPath + "?" + q.Encode()
}

// TargetOr returns the intent's target when one was carried, else def.
func (i RedirectIntent) TargetOr(def string) string {
	if i.TargetPath != "" {
		return i.TargetPath
	}
	return def
}

// SafeTarget keeps only relative in-site paths. Absolute URLs and
// protocol-relative ("//evil.example") values are discarded so the login
// flow cannot be used as an open redirector.
func SafeTarget(path string) string {
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return ""
	}
	return path
}

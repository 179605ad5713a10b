package auth

import (
	"net/url"
	"strings"
)

const (
	LoginPagePath        = "/admin/login"
	DefaultAfterLoginURL = "/admin"
)

// LoginRedirectURL builds the login page location carrying the originally requested
// path (and query) in the "from" parameter. Slashes are left unescaped for readability.
func LoginRedirectURL(requestURI string) string {
	if requestURI == "" {
		requestURI = DefaultAfterLoginURL
	}
	from := strings.ReplaceAll(url.QueryEscape(requestURI), "%2F", "/")
	return LoginPagePath + "?from=" + from
}

// SafeRedirectPath returns from when it is a local absolute path, otherwise the admin home.
// Guards the post-login redirect against being used as an open redirect.
func SafeRedirectPath(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") {
		return DefaultAfterLoginURL
	}
	if strings.HasPrefix(from, "//") || strings.HasPrefix(from, "/\\") || strings.ContainsAny(from, "\r\n") {
		return DefaultAfterLoginURL
	}

	u, err := url.Parse(from)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return DefaultAfterLoginURL
	}
	if u.Path == LoginPagePath {
		return DefaultAfterLoginURL
	}

	return from
}

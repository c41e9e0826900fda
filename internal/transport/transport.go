// Package transport implements the session router: the single place that
// decides which bearer token an outgoing request carries and that reacts to
// authorization failures from the backend.
package transport

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"newsreader/internal/session"
)

const (
	DefaultAdminPrefix     = "/admin"
	DefaultLoginRoute      = "/login"
	DefaultAdminLoginRoute = "/admin/login"
)

// Navigator is the navigation side effect of a rejected session: the UI
// layer plugs in here to move the user to a login page.
type Navigator interface {
	Location() string
	Navigate(route string)
}

type nopNavigator struct{}

func (nopNavigator) Location() string { return "" }
func (nopNavigator) Navigate(route string) {
	slog.Debug("navigation requested", slog.String("route", route))
}

// SessionTransport is an http.RoundTripper that attaches the correct bearer
// token per request path and clears the relevant session on 401/403.
//
// Token selection: an admin-prefixed path gets the admin token, overwriting
// any Authorization header already set. Every other path gets the end-user
// token, but only when no admin token exists and the request does not carry
// its own Authorization header.
type SessionTransport struct {
	Base        http.RoundTripper
	Sessions    *session.Store
	Navigator   Navigator
	AdminPrefix string

	// PublicRoutes are locations that never trigger a redirect-to-login;
	// defaults to the login and register pages.
	PublicRoutes []string
}

func New(sessions *session.Store, nav Navigator) *SessionTransport {
	if nav == nil {
		nav = nopNavigator{}
	}
	return &SessionTransport{
		Base:         http.DefaultTransport,
		Sessions:     sessions,
		Navigator:    nav,
		AdminPrefix:  DefaultAdminPrefix,
		PublicRoutes: []string{DefaultLoginRoute, "/register"},
	}
}

// IsAdminPath reports whether the path falls under the admin route prefix.
func (t *SessionTransport) IsAdminPath(path string) bool {
	prefix := t.AdminPrefix
	if prefix == "" {
		prefix = DefaultAdminPrefix
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (t *SessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header.Get("X-Request-ID") == "" {
		out.Header.Set("X-Request-ID", uuid.NewString())
	}

	admin := t.IsAdminPath(out.URL.Path)
	attached := t.attachToken(out, admin)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if attached && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		t.invalidate(admin, resp.StatusCode, out.URL.Path)
	}

	return resp, nil
}

// attachToken sets the Authorization header per the routing rule and reports
// whether a session token ended up on the request.
func (t *SessionTransport) attachToken(req *http.Request, admin bool) bool {
	if admin {
		if token := t.Sessions.AdminToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			return true
		}
		return false
	}

	if t.Sessions.AdminToken() != "" {
		return false
	}
	if req.Header.Get("Authorization") != "" {
		return false
	}
	if token := t.Sessions.UserToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		return true
	}
	return false
}

// invalidate clears the rejected session and moves the user to the matching
// login page unless they are already somewhere sign-in is allowed.
func (t *SessionTransport) invalidate(admin bool, status int, path string) {
	if admin {
		if err := t.Sessions.ClearAdmin(); err != nil {
			slog.Error("failed to clear admin session", "error", err)
		}
		if t.Navigator.Location() != DefaultAdminLoginRoute {
			t.Navigator.Navigate(DefaultAdminLoginRoute)
		}
	} else {
		if err := t.Sessions.ClearUser(); err != nil {
			slog.Error("failed to clear user session", "error", err)
		}
		if !t.onPublicRoute() {
			t.Navigator.Navigate(DefaultLoginRoute)
		}
	}

	slog.Info("session invalidated by backend",
		slog.Bool("admin", admin),
		slog.Int("status", status),
		slog.String("path", path),
	)
}

func (t *SessionTransport) onPublicRoute() bool {
	loc := t.Navigator.Location()
	for _, route := range t.PublicRoutes {
		if loc == route {
			return true
		}
	}
	return false
}

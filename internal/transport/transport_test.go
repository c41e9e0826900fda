package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsreader/internal/dto"
	"newsreader/internal/session"
	"newsreader/pkg/kvstore"
)

type navSpy struct {
	location string
	visited  []string
}

func (n *navSpy) Location() string { return n.location }
func (n *navSpy) Navigate(route string) {
	n.visited = append(n.visited, route)
	n.location = route
}

type captured struct {
	auth      string
	requestID string
	status    int
}

func newBackend(t *testing.T, c *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.auth = r.Header.Get("Authorization")
		c.requestID = r.Header.Get("X-Request-ID")
		w.WriteHeader(c.status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doGet(t *testing.T, tr *SessionTransport, url, path string) *http.Response {
	t.Helper()
	client := &http.Client{Transport: tr}
	resp, err := client.Get(url + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRoundTrip_AttachesUserToken(t *testing.T) {
	sessions := session.NewStore(kvstore.NewMemory())
	require.NoError(t, sessions.SetUser("user-tok", dto.User{ID: "u1"}))

	c := &captured{status: http.StatusOK}
	srv := newBackend(t, c)

	tr := New(sessions, nil)
	doGet(t, tr, srv.URL, "/news")

	assert.Equal(t, "Bearer user-tok", c.auth)
	assert.NotEmpty(t, c.requestID)
}

func TestRoundTrip_AdminPathGetsAdminToken(t *testing.T) {
	sessions := session.NewStore(kvstore.NewMemory())
	require.NoError(t, sessions.SetAdmin("admin-tok"))

	c := &captured{status: http.StatusOK}
	srv := newBackend(t, c)

	tr := New(sessions, nil)
	doGet(t, tr, srv.URL, "/admin/users")

	assert.Equal(t, "Bearer admin-tok", c.auth)
}

func TestRoundTrip_AdminTokenOverwritesExistingHeader(t *testing.T) {
	sessions := session.NewStore(kvstore.NewMemory())
	require.NoError(t, sessions.SetAdmin("admin-tok"))

	c := &captured{status: http.StatusOK}
	srv := newBackend(t, c)

	tr := New(sessions, nil)
	client := &http.Client{Transport: tr}
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/admin/dashboard", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer stale")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "Bearer admin-tok", c.auth)
}

func TestRoundTrip_UserTokenNeverOverwritesExistingHeader(t *testing.T) {
	kv := kvstore.NewMemory()
	require.NoError(t, kv.SetString(kvstore.KeyToken, "user-tok"))
	sessions := session.NewStore(kv)

	c := &captured{status: http.StatusOK}
	srv := newBackend(t, c)

	tr := New(sessions, nil)
	client := &http.Client{Transport: tr}
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/news", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer caller-supplied")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "Bearer caller-supplied", c.auth)
}

func TestRoundTrip_AdminTokenSuppressesUserTokenOnUserPaths(t *testing.T) {
	// Both tokens physically stored: the admin one wins and the user one is
	// ignored for authorization, so non-admin paths go out bare.
	kv := kvstore.NewMemory()
	require.NoError(t, kv.SetString(kvstore.KeyToken, "user-tok"))
	require.NoError(t, kv.SetString(kvstore.KeyAdminToken, "admin-tok"))
	sessions := session.NewStore(kv)

	c := &captured{status: http.StatusOK}
	srv := newBackend(t, c)

	tr := New(sessions, nil)
	doGet(t, tr, srv.URL, "/news")

	assert.Empty(t, c.auth)
}

func TestRoundTrip_UserRejectionClearsSessionAndRedirects(t *testing.T) {
	sessions := session.NewStore(kvstore.NewMemory())
	require.NoError(t, sessions.SetUser("user-tok", dto.User{ID: "u1"}))

	c := &captured{status: http.StatusUnauthorized}
	srv := newBackend(t, c)

	nav := &navSpy{location: "/feed"}
	tr := New(sessions, nav)
	resp := doGet(t, tr, srv.URL, "/article/bookmarks")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, session.Anonymous, sessions.Current().Kind)
	_, hasProfile := sessions.CurrentUser()
	assert.False(t, hasProfile, "user identity must be cleared")
	assert.Equal(t, []string{"/login"}, nav.visited)
}

func TestRoundTrip_NoRedirectFromPublicRoute(t *testing.T) {
	sessions := session.NewStore(kvstore.NewMemory())
	require.NoError(t, sessions.SetUser("user-tok", dto.User{ID: "u1"}))

	c := &captured{status: http.StatusForbidden}
	srv := newBackend(t, c)

	nav := &navSpy{location: "/login"}
	tr := New(sessions, nav)
	doGet(t, tr, srv.URL, "/user/me")

	assert.Empty(t, nav.visited)
	assert.Equal(t, session.Anonymous, sessions.Current().Kind)
}

func TestRoundTrip_AdminRejectionClearsOnlyAdmin(t *testing.T) {
	sessions := session.NewStore(kvstore.NewMemory())
	require.NoError(t, sessions.SetAdmin("admin-tok"))

	c := &captured{status: http.StatusForbidden}
	srv := newBackend(t, c)

	nav := &navSpy{location: "/admin/dashboard"}
	tr := New(sessions, nav)
	doGet(t, tr, srv.URL, "/admin/dashboard")

	assert.Empty(t, sessions.AdminToken())
	assert.Equal(t, []string{"/admin/login"}, nav.visited)
}

func TestRoundTrip_AnonymousRejectionLeavesNavigationAlone(t *testing.T) {
	// No token was attached, so a 401 is the caller's problem, not a
	// session expiry.
	sessions := session.NewStore(kvstore.NewMemory())

	c := &captured{status: http.StatusUnauthorized}
	srv := newBackend(t, c)

	nav := &navSpy{location: "/feed"}
	tr := New(sessions, nav)
	doGet(t, tr, srv.URL, "/user/me")

	assert.Empty(t, nav.visited)
}

func TestIsAdminPath(t *testing.T) {
	tr := New(session.NewStore(kvstore.NewMemory()), nil)

	assert.True(t, tr.IsAdminPath("/admin"))
	assert.True(t, tr.IsAdminPath("/admin/users"))
	assert.False(t, tr.IsAdminPath("/administrator"))
	assert.False(t, tr.IsAdminPath("/news"))
}
